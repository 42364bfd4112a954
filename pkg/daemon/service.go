package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"

	"github.com/sourcegraph/jsonrpc2"
	"src.specplot.dev/pkg/backend"
	. "src.specplot.dev/pkg/daemon/daemondefs"
	"src.specplot.dev/pkg/workspace"
)

var (
	errMethodNotFound = &jsonrpc2.Error{
		Code: jsonrpc2.CodeMethodNotFound, Message: "method not found"}
	errInvalidParams = &jsonrpc2.Error{
		Code: jsonrpc2.CodeInvalidParams, Message: "invalid params"}
)

// The service turns RPCs into work items for the backend worker. It has no
// state of its own besides the queue, so it is safe for concurrent use by
// all connections.
type service struct {
	q       *workspace.Queue
	version int
}

// ServeConn serves requests from conn until it is closed. Requests are handled
// concurrently; a request whose connection goes away is canceled.
func (s *service) ServeConn(conn io.ReadWriteCloser) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	c := jsonrpc2.NewConn(ctx,
		jsonrpc2.NewBufferedStream(conn, jsonrpc2.VSCodeObjectCodec{}),
		jsonrpc2.AsyncHandler(s.handler()))
	<-c.DisconnectNotify()
}

func (s *service) handler() jsonrpc2.Handler {
	return routingHandler(map[string]method{
		MethodVersion:    s.getVersion,
		MethodPid:        s.pid,
		MethodPutSeries:  s.putSeries,
		MethodSeries:     s.series,
		MethodNames:      s.names,
		MethodDelSeries:  s.delSeries,
		MethodSummary:    s.summary,
		MethodDownsample: s.downsample,
		MethodPlot:       s.plot,
		MethodSetting:    s.setting,
		MethodSetSetting: s.setSetting,
		MethodDelSetting: s.delSetting,
		MethodStats:      s.stats,
	})
}

type method func(context.Context, json.RawMessage) (any, error)

func routingHandler(methods map[string]method) jsonrpc2.Handler {
	return jsonrpc2.HandlerWithError(func(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) (any, error) {
		fn, ok := methods[req.Method]
		if !ok {
			return nil, errMethodNotFound
		}
		var params json.RawMessage
		if req.Params != nil {
			params = *req.Params
		}
		return fn(ctx, params)
	})
}

// Submits a computation to the worker and waits for its result. If ctx is done
// first, the request is canceled.
func call[T any](ctx context.Context, q *workspace.Queue, desc string, f func(*workspace.Worker) T) (T, error) {
	h, err := backend.Submit(q, desc, f)
	if err != nil {
		var zero T
		return zero, toRPCError(ErrUnavailable)
	}
	defer h.Close()
	v, err := h.Wait(ctx)
	if errors.Is(err, backend.ErrAbandoned) {
		return v, toRPCError(ErrUnavailable)
	}
	return v, err
}

// Like call, but for computations that return a workspace.Result.
func callResult[T any](ctx context.Context, q *workspace.Queue, desc string, f func(*workspace.Worker) workspace.Result[T]) (T, error) {
	r, err := call(ctx, q, desc, f)
	if err != nil {
		return r.Value, err
	}
	return r.Value, toRPCError(r.Err)
}

// Converts errors with a known code to a *jsonrpc2.Error carrying that code.
func toRPCError(err error) error {
	if err == nil {
		return nil
	}
	for code, known := range Errors {
		if errors.Is(err, known) {
			return &jsonrpc2.Error{Code: code, Message: err.Error()}
		}
	}
	return err
}

func unmarshal(params json.RawMessage, v any) error {
	if params == nil || json.Unmarshal(params, v) != nil {
		return errInvalidParams
	}
	return nil
}

// Handler implementations.

func (s *service) getVersion(context.Context, json.RawMessage) (any, error) {
	return s.version, nil
}

func (s *service) pid(context.Context, json.RawMessage) (any, error) {
	return os.Getpid(), nil
}

func (s *service) putSeries(ctx context.Context, params json.RawMessage) (any, error) {
	var args PutSeriesArgs
	if err := unmarshal(params, &args); err != nil {
		return nil, err
	}
	return callResult(ctx, s.q, "put series "+args.Name, workspace.AddSeries(args.Name, args.Values))
}

func (s *service) series(ctx context.Context, params json.RawMessage) (any, error) {
	var args NameArgs
	if err := unmarshal(params, &args); err != nil {
		return nil, err
	}
	return callResult(ctx, s.q, "get series "+args.Name, workspace.GetSeries(args.Name))
}

func (s *service) names(ctx context.Context, _ json.RawMessage) (any, error) {
	return callResult(ctx, s.q, "list series", workspace.Names())
}

func (s *service) delSeries(ctx context.Context, params json.RawMessage) (any, error) {
	var args NameArgs
	if err := unmarshal(params, &args); err != nil {
		return nil, err
	}
	return callResult(ctx, s.q, "delete series "+args.Name, workspace.DelSeries(args.Name))
}

func (s *service) summary(ctx context.Context, params json.RawMessage) (any, error) {
	var args NameArgs
	if err := unmarshal(params, &args); err != nil {
		return nil, err
	}
	return callResult(ctx, s.q, "summarize "+args.Name, workspace.Summarize(args.Name))
}

func (s *service) downsample(ctx context.Context, params json.RawMessage) (any, error) {
	var args DownsampleArgs
	if err := unmarshal(params, &args); err != nil {
		return nil, err
	}
	return callResult(ctx, s.q, "downsample "+args.Name, workspace.Downsample(args.Name, args.Buckets))
}

func (s *service) plot(ctx context.Context, params json.RawMessage) (any, error) {
	var args NameArgs
	if err := unmarshal(params, &args); err != nil {
		return nil, err
	}
	return callResult(ctx, s.q, "plot "+args.Name, workspace.Plot(args.Name))
}

func (s *service) setting(ctx context.Context, params json.RawMessage) (any, error) {
	var args SettingArgs
	if err := unmarshal(params, &args); err != nil {
		return nil, err
	}
	return callResult(ctx, s.q, "get setting "+args.Key, workspace.GetSetting(args.Key))
}

func (s *service) setSetting(ctx context.Context, params json.RawMessage) (any, error) {
	var args SettingArgs
	if err := unmarshal(params, &args); err != nil {
		return nil, err
	}
	return callResult(ctx, s.q, "set setting "+args.Key, workspace.SetSetting(args.Key, args.Value))
}

func (s *service) delSetting(ctx context.Context, params json.RawMessage) (any, error) {
	var args SettingArgs
	if err := unmarshal(params, &args); err != nil {
		return nil, err
	}
	return callResult(ctx, s.q, "delete setting "+args.Key, workspace.DelSetting(args.Key))
}

func (s *service) stats(ctx context.Context, _ json.RawMessage) (any, error) {
	return call(ctx, s.q, "stats", func(w *workspace.Worker) backend.Stats { return w.Stats() })
}
