// Package client implements a client for the daemon.
package client

import (
	"context"
	"errors"
	"io"
	"net"

	"github.com/sourcegraph/jsonrpc2"
	"src.specplot.dev/pkg/backend"
	. "src.specplot.dev/pkg/daemon/daemondefs"
	"src.specplot.dev/pkg/workspace"
)

// ErrDaemonUnreachable is returned by Dial when the socket cannot be
// connected to.
var ErrDaemonUnreachable = errors.New("daemon offline")

type client struct {
	conn *jsonrpc2.Conn
}

// Dial connects to the daemon listening on sockpath.
func Dial(sockpath string) (Client, error) {
	conn, err := net.Dial("unix", sockpath)
	if err != nil {
		return nil, &dialError{sockpath, err}
	}
	return NewClient(conn), nil
}

type dialError struct {
	sockpath string
	err      error
}

func (e *dialError) Error() string {
	return ErrDaemonUnreachable.Error() + ": " + e.sockpath + ": " + e.err.Error()
}

func (e *dialError) Is(target error) bool { return target == ErrDaemonUnreachable }

func (e *dialError) Unwrap() error { return e.err }

// NewClient creates a client that talks to the daemon over rwc.
func NewClient(rwc io.ReadWriteCloser) Client {
	conn := jsonrpc2.NewConn(context.Background(),
		jsonrpc2.NewBufferedStream(rwc, jsonrpc2.VSCodeObjectCodec{}),
		jsonrpc2.HandlerWithError(noRequests))
	return &client{conn}
}

// The daemon never sends requests to clients.
func noRequests(context.Context, *jsonrpc2.Conn, *jsonrpc2.Request) (any, error) {
	return nil, &jsonrpc2.Error{
		Code: jsonrpc2.CodeMethodNotFound, Message: "method not found"}
}

func (c *client) Close() error {
	return c.conn.Close()
}

func (c *client) call(method string, params, result any) error {
	err := c.conn.Call(context.Background(), method, params, result)
	var rpcErr *jsonrpc2.Error
	if errors.As(err, &rpcErr) {
		if known, ok := Errors[rpcErr.Code]; ok {
			return &remoteError{rpcErr.Message, known}
		}
	} else if errors.Is(err, jsonrpc2.ErrClosed) {
		return ErrUnavailable
	}
	return err
}

// Keeps the message from the daemon, which may carry details, while matching
// the sentinel error with errors.Is.
type remoteError struct {
	msg   string
	known error
}

func (e *remoteError) Error() string { return e.msg }

func (e *remoteError) Unwrap() error { return e.known }

func (c *client) Version() (int, error) {
	var v int
	err := c.call(MethodVersion, nil, &v)
	return v, err
}

func (c *client) Pid() (int, error) {
	var pid int
	err := c.call(MethodPid, nil, &pid)
	return pid, err
}

func (c *client) PutSeries(name string, values []float64) (int, error) {
	var rev int
	err := c.call(MethodPutSeries, PutSeriesArgs{Name: name, Values: values}, &rev)
	return rev, err
}

func (c *client) Series(name string) ([]float64, error) {
	var values []float64
	err := c.call(MethodSeries, NameArgs{Name: name}, &values)
	return values, err
}

func (c *client) Names() ([]string, error) {
	var names []string
	err := c.call(MethodNames, nil, &names)
	return names, err
}

func (c *client) DelSeries(name string) (int, error) {
	var rev int
	err := c.call(MethodDelSeries, NameArgs{Name: name}, &rev)
	return rev, err
}

func (c *client) Summary(name string) (workspace.Summary, error) {
	var s workspace.Summary
	err := c.call(MethodSummary, NameArgs{Name: name}, &s)
	return s, err
}

func (c *client) Downsample(name string, buckets int) ([]workspace.Bucket, error) {
	var bs []workspace.Bucket
	err := c.call(MethodDownsample, DownsampleArgs{Name: name, Buckets: buckets}, &bs)
	return bs, err
}

func (c *client) Plot(name string) ([]workspace.Bucket, error) {
	var bs []workspace.Bucket
	err := c.call(MethodPlot, NameArgs{Name: name}, &bs)
	return bs, err
}

func (c *client) Setting(key string) (string, error) {
	var value string
	err := c.call(MethodSetting, SettingArgs{Key: key}, &value)
	return value, err
}

func (c *client) SetSetting(key, value string) error {
	return c.call(MethodSetSetting, SettingArgs{Key: key, Value: value}, nil)
}

func (c *client) DelSetting(key string) error {
	return c.call(MethodDelSetting, SettingArgs{Key: key}, nil)
}

func (c *client) Stats() (backend.Stats, error) {
	var s backend.Stats
	err := c.call(MethodStats, nil, &s)
	return s, err
}
