package console

import (
	"errors"

	"src.specplot.dev/pkg/backend"
	"src.specplot.dev/pkg/uiparam"
	"src.specplot.dev/pkg/workspace"
)

var errUnavailable = errors.New("backend unavailable")

// A cell is a piece of output that may still be waiting for the backend.
type cell interface {
	// Polls the cell without blocking. Once the output is known, returns it
	// and true; an empty output is not printed.
	poll() (string, bool)
	close()
}

// A cell whose output is known upfront.
type textCell string

func (c textCell) poll() (string, bool) { return string(c), true }
func (textCell) close()                 {}

// A cell showing the result of a backend request.
type paramCell[T any] struct {
	p      *uiparam.Param[workspace.Result[T]]
	format func(T) string
}

func newParamCell[T any](q *workspace.Queue, desc string, f func(*workspace.Worker) workspace.Result[T], format func(T) string) cell {
	p := uiparam.New(workspace.Result[T]{})
	if err := uiparam.Request(p, q, desc, f); err != nil {
		return errorCell(errUnavailable)
	}
	return &paramCell[T]{p, format}
}

func (c *paramCell[T]) poll() (string, bool) {
	if c.p.Poll() {
		r := c.p.Value()
		if r.Err != nil {
			return errorText(r.Err), true
		}
		return c.format(r.Value), true
	}
	if c.p.IsReady() {
		// The request was dropped without a result.
		return errorText(errUnavailable), true
	}
	return "", false
}

func (c *paramCell[T]) close() { c.p.Close() }

func errorCell(err error) cell { return textCell(errorText(err)) }

func errorText(err error) string { return "error: " + err.Error() }

// Wraps a computation whose result can't fail.
func infallible[T any](f func(*workspace.Worker) T) func(*workspace.Worker) workspace.Result[T] {
	return func(w *workspace.Worker) workspace.Result[T] {
		return workspace.Result[T]{Value: f(w)}
	}
}

func stats(w *workspace.Worker) backend.Stats { return w.Stats() }
