// Package uiparam provides Param, a UI-side cache of a value computed by the
// backend.
//
// A Param has at most one request in flight. It is polled once per UI frame;
// none of its methods block, and it is meant to be owned by a single UI
// goroutine.
package uiparam

import (
	"src.specplot.dev/pkg/backend"
	"src.specplot.dev/pkg/logutil"
)

var logger = logutil.GetLogger("[uiparam] ")

// Param holds the latest known value of some backend-computed state, and the
// Handle of the pending request that will update it, if any.
type Param[T any] struct {
	value   T
	pending *backend.Handle[T]
}

// New creates a Param with an initial placeholder value and no pending
// request.
func New[T any](initial T) *Param[T] {
	return &Param[T]{value: initial}
}

// SetPending makes h the pending request, closing and thereby canceling the
// previous one if there is any.
func (p *Param[T]) SetPending(h *backend.Handle[T]) {
	if p.pending != nil && p.pending != h {
		p.pending.Close()
	}
	p.pending = h
}

// Request submits a WorkItem computing a new value and makes it the pending
// request. On error, the previous pending request is left alone.
func Request[S, T any](p *Param[T], q *backend.Queue[S], desc string, f func(*backend.Worker[S]) T) error {
	h, err := backend.Submit(q, desc, f)
	if err != nil {
		return err
	}
	p.SetPending(h)
	return nil
}

// Poll checks the pending request without blocking. If its result has
// arrived, the value is updated, the request is cleared and Poll returns true.
// If the worker dropped the request without a result, the request is cleared
// and the value is left as is.
func (p *Param[T]) Poll() bool {
	if p.pending == nil {
		return false
	}
	v, st := p.pending.TryRecv()
	switch st {
	case backend.Ready:
		p.value = v
		p.pending = nil
		return true
	case backend.Abandoned:
		logger.Printf("warning: %q: worker unavailable, keeping stale value",
			p.pending.Description())
		p.pending = nil
	case backend.Canceled:
		p.pending = nil
	}
	return false
}

// IsReady returns whether there is no pending request. UIs use it to disable
// controls that would otherwise supersede the pending request.
func (p *Param[T]) IsReady() bool { return p.pending == nil }

// Value returns the cached value.
func (p *Param[T]) Value() T { return p.value }

// ValueMut returns a pointer to the cached value.
func (p *Param[T]) ValueMut() *T { return &p.value }

// Set replaces the cached value. It doesn't affect the pending request.
func (p *Param[T]) Set(v T) { p.value = v }

// Close cancels the pending request, if any. It should be called when the UI
// component owning p is torn down.
func (p *Param[T]) Close() error {
	if p.pending != nil {
		p.pending.Close()
		p.pending = nil
	}
	return nil
}
