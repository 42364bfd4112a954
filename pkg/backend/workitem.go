package backend

import (
	"context"
	"sync/atomic"
)

// Job is a WorkItem with its result type erased. It is what a Queue carries
// and what a Worker runs.
type Job[S any] interface {
	// Description returns a human-readable description, used for logging.
	Description() string
	// RunOn runs the job on the worker goroutine.
	RunOn(w *Worker[S])
	// Abandon releases the job without running it. The paired Handle sees
	// Abandoned. It has no effect on a job that has already run.
	Abandon()
}

// WorkItem is a unit of work producing a T, run against a Worker[S].
type WorkItem[S, T any] struct {
	desc     string
	f        func(*Worker[S]) T
	tx       sender[T]
	token    *Token
	finished atomic.Bool
}

var _ Job[struct{}] = (*WorkItem[struct{}, int])(nil)

// NewWorkItem creates a WorkItem with the given description and computation,
// and the Handle that receives its result.
func NewWorkItem[S, T any](desc string, f func(*Worker[S]) T) (*Handle[T], *WorkItem[S, T]) {
	tx, rx := newOneshot[T]()
	token := &Token{}
	h := &Handle[T]{desc: desc, rx: rx, token: token}
	it := &WorkItem[S, T]{desc: desc, f: f, tx: tx, token: token}
	return h, it
}

// Description returns the description of the WorkItem.
func (it *WorkItem[S, T]) Description() string { return it.desc }

// RunOn runs the computation on w, unless the Handle has been closed. The
// token is checked both before and after the computation; a closed Handle
// suppresses execution in the former case and delivery in the latter. Once
// started, the computation always runs to completion.
func (it *WorkItem[S, T]) RunOn(w *Worker[S]) {
	if !it.finished.CompareAndSwap(false, true) {
		return
	}
	if it.token.Canceled() {
		w.stats.Skipped++
		logger.Printf("dropped %q: canceled before execution", it.desc)
		return
	}
	v := it.f(w)
	w.stats.Executed++
	if it.token.Canceled() {
		w.stats.Suppressed++
		logger.Printf("dropped result of %q: canceled during execution", it.desc)
		return
	}
	if err := it.tx.send(v); err != nil {
		w.stats.DeliveryFailures++
		logger.Printf("warning: delivery of %q failed: %v", it.desc, err)
		return
	}
	logger.Printf("handled %q", it.desc)
	if w.wakeCb != nil {
		w.wakeCb()
	}
}

// Abandon implements Job.
func (it *WorkItem[S, T]) Abandon() {
	if it.finished.CompareAndSwap(false, true) {
		it.tx.abandon()
	}
}

// abandonAfterPanic releases a WorkItem whose computation panicked. RunOn has
// already marked it finished, so Abandon would be a no-op.
func (it *WorkItem[S, T]) abandonAfterPanic() { it.tx.abandon() }

// Handle is the consumer end of a WorkItem. Closing it cancels the request;
// this is the only way to cancel, so a Handle that is no longer needed must
// be closed, typically with defer.
//
// A Handle is not safe for concurrent use; it is meant to be owned by a single
// UI-side structure.
type Handle[T any] struct {
	desc   string
	rx     receiver[T]
	token  *Token
	status Status
	value  T
}

// Description returns the description of the paired WorkItem.
func (h *Handle[T]) Description() string { return h.desc }

// TryRecv tries to receive the result without blocking. After the result has
// been received, TryRecv keeps returning it with Ready.
func (h *Handle[T]) TryRecv() (T, Status) {
	if h.status == Pending {
		h.value, h.status = h.rx.tryRecv()
	}
	return h.value, h.status
}

// Wait blocks until the result arrives, the worker abandons the request, or
// ctx is done. In the latter two cases it returns ErrAbandoned and ctx.Err()
// respectively. The Handle is not closed when ctx is done. Waiting on a closed
// Handle that has not received its result returns context.Canceled.
func (h *Handle[T]) Wait(ctx context.Context) (T, error) {
	if h.status == Pending {
		select {
		case v, ok := <-h.rx.c.ch:
			if ok {
				h.value, h.status = v, Ready
			} else {
				h.status = Abandoned
			}
		case <-ctx.Done():
			var zero T
			return zero, ctx.Err()
		}
	}
	switch h.status {
	case Ready:
		return h.value, nil
	case Abandoned:
		return h.value, ErrAbandoned
	default:
		var zero T
		return zero, context.Canceled
	}
}

// Close cancels the request. It is idempotent and always returns nil. A result
// that has already been received stays available.
func (h *Handle[T]) Close() error {
	if h.token.Cancel() {
		h.rx.close()
	}
	if h.status == Pending {
		h.status = Canceled
	}
	return nil
}
