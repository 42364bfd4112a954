package backend

import (
	"fmt"
	"runtime/debug"
)

// Worker runs Jobs from a Queue on a dedicated goroutine, and exclusively owns
// the backend state of type S.
//
// Jobs run strictly in the order they were submitted, one at a time, so
// computations may access the state without synchronization. There is
// only one worker per state, so a long-running job delays all jobs
// queued after it.
type Worker[S any] struct {
	queue    *Queue[S]
	state    S
	stopping bool
	wakeCb   func()
	stats    Stats
}

// Stats keeps counters of how jobs were handled.
type Stats struct {
	// Number of computations that were run.
	Executed int
	// Number of jobs skipped because their Handle was closed before they
	// were reached.
	Skipped int
	// Number of results discarded because their Handle was closed during the
	// computation.
	Suppressed int
	// Number of results that could not be delivered.
	DeliveryFailures int
}

// NewWorker creates a Worker consuming q and owning state.
func NewWorker[S any](q *Queue[S], state S) *Worker[S] {
	return &Worker[S]{queue: q, state: state}
}

// SetWakeCb sets a callback that is called on the worker goroutine each time a
// result has been delivered. It is typically used to request a UI redraw. It
// must be called before Run.
func (w *Worker[S]) SetWakeCb(cb func()) { w.wakeCb = cb }

// State returns the state owned by the worker. It must only be called from
// computations.
func (w *Worker[S]) State() *S { return &w.state }

// Stop requests the worker to stop after it has run all the jobs that are
// ready. It must only be called from computations.
func (w *Worker[S]) Stop() { w.stopping = true }

// Stats returns the job counters. It must only be called from computations.
func (w *Worker[S]) Stats() Stats { return w.stats }

// JoinHandle is returned by (*Worker).Run and can be used to wait for the
// worker goroutine to exit.
type JoinHandle struct {
	done chan struct{}
	err  error
}

// Join blocks until the worker goroutine has exited. It returns a non-nil
// error wrapping ErrWorkerPanic if a computation panicked.
func (jh *JoinHandle) Join() error {
	<-jh.done
	return jh.err
}

// Done returns a channel that is closed when the worker goroutine has exited.
func (jh *JoinHandle) Done() <-chan struct{} { return jh.done }

// Run starts the worker on a new goroutine and returns immediately. The Worker
// must not be used by the caller afterwards.
//
// The goroutine exits after Stop has been called from a computation, or after
// the queue has been closed. On exit the queue is closed, abandoning any jobs
// still in it.
func (w *Worker[S]) Run() *JoinHandle {
	jh := &JoinHandle{done: make(chan struct{})}
	go func() {
		defer close(jh.done)
		jh.err = w.loop()
		w.queue.Close()
		<-w.queue.exited
		logger.Printf("worker exited, stats %+v", w.stats)
	}()
	return jh
}

func (w *Worker[S]) loop() (err error) {
	var current Job[S]
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if current == nil {
			panic(r)
		}
		logger.Printf("worker panicked while running %q: %v\n%s",
			current.Description(), r, debug.Stack())
		if it, ok := current.(interface{ abandonAfterPanic() }); ok {
			it.abandonAfterPanic()
		}
		err = fmt.Errorf("%w: running %q: %v", ErrWorkerPanic, current.Description(), r)
	}()

	for !w.stopping {
		// Block for the first job, then run all the jobs that are ready
		// before checking whether to stop.
		job, ok := w.queue.recv()
		if !ok {
			logger.Println("queue closed, stopping")
			return nil
		}
		for ok {
			current = job
			job.RunOn(w)
			job, ok = w.queue.tryRecv()
		}
	}
	logger.Println("stop requested, stopping")
	return nil
}
