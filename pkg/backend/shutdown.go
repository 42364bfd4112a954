package backend

import (
	"context"
	"errors"
	"time"
)

// DefaultStopTimeout is the recommended timeout for RequestStop.
const DefaultStopTimeout = 10 * time.Second

// RequestStop stops the worker consuming q, whose JoinHandle is jh.
//
// It submits a job that stops the worker; the job is queued behind all jobs
// submitted earlier and does not preempt them. It then waits for the job to
// be acknowledged for at most timeout, logging a warning if that doesn't
// happen, and finally waits for the worker goroutine to exit regardless. It
// returns the error from (*JoinHandle).Join.
func RequestStop[S any](q *Queue[S], jh *JoinHandle, timeout time.Duration) error {
	h, err := Submit(q, "stop worker", func(w *Worker[S]) struct{} {
		w.Stop()
		return struct{}{}
	})
	if err != nil {
		logger.Printf("warning: cannot submit stop request: %v", err)
		return jh.Join()
	}
	defer h.Close()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	_, err = h.Wait(ctx)
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		logger.Printf("warning: shutdown timeout: worker did not acknowledge %q within %v",
			h.Description(), timeout)
	case err != nil:
		logger.Printf("warning: stop request not acknowledged: %v", err)
	}
	return jh.Join()
}
