// Package backend implements the bridge between UI code and the backend.
//
// A single Worker goroutine exclusively owns the mutable application state.
// UI code never touches that state directly; instead it submits WorkItems to
// a Queue. Each WorkItem carries a computation that runs on the worker
// goroutine with access to the state, and delivers its result through a
// one-shot channel to a Handle held by the UI side.
//
// Cancellation is expressed purely through ownership: closing a Handle means
// "I no longer want this result". A WorkItem whose Handle is closed before the
// worker reaches it is never executed; one whose Handle is closed while it
// runs still runs to completion, but its result is discarded.
//
// The queue and the cancellation token are the only states shared between
// goroutines; the backend state itself is never shared, so no locks are
// needed to access it.
package backend

import (
	"errors"

	"src.specplot.dev/pkg/logutil"
)

var logger = logutil.GetLogger("[backend] ")

var (
	// ErrQueueClosed is returned when submitting to a queue whose worker has
	// exited.
	ErrQueueClosed = errors.New("submission queue closed")
	// ErrAbandoned is returned by (*Handle).Wait when the worker dropped the
	// request without ever sending a result.
	ErrAbandoned = errors.New("request abandoned by worker")
	// ErrReceiverGone is reported when a result is sent after the Handle was
	// closed.
	ErrReceiverGone = errors.New("receiver gone")
	// ErrWorkerPanic is wrapped by the error returned by (*JoinHandle).Join
	// when a computation panicked.
	ErrWorkerPanic = errors.New("worker panicked")
)
