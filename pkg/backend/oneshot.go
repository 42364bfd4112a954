package backend

import "sync/atomic"

// A channel that carries at most one value from the worker to a Handle.
type oneshot[T any] struct {
	ch     chan T
	rxGone atomic.Bool
}

type sender[T any] struct{ c *oneshot[T] }

type receiver[T any] struct{ c *oneshot[T] }

func newOneshot[T any]() (sender[T], receiver[T]) {
	c := &oneshot[T]{ch: make(chan T, 1)}
	return sender[T]{c}, receiver[T]{c}
}

// Sends v and closes the channel. Never blocks. If the receiver has been
// closed, v is dropped and ErrReceiverGone is returned. Must be called at most
// once, and not after abandon.
func (s sender[T]) send(v T) error {
	defer close(s.c.ch)
	if s.c.rxGone.Load() {
		return ErrReceiverGone
	}
	s.c.ch <- v
	return nil
}

// Closes the channel without sending anything.
func (s sender[T]) abandon() { close(s.c.ch) }

// Receive status of a oneshot, as seen from the receiver.
type Status int

const (
	// Pending means the result has not arrived yet.
	Pending Status = iota
	// Ready means the result has arrived.
	Ready
	// Abandoned means the worker dropped the request without a result.
	Abandoned
	// Canceled means the Handle was closed before a result was received.
	Canceled
)

var statusNames = [...]string{"pending", "ready", "abandoned", "canceled"}

func (s Status) String() string {
	if 0 <= s && int(s) < len(statusNames) {
		return statusNames[s]
	}
	return "unknown"
}

func (r receiver[T]) tryRecv() (T, Status) {
	select {
	case v, ok := <-r.c.ch:
		if ok {
			return v, Ready
		}
		var zero T
		return zero, Abandoned
	default:
		var zero T
		return zero, Pending
	}
}

func (r receiver[T]) close() { r.c.rxGone.Store(true) }
