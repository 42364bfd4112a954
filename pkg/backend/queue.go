package backend

import "sync/atomic"

// Queue is an unbounded multi-producer, single-consumer FIFO of Jobs. Any
// number of goroutines may submit; exactly one Worker consumes.
//
// Jobs are buffered by a pump goroutine, so submission never waits for the
// worker.
type Queue[S any] struct {
	in      chan Job[S]
	out     chan Job[S]
	closed  chan struct{}
	closing atomic.Bool
	exited  chan struct{}
}

// NewQueue creates a new Queue and starts its pump goroutine. The pump exits
// when the queue is closed.
func NewQueue[S any]() *Queue[S] {
	q := &Queue[S]{
		in:     make(chan Job[S]),
		out:    make(chan Job[S]),
		closed: make(chan struct{}),
		exited: make(chan struct{}),
	}
	go q.pump()
	return q
}

func (q *Queue[S]) pump() {
	defer close(q.exited)
	var buf []Job[S]
	for {
		// A nil channel blocks forever, disabling the send case while the
		// buffer is empty.
		var out chan Job[S]
		var head Job[S]
		if len(buf) > 0 {
			out, head = q.out, buf[0]
		}
		select {
		case job := <-q.in:
			buf = append(buf, job)
		case out <- head:
			buf[0] = nil
			buf = buf[1:]
		case <-q.closed:
			for _, job := range buf {
				logger.Printf("dropped %q: queue closed", job.Description())
				job.Abandon()
			}
			return
		}
	}
}

// Submit appends job to the queue. It never blocks on capacity. If the queue
// has been closed, job is abandoned and ErrQueueClosed is returned.
func (q *Queue[S]) Submit(job Job[S]) error {
	select {
	case <-q.closed:
	default:
		select {
		case q.in <- job:
			return nil
		case <-q.closed:
		}
	}
	job.Abandon()
	return ErrQueueClosed
}

// Submit creates a WorkItem from desc and f and submits it to q. On success it
// returns the Handle of the WorkItem.
func Submit[S, T any](q *Queue[S], desc string, f func(*Worker[S]) T) (*Handle[T], error) {
	h, it := NewWorkItem(desc, f)
	if err := q.Submit(it); err != nil {
		return nil, err
	}
	return h, nil
}

// Close closes the queue. Jobs still buffered are abandoned and subsequent
// submissions fail. It is idempotent.
func (q *Queue[S]) Close() {
	if q.closing.CompareAndSwap(false, true) {
		close(q.closed)
	}
}

// Closed returns whether the queue has been closed.
func (q *Queue[S]) Closed() bool { return q.closing.Load() }

// Blocks until a job is available or the queue is closed.
func (q *Queue[S]) recv() (Job[S], bool) {
	select {
	case job := <-q.out:
		return job, true
	case <-q.closed:
		return nil, false
	}
}

// Returns a job if one is ready without blocking.
func (q *Queue[S]) tryRecv() (Job[S], bool) {
	select {
	case job := <-q.out:
		return job, true
	default:
		return nil, false
	}
}
