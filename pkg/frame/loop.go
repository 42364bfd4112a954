// Package frame implements the UI frame loop.
//
// The loop is fully serial: it never calls two callbacks in parallel, so the
// callbacks may manipulate UI state, including uiparam.Param values, without
// synchronization.
package frame

import (
	"sync/atomic"
	"time"
)

// Buffer size of the input channel. The value is chosen for no particular
// reason.
const inputChSize = 128

// Loop is a generic frame loop.
type Loop struct {
	inputCh  chan Event
	handleCb HandleCb

	redrawCb   RedrawCb
	redrawCh   chan struct{}
	redrawFull atomic.Bool
	interval   time.Duration

	returnCh chan error
}

// Event is a placeholder type for input events.
type Event any

// HandleCb is the callback for handling an input event.
type HandleCb func(Event)

// RedrawCb is the callback for drawing a frame.
type RedrawCb func(flag RedrawFlag)

// RedrawFlag is passed to RedrawCb.
type RedrawFlag uint

// Bit flags for RedrawFlag.
const (
	// FullRedraw signals a "full redraw". This is set on the first RedrawCb
	// call or when Redraw has been called with full = true.
	FullRedraw RedrawFlag = 1 << iota
	// FinalRedraw signals that this is the final redraw in the loop.
	FinalRedraw
)

func dummyHandleCb(Event)      {}
func dummyRedrawCb(RedrawFlag) {}

// NewLoop creates a new Loop.
func NewLoop() *Loop {
	lp := &Loop{
		inputCh:  make(chan Event, inputChSize),
		handleCb: dummyHandleCb,
		redrawCb: dummyRedrawCb,
		redrawCh: make(chan struct{}, 1),
		returnCh: make(chan error, 1),
	}
	lp.redrawFull.Store(true)
	return lp
}

// HandleCb sets the handle callback. It must be called before Run.
func (lp *Loop) HandleCb(cb HandleCb) { lp.handleCb = cb }

// RedrawCb sets the redraw callback. It must be called before Run.
func (lp *Loop) RedrawCb(cb RedrawCb) { lp.redrawCb = cb }

// SetFrameInterval makes the loop draw a frame at least every d, even when
// there are no events or redraw requests. A non-positive d disables periodic
// frames. It must be called before Run.
func (lp *Loop) SetFrameInterval(d time.Duration) { lp.interval = d }

// Redraw requests a redraw. If full is true, a full redraw is requested. It
// never blocks, and may be called from any goroutine.
func (lp *Loop) Redraw(full bool) {
	if full {
		lp.redrawFull.Store(true)
	}
	select {
	case lp.redrawCh <- struct{}{}:
	default:
	}
}

// Input provides an input event. It may block if the internal event buffer is
// full.
func (lp *Loop) Input(ev Event) {
	lp.inputCh <- ev
}

// Return requests the loop to return. It never blocks. If Return has been
// called before during the current run, it has no effect.
func (lp *Loop) Return(err error) {
	select {
	case lp.returnCh <- err:
	default:
	}
}

// HasReturned returns whether Return has been called during the current run.
func (lp *Loop) HasReturned() bool {
	return len(lp.returnCh) == 1
}

// Run runs the loop until Return is called, and returns the error passed to
// Return. A frame is drawn before waiting for each batch of events, whenever a
// redraw is requested, on every frame interval, and a final time before
// returning.
func (lp *Loop) Run() error {
	var tick <-chan time.Time
	if lp.interval > 0 {
		ticker := time.NewTicker(lp.interval)
		defer ticker.Stop()
		tick = ticker.C
	}
	for {
		var flag RedrawFlag
		if lp.redrawFull.Swap(false) {
			flag |= FullRedraw
		}
		lp.redrawCb(flag)
		select {
		case event := <-lp.inputCh:
			// Consume all events in the channel to minimize redraws.
		consumeAllEvents:
			for {
				lp.handleCb(event)
				select {
				case err := <-lp.returnCh:
					lp.redrawCb(FinalRedraw)
					return err
				default:
				}
				select {
				case event = <-lp.inputCh:
					// Continue the loop of consuming all events.
				default:
					break consumeAllEvents
				}
			}
		case err := <-lp.returnCh:
			lp.redrawCb(FinalRedraw)
			return err
		case <-lp.redrawCh:
		case <-tick:
		}
	}
}
