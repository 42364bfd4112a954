package frame

import (
	"io"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"src.specplot.dev/pkg/testutil"
)

func TestLoop_PassesInputEventsToHandler(t *testing.T) {
	var handlerGotEvents []Event

	lp := NewLoop()
	lp.HandleCb(func(e Event) {
		handlerGotEvents = append(handlerGotEvents, e)
		if e == "quit" {
			lp.Return(nil)
		}
	})

	inputPassedEvents := []Event{"foo", "bar", "lorem", "ipsum", "quit"}
	supplyInputs(lp, inputPassedEvents...)

	lp.Run()
	if diff := cmp.Diff(inputPassedEvents, handlerGotEvents); diff != "" {
		t.Errorf("handler got events (-want +got):\n%s", diff)
	}
}

func TestLoop_RunReturnsAfterReturnCalled(t *testing.T) {
	lp := NewLoop()
	lp.HandleCb(func(Event) { lp.Return(io.EOF) })
	supplyInputs(lp, "x")
	if err := lp.Run(); err != io.EOF {
		t.Errorf("Run -> %v, want %v", err, io.EOF)
	}
}

func TestLoop_FirstRedrawIsFull(t *testing.T) {
	var flags []RedrawFlag
	lp := NewLoop()
	lp.RedrawCb(func(flag RedrawFlag) {
		flags = append(flags, flag)
		if len(flags) == 1 {
			lp.Return(nil)
		}
	})
	lp.Run()
	if diff := cmp.Diff([]RedrawFlag{FullRedraw, FinalRedraw}, flags); diff != "" {
		t.Errorf("redraw flags (-want +got):\n%s", diff)
	}
}

func TestLoop_RedrawRequestedAfterFirstDraw(t *testing.T) {
	testRedrawRequestedAfterFirstDraw(t, true, FullRedraw)
	testRedrawRequestedAfterFirstDraw(t, false, 0)
}

func testRedrawRequestedAfterFirstDraw(t *testing.T, full bool, wantFlag RedrawFlag) {
	t.Helper()

	var gotFlag RedrawFlag
	drawSeq := 0
	firstDrawCalledCh := make(chan struct{})
	lp := NewLoop()
	lp.RedrawCb(func(flag RedrawFlag) {
		switch drawSeq {
		case 0:
			close(firstDrawCalledCh)
		case 1:
			gotFlag = flag
			lp.Return(nil)
		}
		drawSeq++
	})
	go func() {
		<-firstDrawCalledCh
		lp.Redraw(full)
	}()
	lp.Run()
	if gotFlag != wantFlag {
		t.Errorf("second redraw got flag %v, want %v", gotFlag, wantFlag)
	}
}

func TestLoop_DrawsOnFrameInterval(t *testing.T) {
	frames := 0
	lp := NewLoop()
	lp.SetFrameInterval(testutil.Scaled(time.Millisecond))
	lp.RedrawCb(func(flag RedrawFlag) {
		if flag&FinalRedraw != 0 {
			return
		}
		frames++
		if frames == 5 {
			lp.Return(nil)
		}
	})

	done := make(chan struct{})
	go func() {
		lp.Run()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(testutil.Scaled(5 * time.Second)):
		t.Fatalf("loop didn't draw 5 frames in time")
	}
}

func TestLoop_HasReturned(t *testing.T) {
	lp := NewLoop()
	if lp.HasReturned() {
		t.Errorf("HasReturned -> true before Return")
	}
	lp.Return(nil)
	lp.Return(io.EOF)
	if !lp.HasReturned() {
		t.Errorf("HasReturned -> false after Return")
	}
	if err := lp.Run(); err != nil {
		t.Errorf("Run -> %v, want the error from the first Return (nil)", err)
	}
}

func TestLoop_FullLifecycle(t *testing.T) {
	var initialBuffer, finalBuffer string

	buffer := ""
	firstDrawerCall := true
	lp := NewLoop()
	lp.RedrawCb(func(flag RedrawFlag) {
		// Because the consumption of events is batched, calls to the drawer
		// are nondeterministic except for the first and final calls.
		switch {
		case firstDrawerCall:
			initialBuffer = buffer
			firstDrawerCall = false
		case flag&FinalRedraw != 0:
			finalBuffer = buffer
		}
	})
	lp.HandleCb(func(e Event) {
		if e == '\n' {
			lp.Return(nil)
			return
		}
		buffer += string(e.(rune))
	})
	go func() {
		for _, r := range "echo\n" {
			lp.Input(r)
		}
	}()

	lp.Run()
	if initialBuffer != "" {
		t.Errorf("got initial buffer %q, want %q", initialBuffer, "")
	}
	if finalBuffer != "echo" {
		t.Errorf("got final buffer %q, want %q", finalBuffer, "echo")
	}
}

func supplyInputs(lp *Loop, events ...Event) {
	for _, event := range events {
		lp.Input(event)
	}
}
