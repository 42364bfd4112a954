package backend

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"src.specplot.dev/pkg/testutil"
)

func TestWorker_AppliesMutationsInSubmissionOrder(t *testing.T) {
	q, _ := startWorker(t, []int(nil))
	const n = 100
	for i := 0; i < n; i++ {
		_, err := Submit(q, "append", func(w *Worker[[]int]) struct{} {
			*w.State() = append(*w.State(), i)
			return struct{}{}
		})
		if err != nil {
			t.Fatal(err)
		}
	}
	h, _ := Submit(q, "read", func(w *Worker[[]int]) []int { return *w.State() })

	want := make([]int, n)
	for i := range want {
		want[i] = i
	}
	if diff := cmp.Diff(want, mustWait(t, h)); diff != "" {
		t.Errorf("state (-want +got):\n%s", diff)
	}
}

func TestWorker_NoExecutionAfterEarlyCancel(t *testing.T) {
	q := NewQueue[int]()
	w := NewWorker(q, 0)
	called := make(chan struct{}, 1)
	h, err := Submit(q, "slow", func(*Worker[int]) int {
		called <- struct{}{}
		time.Sleep(time.Second)
		return 1
	})
	if err != nil {
		t.Fatal(err)
	}
	h.Close()

	start := time.Now()
	jh := w.Run()
	if err := RequestStop(q, jh, DefaultStopTimeout); err != nil {
		t.Errorf("RequestStop -> %v", err)
	}
	if elapsed := time.Since(start); elapsed > testutil.Scaled(50*time.Millisecond) {
		t.Errorf("shutdown took %v, want it to skip the slow computation", elapsed)
	}
	select {
	case <-called:
		t.Errorf("computation called after Handle was closed")
	default:
	}
}

func TestWorker_NoExecutionAfterCancelWhileQueued(t *testing.T) {
	q, jh := startWorker(t, 0)
	gate := make(chan struct{})
	blocker, _ := Submit(q, "blocker", func(*Worker[int]) int { <-gate; return 0 })
	defer blocker.Close()

	called := false
	slow, _ := Submit(q, "slow", func(*Worker[int]) int {
		called = true
		time.Sleep(time.Second)
		return 1
	})
	slow.Close()
	close(gate)

	start := time.Now()
	RequestStop(q, jh, DefaultStopTimeout)
	if elapsed := time.Since(start); elapsed > testutil.Scaled(50*time.Millisecond) {
		t.Errorf("shutdown took %v, want it to skip the slow computation", elapsed)
	}
	// Join happens-after every computation.
	if called {
		t.Errorf("computation called after Handle was closed")
	}
}

func TestWorker_StopRunsEarlierJobsFirst(t *testing.T) {
	q, jh := startWorker(t, 0)
	gate := make(chan struct{})
	Submit(q, "blocker", func(*Worker[int]) struct{} { <-gate; return struct{}{} })

	var handles []*Handle[int]
	for i := 0; i < 5; i++ {
		h, _ := Submit(q, "increment", func(w *Worker[int]) int {
			*w.State()++
			return *w.State()
		})
		handles = append(handles, h)
	}
	stopped := make(chan error, 1)
	go func() { stopped <- RequestStop(q, jh, DefaultStopTimeout) }()
	close(gate)

	if err := <-stopped; err != nil {
		t.Errorf("RequestStop -> %v", err)
	}
	for i, h := range handles {
		if v, st := h.TryRecv(); v != i+1 || st != Ready {
			t.Errorf("handle %d: TryRecv -> (%v, %v), want (%v, %v)", i, v, st, i+1, Ready)
		}
	}
	if _, err := Submit(q, "after stop", func(*Worker[int]) int { return 0 }); !errors.Is(err, ErrQueueClosed) {
		t.Errorf("Submit after stop -> %v, want %v", err, ErrQueueClosed)
	}
}

func TestWorker_StopsWhenQueueClosed(t *testing.T) {
	q := NewQueue[int]()
	jh := NewWorker(q, 0).Run()
	q.Close()
	select {
	case <-jh.Done():
	case <-time.After(testutil.Scaled(time.Second)):
		t.Fatalf("worker didn't exit after queue was closed")
	}
	if err := jh.Join(); err != nil {
		t.Errorf("Join -> %v, want nil", err)
	}
}

func TestWorker_HaltsOnPanic(t *testing.T) {
	log := testutil.CaptureLog(t)
	q := NewQueue[int]()
	jh := NewWorker(q, 0).Run()

	// Gate the panic so that "later" is queued before the worker halts.
	gate := make(chan struct{})
	bad, err := Submit(q, "bad", func(*Worker[int]) int { <-gate; panic("boom") })
	if err != nil {
		t.Fatal(err)
	}
	later, err := Submit(q, "later", func(*Worker[int]) int { return 1 })
	if err != nil {
		t.Fatal(err)
	}
	close(gate)

	err = RequestStop(q, jh, DefaultStopTimeout)
	if !errors.Is(err, ErrWorkerPanic) {
		t.Errorf("RequestStop -> %v, want error wrapping %v", err, ErrWorkerPanic)
	}
	if _, err := bad.Wait(context.Background()); !errors.Is(err, ErrAbandoned) {
		t.Errorf("Wait on panicked request -> %v, want %v", err, ErrAbandoned)
	}
	if _, st := later.TryRecv(); st != Abandoned {
		t.Errorf("TryRecv on later request -> %v, want %v", st, Abandoned)
	}
	if !strings.Contains(log.String(), `worker panicked while running "bad": boom`) {
		t.Errorf("log %q doesn't mention the panic", log.String())
	}
}

func TestWorker_CallsWakeCbAfterDelivery(t *testing.T) {
	q := NewQueue[int]()
	w := NewWorker(q, 0)
	woken := make(chan struct{}, 10)
	w.SetWakeCb(func() { woken <- struct{}{} })
	jh := w.Run()
	defer RequestStop(q, jh, DefaultStopTimeout)

	h, _ := Submit(q, "value", func(*Worker[int]) int { return 1 })
	defer h.Close()
	select {
	case <-woken:
	case <-time.After(testutil.Scaled(time.Second)):
		t.Fatalf("wake callback not called")
	}
	if v, st := h.TryRecv(); v != 1 || st != Ready {
		t.Errorf("TryRecv after wake -> (%v, %v), want (1, %v)", v, st, Ready)
	}
}

func TestWorker_Stats(t *testing.T) {
	q := NewQueue[int]()
	skipped, _ := Submit(q, "skipped", func(*Worker[int]) int { return 0 })
	skipped.Close()
	Submit(q, "executed", func(*Worker[int]) int { return 0 })
	h, _ := Submit(q, "stats", func(w *Worker[int]) Stats { return w.Stats() })
	jh := NewWorker(q, 0).Run()
	defer RequestStop(q, jh, DefaultStopTimeout)

	if diff := cmp.Diff(Stats{Executed: 1, Skipped: 1}, mustWait(t, h)); diff != "" {
		t.Errorf("stats (-want +got):\n%s", diff)
	}
}

func TestWorker_KeepsRunningAfterDeliveryFailure(t *testing.T) {
	q, _ := startWorker(t, 0)
	var lost *Handle[int]
	var it *WorkItem[int, int]
	lost, it = NewWorkItem("lost", func(*Worker[int]) int {
		lost.rx.close()
		return 1
	})
	q.Submit(it)
	h, _ := Submit(q, "next", func(w *Worker[int]) Stats { return w.Stats() })

	if got := mustWait(t, h).DeliveryFailures; got != 1 {
		t.Errorf("DeliveryFailures = %d, want 1", got)
	}
}

func TestRequestStop_TimesOutThenJoins(t *testing.T) {
	log := testutil.CaptureLog(t)
	q := NewQueue[int]()
	jh := NewWorker(q, 0).Run()
	Submit(q, "slow", func(*Worker[int]) int {
		time.Sleep(testutil.Scaled(100 * time.Millisecond))
		return 0
	})

	if err := RequestStop(q, jh, testutil.Scaled(10*time.Millisecond)); err != nil {
		t.Errorf("RequestStop -> %v, want nil", err)
	}
	select {
	case <-jh.Done():
	default:
		t.Errorf("worker still running after RequestStop returned")
	}
	if !strings.Contains(log.String(), "shutdown timeout") {
		t.Errorf("log %q doesn't mention the timeout", log.String())
	}
}

func TestRequestStop_AfterWorkerExited(t *testing.T) {
	q := NewQueue[int]()
	jh := NewWorker(q, 0).Run()
	if err := RequestStop(q, jh, DefaultStopTimeout); err != nil {
		t.Errorf("first RequestStop -> %v", err)
	}
	if err := RequestStop(q, jh, DefaultStopTimeout); err != nil {
		t.Errorf("second RequestStop -> %v", err)
	}
}

// Helpers.

func startWorker[S any](t *testing.T, state S) (*Queue[S], *JoinHandle) {
	t.Helper()
	q := NewQueue[S]()
	jh := NewWorker(q, state).Run()
	t.Cleanup(func() { RequestStop(q, jh, DefaultStopTimeout) })
	return q, jh
}

func mustWait[T any](t *testing.T, h *Handle[T]) T {
	t.Helper()
	defer h.Close()
	ctx, cancel := context.WithTimeout(context.Background(), testutil.Scaled(5*time.Second))
	defer cancel()
	v, err := h.Wait(ctx)
	if err != nil {
		t.Fatalf("Wait on %q -> %v", h.Description(), err)
	}
	return v
}
