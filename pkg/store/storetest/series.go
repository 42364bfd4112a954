package storetest

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"src.specplot.dev/pkg/store/storedefs"
)

// TestSeries tests the series functionality of a Store.
func TestSeries(t *testing.T, store storedefs.Store) {
	t.Helper()

	_, err := store.Series("absent")
	if !matchErr(err, storedefs.ErrNoSeries) {
		t.Errorf("Series(absent) -> error %v, want %v", err, storedefs.ErrNoSeries)
	}

	series := []storedefs.Series{
		{Name: "b", Values: []float64{1, 2.5, -3}},
		{Name: "a", Values: []float64{math.Inf(1), 0}},
		{Name: "empty", Values: []float64{}},
	}
	for _, s := range series {
		if err := store.PutSeries(s.Name, s.Values); err != nil {
			t.Errorf("PutSeries(%q) -> %v", s.Name, err)
		}
	}
	for _, s := range series {
		got, err := store.Series(s.Name)
		if err != nil {
			t.Errorf("Series(%q) -> error %v", s.Name, err)
		}
		if diff := cmp.Diff(s, got); diff != "" {
			t.Errorf("Series(%q) (-want +got):\n%s", s.Name, diff)
		}
	}

	names, err := store.SeriesNames()
	if err != nil {
		t.Errorf("SeriesNames -> error %v", err)
	}
	if diff := cmp.Diff([]string{"a", "b", "empty"}, names); diff != "" {
		t.Errorf("SeriesNames (-want +got):\n%s", diff)
	}

	// Replace.
	store.PutSeries("a", []float64{42})
	if got, _ := store.Series("a"); !cmp.Equal(got.Values, []float64{42}) {
		t.Errorf("Series(a) after replace -> %v, want [42]", got.Values)
	}

	if err := store.DelSeries("a"); err != nil {
		t.Errorf("DelSeries(a) -> %v", err)
	}
	if err := store.DelSeries("absent"); err != nil {
		t.Errorf("DelSeries(absent) -> %v, want nil", err)
	}
	if _, err := store.Series("a"); !matchErr(err, storedefs.ErrNoSeries) {
		t.Errorf("Series(a) after delete -> error %v, want %v", err, storedefs.ErrNoSeries)
	}
}
