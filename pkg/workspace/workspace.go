// Package workspace implements the backend state of specplot: a set of named
// series, persisted in a store and cached in memory.
//
// A State is owned by a backend.Worker and must only be accessed from
// computations running on it. The request constructors in this package build
// such computations.
package workspace

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"src.specplot.dev/pkg/backend"
	"src.specplot.dev/pkg/logutil"
	"src.specplot.dev/pkg/store/storedefs"
)

var logger = logutil.GetLogger("[workspace] ")

var (
	// ErrBadName is returned when a series name is empty.
	ErrBadName = errors.New("series name must not be empty")
	// ErrEmptySeries is returned when summarizing a series with no values.
	ErrEmptySeries = errors.New("series is empty")
	// ErrBadBuckets is returned when downsampling to a non-positive number of
	// buckets.
	ErrBadBuckets = errors.New("number of buckets must be positive")
)

// Worker is the worker owning a State.
type Worker = backend.Worker[State]

// Queue is the submission queue of a Worker.
type Queue = backend.Queue[State]

// State is the backend state. The zero value is not usable; use New.
type State struct {
	store    storedefs.Store
	cache    map[string][]float64
	settings map[string]string
	revision int
}

// New creates a State backed by st. If st is nil, series are only kept in
// memory.
func New(st storedefs.Store) State {
	return State{store: st,
		cache: make(map[string][]float64), settings: make(map[string]string)}
}

// Revision returns a number that is incremented every time a series is
// changed.
func (s *State) Revision() int { return s.revision }

// AddSeries stores a series, replacing any existing series with the same name.
func (s *State) AddSeries(name string, values []float64) error {
	if name == "" {
		return ErrBadName
	}
	values = append([]float64(nil), values...)
	if s.store != nil {
		if err := s.store.PutSeries(name, values); err != nil {
			return err
		}
	}
	s.cache[name] = values
	s.revision++
	return nil
}

// Series returns the values of a series. The returned slice must not be
// modified.
func (s *State) Series(name string) ([]float64, error) {
	if values, ok := s.cache[name]; ok {
		return values, nil
	}
	if s.store == nil {
		return nil, storedefs.ErrNoSeries
	}
	series, err := s.store.Series(name)
	if err != nil {
		return nil, err
	}
	logger.Printf("loaded series %q (%d samples)", name, len(series.Values))
	s.cache[name] = series.Values
	return series.Values, nil
}

// Names returns the names of all series, sorted.
func (s *State) Names() ([]string, error) {
	if s.store != nil {
		return s.store.SeriesNames()
	}
	names := make([]string, 0, len(s.cache))
	for name := range s.cache {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// DelSeries deletes a series. Deleting a nonexistent series fails with
// storedefs.ErrNoSeries.
func (s *State) DelSeries(name string) error {
	if _, err := s.Series(name); err != nil {
		return err
	}
	if s.store != nil {
		if err := s.store.DelSeries(name); err != nil {
			return err
		}
	}
	delete(s.cache, name)
	s.revision++
	return nil
}

// Summary describes a series.
type Summary struct {
	Count          int
	Min, Max, Mean float64
}

func (s Summary) String() string {
	return fmt.Sprintf("n=%d min=%g max=%g mean=%g", s.Count, s.Min, s.Max, s.Mean)
}

// Summary computes the summary of a series. NaN samples are ignored.
func (s *State) Summary(name string) (Summary, error) {
	values, err := s.Series(name)
	if err != nil {
		return Summary{}, err
	}
	sum := Summary{Min: math.Inf(1), Max: math.Inf(-1)}
	total := 0.0
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		sum.Count++
		sum.Min = math.Min(sum.Min, v)
		sum.Max = math.Max(sum.Max, v)
		total += v
	}
	if sum.Count == 0 {
		return Summary{}, ErrEmptySeries
	}
	sum.Mean = total / float64(sum.Count)
	return sum, nil
}

// Bucket is the envelope of a run of consecutive samples.
type Bucket struct {
	// Index of the first sample in the bucket.
	Start    int
	Min, Max float64
}

// Downsample reduces a series to at most n buckets, keeping the minimum and
// maximum of each, which is what a plot needs to draw the series faithfully
// at a width of n. Series with at most n samples yield one bucket per sample.
func (s *State) Downsample(name string, n int) ([]Bucket, error) {
	if n <= 0 {
		return nil, ErrBadBuckets
	}
	values, err := s.Series(name)
	if err != nil {
		return nil, err
	}
	if len(values) < n {
		n = len(values)
	}
	buckets := make([]Bucket, n)
	for i := range buckets {
		start, end := i*len(values)/n, (i+1)*len(values)/n
		b := Bucket{Start: start, Min: values[start], Max: values[start]}
		for _, v := range values[start+1 : end] {
			b.Min = math.Min(b.Min, v)
			b.Max = math.Max(b.Max, v)
		}
		buckets[i] = b
	}
	return buckets, nil
}
