package workspace

import (
	"strconv"

	"src.specplot.dev/pkg/store/storedefs"
)

// Keys of settings understood by the workspace.
const (
	// Number of buckets a series is downsampled to when plotted without an
	// explicit width.
	PlotBucketsKey = "plot.buckets"
)

// DefaultPlotBuckets is used when the plot.buckets setting is absent or
// invalid.
const DefaultPlotBuckets = 40

// Setting returns the value of a setting.
func (s *State) Setting(key string) (string, error) {
	if s.store != nil {
		return s.store.Setting(key)
	}
	value, ok := s.settings[key]
	if !ok {
		return "", storedefs.ErrNoSetting
	}
	return value, nil
}

// SetSetting sets a setting.
func (s *State) SetSetting(key, value string) error {
	if key == "" {
		return ErrBadName
	}
	if s.store != nil {
		return s.store.SetSetting(key, value)
	}
	s.settings[key] = value
	return nil
}

// DelSetting deletes a setting. Deleting a nonexistent setting is not an
// error.
func (s *State) DelSetting(key string) error {
	if s.store != nil {
		return s.store.DelSetting(key)
	}
	delete(s.settings, key)
	return nil
}

// PlotBuckets returns the number of buckets to plot series with.
func (s *State) PlotBuckets() int {
	value, err := s.Setting(PlotBucketsKey)
	if err != nil {
		return DefaultPlotBuckets
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		logger.Printf("warning: ignoring invalid %s setting %q", PlotBucketsKey, value)
		return DefaultPlotBuckets
	}
	return n
}
