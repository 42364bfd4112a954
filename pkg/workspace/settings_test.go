package workspace

import (
	"errors"
	"testing"

	"src.specplot.dev/pkg/store"
	"src.specplot.dev/pkg/store/storedefs"
	"src.specplot.dev/pkg/testutil"
)

func TestSettings_InMemory(t *testing.T) {
	testSettings(t, New(nil))
}

func TestSettings_WithStore(t *testing.T) {
	testSettings(t, New(store.MustTempStore(t)))
}

func testSettings(t *testing.T, s State) {
	t.Helper()
	testutil.CaptureLog(t)

	if _, err := s.Setting(PlotBucketsKey); !errors.Is(err, storedefs.ErrNoSetting) {
		t.Errorf("Setting before set -> %v, want %v", err, storedefs.ErrNoSetting)
	}
	if n := s.PlotBuckets(); n != DefaultPlotBuckets {
		t.Errorf("PlotBuckets without setting -> %d, want %d", n, DefaultPlotBuckets)
	}

	if err := s.SetSetting(PlotBucketsKey, "3"); err != nil {
		t.Errorf("SetSetting -> %v", err)
	}
	if v, err := s.Setting(PlotBucketsKey); v != "3" || err != nil {
		t.Errorf("Setting -> (%q, %v), want (\"3\", nil)", v, err)
	}
	if n := s.PlotBuckets(); n != 3 {
		t.Errorf("PlotBuckets -> %d, want 3", n)
	}

	s.SetSetting(PlotBucketsKey, "lots")
	if n := s.PlotBuckets(); n != DefaultPlotBuckets {
		t.Errorf("PlotBuckets with invalid setting -> %d, want %d", n, DefaultPlotBuckets)
	}

	if err := s.DelSetting(PlotBucketsKey); err != nil {
		t.Errorf("DelSetting -> %v", err)
	}
	if _, err := s.Setting(PlotBucketsKey); !errors.Is(err, storedefs.ErrNoSetting) {
		t.Errorf("Setting after delete -> %v, want %v", err, storedefs.ErrNoSetting)
	}
	if err := s.SetSetting("", "x"); !errors.Is(err, ErrBadName) {
		t.Errorf("SetSetting with empty key -> %v, want %v", err, ErrBadName)
	}
}
