package storetest

import (
	"testing"

	"src.specplot.dev/pkg/store/storedefs"
)

// TestSetting tests the setting functionality of a Store.
func TestSetting(t *testing.T, store storedefs.Store) {
	t.Helper()

	const key = "plot.buckets"

	if _, err := store.Setting(key); !matchErr(err, storedefs.ErrNoSetting) {
		t.Error("want Setting to return ErrNoSetting for nonexistent setting")
	}

	value := "200"
	if err := store.SetSetting(key, value); err != nil {
		t.Errorf("Failed to set setting: %v", err)
	}

	if v, err := store.Setting(key); err != nil {
		t.Errorf("Failed to get setting: %v", err)
	} else if v != value {
		t.Errorf("Got setting %q, want %q", v, value)
	}

	if err := store.DelSetting(key); err != nil {
		t.Errorf("Failed to delete setting: %v", err)
	}
	if _, err := store.Setting(key); !matchErr(err, storedefs.ErrNoSetting) {
		t.Error("want Setting to return ErrNoSetting after DelSetting")
	}
}
