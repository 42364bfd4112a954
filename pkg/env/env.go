// Package env keeps names of environment variables with special significance to
// specplot.
package env

// Environment variables with special significance to specplot.
//
// Note that some of these env vars may be significant only in special
// circumstances, such as when running unit tests.
const (
	HOME                     = "HOME"
	SPECPLOT_CONFIG          = "SPECPLOT_CONFIG"
	SPECPLOT_TEST_TIME_SCALE = "SPECPLOT_TEST_TIME_SCALE"
	XDG_RUNTIME_DIR          = "XDG_RUNTIME_DIR"
)
