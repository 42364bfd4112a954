package testutil

import (
	"io"
	"strings"
	"sync"

	"src.specplot.dev/pkg/logutil"
)

// LogBuffer is a concurrency-safe buffer capturing log output.
type LogBuffer struct {
	mu sync.Mutex
	sb strings.Builder
}

func (b *LogBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sb.Write(p)
}

// String returns everything logged so far.
func (b *LogBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sb.String()
}

// CaptureLog redirects the output of loggers from logutil to a new LogBuffer
// for the duration of a test.
func CaptureLog(c Cleanuper) *LogBuffer {
	var buf LogBuffer
	logutil.SetOutput(&buf)
	c.Cleanup(func() { logutil.SetOutput(io.Discard) })
	return &buf
}
