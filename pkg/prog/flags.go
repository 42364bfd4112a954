package prog

import (
	"flag"
	"time"

	"src.specplot.dev/pkg/backend"
)

// FlagSet wraps a flag.FlagSet. Flags shared by several subprograms are
// registered lazily via its methods, so that each is registered only once.
type FlagSet struct {
	*flag.FlagSet
	daemonPaths   *DaemonPaths
	stopTimeout   *time.Duration
	frameInterval *time.Duration
}

// DaemonPaths keeps the paths used by the daemon and its clients.
type DaemonPaths struct {
	DB, Sock string
}

// DaemonPaths registers the -db and -sock flags.
func (fs *FlagSet) DaemonPaths() *DaemonPaths {
	if fs.daemonPaths == nil {
		var dp DaemonPaths
		fs.StringVar(&dp.DB, "db", "",
			"Path to the database file")
		fs.StringVar(&dp.Sock, "sock", "",
			"Path to the daemon's UNIX socket")
		fs.daemonPaths = &dp
	}
	return fs.daemonPaths
}

// StopTimeout registers the -stop-timeout flag.
func (fs *FlagSet) StopTimeout() *time.Duration {
	if fs.stopTimeout == nil {
		var d time.Duration
		fs.DurationVar(&d, "stop-timeout", backend.DefaultStopTimeout,
			"How long to wait for the backend to acknowledge a stop request")
		fs.stopTimeout = &d
	}
	return fs.stopTimeout
}

// FrameInterval registers the -frame-interval flag.
func (fs *FlagSet) FrameInterval() *time.Duration {
	if fs.frameInterval == nil {
		var d time.Duration
		fs.DurationVar(&d, "frame-interval", 16*time.Millisecond,
			"Interval between UI frames")
		fs.frameInterval = &d
	}
	return fs.frameInterval
}
