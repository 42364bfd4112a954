// Package logutil provides logging utilities.
//
// All loggers created by GetLogger share one output, which discards
// everything until SetOutput or SetOutputFile is called.
package logutil

import (
	"io"
	"log"
	"os"
)

var (
	out     = io.Discard
	loggers []*log.Logger
)

// GetLogger gets a logger with a prefix. It is meant to be called during
// package initialization, like:
//
//	var logger = logutil.GetLogger("[backend] ")
func GetLogger(prefix string) *log.Logger {
	logger := log.New(out, prefix, log.LstdFlags)
	loggers = append(loggers, logger)
	return logger
}

// SetOutput redirects the output of all loggers obtained with GetLogger to
// the new io.Writer. If the old output was a file opened by SetOutputFile, it
// is closed.
func SetOutput(newout io.Writer) {
	if f, ok := out.(*os.File); ok && f != newout && isOwned(f) {
		f.Close()
	}
	out = newout
	for _, logger := range loggers {
		logger.SetOutput(out)
	}
}

// Discarding returns whether logs are currently discarded.
func Discarding() bool { return out == io.Discard }

// SetOutputFile redirects the output of all loggers obtained with GetLogger to
// the named file. If the file doesn't exist, it is created; otherwise logs
// are appended. An empty name discards all logs.
func SetOutputFile(fname string) error {
	if fname == "" {
		SetOutput(io.Discard)
		return nil
	}
	file, err := os.OpenFile(fname, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return err
	}
	SetOutput(file)
	owned = file
	return nil
}

// The file opened by the last SetOutputFile call.
var owned *os.File

func isOwned(f *os.File) bool {
	if f == owned {
		owned = nil
		return true
	}
	return false
}
