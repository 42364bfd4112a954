// Package daemondefs contains definitions used for the daemon.
//
// It is a separate package so that packages that only depend on the daemon
// API does not need to depend on the concrete implementation.
package daemondefs

import (
	"errors"

	"src.specplot.dev/pkg/backend"
	"src.specplot.dev/pkg/store/storedefs"
	"src.specplot.dev/pkg/workspace"
)

// Version is the API version. It should be bumped any time the API changes.
const Version = 1

// Names of the RPC methods.
const (
	MethodVersion    = "Version"
	MethodPid        = "Pid"
	MethodPutSeries  = "PutSeries"
	MethodSeries     = "Series"
	MethodNames      = "Names"
	MethodDelSeries  = "DelSeries"
	MethodSummary    = "Summary"
	MethodDownsample = "Downsample"
	MethodPlot       = "Plot"
	MethodSetting    = "Setting"
	MethodSetSetting = "SetSetting"
	MethodDelSetting = "DelSetting"
	MethodStats      = "Stats"
)

// Client represents a daemon client.
type Client interface {
	Close() error

	Version() (int, error)
	Pid() (int, error)

	PutSeries(name string, values []float64) (int, error)
	Series(name string) ([]float64, error)
	Names() ([]string, error)
	DelSeries(name string) (int, error)
	Summary(name string) (workspace.Summary, error)
	Downsample(name string, buckets int) ([]workspace.Bucket, error)
	Plot(name string) ([]workspace.Bucket, error)

	Setting(key string) (string, error)
	SetSetting(key, value string) error
	DelSetting(key string) error

	Stats() (backend.Stats, error)
}

// NameArgs is the parameter of methods that operate on a series.
type NameArgs struct {
	Name string `json:"name"`
}

// PutSeriesArgs is the parameter of PutSeries.
type PutSeriesArgs struct {
	Name   string    `json:"name"`
	Values []float64 `json:"values"`
}

// SettingArgs is the parameter of the setting methods. Value is ignored
// except by SetSetting.
type SettingArgs struct {
	Key   string `json:"key"`
	Value string `json:"value,omitempty"`
}

// DownsampleArgs is the parameter of Downsample.
type DownsampleArgs struct {
	Name    string `json:"name"`
	Buckets int    `json:"buckets"`
}

// Error codes for errors that are meaningful to clients. They are in the range
// reserved for application errors.
const (
	CodeNoSeries    = -32001
	CodeBadName     = -32002
	CodeEmptySeries = -32003
	CodeBadBuckets  = -32004
	CodeUnavailable = -32005
	CodeNoSetting   = -32006
)

// ErrUnavailable is returned when the daemon's backend has stopped.
var ErrUnavailable = errors.New("backend unavailable")

// Errors maps error codes to the errors they stand for.
var Errors = map[int64]error{
	CodeNoSeries:    storedefs.ErrNoSeries,
	CodeBadName:     workspace.ErrBadName,
	CodeEmptySeries: workspace.ErrEmptySeries,
	CodeBadBuckets:  workspace.ErrBadBuckets,
	CodeUnavailable: ErrUnavailable,
	CodeNoSetting:   storedefs.ErrNoSetting,
}
