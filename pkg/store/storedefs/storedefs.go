// Package storedefs contains definitions of the store API.
//
// It is a separate package so that packages that only depend on the store API
// does not need to depend on the concrete implementation.
package storedefs

import "errors"

// ErrNoSeries is returned when querying a series that doesn't exist.
var ErrNoSeries = errors.New("no such series")

// ErrNoSetting is returned when querying a setting that doesn't exist.
var ErrNoSetting = errors.New("no such setting")

// Store is an interface satisfied by the storage service.
type Store interface {
	PutSeries(name string, values []float64) error
	Series(name string) (Series, error)
	SeriesNames() ([]string, error)
	DelSeries(name string) error

	Setting(key string) (string, error)
	SetSetting(key, value string) error
	DelSetting(key string) error
}

// Series is a named sequence of samples, such as a CSV column or a spectrum.
type Series struct {
	Name   string
	Values []float64
}
