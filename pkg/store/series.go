package store

import (
	"encoding/binary"
	"fmt"
	"math"

	bolt "go.etcd.io/bbolt"
	. "src.specplot.dev/pkg/store/storedefs"
)

func init() {
	initDB["initialize series table"] = func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketSeries))
		return err
	}
}

// PutSeries stores a series, replacing any series with the same name.
func (s *dbStore) PutSeries(name string, values []float64) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketSeries))
		return b.Put([]byte(name), marshalValues(values))
	})
}

// Series queries the series with the given name.
func (s *dbStore) Series(name string) (Series, error) {
	var series Series
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketSeries))
		v := b.Get([]byte(name))
		if v == nil {
			return ErrNoSeries
		}
		values, err := unmarshalValues(v)
		if err != nil {
			return fmt.Errorf("series %q: %w", name, err)
		}
		series = Series{Name: name, Values: values}
		return nil
	})
	return series, err
}

// SeriesNames returns the names of all series, in lexicographical order.
func (s *dbStore) SeriesNames() ([]string, error) {
	var names []string
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketSeries))
		return b.ForEach(func(k, _ []byte) error {
			names = append(names, string(k))
			return nil
		})
	})
	return names, err
}

// DelSeries deletes the series with the given name. Deleting a series that
// doesn't exist is not an error.
func (s *dbStore) DelSeries(name string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketSeries))
		return b.Delete([]byte(name))
	})
}

// Series values are stored as a format byte followed by little-endian IEEE 754
// doubles. The format byte also keeps the value of an empty series non-empty.
const seriesFormat = 1

func marshalValues(values []float64) []byte {
	buf := make([]byte, 1+8*len(values))
	buf[0] = seriesFormat
	for i, v := range values {
		binary.LittleEndian.PutUint64(buf[1+8*i:], math.Float64bits(v))
	}
	return buf
}

func unmarshalValues(buf []byte) ([]float64, error) {
	if len(buf) == 0 || buf[0] != seriesFormat || (len(buf)-1)%8 != 0 {
		return nil, fmt.Errorf("corrupt value of %d bytes", len(buf))
	}
	buf = buf[1:]
	values := make([]float64, len(buf)/8)
	for i := range values {
		values[i] = math.Float64frombits(binary.LittleEndian.Uint64(buf[8*i:]))
	}
	return values, nil
}
