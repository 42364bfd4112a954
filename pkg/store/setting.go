package store

import (
	bolt "go.etcd.io/bbolt"
	. "src.specplot.dev/pkg/store/storedefs"
)

func init() {
	initDB["initialize setting table"] = func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketSetting))
		return err
	}
}

// Setting gets the value of a setting.
func (s *dbStore) Setting(key string) (string, error) {
	var value string
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketSetting))
		v := b.Get([]byte(key))
		if v == nil {
			return ErrNoSetting
		}
		value = string(v)
		return nil
	})
	return value, err
}

// SetSetting sets the value of a setting.
func (s *dbStore) SetSetting(key, value string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketSetting))
		return b.Put([]byte(key), []byte(value))
	})
}

// DelSetting deletes a setting.
func (s *dbStore) DelSetting(key string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketSetting))
		return b.Delete([]byte(key))
	})
}
