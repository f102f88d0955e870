package config

import (
	"fmt"
	"io/fs"
	"time"

	bolt "go.etcd.io/bbolt"
)

var (
	boltBucket = []byte("config")
	boltKey    = []byte("env")
)

// BoltBackend stores the serialized configuration as a single value in a
// bbolt database, for setups where several tools share one database file.
type BoltBackend struct {
	db *bolt.DB
}

// OpenBoltBackend opens the database at path, creating it if it doesn't exist.
func OpenBoltBackend(path string) (*BoltBackend, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 10 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open config database: %w", err)
	}
	return &BoltBackend{db: db}, nil
}

// Path returns the database file path
func (b *BoltBackend) Path() string {
	return b.db.Path()
}

// Close closes the database.
func (b *BoltBackend) Close() error {
	return b.db.Close()
}

func (b *BoltBackend) Read() ([]byte, error) {
	var data []byte
	err := b.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(boltBucket)
		if bucket == nil {
			return fmt.Errorf("bucket %s: %w", boltBucket, fs.ErrNotExist)
		}
		v := bucket.Get(boltKey)
		if v == nil {
			return fmt.Errorf("key %s: %w", boltKey, fs.ErrNotExist)
		}
		// v is only valid for the life of the transaction
		data = append([]byte(nil), v...)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read config database: %w", err)
	}
	return data, nil
}

func (b *BoltBackend) Write(data []byte) error {
	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists(boltBucket)
		if err != nil {
			return err
		}
		return bucket.Put(boltKey, data)
	})
	if err != nil {
		return fmt.Errorf("failed to write config database: %w", err)
	}
	return nil
}
