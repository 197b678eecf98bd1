package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"mediacatalog/searchservice/internal/domain"
)

var ErrNoSnapshot = errors.New("no catalog snapshot saved")

var (
	bucketCatalog = []byte("catalog")
	keySnapshot   = []byte("snapshot")
)

// SnapshotStore persists the catalog as one opaque blob: the whole media set
// marshaled to JSON under a fixed key. There is no format versioning and no
// per-record addressing; load returns exactly what save wrote.
type SnapshotStore struct {
	db *bolt.DB
}

func OpenSnapshotStore(path string) (*SnapshotStore, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open snapshot db: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketCatalog)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &SnapshotStore{db: db}, nil
}

func (s *SnapshotStore) Close() error {
	return s.db.Close()
}

func (s *SnapshotStore) Save(items []domain.Media) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketCatalog).Put(keySnapshot, data)
	})
}

func (s *SnapshotStore) Load() ([]domain.Media, error) {
	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		value := tx.Bucket(bucketCatalog).Get(keySnapshot)
		if value != nil {
			data = append([]byte(nil), value...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, ErrNoSnapshot
	}
	var items []domain.Media
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return items, nil
}
