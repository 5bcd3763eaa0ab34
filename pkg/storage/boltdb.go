package storage

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	bolt "go.etcd.io/bbolt"

	"github.com/tracklet/tracklet/pkg/config"
	"github.com/tracklet/tracklet/pkg/types"
)

var (
	// Bucket names
	bucketSession  = []byte("session")
	bucketTimer    = []byte("timer")
	bucketHistory  = []byte("history")
	bucketSettings = []byte("settings")

	// Each bucket holds a single JSON document under a fixed key
	keyDoc = []byte("doc")
)

// BoltStore implements Store using BoltDB
type BoltStore struct {
	db *bolt.DB
}

// NewBoltStore creates a new BoltDB-backed store
func NewBoltStore(dataDir string) (*BoltStore, error) {
	dbPath := filepath.Join(dataDir, "tracklet.db")

	db, err := bolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		buckets := [][]byte{
			bucketSession,
			bucketTimer,
			bucketHistory,
			bucketSettings,
		}

		for _, bucket := range buckets {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
			}
		}
		return nil
	})

	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltStore{db: db}, nil
}

// Close closes the database
func (s *BoltStore) Close() error {
	return s.db.Close()
}

func (s *BoltStore) putDoc(bucket []byte, v any) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		data, err := json.Marshal(v)
		if err != nil {
			return err
		}
		return b.Put(keyDoc, data)
	})
}

// getDoc unmarshals the bucket's document into v. Returns false when the
// document has never been written.
func (s *BoltStore) getDoc(bucket []byte, v any) (bool, error) {
	found := false
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		data := b.Get(keyDoc)
		if data == nil {
			return nil
		}
		found = true
		return json.Unmarshal(data, v)
	})
	return found, err
}

func (s *BoltStore) deleteDoc(bucket []byte) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucket).Delete(keyDoc)
	})
}

// Session document

func (s *BoltStore) SaveSession(snap *types.SessionSnapshot) error {
	return s.putDoc(bucketSession, snap)
}

func (s *BoltStore) LoadSession() (*types.SessionSnapshot, error) {
	var snap types.SessionSnapshot
	found, err := s.getDoc(bucketSession, &snap)
	if err != nil || !found {
		return nil, err
	}
	return &snap, nil
}

func (s *BoltStore) ClearSession() error {
	return s.deleteDoc(bucketSession)
}

// Timer snapshot document

func (s *BoltStore) SaveTimerSnapshot(t *types.TimerSnapshot) error {
	return s.putDoc(bucketTimer, t)
}

func (s *BoltStore) LoadTimerSnapshot() (*types.TimerSnapshot, error) {
	var snap types.TimerSnapshot
	found, err := s.getDoc(bucketTimer, &snap)
	if err != nil || !found {
		return nil, err
	}
	return &snap, nil
}

// History document

func (s *BoltStore) SaveHistory(h *types.History) error {
	return s.putDoc(bucketHistory, h)
}

func (s *BoltStore) LoadHistory() (*types.History, error) {
	var h types.History
	found, err := s.getDoc(bucketHistory, &h)
	if err != nil || !found {
		return nil, err
	}
	return &h, nil
}

// Settings document

func (s *BoltStore) SaveSettings(cfg *config.Settings) error {
	return s.putDoc(bucketSettings, cfg)
}

func (s *BoltStore) LoadSettings() (*config.Settings, error) {
	var cfg config.Settings
	found, err := s.getDoc(bucketSettings, &cfg)
	if err != nil || !found {
		return nil, err
	}
	return &cfg, nil
}
