package storage

import (
	"errors"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

// HistorySlotKey is the slot holding the serialized search history.
const HistorySlotKey = "gifs_history"

var kvBucket = []byte("kv")

// ErrClosed is returned when a slot is used after its store was closed.
var ErrClosed = errors.New("store closed")

// Store is a bbolt database exposing named string-keyed slots. Each slot
// holds one opaque blob that is replaced wholesale on write.
type Store struct {
	db *bolt.DB
}

func NewStore(dbPath string) (*Store, error) {
	return NewStoreWithTimeout(dbPath, 1*time.Second)
}

// NewStoreWithTimeout opens dbPath, waiting at most timeout for the file
// lock held by another gifr process.
func NewStoreWithTimeout(dbPath string, timeout time.Duration) (*Store, error) {
	db, err := bolt.Open(dbPath, 0o600, &bolt.Options{Timeout: timeout})
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, createErr := tx.CreateBucketIfNotExists(kvBucket)
		return createErr
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating buckets: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Get returns a copy of the blob stored under key, or nil when unset.
func (s *Store) Get(key string) ([]byte, error) {
	if s.db == nil {
		return nil, ErrClosed
	}

	var out []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(kvBucket).Get([]byte(key))
		if data != nil {
			// bbolt memory is only valid inside the transaction.
			out = append([]byte(nil), data...)
		}
		return nil
	})
	return out, err
}

func (s *Store) Put(key string, data []byte) error {
	if s.db == nil {
		return ErrClosed
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(kvBucket).Put([]byte(key), data)
	})
}

// Delete removes the blob stored under key. Deleting an unset key is not
// an error.
func (s *Store) Delete(key string) error {
	if s.db == nil {
		return ErrClosed
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(kvBucket).Delete([]byte(key))
	})
}

// Slot binds a single key of the store.
type Slot struct {
	store *Store
	key   string
}

func (s *Store) Slot(key string) *Slot {
	return &Slot{store: s, key: key}
}

func (sl *Slot) Key() string { return sl.key }

func (sl *Slot) Load() ([]byte, error) {
	return sl.store.Get(sl.key)
}

func (sl *Slot) Save(data []byte) error {
	return sl.store.Put(sl.key, data)
}
