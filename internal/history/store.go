// Package history keeps past search results keyed by normalized query and
// persists the whole mapping to a single slot after every change.
package history

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/pders01/gifr/internal/debuglog"
	"github.com/pders01/gifr/internal/storage"
)

// Slot is a single durable blob.
type Slot interface {
	Load() ([]byte, error)
	Save(data []byte) error
}

// PersistenceError reports a failed write of the history blob. The
// in-memory history already reflects the change when it is returned.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("history %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Entry is one stored query with its results.
type Entry struct {
	Query string
	Gifs  []*storage.Gif
}

// Store owns the query → results mapping. One Store exists per process.
type Store struct {
	mu      sync.RWMutex
	slot    Slot
	entries map[string][]*storage.Gif
	keys    []string

	obsMu     sync.Mutex
	observers map[int]func([]string)
	nextObsID int
}

// Normalize maps a query to its history key. Only case is folded;
// whitespace is kept as typed.
func Normalize(query string) string {
	return strings.ToLower(query)
}

// Open loads the history from slot. A missing, unreadable or malformed
// blob yields an empty history.
func Open(slot Slot) *Store {
	s := &Store{
		slot:      slot,
		entries:   make(map[string][]*storage.Gif),
		observers: make(map[int]func([]string)),
	}

	data, err := slot.Load()
	if err != nil {
		debuglog.Warnf("history: loading slot failed, starting empty: %v", err)
		return s
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return s
	}

	keys, entries, err := decode(data)
	if err != nil {
		debuglog.Warnf("history: stored blob is malformed, starting empty: %v", err)
		return s
	}
	s.keys, s.entries = keys, entries
	debuglog.Debugf("history: loaded %d queries", len(keys))
	return s
}

// Set stores gifs under Normalize(query), replacing earlier results, and
// writes the full history back to the slot before returning.
func (s *Store) Set(query string, gifs []*storage.Gif) error {
	key := Normalize(query)
	stored := append([]*storage.Gif{}, gifs...)

	s.mu.Lock()
	if _, exists := s.entries[key]; !exists {
		s.keys = append(s.keys, key)
	}
	s.entries[key] = stored

	var err error
	data, encErr := encode(s.keys, s.entries)
	if encErr != nil {
		err = &PersistenceError{Op: "encode", Err: encErr}
	} else if saveErr := s.slot.Save(data); saveErr != nil {
		err = &PersistenceError{Op: "save", Err: saveErr}
	}
	keys := append([]string(nil), s.keys...)
	s.mu.Unlock()

	s.notify(keys)
	return err
}

// Get returns the stored results for Normalize(query), or an empty slice.
func (s *Store) Get(query string) []*storage.Gif {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*storage.Gif{}, s.entries[Normalize(query)]...)
}

// Has reports whether results are stored for Normalize(query).
func (s *Store) Has(query string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.entries[Normalize(query)]
	return ok
}

// Keys returns stored queries in the order they were first searched.
func (s *Store) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.keys...)
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.keys)
}

// Entries returns every query with its results, in key order.
func (s *Store) Entries() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Entry, 0, len(s.keys))
	for _, k := range s.keys {
		out = append(out, Entry{Query: k, Gifs: append([]*storage.Gif{}, s.entries[k]...)})
	}
	return out
}

// Subscribe registers fn to receive the key list after every Set. The
// returned func removes the registration.
func (s *Store) Subscribe(fn func(keys []string)) func() {
	s.obsMu.Lock()
	id := s.nextObsID
	s.nextObsID++
	s.observers[id] = fn
	s.obsMu.Unlock()

	return func() {
		s.obsMu.Lock()
		delete(s.observers, id)
		s.obsMu.Unlock()
	}
}

func (s *Store) notify(keys []string) {
	s.obsMu.Lock()
	fns := make([]func([]string), 0, len(s.observers))
	for _, fn := range s.observers {
		fns = append(fns, fn)
	}
	s.obsMu.Unlock()

	for _, fn := range fns {
		fn(append([]string(nil), keys...))
	}
}

// encode writes a JSON object whose members follow keys order.
func encode(keys []string, entries map[string][]*storage.Gif) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		gifs := entries[k]
		if gifs == nil {
			gifs = []*storage.Gif{}
		}
		vb, err := json.Marshal(gifs)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// decode reads a JSON object of query → gif arrays, keeping member order.
// A repeated member keeps its first position and its last value.
func decode(data []byte) ([]string, map[string][]*storage.Gif, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, nil, errors.New("history blob is not a JSON object")
	}

	var keys []string
	entries := make(map[string][]*storage.Gif)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, nil, fmt.Errorf("unexpected token %v", tok)
		}

		var gifs []*storage.Gif
		if err := dec.Decode(&gifs); err != nil {
			return nil, nil, fmt.Errorf("decoding results for %q: %w", key, err)
		}
		if _, seen := entries[key]; !seen {
			keys = append(keys, key)
		}
		entries[key] = compact(gifs)
	}

	if _, err := dec.Token(); err != nil {
		return nil, nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, nil, errors.New("trailing data after history object")
	}
	return keys, entries, nil
}

// compact drops null array members so callers never see nil Gifs.
func compact(gifs []*storage.Gif) []*storage.Gif {
	out := make([]*storage.Gif, 0, len(gifs))
	for _, g := range gifs {
		if g != nil {
			out = append(out, g)
		}
	}
	return out
}
