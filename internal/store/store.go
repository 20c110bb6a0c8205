package store

import (
	"errors"
	"sync"
	"time"
)

// ErrStoreClosed is returned when operations are attempted on a closed store.
var ErrStoreClosed = errors.New("store is closed")

// Store holds the history in memory and mirrors additions to persistence.
type Store struct {
	mu          sync.RWMutex
	entries     []Entry
	index       map[string]int // entry ID -> slice index
	persistence Persistence
	closed      bool
}

// NewStore creates a store. A nil persistence keeps history in memory only.
func NewStore(persistence Persistence) *Store {
	return &Store{
		index:       make(map[string]int),
		persistence: persistence,
	}
}

// Hydrate loads persisted entries into memory.
func (s *Store) Hydrate() error {
	if s.persistence == nil {
		return nil
	}
	entries, err := s.persistence.Load()
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range entries {
		s.insert(e)
	}
	return nil
}

// Add records e. Entries with an ID already present are ignored.
func (s *Store) Add(e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}
	if !s.insert(e) {
		return nil
	}
	if s.persistence != nil {
		return s.persistence.Append(e)
	}
	return nil
}

// insert must be called with mu held.
func (s *Store) insert(e Entry) bool {
	if _, exists := s.index[e.ID]; exists {
		return false
	}
	s.index[e.ID] = len(s.entries)
	s.entries = append(s.entries, e)
	return true
}

// Get returns the entry with the given ID.
func (s *Store) Get(id string) (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx, ok := s.index[id]
	if !ok {
		return Entry{}, false
	}
	return s.entries[idx], true
}

// Len returns the number of entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// All returns a copy of every entry in insertion order.
func (s *Store) All() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Entry(nil), s.entries...)
}

// Query filters and sorts the history, newest first.
func (s *Store) Query(opts QueryOptions) []Entry {
	return Filter(s.All(), opts, time.Now())
}

// Prune removes entries created before now-olderThan and rewrites the
// persisted history. It returns the number removed.
func (s *Store) Prune(olderThan time.Duration) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, ErrStoreClosed
	}

	cutoff := time.Now().Add(-olderThan)
	kept := make([]Entry, 0, len(s.entries))
	for _, e := range s.entries {
		if !e.CreatedAt.Before(cutoff) {
			kept = append(kept, e)
		}
	}
	removed := len(s.entries) - len(kept)
	if removed == 0 {
		return 0, nil
	}

	if s.persistence != nil {
		if err := s.persistence.Rewrite(kept); err != nil {
			return 0, err
		}
	}

	s.entries = kept
	s.index = make(map[string]int, len(kept))
	for i, e := range kept {
		s.index[e.ID] = i
	}
	return removed, nil
}

// Close closes the persistence. It is safe to call more than once.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	if s.persistence != nil {
		return s.persistence.Close()
	}
	return nil
}
