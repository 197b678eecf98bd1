package catalog

import (
	"sync"

	"mediacatalog/searchservice/internal/domain"
)

// Store is a set of media records keyed by their canonical value identity.
// It assumes a single writer with any number of concurrent readers; the lock
// only keeps reads consistent while a mutation is applied, it does not make
// multi-writer mutation a supported mode.
//
// Every mutating call bumps the generation counter, which is what invalidates
// title-match cache entries scoped to this store: cached matches carry the
// generation they were computed against and are dropped on mismatch.
type Store struct {
	mu         sync.RWMutex
	items      map[string]domain.Media
	generation uint64
}

func NewStore() *Store {
	return &Store{items: make(map[string]domain.Media)}
}

// Add inserts the record and reports whether it was not already present.
// Adding a value-equal duplicate is a no-op for the set, but still counts as
// a mutation for cache purposes.
func (s *Store) Add(media domain.Media) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	key := media.Key()
	if _, exists := s.items[key]; exists {
		return false
	}
	s.items[key] = media
	return true
}

func (s *Store) AddAll(items []domain.Media) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	added := 0
	for _, media := range items {
		key := media.Key()
		if _, exists := s.items[key]; exists {
			continue
		}
		s.items[key] = media
		added++
	}
	return added
}

func (s *Store) Remove(media domain.Media) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	key := media.Key()
	if _, exists := s.items[key]; !exists {
		return false
	}
	delete(s.items, key)
	return true
}

func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	s.items = make(map[string]domain.Media)
}

// BulkLoad replaces the whole contents with the given batch.
func (s *Store) BulkLoad(items []domain.Media) {
	replacement := make(map[string]domain.Media, len(items))
	for _, media := range items {
		replacement[media.Key()] = media
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	s.items = replacement
}

func (s *Store) Contains(media domain.Media) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, exists := s.items[media.Key()]
	return exists
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// All returns a copy of the contents in unspecified order.
func (s *Store) All() []domain.Media {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]domain.Media, 0, len(s.items))
	for _, media := range s.items {
		items = append(items, media)
	}
	return items
}

func (s *Store) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}

// Snapshot returns the contents and the generation they belong to under one
// lock acquisition, so a ranking pass sees a consistent pair.
func (s *Store) Snapshot() ([]domain.Media, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]domain.Media, 0, len(s.items))
	for _, media := range s.items {
		items = append(items, media)
	}
	return items, s.generation
}
