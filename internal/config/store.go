package config

import (
	"sync"
)

// Store holds the active archetype catalog.
// Safe for concurrent use: the watcher swaps catalogs while spawners read them.
type Store struct {
	mu      sync.RWMutex
	catalog Catalog
	version uint64
}

// NewStore creates a store with the given catalog.
func NewStore(catalog Catalog) *Store {
	return &Store{catalog: catalog, version: 1}
}

// Archetype returns a copy of the named archetype.
func (s *Store) Archetype(name string) (Archetype, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.catalog[name]
	return a, ok
}

// Replace swaps in a new catalog and bumps the version.
func (s *Store) Replace(catalog Catalog) {
	s.mu.Lock()
	s.catalog = catalog
	s.version++
	s.mu.Unlock()
}

// Names returns archetype names of the active catalog.
func (s *Store) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.catalog.Names()
}

// Version increments on every Replace.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}
