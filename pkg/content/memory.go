package content

import (
	"context"
	"fmt"
	"slices"
	"sync"
)

// MemoryStore keeps entries in memory, in insertion order.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[Collection][]Entry
}

// NewMemoryStore creates a store seeded with the given entries.
func NewMemoryStore(entries ...Entry) *MemoryStore {
	s := &MemoryStore{entries: make(map[Collection][]Entry)}
	for _, e := range entries {
		s.entries[e.Collection] = append(s.entries[e.Collection], e)
	}
	return s
}

// Add appends an entry to its collection.
func (s *MemoryStore) Add(e Entry) error {
	if !e.Collection.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownCollection, e.Collection)
	}
	if err := ValidateSlug(e.Slug); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[e.Collection] = append(s.entries[e.Collection], e)
	return nil
}

// Fetch returns a copy of the collection's entries.
func (s *MemoryStore) Fetch(ctx context.Context, c Collection) ([]Entry, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCollection, c)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.entries[c]), nil
}
