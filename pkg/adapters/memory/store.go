package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/aretw0/gensyn/pkg/domain"
)

// Store implements ports.PatchStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]*domain.Snapshot
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*domain.Snapshot),
	}
}

// NewFromSnapshots creates a store preloaded with patches, keyed by ID.
func NewFromSnapshots(patches map[string]*domain.Snapshot) *Store {
	s := NewStore()
	for id, snap := range patches {
		s.data[id] = snap.Clone()
	}
	return s
}

// Save persists the snapshot in memory.
func (s *Store) Save(ctx context.Context, id string, snap *domain.Snapshot) error {
	// Deep copy to ensure isolation, similar to serialization
	copied := snap.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[id] = copied
	return nil
}

// Load retrieves the snapshot from memory.
func (s *Store) Load(ctx context.Context, id string) (*domain.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, ok := s.data[id]
	if !ok {
		return nil, domain.ErrPatchNotFound
	}

	// Copy on read so the caller can't mutate the stored patch by pointer
	return snap.Clone(), nil
}

// Delete removes the patch.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, id)
	return nil
}

// List returns the stored patch IDs, sorted.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.data))
	for id := range s.data {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}
