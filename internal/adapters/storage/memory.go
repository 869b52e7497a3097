package storage

import (
	"context"
	"sync"

	"github.com/jsamuelsen/daily-reflections/internal/domain"
)

// MemoryStore is a trivial in-process ports.DocumentStore. It exists for
// tests and local experiments; it offers no durability.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string][]byte)}
}

// Get implements ports.DocumentStore.
func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.docs[key]
	if !ok {
		return nil, domain.NewNotFoundError("document", key)
	}

	out := make([]byte, len(value))
	copy(out, value)

	return out, nil
}

// Put implements ports.DocumentStore.
func (s *MemoryStore) Put(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make([]byte, len(value))
	copy(stored, value)
	s.docs[key] = stored

	return nil
}
