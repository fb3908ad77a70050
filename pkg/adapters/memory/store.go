// Package memory provides process-local implementations of the persistence
// ports. Threads live only as long as the process; use the redis adapter when
// history must survive restarts or span replicas.
package memory

import (
	"context"
	"sync"

	"github.com/aretw0/voyant/pkg/domain"
)

// Store implements ports.HistoryStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]*domain.Thread
	mu   sync.RWMutex
}

// New creates a new in-memory history store.
func New() *Store {
	return &Store{
		data: make(map[string]*domain.Thread),
	}
}

// Save persists the thread in memory. The stored copy is deep, so later
// mutations by the caller do not leak into the store.
func (s *Store) Save(ctx context.Context, thread *domain.Thread) error {
	cp := thread.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[thread.ID] = cp
	return nil
}

// Load retrieves a thread copy from memory.
func (s *Store) Load(ctx context.Context, threadID string) (*domain.Thread, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	thread, ok := s.data[threadID]
	if !ok {
		return nil, domain.ErrThreadNotFound
	}
	return thread.Clone(), nil
}

// Delete removes the thread.
func (s *Store) Delete(ctx context.Context, threadID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, threadID)
	return nil
}

// List returns the IDs of all stored threads.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.data))
	for id := range s.data {
		ids = append(ids, id)
	}
	return ids, nil
}
