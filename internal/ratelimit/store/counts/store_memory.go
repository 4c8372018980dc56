// Package counts persists per-researcher, per-cycle admission counts.
package counts

import (
	"context"
	"sync"

	id "consentgate/pkg/domain"
)

type countKey struct {
	researcher id.Identity
	cycle      uint64
}

// InMemoryCountStore keeps counts in a map. Old cycles are never pruned.
type InMemoryCountStore struct {
	mu     sync.RWMutex
	counts map[countKey]uint64
}

func NewInMemory() *InMemoryCountStore {
	return &InMemoryCountStore{counts: make(map[countKey]uint64)}
}

func (s *InMemoryCountStore) GetCount(_ context.Context, researcher id.Identity, cycle uint64) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.counts[countKey{researcher, cycle}], nil
}

func (s *InMemoryCountStore) Increment(_ context.Context, researcher id.Identity, cycle uint64) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := countKey{researcher, cycle}
	s.counts[key]++
	return s.counts[key], nil
}
