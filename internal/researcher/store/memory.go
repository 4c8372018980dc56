// Package store persists the set of verified researchers.
package store

import (
	"context"
	"sync"

	id "consentgate/pkg/domain"
)

// InMemoryStore keeps verified researchers in a set.
type InMemoryStore struct {
	mu       sync.RWMutex
	verified map[id.Identity]struct{}
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{verified: make(map[id.Identity]struct{})}
}

func (s *InMemoryStore) IsVerified(_ context.Context, researcher id.Identity) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.verified[researcher]
	return ok, nil
}

func (s *InMemoryStore) SetVerified(_ context.Context, researcher id.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.verified[researcher] = struct{}{}
	return nil
}
