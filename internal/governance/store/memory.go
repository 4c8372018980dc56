package store

import (
	"context"
	"sync"

	"consentgate/internal/governance/models"
	"consentgate/pkg/platform/sentinel"
)

// InMemoryStore keeps the settings in process. Write serialization comes from
// tx.MemoryRunner, so Lock is a plain read here.
type InMemoryStore struct {
	mu       sync.RWMutex
	settings *models.Settings
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Get(_ context.Context) (*models.Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.settings == nil {
		return nil, sentinel.ErrNotFound
	}
	cp := *s.settings
	return &cp, nil
}

func (s *InMemoryStore) Lock(ctx context.Context) (*models.Settings, error) {
	return s.Get(ctx)
}

func (s *InMemoryStore) Save(_ context.Context, settings *models.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *settings
	s.settings = &cp
	return nil
}
