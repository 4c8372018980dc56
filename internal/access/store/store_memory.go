// Package store persists the append-only access log and its counter.
package store

import (
	"context"
	"fmt"
	"sync"

	"consentgate/internal/access/models"
	id "consentgate/pkg/domain"
	"consentgate/pkg/platform/sentinel"
)

// InMemoryStore keeps the log in a slice indexed by LogID.
type InMemoryStore struct {
	mu      sync.RWMutex
	entries []models.AccessLogEntry
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{}
}

// NextLogID returns the id the next appended entry must carry.
func (s *InMemoryStore) NextLogID(_ context.Context) (id.LogID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return id.LogID(len(s.entries)), nil
}

// Append writes entry and advances the counter. entry.LogID must equal the
// current NextLogID, otherwise sentinel.ErrConflict is returned.
func (s *InMemoryStore) Append(_ context.Context, entry *models.AccessLogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if next := id.LogID(len(s.entries)); entry.LogID != next {
		return fmt.Errorf("append log %d, expected %d: %w", entry.LogID, next, sentinel.ErrConflict)
	}
	s.entries = append(s.entries, *entry)
	return nil
}

// Get returns sentinel.ErrNotFound for ids never issued.
func (s *InMemoryStore) Get(_ context.Context, logID id.LogID) (*models.AccessLogEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if uint64(logID) >= uint64(len(s.entries)) {
		return nil, sentinel.ErrNotFound
	}
	entry := s.entries[logID]
	return &entry, nil
}

func (s *InMemoryStore) Total(_ context.Context) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return uint64(len(s.entries)), nil
}
