// Package store persists consent records and per-patient consent counts.
package store

import (
	"context"
	"sync"

	"consentgate/internal/consent/models"
	id "consentgate/pkg/domain"
	"consentgate/pkg/platform/sentinel"
)

type recordKey struct {
	patient id.Identity
	dataID  id.DataID
}

// InMemoryStore keeps consents in maps guarded by a RWMutex. Records are
// copied on the way in and out so callers cannot mutate stored state.
type InMemoryStore struct {
	mu      sync.RWMutex
	records map[recordKey]models.ConsentRecord
	counts  map[id.Identity]uint64
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		records: make(map[recordKey]models.ConsentRecord),
		counts:  make(map[id.Identity]uint64),
	}
}

// Get returns sentinel.ErrNotFound when no record exists.
func (s *InMemoryStore) Get(_ context.Context, patient id.Identity, dataID id.DataID) (*models.ConsentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.records[recordKey{patient, dataID}]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &r, nil
}

func (s *InMemoryStore) Save(_ context.Context, record *models.ConsentRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[recordKey{record.Patient, record.DataID}] = *record
	return nil
}

// ListByDataIDs returns the existing records among dataIDs, in input order.
func (s *InMemoryStore) ListByDataIDs(_ context.Context, patient id.Identity, dataIDs []id.DataID) ([]*models.ConsentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.ConsentRecord, 0, len(dataIDs))
	for _, dataID := range dataIDs {
		if r, ok := s.records[recordKey{patient, dataID}]; ok {
			out = append(out, &r)
		}
	}
	return out, nil
}

func (s *InMemoryStore) GetCount(_ context.Context, patient id.Identity) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.counts[patient], nil
}

func (s *InMemoryStore) SaveCount(_ context.Context, patient id.Identity, count uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counts[patient] = count
	return nil
}
