// Package dataregistry is the client side of the external data registry,
// which owns the canonical {dataID -> owner, active} records.
package dataregistry

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	id "consentgate/pkg/domain"
	"consentgate/pkg/platform/sentinel"
)

// Record is the registry's view of one data record.
type Record struct {
	Owner  id.Identity `json:"owner"`
	Active bool        `json:"active"`
}

// Client looks records up. Unknown ids return sentinel.ErrNotFound.
type Client interface {
	GetRecord(ctx context.Context, dataID id.DataID) (Record, error)
}

var (
	_ Client = (*InMemory)(nil)
	_ Client = (*HTTPClient)(nil)
)

// InMemory is a seeded registry for development and tests.
type InMemory struct {
	mu      sync.RWMutex
	records map[id.DataID]Record
}

func NewInMemory() *InMemory {
	return &InMemory{records: make(map[id.DataID]Record)}
}

// GetRecord returns sentinel.ErrNotFound for unknown ids.
func (r *InMemory) GetRecord(_ context.Context, dataID id.DataID) (Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.records[dataID]
	if !ok {
		return Record{}, sentinel.ErrNotFound
	}
	return rec, nil
}

// Put registers or replaces a record.
func (r *InMemory) Put(dataID id.DataID, rec Record) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[dataID] = rec
}

// SetActive flips the active flag of an existing record.
func (r *InMemory) SetActive(dataID id.DataID, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[dataID]
	if !ok {
		return sentinel.ErrNotFound
	}
	rec.Active = active
	r.records[dataID] = rec
	return nil
}

// seedEntry is one element of a seed file:
//
//	[{"data_id": 1, "owner": "ST1PATIENT", "active": true}]
type seedEntry struct {
	DataID uint64 `json:"data_id"`
	Owner  string `json:"owner"`
	Active bool   `json:"active"`
}

// LoadSeedFile reads a JSON seed file into r.
func (r *InMemory) LoadSeedFile(path string) (int, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read data registry seed: %w", err)
	}
	var entries []seedEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return 0, fmt.Errorf("decode data registry seed: %w", err)
	}
	for i, e := range entries {
		owner, err := id.ParseIdentity(e.Owner)
		if err != nil {
			return 0, fmt.Errorf("seed entry %d: %w", i, err)
		}
		if e.DataID == 0 {
			return 0, fmt.Errorf("seed entry %d: data_id must be greater than zero", i)
		}
		r.Put(id.DataID(e.DataID), Record{Owner: owner, Active: e.Active})
	}
	return len(entries), nil
}
