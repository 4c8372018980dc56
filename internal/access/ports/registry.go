package ports

import (
	"context"

	id "consentgate/pkg/domain"
)

// DataRegistryPort looks up the owner and state of a data record.
// Implementations return sentinel.ErrNotFound for unknown ids; every other
// error is a lookup failure. The orchestrator reports both as DataNotFound
// and never retries.
type DataRegistryPort interface {
	GetRecord(ctx context.Context, dataID id.DataID) (*DataRecord, error)
}

// DataRecord is the port model of a registry record.
type DataRecord struct {
	Owner  id.Identity
	Active bool
}

// ResearcherPort answers whether a researcher is verified.
type ResearcherPort interface {
	IsVerified(ctx context.Context, researcher id.Identity) (bool, error)
}
