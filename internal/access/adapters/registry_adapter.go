package adapters

import (
	"context"

	"consentgate/internal/access/ports"
	"consentgate/internal/dataregistry"
	researcherService "consentgate/internal/researcher/service"
	id "consentgate/pkg/domain"
)

// DataRegistryClient is satisfied by dataregistry.InMemory and
// dataregistry.HTTPClient.
type DataRegistryClient interface {
	GetRecord(ctx context.Context, dataID id.DataID) (dataregistry.Record, error)
}

// DataRegistryAdapter implements ports.DataRegistryPort over either data
// registry client. When the registry moves behind another transport only
// this adapter changes.
type DataRegistryAdapter struct {
	client DataRegistryClient
}

// NewDataRegistryAdapter creates a new data registry adapter.
func NewDataRegistryAdapter(client DataRegistryClient) ports.DataRegistryPort {
	return &DataRegistryAdapter{client: client}
}

func (a *DataRegistryAdapter) GetRecord(ctx context.Context, dataID id.DataID) (*ports.DataRecord, error) {
	record, err := a.client.GetRecord(ctx, dataID)
	if err != nil {
		return nil, err
	}
	return &ports.DataRecord{
		Owner:  record.Owner,
		Active: record.Active,
	}, nil
}

// ResearcherAdapter is an in-process adapter that implements
// ports.ResearcherPort by calling the researcher registry.
type ResearcherAdapter struct {
	registry *researcherService.Service
}

func NewResearcherAdapter(registry *researcherService.Service) ports.ResearcherPort {
	return &ResearcherAdapter{registry: registry}
}

func (a *ResearcherAdapter) IsVerified(ctx context.Context, researcher id.Identity) (bool, error) {
	return a.registry.IsVerified(ctx, researcher)
}
