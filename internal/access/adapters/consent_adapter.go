package adapters

import (
	"context"

	"consentgate/internal/access/ports"
	consentService "consentgate/internal/consent/service"
	id "consentgate/pkg/domain"
)

// ConsentAdapter implements ports.ConsentPort by calling the consent service.
// This maintains hexagonal architecture boundaries while keeping
// everything in a single process.
type ConsentAdapter struct {
	consent *consentService.Service
}

// NewConsentAdapter creates a new consent adapter.
func NewConsentAdapter(consent *consentService.Service) ports.ConsentPort {
	return &ConsentAdapter{consent: consent}
}

// CheckConsent runs the ledger check. The ledger reads the height pinned on
// ctx, so the check sees the same height as the surrounding access request.
func (a *ConsentAdapter) CheckConsent(ctx context.Context, patient id.Identity, dataID id.DataID, researcher id.Identity) (bool, error) {
	return a.consent.CheckConsent(ctx, patient, dataID, researcher)
}
