package ports

import (
	"context"

	id "consentgate/pkg/domain"
)

// ConsentPort checks the consent ledger. A returned error means the check
// itself failed, not that consent is missing.
type ConsentPort interface {
	CheckConsent(ctx context.Context, patient id.Identity, dataID id.DataID, researcher id.Identity) (bool, error)
}
