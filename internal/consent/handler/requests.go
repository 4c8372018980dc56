package handler

import (
	"strings"

	id "consentgate/pkg/domain"
)

// SetConsentRequest is the body of POST /consents. Range checks on the
// values are left to the ledger so rejections keep their documented order.
type SetConsentRequest struct {
	DataID     uint64 `json:"data_id"`
	Researcher string `json:"researcher"`
	Duration   uint64 `json:"duration"`
	AccessType string `json:"access_type"`
}

// Validate rejects malformed identities. An empty researcher passes through
// as the null identity.
func (r *SetConsentRequest) Validate() error {
	r.Researcher = strings.TrimSpace(r.Researcher)
	r.AccessType = strings.TrimSpace(r.AccessType)
	return validateOptionalIdentity(r.Researcher)
}

// RevokeConsentRequest is the body of POST /consents/{dataID}/revoke.
type RevokeConsentRequest struct {
	Researcher string `json:"researcher"`
}

func (r *RevokeConsentRequest) Validate() error {
	r.Researcher = strings.TrimSpace(r.Researcher)
	return validateOptionalIdentity(r.Researcher)
}

func validateOptionalIdentity(s string) error {
	if s == "" {
		return nil
	}
	_, err := id.ParseIdentity(s)
	return err
}
