package handler

import (
	"strings"

	dErrors "consentgate/pkg/domain-errors"
)

// AccessRequest is the HTTP request body for POST /access.
type AccessRequest struct {
	DataID     *uint64 `json:"data_id"`
	AccessType string  `json:"access_type"`
}

// Validate checks presence only. The access type is validated by the
// orchestrator after verification and rate limiting, so a bad value is
// reported in that order.
func (r *AccessRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if r.DataID == nil {
		return dErrors.New(dErrors.CodeValidation, "data_id is required")
	}
	r.AccessType = strings.TrimSpace(r.AccessType)
	return nil
}
