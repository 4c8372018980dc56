package models

import (
	id "consentgate/pkg/domain"
)

// Settings is the single mutable governance state of the ledger: who the
// authority is and the tunables it controls. It is owned by the governance
// store and read by the consent ledger, researcher registry and rate limiter
// inside their transactions.
type Settings struct {
	Authority           id.Identity `json:"authority,omitempty"`
	MaxConsents         uint64      `json:"max_consents"`
	AccessLimitPerCycle uint64      `json:"access_limit_per_cycle"`
	CycleDuration       uint64      `json:"cycle_duration"`
	CycleStartHeight    id.Height   `json:"cycle_start_height"`
}

// HasAuthority reports whether the authority was assigned. It can be set once.
func (s *Settings) HasAuthority() bool {
	return s.Authority != ""
}

// IsAuthority reports whether caller is the assigned authority.
func (s *Settings) IsAuthority(caller id.Identity) bool {
	return s.HasAuthority() && caller == s.Authority
}

// ValidTunable reports whether v may be stored as a tunable: positive and
// within the ledger's BIGINT range.
func ValidTunable(v uint64) bool {
	return v > 0 && v <= id.MaxValue
}
