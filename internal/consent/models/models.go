package models

import (
	id "consentgate/pkg/domain"
)

// ConsentRecord is a patient's grant for one data record, keyed by
// (Patient, DataID). Setting consent again overwrites the record; revoking
// flips Allowed and zeroes ExpiryHeight but keeps the key.
type ConsentRecord struct {
	Patient         id.Identity
	DataID          id.DataID
	Researcher      id.Identity
	ExpiryHeight    id.Height
	Allowed         bool
	AccessType      id.AccessType
	GrantedAtHeight id.Height
	UpdatedAtHeight id.Height
	Version         uint64
}

// IsValidAt reports whether the grant authorizes access at height h.
// Expiry is inclusive.
func (r *ConsentRecord) IsValidAt(h id.Height) bool {
	return r != nil && r.Allowed && r.ExpiryHeight >= h
}

// ConsentCount is the number of SetConsent calls a patient has ever made.
// It only grows: revocation does not give a slot back.
type ConsentCount struct {
	Patient id.Identity
	Count   uint64
}
