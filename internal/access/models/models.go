// Package models holds the access log types.
package models

import (
	id "consentgate/pkg/domain"
)

// AccessLogEntry is one granted access. Entries are immutable and numbered
// from zero by a process-wide counter that is never reused.
type AccessLogEntry struct {
	LogID      id.LogID
	DataID     id.DataID
	Researcher id.Identity
	Patient    id.Identity
	AccessType id.AccessType
	// Timestamp is the ledger height at which access was granted.
	Timestamp id.Height
}
