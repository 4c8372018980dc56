// Package models holds the rate limiter's cycle arithmetic.
package models

import (
	govmodels "consentgate/internal/governance/models"
	id "consentgate/pkg/domain"
)

// Window is the accounting window researchers are counted against. Cycles
// are numbered from Start in steps of Duration blocks.
type Window struct {
	Start    id.Height
	Duration uint64
}

// WindowFrom reads the window out of the governance settings.
func WindowFrom(settings *govmodels.Settings) Window {
	return Window{Start: settings.CycleStartHeight, Duration: settings.CycleDuration}
}

// CycleAt returns the cycle index at height h. Heights before Start, and a
// zero Duration, both fall in cycle 0.
func (w Window) CycleAt(h id.Height) uint64 {
	if h < w.Start || w.Duration == 0 {
		return 0
	}
	return uint64(h-w.Start) / w.Duration
}

// Rollover re-stamps Start to h while h is still in cycle 0. Once cycle 1
// has been reached Start never moves again, so the cycle index grows without
// bound instead of sliding. changed is false when nothing would be written.
func (w Window) Rollover(h id.Height) (next Window, changed bool) {
	if w.CycleAt(h) != 0 || w.Start == h {
		return w, false
	}
	w.Start = h
	return w, true
}

// ResearcherAccessCount is the number of admissions of one researcher in one
// cycle. Counts are never decremented; a new cycle starts from zero.
type ResearcherAccessCount struct {
	Researcher id.Identity
	Cycle      uint64
	Count      uint64
}
