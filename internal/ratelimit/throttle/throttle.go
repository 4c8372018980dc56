// Package throttle bounds HTTP request rates per client. It is separate from
// the ledger's per-researcher access cycles, which count admissions rather
// than requests.
package throttle

import (
	"context"
	"time"
)

// Result is the outcome of one throttle check.
type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// RetryAfter is the whole number of seconds until the window frees a slot.
func (r *Result) RetryAfter(now time.Time) int {
	secs := int(r.ResetAt.Sub(now).Seconds())
	if secs < 1 {
		return 1
	}
	return secs
}

// Store counts requests in a sliding window.
type Store interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (*Result, error)
}
