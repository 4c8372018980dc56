package tx

import (
	"context"
	"sync"
	"time"

	dErrors "consentgate/pkg/domain-errors"
)

// defaultTxTimeout is the maximum duration for a ledger transaction.
const defaultTxTimeout = 5 * time.Second

type inMemoryTxKey struct{}

// MemoryRunner serializes ledger operations for the in-memory stores.
//
// A single lock covers the whole ledger: every access grant bumps the
// process-wide log counter, so per-key sharding would not buy concurrency
// for the hot path. Nested RunInTx calls on the same context re-enter
// without locking.
//
// The in-memory stores cannot roll back. Services therefore perform every
// check before their first write; the runner only provides isolation.
type MemoryRunner struct {
	mu      sync.Mutex
	timeout time.Duration
}

// NewMemoryRunner creates a runner; a zero timeout uses the default.
func NewMemoryRunner(timeout time.Duration) *MemoryRunner {
	return &MemoryRunner{timeout: timeout}
}

func (r *MemoryRunner) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if owner, ok := ctx.Value(inMemoryTxKey{}).(*MemoryRunner); ok && owner == r {
		return fn(ctx)
	}

	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	timeout := r.timeout
	if timeout == 0 {
		timeout = defaultTxTimeout
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Check again after acquiring lock
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	return fn(context.WithValue(ctx, inMemoryTxKey{}, r))
}
