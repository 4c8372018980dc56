// Package height provides the ledger clock: a monotonically non-decreasing
// height read from the host.
package height

import (
	"context"
	"sync"

	id "consentgate/pkg/domain"
)

// Source reports the current host height.
type Source interface {
	CurrentHeight(ctx context.Context) (id.Height, error)
}

type pinnedKey struct{}

// Pin fixes the height for everything downstream of ctx, so one ledger
// operation observes a single height even when it spans several services.
func Pin(ctx context.Context, h id.Height) context.Context {
	return context.WithValue(ctx, pinnedKey{}, h)
}

// Read returns the pinned height if ctx carries one, otherwise asks src.
func Read(ctx context.Context, src Source) (id.Height, error) {
	if h, ok := ctx.Value(pinnedKey{}).(id.Height); ok {
		return h, nil
	}
	return src.CurrentHeight(ctx)
}

// monotonic clamps readings so a source never goes backwards within a process.
type monotonic struct {
	mu   sync.Mutex
	last id.Height
}

func (m *monotonic) observe(h id.Height) id.Height {
	m.mu.Lock()
	defer m.mu.Unlock()
	if h > m.last {
		m.last = h
	}
	return m.last
}

// Driver moves a clock the operator controls.
type Driver interface {
	Source
	Set(ctx context.Context, h id.Height) (id.Height, error)
	Advance(ctx context.Context, n uint64) (id.Height, error)
}

// ManualDriver exposes a Manual clock as a Driver.
func ManualDriver(m *Manual) Driver {
	return manualDriver{m}
}

type manualDriver struct{ *Manual }

func (d manualDriver) Set(_ context.Context, h id.Height) (id.Height, error) {
	return d.Manual.Set(h), nil
}

func (d manualDriver) Advance(_ context.Context, n uint64) (id.Height, error) {
	return d.Manual.Advance(n), nil
}
