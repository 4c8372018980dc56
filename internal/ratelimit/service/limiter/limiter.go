// Package limiter implements per-researcher, per-cycle access accounting.
//
// The limiter never writes on its own: the access orchestrator stages a
// rollover, checks admission, and only commits the window and increments
// the count once every other check has passed.
package limiter

import (
	"context"
	"log/slog"

	govmodels "consentgate/internal/governance/models"
	"consentgate/internal/height"
	"consentgate/internal/ratelimit/metrics"
	"consentgate/internal/ratelimit/models"
	id "consentgate/pkg/domain"
	dErrors "consentgate/pkg/domain-errors"
)

// CountStore persists admission counts. Missing keys read as zero.
type CountStore interface {
	GetCount(ctx context.Context, researcher id.Identity, cycle uint64) (uint64, error)
	Increment(ctx context.Context, researcher id.Identity, cycle uint64) (uint64, error)
}

// SettingsStore is the governance settings surface the limiter needs.
type SettingsStore interface {
	Get(ctx context.Context) (*govmodels.Settings, error)
	Save(ctx context.Context, settings *govmodels.Settings) error
}

type Limiter struct {
	counts   CountStore
	settings SettingsStore
	height   height.Source
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

type Option func(*Limiter)

func WithLogger(logger *slog.Logger) Option {
	return func(l *Limiter) {
		l.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(l *Limiter) {
		l.metrics = m
	}
}

func New(counts CountStore, settings SettingsStore, clock height.Source, opts ...Option) *Limiter {
	l := &Limiter{
		counts:   counts,
		settings: settings,
		height:   clock,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// CurrentCycle returns the cycle index at the current height against the
// stored window. It does not roll over.
func (l *Limiter) CurrentCycle(ctx context.Context) (uint64, error) {
	h, err := height.Read(ctx, l.height)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read ledger height")
	}
	settings, err := l.settings.Get(ctx)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "ledger settings unavailable")
	}
	return models.WindowFrom(settings).CycleAt(h), nil
}

// CountFor returns researcher's admissions in the current cycle.
func (l *Limiter) CountFor(ctx context.Context, researcher id.Identity) (uint64, error) {
	cycle, err := l.CurrentCycle(ctx)
	if err != nil {
		return 0, err
	}
	return l.CountAt(ctx, researcher, cycle)
}

// CountAt returns researcher's admissions in cycle.
func (l *Limiter) CountAt(ctx context.Context, researcher id.Identity, cycle uint64) (uint64, error) {
	count, err := l.counts.GetCount(ctx, researcher, cycle)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read access count")
	}
	return count, nil
}

// Rollover stages the cycle bookkeeping for height h. Nothing is written;
// pass the result to CommitWindow once the request is admitted.
func (l *Limiter) Rollover(settings *govmodels.Settings, h id.Height) (models.Window, bool) {
	return models.WindowFrom(settings).Rollover(h)
}

// Admit reports whether a researcher with count prior admissions may be
// admitted again. The bound is inclusive, so limit+1 admissions fit in one
// cycle.
func (l *Limiter) Admit(count, limit uint64) bool {
	return count <= limit
}

// Decide combines Admit with metrics for the orchestrator's hot path.
func (l *Limiter) Decide(count, limit, cycle uint64) bool {
	allowed := l.Admit(count, limit)
	l.metrics.ObserveAdmission(allowed, cycle)
	return allowed
}

// Increment records one admission for (researcher, cycle).
func (l *Limiter) Increment(ctx context.Context, researcher id.Identity, cycle uint64) error {
	if _, err := l.counts.Increment(ctx, researcher, cycle); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to increment access count")
	}
	return nil
}

// CommitWindow persists a staged rollover into settings. settings must be
// the copy read under the ledger lock in the same transaction.
func (l *Limiter) CommitWindow(ctx context.Context, settings *govmodels.Settings, window models.Window) error {
	prev := settings.CycleStartHeight
	settings.CycleStartHeight = window.Start
	if err := l.settings.Save(ctx, settings); err != nil {
		settings.CycleStartHeight = prev
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save cycle start")
	}
	l.metrics.IncrementRollovers()
	l.logger.DebugContext(ctx, "cycle start re-stamped",
		"previous_start", prev,
		"cycle_start", window.Start,
	)
	return nil
}
