// Package service implements the researcher registry and the rate-limit
// tunables the authority controls.
package service

import (
	"context"
	"log/slog"

	govmodels "consentgate/internal/governance/models"
	id "consentgate/pkg/domain"
	dErrors "consentgate/pkg/domain-errors"
	"consentgate/pkg/platform/tx"
	"consentgate/pkg/requestcontext"
)

// Store persists verification flags. Unknown researchers are unverified.
type Store interface {
	IsVerified(ctx context.Context, researcher id.Identity) (bool, error)
	SetVerified(ctx context.Context, researcher id.Identity) error
}

// SettingsStore is the governance settings surface the registry needs.
type SettingsStore interface {
	Lock(ctx context.Context) (*govmodels.Settings, error)
	Save(ctx context.Context, settings *govmodels.Settings) error
}

// Service is the researcher registry.
type Service struct {
	store    Store
	settings SettingsStore
	tx       tx.Runner
	logger   *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func New(store Store, settings SettingsStore, runner tx.Runner, opts ...Option) *Service {
	s := &Service{
		store:    store,
		settings: settings,
		tx:       runner,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// VerifyResearcher marks researcher as verified. Authority only; verifying
// twice is a no-op. Verification is never withdrawn.
func (s *Service) VerifyResearcher(ctx context.Context, caller, researcher id.Identity) error {
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := s.requireAuthority(ctx, caller, "only the authority may verify researchers"); err != nil {
			return err
		}
		if researcher.IsNull() {
			return dErrors.New(dErrors.CodeInvalidResearcher, "researcher must not be the null identity")
		}
		if err := s.store.SetVerified(ctx, researcher); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save researcher verification")
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "researcher verified",
		"researcher", researcher,
		"request_id", requestcontext.RequestID(ctx),
	)
	return nil
}

func (s *Service) IsVerified(ctx context.Context, researcher id.Identity) (bool, error) {
	ok, err := s.store.IsVerified(ctx, researcher)
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read researcher verification")
	}
	return ok, nil
}

// SetAccessLimitPerCycle replaces the per-researcher admission limit.
func (s *Service) SetAccessLimitPerCycle(ctx context.Context, caller id.Identity, limit uint64) error {
	return s.updateTunable(ctx, caller, "access_limit_per_cycle", limit, func(settings *govmodels.Settings) {
		settings.AccessLimitPerCycle = limit
	})
}

// SetCycleDuration replaces the cycle length in blocks. Existing counters
// are not migrated; the next admission computes its cycle with the new length.
func (s *Service) SetCycleDuration(ctx context.Context, caller id.Identity, duration uint64) error {
	return s.updateTunable(ctx, caller, "cycle_duration", duration, func(settings *govmodels.Settings) {
		settings.CycleDuration = duration
	})
}

func (s *Service) updateTunable(ctx context.Context, caller id.Identity, name string, value uint64, apply func(*govmodels.Settings)) error {
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		settings, err := s.requireAuthority(ctx, caller, "only the authority may change "+name)
		if err != nil {
			return err
		}
		if !govmodels.ValidTunable(value) {
			return dErrors.New(dErrors.CodeInvalidParameter, name+" must be greater than zero")
		}
		apply(settings)
		if err := s.settings.Save(ctx, settings); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save settings")
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "rate limit tunable updated",
		name, value,
		"request_id", requestcontext.RequestID(ctx),
	)
	return nil
}

func (s *Service) requireAuthority(ctx context.Context, caller id.Identity, msg string) (*govmodels.Settings, error) {
	settings, err := s.settings.Lock(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "ledger settings unavailable")
	}
	if !settings.IsAuthority(caller) {
		return nil, dErrors.New(dErrors.CodeNotAuthorized, msg)
	}
	return settings, nil
}
