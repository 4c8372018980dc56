// Package governance owns the ledger's authority and tunables.
package governance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"consentgate/internal/governance/models"
	"consentgate/internal/governance/store"
	dErrors "consentgate/pkg/domain-errors"
	"consentgate/pkg/platform/sentinel"
	"consentgate/pkg/platform/tx"
)

// Seed writes defaults on first start and assigns a configured authority if
// none is set yet. Existing tunables are never overwritten. Defaults are held
// to the same rules as the authority's setters, so a bad config fails startup
// instead of locking the ledger.
func Seed(ctx context.Context, runner tx.Runner, st store.Store, defaults models.Settings, logger *slog.Logger) (*models.Settings, error) {
	if err := checkDefaults(defaults); err != nil {
		return nil, fmt.Errorf("seed ledger settings: %w", err)
	}

	var out *models.Settings
	err := runner.RunInTx(ctx, func(ctx context.Context) error {
		current, err := st.Lock(ctx)
		switch {
		case errors.Is(err, sentinel.ErrNotFound):
			current = &defaults
			logger.InfoContext(ctx, "seeding ledger settings",
				"max_consents", defaults.MaxConsents,
				"access_limit_per_cycle", defaults.AccessLimitPerCycle,
				"cycle_duration", defaults.CycleDuration,
			)
		case err != nil:
			return err
		case !current.HasAuthority() && defaults.HasAuthority():
			current.Authority = defaults.Authority
		default:
			out = current
			return nil
		}

		if current.HasAuthority() {
			logger.InfoContext(ctx, "ledger authority assigned", "authority", current.Authority)
		}
		if err := st.Save(ctx, current); err != nil {
			return err
		}
		out = current
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("seed ledger settings: %w", err)
	}
	return out, nil
}

func checkDefaults(defaults models.Settings) error {
	if defaults.HasAuthority() && defaults.Authority.IsNull() {
		return dErrors.New(dErrors.CodeInvalidResearcher, "authority must not be the null identity")
	}
	tunables := []struct {
		name  string
		value uint64
	}{
		{"max_consents", defaults.MaxConsents},
		{"access_limit_per_cycle", defaults.AccessLimitPerCycle},
		{"cycle_duration", defaults.CycleDuration},
	}
	for _, t := range tunables {
		if !models.ValidTunable(t.value) {
			return dErrors.New(dErrors.CodeInvalidParameter, t.name+" must be greater than zero")
		}
	}
	return nil
}
