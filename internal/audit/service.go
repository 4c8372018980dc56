// Package audit serves the compliance audit trail to the ledger authority.
package audit

import (
	"context"
	"log/slog"

	govmodels "consentgate/internal/governance/models"
	id "consentgate/pkg/domain"
	dErrors "consentgate/pkg/domain-errors"
	"consentgate/pkg/platform/audit"
)

const (
	defaultLimit = 50
	maxLimit     = 500
)

// Reader lists recorded events newest first.
type Reader interface {
	ListByPatient(ctx context.Context, patient id.Identity, limit int) ([]audit.Event, error)
	ListRecent(ctx context.Context, limit int) ([]audit.Event, error)
}

type SettingsReader interface {
	Get(ctx context.Context) (*govmodels.Settings, error)
}

// Service reads the audit trail. It is read-only; events are written by the
// compliance publisher inside ledger transactions.
type Service struct {
	reader   Reader
	settings SettingsReader
	logger   *slog.Logger
}

func NewService(reader Reader, settings SettingsReader, logger *slog.Logger) *Service {
	return &Service{reader: reader, settings: settings, logger: logger}
}

// List returns up to limit events, filtered to patient when it is set.
// Authority only. A non-positive limit uses the default; larger values are
// capped.
func (s *Service) List(ctx context.Context, caller, patient id.Identity, limit int) ([]audit.Event, error) {
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "ledger settings unavailable")
	}
	if !settings.IsAuthority(caller) {
		return nil, dErrors.New(dErrors.CodeNotAuthorized, "only the authority may read the audit trail")
	}

	switch {
	case limit <= 0:
		limit = defaultLimit
	case limit > maxLimit:
		limit = maxLimit
	}

	var events []audit.Event
	if patient != "" {
		events, err = s.reader.ListByPatient(ctx, patient, limit)
	} else {
		events, err = s.reader.ListRecent(ctx, limit)
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read audit trail")
	}
	return events, nil
}
