package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"consentgate/internal/governance/models"
	id "consentgate/pkg/domain"
	"consentgate/pkg/platform/sentinel"
	txcontext "consentgate/pkg/platform/tx"
)

// PostgresStore persists settings in the single-row ledger_settings table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const selectSettings = `
	SELECT authority, max_consents, access_limit_per_cycle, cycle_duration, cycle_start_height
	FROM ledger_settings
	WHERE id = 1
`

func (s *PostgresStore) Get(ctx context.Context) (*models.Settings, error) {
	return s.read(ctx, selectSettings)
}

func (s *PostgresStore) Lock(ctx context.Context) (*models.Settings, error) {
	return s.read(ctx, selectSettings+" FOR UPDATE")
}

func (s *PostgresStore) read(ctx context.Context, query string) (*models.Settings, error) {
	var (
		authority                    string
		maxConsents, limit, duration int64
		cycleStart                   int64
	)
	err := txcontext.ExecutorFrom(ctx, s.db).QueryRowContext(ctx, query).
		Scan(&authority, &maxConsents, &limit, &duration, &cycleStart)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("read ledger settings: %w", err)
	}
	return &models.Settings{
		Authority:           id.Identity(authority),
		MaxConsents:         uint64(maxConsents),
		AccessLimitPerCycle: uint64(limit),
		CycleDuration:       uint64(duration),
		CycleStartHeight:    id.Height(cycleStart),
	}, nil
}

func (s *PostgresStore) Save(ctx context.Context, settings *models.Settings) error {
	query := `
		INSERT INTO ledger_settings (id, authority, max_consents, access_limit_per_cycle, cycle_duration, cycle_start_height)
		VALUES (1, $1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			authority = EXCLUDED.authority,
			max_consents = EXCLUDED.max_consents,
			access_limit_per_cycle = EXCLUDED.access_limit_per_cycle,
			cycle_duration = EXCLUDED.cycle_duration,
			cycle_start_height = EXCLUDED.cycle_start_height
	`
	_, err := txcontext.ExecutorFrom(ctx, s.db).ExecContext(ctx, query,
		string(settings.Authority),
		int64(settings.MaxConsents),
		int64(settings.AccessLimitPerCycle),
		int64(settings.CycleDuration),
		int64(settings.CycleStartHeight),
	)
	if err != nil {
		return fmt.Errorf("save ledger settings: %w", err)
	}
	return nil
}
