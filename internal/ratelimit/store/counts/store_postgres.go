package counts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	id "consentgate/pkg/domain"
	txcontext "consentgate/pkg/platform/tx"
)

// PostgresCountStore persists counts in researcher_access_counts.
type PostgresCountStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresCountStore {
	return &PostgresCountStore{db: db}
}

func (s *PostgresCountStore) GetCount(ctx context.Context, researcher id.Identity, cycle uint64) (uint64, error) {
	var count int64
	err := txcontext.ExecutorFrom(ctx, s.db).QueryRowContext(ctx,
		`SELECT count FROM researcher_access_counts WHERE researcher = $1 AND cycle = $2`,
		string(researcher), int64(cycle)).Scan(&count)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read access count: %w", err)
	}
	return uint64(count), nil
}

// Increment bumps the (researcher, cycle) row in one statement and returns
// the new count. The upsert takes the row lock, so concurrent increments
// outside a ledger transaction still never lose an update.
func (s *PostgresCountStore) Increment(ctx context.Context, researcher id.Identity, cycle uint64) (uint64, error) {
	var count int64
	err := txcontext.ExecutorFrom(ctx, s.db).QueryRowContext(ctx, `
		INSERT INTO researcher_access_counts (researcher, cycle, count)
		VALUES ($1, $2, 1)
		ON CONFLICT (researcher, cycle) DO UPDATE
			SET count = researcher_access_counts.count + 1
		RETURNING count
	`, string(researcher), int64(cycle)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("increment access count: %w", err)
	}
	return uint64(count), nil
}
