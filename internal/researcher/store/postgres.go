package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	id "consentgate/pkg/domain"
	txcontext "consentgate/pkg/platform/tx"
)

// PostgresStore persists verification in verified_researchers.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) IsVerified(ctx context.Context, researcher id.Identity) (bool, error) {
	var verified bool
	err := txcontext.ExecutorFrom(ctx, s.db).QueryRowContext(ctx,
		`SELECT verified FROM verified_researchers WHERE researcher = $1`,
		string(researcher)).Scan(&verified)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read researcher verification: %w", err)
	}
	return verified, nil
}

// SetVerified is idempotent; re-verifying keeps the original timestamp.
func (s *PostgresStore) SetVerified(ctx context.Context, researcher id.Identity) error {
	_, err := txcontext.ExecutorFrom(ctx, s.db).ExecContext(ctx, `
		INSERT INTO verified_researchers (researcher, verified)
		VALUES ($1, TRUE)
		ON CONFLICT (researcher) DO UPDATE SET verified = TRUE
	`, string(researcher))
	if err != nil {
		return fmt.Errorf("save researcher verification: %w", err)
	}
	return nil
}
