package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"consentgate/internal/access/models"
	id "consentgate/pkg/domain"
	"consentgate/pkg/platform/sentinel"
	txcontext "consentgate/pkg/platform/tx"
)

// PostgresStore persists the log in access_log and the counter in the
// single-row access_log_counter table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) NextLogID(ctx context.Context) (id.LogID, error) {
	var next int64
	err := txcontext.ExecutorFrom(ctx, s.db).QueryRowContext(ctx,
		`SELECT next_id FROM access_log_counter WHERE id = 1`).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("read access log counter: %w", err)
	}
	return id.LogID(next), nil
}

// Append inserts entry and advances the counter from entry.LogID. A counter
// that moved in between yields sentinel.ErrConflict and the caller's
// transaction rolls back.
func (s *PostgresStore) Append(ctx context.Context, entry *models.AccessLogEntry) error {
	exec := txcontext.ExecutorFrom(ctx, s.db)
	res, err := exec.ExecContext(ctx, `
		UPDATE access_log_counter
		SET next_id = next_id + 1, total = total + 1
		WHERE id = 1 AND next_id = $1
	`, int64(entry.LogID))
	if err != nil {
		return fmt.Errorf("advance access log counter: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("advance access log counter: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("append log %d: %w", entry.LogID, sentinel.ErrConflict)
	}

	_, err = exec.ExecContext(ctx, `
		INSERT INTO access_log (log_id, data_id, researcher, patient, access_type, height)
		VALUES ($1, $2, $3, $4, $5, $6)
	`,
		int64(entry.LogID),
		int64(entry.DataID),
		string(entry.Researcher),
		string(entry.Patient),
		string(entry.AccessType),
		int64(entry.Timestamp),
	)
	if err != nil {
		return fmt.Errorf("insert access log entry: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, logID id.LogID) (*models.AccessLogEntry, error) {
	if uint64(logID) > id.MaxValue {
		return nil, sentinel.ErrNotFound
	}
	var (
		dataID, height              int64
		researcher, patient, access string
	)
	err := txcontext.ExecutorFrom(ctx, s.db).QueryRowContext(ctx, `
		SELECT data_id, researcher, patient, access_type, height
		FROM access_log
		WHERE log_id = $1
	`, int64(logID)).Scan(&dataID, &researcher, &patient, &access, &height)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read access log entry: %w", err)
	}
	return &models.AccessLogEntry{
		LogID:      logID,
		DataID:     id.DataID(dataID),
		Researcher: id.Identity(researcher),
		Patient:    id.Identity(patient),
		AccessType: id.AccessType(access),
		Timestamp:  id.Height(height),
	}, nil
}

func (s *PostgresStore) Total(ctx context.Context) (uint64, error) {
	var total int64
	err := txcontext.ExecutorFrom(ctx, s.db).QueryRowContext(ctx,
		`SELECT total FROM access_log_counter WHERE id = 1`).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("read access log total: %w", err)
	}
	return uint64(total), nil
}
