package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"consentgate/internal/consent/models"
	id "consentgate/pkg/domain"
	"consentgate/pkg/platform/sentinel"
	txcontext "consentgate/pkg/platform/tx"
)

// PostgresStore persists consents in consent_records and consent_counts.
// Writers are serialized by the ledger settings lock taken at the start of
// every mutating transaction.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const selectRecord = `
	SELECT patient, data_id, researcher, expiry_height, allowed, access_type,
		   granted_at_height, updated_at_height, version
	FROM consent_records
`

func (s *PostgresStore) Get(ctx context.Context, patient id.Identity, dataID id.DataID) (*models.ConsentRecord, error) {
	row := txcontext.ExecutorFrom(ctx, s.db).QueryRowContext(ctx,
		selectRecord+` WHERE patient = $1 AND data_id = $2`,
		string(patient), int64(dataID))
	record, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find consent record: %w", err)
	}
	return record, nil
}

func (s *PostgresStore) Save(ctx context.Context, r *models.ConsentRecord) error {
	query := `
		INSERT INTO consent_records (
			patient, data_id, researcher, expiry_height, allowed, access_type,
			granted_at_height, updated_at_height, version
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (patient, data_id) DO UPDATE SET
			researcher = EXCLUDED.researcher,
			expiry_height = EXCLUDED.expiry_height,
			allowed = EXCLUDED.allowed,
			access_type = EXCLUDED.access_type,
			granted_at_height = EXCLUDED.granted_at_height,
			updated_at_height = EXCLUDED.updated_at_height,
			version = EXCLUDED.version
	`
	_, err := txcontext.ExecutorFrom(ctx, s.db).ExecContext(ctx, query,
		string(r.Patient),
		int64(r.DataID),
		string(r.Researcher),
		int64(r.ExpiryHeight),
		r.Allowed,
		string(r.AccessType),
		int64(r.GrantedAtHeight),
		int64(r.UpdatedAtHeight),
		int64(r.Version),
	)
	if err != nil {
		return fmt.Errorf("save consent record: %w", err)
	}
	return nil
}

// ListByDataIDs returns the existing records among dataIDs, ordered by data id.
func (s *PostgresStore) ListByDataIDs(ctx context.Context, patient id.Identity, dataIDs []id.DataID) ([]*models.ConsentRecord, error) {
	if len(dataIDs) == 0 {
		return []*models.ConsentRecord{}, nil
	}
	ids := make([]int64, len(dataIDs))
	for i, d := range dataIDs {
		ids[i] = int64(d)
	}

	rows, err := txcontext.ExecutorFrom(ctx, s.db).QueryContext(ctx,
		selectRecord+` WHERE patient = $1 AND data_id = ANY($2) ORDER BY data_id`,
		string(patient), pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("list consent records: %w", err)
	}
	defer rows.Close()

	out := make([]*models.ConsentRecord, 0, len(dataIDs))
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan consent record: %w", err)
		}
		out = append(out, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate consent records: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) GetCount(ctx context.Context, patient id.Identity) (uint64, error) {
	var count int64
	err := txcontext.ExecutorFrom(ctx, s.db).QueryRowContext(ctx,
		`SELECT count FROM consent_counts WHERE patient = $1`, string(patient)).Scan(&count)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read consent count: %w", err)
	}
	return uint64(count), nil
}

func (s *PostgresStore) SaveCount(ctx context.Context, patient id.Identity, count uint64) error {
	_, err := txcontext.ExecutorFrom(ctx, s.db).ExecContext(ctx, `
		INSERT INTO consent_counts (patient, count) VALUES ($1, $2)
		ON CONFLICT (patient) DO UPDATE SET count = EXCLUDED.count
	`, string(patient), int64(count))
	if err != nil {
		return fmt.Errorf("save consent count: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*models.ConsentRecord, error) {
	var (
		patient, researcher, accessType       string
		dataID, expiry, granted, updated, ver int64
		allowed                               bool
	)
	if err := row.Scan(&patient, &dataID, &researcher, &expiry, &allowed, &accessType, &granted, &updated, &ver); err != nil {
		return nil, err
	}
	return &models.ConsentRecord{
		Patient:         id.Identity(patient),
		DataID:          id.DataID(dataID),
		Researcher:      id.Identity(researcher),
		ExpiryHeight:    id.Height(expiry),
		Allowed:         allowed,
		AccessType:      id.AccessType(accessType),
		GrantedAtHeight: id.Height(granted),
		UpdatedAtHeight: id.Height(updated),
		Version:         uint64(ver),
	}, nil
}
