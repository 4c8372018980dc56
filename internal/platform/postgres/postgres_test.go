package postgres

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"consentgate/pkg/platform/sentinel"
)

func TestMapError(t *testing.T) {
	assert.NoError(t, MapError(nil))

	err := MapError(sql.ErrNoRows)
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
	assert.ErrorIs(t, err, sql.ErrNoRows)

	err = MapError(&pgconn.PgError{Code: "23505"})
	assert.ErrorIs(t, err, sentinel.ErrConflict)

	err = MapError(&pgconn.PgError{Code: "40001"})
	assert.ErrorIs(t, err, sentinel.ErrConflict)

	other := &pgconn.PgError{Code: "42P01"}
	assert.Same(t, other, MapError(other))

	plain := errors.New("boom")
	assert.Equal(t, plain, MapError(plain))
}

func TestSchemaEmbedded(t *testing.T) {
	assert.Contains(t, schema, "CREATE TABLE IF NOT EXISTS ledger_settings")
	assert.Contains(t, schema, "CREATE TABLE IF NOT EXISTS outbox")
}
