// Package store persists the governance settings row.
package store

import (
	"context"

	"consentgate/internal/governance/models"
)

// Store reads and writes the settings.
//
// Lock reads the settings and, on Postgres, holds the row lock until the
// surrounding transaction ends. Every ledger mutation calls Lock first, which
// serializes writers across processes. Get never blocks.
//
// Both return sentinel.ErrNotFound before Seed has run.
type Store interface {
	Get(ctx context.Context) (*models.Settings, error)
	Lock(ctx context.Context) (*models.Settings, error)
	Save(ctx context.Context, settings *models.Settings) error
}
