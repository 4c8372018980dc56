package audit

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	govmodels "consentgate/internal/governance/models"
	govStore "consentgate/internal/governance/store"
	id "consentgate/pkg/domain"
	dErrors "consentgate/pkg/domain-errors"
	"consentgate/pkg/platform/audit"
	auditmemory "consentgate/pkg/platform/audit/store/memory"
)

func TestServiceList(t *testing.T) {
	ctx := context.Background()
	settings := govStore.NewInMemoryStore()
	require.NoError(t, settings.Save(ctx, &govmodels.Settings{Authority: "ST3AUTHORITY", MaxConsents: 1}))

	store := auditmemory.NewInMemoryStore()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, p := range []id.Identity{"ST1PATIENT", "ST4OTHER", "ST1PATIENT"} {
		require.NoError(t, store.Append(ctx, audit.Event{
			Category:  audit.CategoryCompliance,
			Action:    string(audit.EventConsentSet),
			Timestamp: base.Add(time.Duration(i) * time.Minute),
			Patient:   p,
			DataID:    id.DataID(i + 1),
		}))
	}
	svc := NewService(store, settings, slog.New(slog.NewTextHandler(io.Discard, nil)))

	t.Run("authority only", func(t *testing.T) {
		_, err := svc.List(ctx, "ST1PATIENT", "", 10)
		assert.Equal(t, dErrors.CodeNotAuthorized, dErrors.CodeOf(err))
	})

	t.Run("filters by patient newest first", func(t *testing.T) {
		events, err := svc.List(ctx, "ST3AUTHORITY", "ST1PATIENT", 0)
		require.NoError(t, err)
		require.Len(t, events, 2)
		assert.Equal(t, id.DataID(3), events[0].DataID)
	})

	t.Run("recent with limit", func(t *testing.T) {
		events, err := svc.List(ctx, "ST3AUTHORITY", "", 1)
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, id.DataID(3), events[0].DataID)
	})
}
