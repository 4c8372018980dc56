package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "consentgate/pkg/domain"
	audit "consentgate/pkg/platform/audit"
)

func TestInMemoryStore_ListRecentNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryStore()
	for i := 1; i <= 3; i++ {
		require.NoError(t, s.Append(ctx, audit.Event{Action: string(audit.EventConsentSet), Height: id.Height(10 + i)}))
	}

	recent, err := s.ListRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.EqualValues(t, 13, recent[0].Height)
	assert.EqualValues(t, 12, recent[1].Height)
}

func TestInMemoryStore_ListByPatient(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryStore()
	require.NoError(t, s.Append(ctx, audit.Event{Patient: "P1", Action: string(audit.EventConsentSet)}))
	require.NoError(t, s.Append(ctx, audit.Event{Patient: "P2", Action: string(audit.EventConsentSet)}))
	require.NoError(t, s.Append(ctx, audit.Event{Patient: "P1", Action: string(audit.EventConsentRevoked)}))

	events, err := s.ListByPatient(ctx, "P1", 10)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, string(audit.EventConsentRevoked), events[0].Action)

	s.Clear()
	all, err := s.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}
