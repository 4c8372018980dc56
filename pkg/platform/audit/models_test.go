package audit

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategory(t *testing.T) {
	assert.Equal(t, CategoryCompliance, EventConsentSet.Category())
	assert.Equal(t, CategoryCompliance, EventAccessGranted.Category())
	assert.Equal(t, CategoryOperations, AuditEvent("something_else").Category())
}

func TestPayload_LogIDZeroSurvives(t *testing.T) {
	eventID := uuid.New()
	event := Event{
		Action:     string(EventAccessGranted),
		Timestamp:  time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Height:     42,
		Patient:    "ST1PATIENT",
		Researcher: "ST1RESEARCHER",
		DataID:     7,
		LogID:      0,
		AccessType: "read-only",
	}

	b, err := EncodePayload(eventID, event)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"log_id":0`)

	gotID, got, err := DecodePayload(b)
	require.NoError(t, err)
	assert.Equal(t, eventID, gotID)
	assert.Equal(t, CategoryCompliance, got.Category)
	assert.True(t, got.HasLogID())
	assert.True(t, event.Timestamp.Equal(got.Timestamp))
}

func TestPayload_ConsentEventOmitsLogID(t *testing.T) {
	b, err := EncodePayload(uuid.New(), Event{Action: string(EventConsentSet), Timestamp: time.Now()})
	require.NoError(t, err)
	assert.NotContains(t, string(b), "log_id")
}

func TestDecodePayload_Malformed(t *testing.T) {
	_, _, err := DecodePayload([]byte(`{"id":"nope"}`))
	assert.Error(t, err)
}
