package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	id "consentgate/pkg/domain"
)

// EventCategory classifies audit events by their primary purpose.
// This enables different retention policies and routing.
type EventCategory string

const (
	// CategoryCompliance covers events with legal/regulatory significance:
	// consent changes and granted data access. These are written fail-closed.
	CategoryCompliance EventCategory = "compliance"

	// CategoryOperations covers events useful for operational visibility.
	CategoryOperations EventCategory = "operations"
)

// AuditEvent names a ledger action.
type AuditEvent string

const (
	EventConsentSet     AuditEvent = "consent_set"
	EventConsentRevoked AuditEvent = "consent_revoked"
	EventAccessGranted  AuditEvent = "access_granted"
)

var eventCategories = map[AuditEvent]EventCategory{
	EventConsentSet:     CategoryCompliance,
	EventConsentRevoked: CategoryCompliance,
	EventAccessGranted:  CategoryCompliance,
}

// Category returns the EventCategory for this audit event.
// Unknown events default to CategoryOperations.
func (e AuditEvent) Category() EventCategory {
	if cat, ok := eventCategories[e]; ok {
		return cat
	}
	return CategoryOperations
}

// Event is emitted from ledger logic to capture state changes. Keep it
// transport-agnostic so stores and sinks can fan out.
//
// LogID is only meaningful for access_granted; log IDs start at 0 so it is
// not an optional field.
type Event struct {
	Category   EventCategory
	Action     string
	Timestamp  time.Time
	Height     id.Height
	Patient    id.Identity
	Researcher id.Identity
	DataID     id.DataID
	LogID      id.LogID
	AccessType string
	RequestID  string
}

// HasLogID reports whether the event refers to an access log entry.
func (e Event) HasLogID() bool {
	return AuditEvent(e.Action) == EventAccessGranted
}

// Store persists audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
}

// Payload is the JSON document carried by the outbox and the Kafka topic.
type Payload struct {
	ID         string  `json:"id"`
	Category   string  `json:"category"`
	Action     string  `json:"action"`
	Timestamp  string  `json:"timestamp"`
	Height     uint64  `json:"height"`
	Patient    string  `json:"patient,omitempty"`
	Researcher string  `json:"researcher,omitempty"`
	DataID     uint64  `json:"data_id"`
	LogID      *uint64 `json:"log_id,omitempty"`
	AccessType string  `json:"access_type,omitempty"`
	RequestID  string  `json:"request_id,omitempty"`
}

// EncodePayload serializes an event for the outbox.
func EncodePayload(eventID uuid.UUID, event Event) ([]byte, error) {
	p := Payload{
		ID:         eventID.String(),
		Category:   string(AuditEvent(event.Action).Category()),
		Action:     event.Action,
		Timestamp:  event.Timestamp.UTC().Format(time.RFC3339Nano),
		Height:     uint64(event.Height),
		Patient:    string(event.Patient),
		Researcher: string(event.Researcher),
		DataID:     uint64(event.DataID),
		AccessType: event.AccessType,
		RequestID:  event.RequestID,
	}
	if event.HasLogID() {
		logID := uint64(event.LogID)
		p.LogID = &logID
	}
	b, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("marshal audit payload: %w", err)
	}
	return b, nil
}

// DecodePayload parses an outbox/Kafka document back into an event.
func DecodePayload(b []byte) (uuid.UUID, Event, error) {
	var p Payload
	if err := json.Unmarshal(b, &p); err != nil {
		return uuid.Nil, Event{}, fmt.Errorf("unmarshal audit payload: %w", err)
	}
	eventID, err := uuid.Parse(p.ID)
	if err != nil {
		return uuid.Nil, Event{}, fmt.Errorf("parse audit event id: %w", err)
	}
	ts, err := time.Parse(time.RFC3339Nano, p.Timestamp)
	if err != nil {
		return uuid.Nil, Event{}, fmt.Errorf("parse audit timestamp: %w", err)
	}
	event := Event{
		Category:   EventCategory(p.Category),
		Action:     p.Action,
		Timestamp:  ts,
		Height:     id.Height(p.Height),
		Patient:    id.Identity(p.Patient),
		Researcher: id.Identity(p.Researcher),
		DataID:     id.DataID(p.DataID),
		AccessType: p.AccessType,
		RequestID:  p.RequestID,
	}
	if p.LogID != nil {
		event.LogID = id.LogID(*p.LogID)
	}
	return eventID, event, nil
}
