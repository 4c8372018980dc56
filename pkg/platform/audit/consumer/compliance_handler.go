package consumer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"consentgate/internal/platform/kafka/consumer"
	audit "consentgate/pkg/platform/audit"
)

// ComplianceStore materializes consumed events for querying.
type ComplianceStore interface {
	AppendWithID(ctx context.Context, eventID uuid.UUID, event audit.Event) error
}

// ComplianceHandler processes compliance audit events from Kafka and writes
// them to audit_events for the audit trail endpoints.
type ComplianceHandler struct {
	store  ComplianceStore
	logger *slog.Logger
}

// NewComplianceHandler creates a compliance event handler.
func NewComplianceHandler(store ComplianceStore, logger *slog.Logger) *ComplianceHandler {
	return &ComplianceHandler{
		store:  store,
		logger: logger,
	}
}

// Handle processes a compliance audit event. Malformed messages are logged
// and skipped so they do not block the partition.
func (h *ComplianceHandler) Handle(ctx context.Context, msg *consumer.Message) error {
	eventID, event, err := audit.DecodePayload(msg.Value)
	if err != nil {
		h.logger.ErrorContext(ctx, "CRITICAL: failed to decode compliance event",
			"topic", msg.Topic,
			"offset", msg.Offset,
			"error", err,
		)
		return nil
	}

	if event.Category != audit.CategoryCompliance || event.DataID == 0 {
		h.logger.ErrorContext(ctx, "CRITICAL: compliance event missing required fields",
			"event_id", eventID,
			"action", event.Action,
		)
		return nil
	}

	if err := h.store.AppendWithID(ctx, eventID, event); err != nil {
		h.logger.ErrorContext(ctx, "failed to store compliance event",
			"event_id", eventID,
			"action", event.Action,
			"error", err,
		)
		return fmt.Errorf("store compliance event: %w", err)
	}

	h.logger.DebugContext(ctx, "stored compliance event",
		"event_id", eventID,
		"action", event.Action,
		"data_id", event.DataID,
	)
	return nil
}
