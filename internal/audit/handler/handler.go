package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	id "consentgate/pkg/domain"
	dErrors "consentgate/pkg/domain-errors"
	"consentgate/pkg/platform/audit"
	"consentgate/pkg/platform/httputil"
	"consentgate/pkg/platform/middleware/request"
	"consentgate/pkg/requestcontext"
)

// Service reads the audit trail.
type Service interface {
	List(ctx context.Context, caller, patient id.Identity, limit int) ([]audit.Event, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

type EventResponse struct {
	Category   string    `json:"category"`
	Action     string    `json:"action"`
	Timestamp  time.Time `json:"timestamp"`
	Height     uint64    `json:"height"`
	Patient    string    `json:"patient"`
	Researcher string    `json:"researcher"`
	DataID     uint64    `json:"data_id"`
	LogID      *uint64   `json:"log_id,omitempty"`
	AccessType string    `json:"access_type,omitempty"`
	RequestID  string    `json:"request_id,omitempty"`
}

type EventsResponse struct {
	Events []EventResponse `json:"events"`
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/admin/audit/events", h.HandleListEvents)
}

// HandleListEvents serves GET /admin/audit/events?patient=&limit=.
func (h *Handler) HandleListEvents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	var patient id.Identity
	if raw := q.Get("patient"); raw != "" {
		parsed, err := id.ParseIdentity(raw)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		patient = parsed
	}
	limit := 0
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "limit must be an integer"))
			return
		}
		limit = n
	}

	events, err := h.service.List(ctx, requestcontext.Caller(ctx), patient, limit)
	if err != nil {
		if dErrors.CodeOf(err) == dErrors.CodeInternal {
			h.logger.ErrorContext(ctx, "failed to list audit events",
				"request_id", request.GetRequestID(ctx),
				"error", err,
			)
		}
		httputil.WriteError(w, err)
		return
	}

	resp := EventsResponse{Events: make([]EventResponse, 0, len(events))}
	for _, e := range events {
		item := EventResponse{
			Category:   string(e.Category),
			Action:     e.Action,
			Timestamp:  e.Timestamp,
			Height:     uint64(e.Height),
			Patient:    e.Patient.String(),
			Researcher: e.Researcher.String(),
			DataID:     uint64(e.DataID),
			AccessType: e.AccessType,
			RequestID:  e.RequestID,
		}
		if e.HasLogID() {
			logID := uint64(e.LogID)
			item.LogID = &logID
		}
		resp.Events = append(resp.Events, item)
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}
