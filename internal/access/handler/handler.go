package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"consentgate/internal/access/models"
	id "consentgate/pkg/domain"
	dErrors "consentgate/pkg/domain-errors"
	"consentgate/pkg/platform/httputil"
	"consentgate/pkg/requestcontext"
)

// Service defines the interface for access operations.
type Service interface {
	RequestAccess(ctx context.Context, caller id.Identity, dataID id.DataID, accessType id.AccessType) (id.LogID, error)
	GetAccessLog(ctx context.Context, logID id.LogID) (*models.AccessLogEntry, error)
	GetAccessCountByResearcher(ctx context.Context, researcher id.Identity) (uint64, error)
	GetTotalAccessCount(ctx context.Context) (uint64, error)
}

// Handler wires access endpoints to the orchestrator.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs an access handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts access endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/access", h.HandleRequestAccess)
	r.Get("/access/log/{logID}", h.HandleGetAccessLog)
	r.Get("/access/researchers/{researcher}/count", h.HandleGetResearcherCount)
	r.Get("/access/total", h.HandleGetTotal)
}

// HandleRequestAccess handles POST /access requests.
func (h *Handler) HandleRequestAccess(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	caller := requestcontext.Caller(ctx)
	if caller == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	req, ok := httputil.DecodeAndPrepare[AccessRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	logID, err := h.service.RequestAccess(ctx, caller, id.DataID(*req.DataID), id.AccessType(req.AccessType))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "access request served",
		"request_id", requestID,
		"researcher", caller,
		"log_id", logID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusCreated, AccessResponse{LogID: uint64(logID)})
}

func (h *Handler) HandleGetAccessLog(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logID, err := id.ParseLogID(chi.URLParam(r, "logID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	entry, err := h.service.GetAccessLog(ctx, logID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to read access log",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	if entry == nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "access log entry not found"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromEntry(entry))
}

func (h *Handler) HandleGetResearcherCount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	researcher, err := id.ParseIdentity(chi.URLParam(r, "researcher"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	count, err := h.service.GetAccessCountByResearcher(ctx, researcher)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, ResearcherCountResponse{Researcher: researcher.String(), Count: count})
}

func (h *Handler) HandleGetTotal(w http.ResponseWriter, r *http.Request) {
	total, err := h.service.GetTotalAccessCount(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, TotalResponse{Total: total})
}
