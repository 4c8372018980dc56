package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	id "consentgate/pkg/domain"
	dErrors "consentgate/pkg/domain-errors"
	"consentgate/pkg/platform/httputil"
	"consentgate/pkg/platform/middleware/request"
	"consentgate/pkg/requestcontext"
)

// Service defines the researcher registry operations exposed over HTTP.
type Service interface {
	VerifyResearcher(ctx context.Context, caller, researcher id.Identity) error
	IsVerified(ctx context.Context, researcher id.Identity) (bool, error)
}

type Handler struct {
	logger   *slog.Logger
	registry Service
}

func New(registry Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, registry: registry}
}

type ResearcherResponse struct {
	Researcher string `json:"researcher"`
	Verified   bool   `json:"verified"`
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/researchers/{researcher}/verify", h.HandleVerify)
	r.Get("/researchers/{researcher}", h.HandleGet)
}

// HandleVerify lets the authority verify a researcher.
func (h *Handler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	researcher, err := id.ParseIdentity(chi.URLParam(r, "researcher"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.registry.VerifyResearcher(ctx, requestcontext.Caller(ctx), researcher); err != nil {
		if dErrors.CodeOf(err) == dErrors.CodeInternal {
			h.logger.ErrorContext(ctx, "failed to verify researcher",
				"request_id", request.GetRequestID(ctx),
				"error", err,
			)
		}
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, ResearcherResponse{Researcher: researcher.String(), Verified: true})
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	researcher, err := id.ParseIdentity(chi.URLParam(r, "researcher"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	verified, err := h.registry.IsVerified(ctx, researcher)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to read researcher",
			"request_id", request.GetRequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, ResearcherResponse{Researcher: researcher.String(), Verified: verified})
}
