// Package handler exposes the operator clock controls. Mount it behind the
// admin token middleware.
package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"consentgate/internal/height"
	id "consentgate/pkg/domain"
	dErrors "consentgate/pkg/domain-errors"
	"consentgate/pkg/platform/httputil"
	"consentgate/pkg/platform/middleware/request"
)

type Handler struct {
	driver height.Driver
	logger *slog.Logger
}

func New(driver height.Driver, logger *slog.Logger) *Handler {
	return &Handler{driver: driver, logger: logger}
}

// MoveRequest sets the clock to Height or advances it by Advance. Exactly one
// must be given.
type MoveRequest struct {
	Height  *uint64 `json:"height,omitempty"`
	Advance *uint64 `json:"advance,omitempty"`
}

func (r *MoveRequest) Validate() error {
	if (r.Height == nil) == (r.Advance == nil) {
		return dErrors.New(dErrors.CodeValidation, "exactly one of height or advance is required")
	}
	if r.Height != nil && *r.Height > id.MaxValue {
		return dErrors.New(dErrors.CodeInvalidParameter, "height exceeds maximum")
	}
	if r.Advance != nil && *r.Advance > id.MaxValue {
		return dErrors.New(dErrors.CodeInvalidParameter, "advance exceeds maximum")
	}
	return nil
}

type HeightResponse struct {
	Height uint64 `json:"height"`
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/ops/height", h.HandleGet)
	r.Post("/ops/height", h.HandleMove)
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	cur, err := h.driver.CurrentHeight(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to read height",
			"request_id", request.GetRequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, HeightResponse{Height: uint64(cur)})
}

// HandleMove moves the clock forward. Requests that would lower it leave the
// height unchanged and report the current value.
func (h *Handler) HandleMove(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)
	req, ok := httputil.DecodeAndPrepare[MoveRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	var (
		cur id.Height
		err error
	)
	if req.Height != nil {
		cur, err = h.driver.Set(ctx, id.Height(*req.Height))
	} else {
		cur, err = h.driver.Advance(ctx, *req.Advance)
	}
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to move height",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	h.logger.InfoContext(ctx, "height moved",
		"request_id", requestID,
		"height", uint64(cur),
	)
	httputil.WriteJSON(w, http.StatusOK, HeightResponse{Height: uint64(cur)})
}
