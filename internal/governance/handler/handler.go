package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"consentgate/internal/governance/models"
	id "consentgate/pkg/domain"
	dErrors "consentgate/pkg/domain-errors"
	"consentgate/pkg/platform/httputil"
	"consentgate/pkg/platform/middleware/request"
	"consentgate/pkg/requestcontext"
)

// LedgerAdmin is the slice of the consent ledger the authority drives.
type LedgerAdmin interface {
	SetAuthority(ctx context.Context, caller, authority id.Identity) error
	SetMaxConsents(ctx context.Context, caller id.Identity, n uint64) error
}

// LimiterAdmin is the slice of the researcher registry that owns rate limit tunables.
type LimiterAdmin interface {
	SetAccessLimitPerCycle(ctx context.Context, caller id.Identity, limit uint64) error
	SetCycleDuration(ctx context.Context, caller id.Identity, duration uint64) error
}

// SettingsReader reads the current governance settings.
type SettingsReader interface {
	Get(ctx context.Context) (*models.Settings, error)
}

type Handler struct {
	logger   *slog.Logger
	ledger   LedgerAdmin
	limiter  LimiterAdmin
	settings SettingsReader
}

func New(ledger LedgerAdmin, limiter LimiterAdmin, settings SettingsReader, logger *slog.Logger) *Handler {
	return &Handler{
		logger:   logger,
		ledger:   ledger,
		limiter:  limiter,
		settings: settings,
	}
}

type SetAuthorityRequest struct {
	Authority string `json:"authority"`
}

func (r *SetAuthorityRequest) Validate() error {
	r.Authority = strings.TrimSpace(r.Authority)
	if r.Authority == "" {
		return dErrors.New(dErrors.CodeInvalidResearcher, "authority is required")
	}
	_, err := id.ParseIdentity(r.Authority)
	return err
}

// TunableRequest carries a single positive tunable. Range checks stay in the
// services so every entry point reports invalid_parameter the same way.
type TunableRequest struct {
	Value uint64 `json:"value"`
}

type SettingsResponse struct {
	Authority           string `json:"authority,omitempty"`
	MaxConsents         uint64 `json:"max_consents"`
	AccessLimitPerCycle uint64 `json:"access_limit_per_cycle"`
	CycleDuration       uint64 `json:"cycle_duration"`
	CycleStartHeight    uint64 `json:"cycle_start_height"`
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/admin/settings", h.HandleGetSettings)
	r.Post("/admin/authority", h.HandleSetAuthority)
	r.Put("/admin/max-consents", h.tunable("set max consents", h.ledger.SetMaxConsents))
	r.Put("/admin/access-limit", h.tunable("set access limit", h.limiter.SetAccessLimitPerCycle))
	r.Put("/admin/cycle-duration", h.tunable("set cycle duration", h.limiter.SetCycleDuration))
}

func (h *Handler) HandleGetSettings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	settings, err := h.settings.Get(ctx)
	if err != nil {
		h.writeError(ctx, w, "get settings", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, SettingsResponse{
		Authority:           settings.Authority.String(),
		MaxConsents:         settings.MaxConsents,
		AccessLimitPerCycle: settings.AccessLimitPerCycle,
		CycleDuration:       settings.CycleDuration,
		CycleStartHeight:    uint64(settings.CycleStartHeight),
	})
}

// HandleSetAuthority assigns the authority. It succeeds once.
func (h *Handler) HandleSetAuthority(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[SetAuthorityRequest](w, r, h.logger, ctx, request.GetRequestID(ctx))
	if !ok {
		return
	}
	if err := h.ledger.SetAuthority(ctx, requestcontext.Caller(ctx), id.Identity(req.Authority)); err != nil {
		h.writeError(ctx, w, "set authority", err)
		return
	}
	h.logger.InfoContext(ctx, "authority assigned",
		"request_id", request.GetRequestID(ctx),
		"authority", req.Authority,
	)
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"authority": req.Authority})
}

func (h *Handler) tunable(operation string, apply func(context.Context, id.Identity, uint64) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		req, ok := httputil.DecodeAndPrepare[TunableRequest](w, r, h.logger, ctx, request.GetRequestID(ctx))
		if !ok {
			return
		}
		if err := apply(ctx, requestcontext.Caller(ctx), req.Value); err != nil {
			h.writeError(ctx, w, operation, err)
			return
		}
		h.logger.InfoContext(ctx, "tunable updated",
			"request_id", request.GetRequestID(ctx),
			"operation", operation,
			"value", req.Value,
		)
		httputil.WriteJSON(w, http.StatusOK, TunableRequest{Value: req.Value})
	}
}

func (h *Handler) writeError(ctx context.Context, w http.ResponseWriter, operation string, err error) {
	if dErrors.CodeOf(err) == dErrors.CodeInternal {
		h.logger.ErrorContext(ctx, "failed to "+operation,
			"request_id", request.GetRequestID(ctx),
			"error", err,
		)
	}
	httputil.WriteError(w, err)
}
