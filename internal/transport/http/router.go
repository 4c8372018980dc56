// Package httptransport assembles the public HTTP surface: the middleware
// chain, the authenticated ledger routes and the operator routes.
package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"consentgate/internal/platform/metrics"
	platformmw "consentgate/internal/platform/middleware"
	"consentgate/pkg/platform/httputil"
	"consentgate/pkg/platform/middleware/admin"
	"consentgate/pkg/platform/middleware/auth"
	"consentgate/pkg/platform/middleware/metadata"
	"consentgate/pkg/platform/middleware/request"
	"consentgate/pkg/platform/middleware/requesttime"
)

// Registrar is implemented by every feature handler.
type Registrar interface {
	Register(r chi.Router)
}

// HealthCheck reports whether a backing dependency is reachable.
type HealthCheck func(ctx context.Context) error

// Config is everything the router needs beyond the handlers.
type Config struct {
	Logger         *slog.Logger
	Metrics        *metrics.Metrics
	Validator      auth.JWTValidator
	AdminToken     string
	AdminTokenHash string
	RequestTimeout time.Duration
	// Throttle is applied to every route except health and metrics. Nil disables it.
	Throttle func(http.Handler) http.Handler
	Health   map[string]HealthCheck
}

// NewRouter mounts authenticated handlers behind bearer auth and operator
// handlers behind the admin token.
func NewRouter(cfg Config, authenticated []Registrar, operator []Registrar) http.Handler {
	r := chi.NewRouter()
	r.Use(request.RequestID)
	r.Use(metadata.ClientMetadata)
	r.Use(requesttime.Middleware)
	r.Use(request.Recovery(cfg.Logger))
	r.Use(request.Logger(cfg.Logger))
	r.Use(platformmw.LatencyMiddleware(cfg.Metrics))

	r.Get("/healthz", healthHandler(cfg.Health, cfg.Logger))
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		if cfg.Throttle != nil {
			r.Use(cfg.Throttle)
		}
		if cfg.RequestTimeout > 0 {
			r.Use(request.Timeout(cfg.RequestTimeout))
		}
		r.Use(request.ContentTypeJSON)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(cfg.Validator, cfg.Logger))
			for _, h := range authenticated {
				h.Register(r)
			}
		})

		r.Group(func(r chi.Router) {
			r.Use(admin.RequireAdminToken(cfg.AdminToken, cfg.AdminTokenHash, cfg.Logger))
			for _, h := range operator {
				h.Register(r)
			}
		})
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, http.StatusNotFound, httputil.ErrorResponse{Error: "not_found"})
	})
	return r
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

func healthHandler(checks map[string]HealthCheck, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		resp := healthResponse{Status: "ok", Checks: make(map[string]string, len(checks))}
		status := http.StatusOK
		for name, check := range checks {
			if err := check(ctx); err != nil {
				logger.WarnContext(ctx, "health check failed", "dependency", name, "error", err)
				resp.Checks[name] = "unavailable"
				resp.Status = "degraded"
				status = http.StatusServiceUnavailable
				continue
			}
			resp.Checks[name] = "ok"
		}
		httputil.WriteJSON(w, status, resp)
	}
}
