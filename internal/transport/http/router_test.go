package httptransport

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"consentgate/pkg/platform/middleware/auth"
	"consentgate/pkg/requestcontext"
)

type stubValidator struct{}

func (stubValidator) ValidateToken(token string) (*auth.JWTClaims, error) {
	if token != "good" {
		return nil, errors.New("bad token")
	}
	return &auth.JWTClaims{Subject: "ST1PATIENT", JTI: "jti-1"}, nil
}

type whoami struct{}

func (whoami) Register(r chi.Router) {
	r.Get("/whoami", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(requestcontext.Caller(r.Context()).String()))
	})
}

type ops struct{}

func (ops) Register(r chi.Router) {
	r.Get("/ops/ping", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
}

func newTestRouter(health map[string]HealthCheck) http.Handler {
	return NewRouter(Config{
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		Validator:  stubValidator{},
		AdminToken: "admin-secret",
		Health:     health,
	}, []Registrar{whoami{}}, []Registrar{ops{}})
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestRouter_Auth(t *testing.T) {
	router := newTestRouter(nil)

	rr := serve(router, httptest.NewRequest(http.MethodGet, "/whoami", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer good")
	rr = serve(router, req)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "ST1PATIENT", rr.Body.String())
}

func TestRouter_AdminToken(t *testing.T) {
	router := newTestRouter(nil)

	rr := serve(router, httptest.NewRequest(http.MethodGet, "/ops/ping", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	req := httptest.NewRequest(http.MethodGet, "/ops/ping", nil)
	req.Header.Set("X-Admin-Token", "admin-secret")
	rr = serve(router, req)
	assert.Equal(t, http.StatusNoContent, rr.Code)
}

func TestRouter_Health(t *testing.T) {
	rr := serve(newTestRouter(map[string]HealthCheck{
		"postgres": func(context.Context) error { return nil },
	}), httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"postgres":"ok"`)

	rr = serve(newTestRouter(map[string]HealthCheck{
		"redis": func(context.Context) error { return errors.New("down") },
	}), httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Contains(t, rr.Body.String(), "degraded")
}

func TestRouter_NotFound(t *testing.T) {
	rr := serve(newTestRouter(nil), httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "not_found")
}
