// Package common holds the scenario state and the generic request and
// assertion steps shared by every feature.
package common

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/cucumber/godog"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// World is the per-scenario state.
type World struct {
	BaseURL    string
	AdminToken string
	SigningKey string
	Issuer     string
	Audience   string
	Authority  string

	client *http.Client
	// aliases maps the names used in feature files to identities unique to
	// this scenario, so scenarios never share ledger state.
	aliases map[string]string

	LastStatus int
	LastBody   map[string]any
}

// NewWorld reads the target server from the environment.
func NewWorld() *World {
	return &World{
		BaseURL:    getEnv("E2E_BASE_URL", "http://localhost:8080"),
		AdminToken: getEnv("E2E_ADMIN_TOKEN", "e2e-admin"),
		SigningKey: getEnv("E2E_JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		Issuer:     getEnv("E2E_JWT_ISSUER", "consentgate"),
		Audience:   getEnv("E2E_JWT_AUDIENCE", "consentgate-api"),
		Authority:  getEnv("E2E_AUTHORITY", "ST3E2EAUTHORITY"),
		client:     &http.Client{Timeout: 10 * time.Second},
		aliases:    map[string]string{},
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Identity resolves a feature-file name. "authority" and names already in
// identity form (starting with "ST") are used verbatim; anything else gets a
// scenario-unique identity.
func (w *World) Identity(name string) string {
	switch {
	case name == "authority":
		return w.Authority
	case strings.HasPrefix(name, "ST"):
		return name
	}
	if v, ok := w.aliases[name]; ok {
		return v
	}
	v := "ST2" + strings.ToUpper(name) + strings.ReplaceAll(uuid.NewString()[:8], "-", "")
	w.aliases[name] = v
	return v
}

func (w *World) token(subject string) (string, error) {
	now := time.Now()
	return jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		Issuer:    w.Issuer,
		Audience:  []string{w.Audience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		ID:        uuid.NewString(),
	}).SignedString([]byte(w.SigningKey))
}

// Do sends a request as actor ("" sends it unauthenticated) and records the
// response.
func (w *World) Do(ctx context.Context, actor, method, path string, body any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, w.BaseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	switch actor {
	case "":
	case "operator":
		req.Header.Set("X-Admin-Token", w.AdminToken)
	default:
		tok, err := w.token(w.Identity(actor))
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	w.LastStatus = resp.StatusCode
	w.LastBody = map[string]any{}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &w.LastBody); err != nil {
			return fmt.Errorf("decode response %q: %w", raw, err)
		}
	}
	return nil
}

// RegisterSteps registers the generic steps.
func RegisterSteps(sc *godog.ScenarioContext, w *World) {
	sc.Step(`^the response status should be (\d+)$`, w.statusShouldBe)
	sc.Step(`^the error should be "([^"]*)"$`, w.errorShouldBe)
	sc.Step(`^the field "([^"]*)" should be (true|false)$`, w.boolFieldShouldBe)
	sc.Step(`^the field "([^"]*)" should equal (\d+)$`, w.numberFieldShouldBe)
	sc.Step(`^the chain advances by (\d+) blocks?$`, w.advance)
}

func (w *World) statusShouldBe(status int) error {
	if w.LastStatus != status {
		return fmt.Errorf("expected status %d, got %d (%v)", status, w.LastStatus, w.LastBody)
	}
	return nil
}

func (w *World) errorShouldBe(code string) error {
	if got, _ := w.LastBody["error"].(string); got != code {
		return fmt.Errorf("expected error %q, got %q (%v)", code, got, w.LastBody)
	}
	return nil
}

func (w *World) boolFieldShouldBe(field, want string) error {
	got, ok := w.LastBody[field].(bool)
	if !ok || fmt.Sprint(got) != want {
		return fmt.Errorf("expected %s=%s, got %v", field, want, w.LastBody[field])
	}
	return nil
}

func (w *World) numberFieldShouldBe(field string, want int) error {
	got, ok := w.LastBody[field].(float64)
	if !ok || int(got) != want {
		return fmt.Errorf("expected %s=%d, got %v", field, want, w.LastBody[field])
	}
	return nil
}

func (w *World) advance(ctx context.Context, n int) error {
	if err := w.Do(ctx, "operator", http.MethodPost, "/ops/height", map[string]any{"advance": n}); err != nil {
		return err
	}
	return w.statusShouldBe(http.StatusOK)
}
