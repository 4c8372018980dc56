package admin

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	"consentgate/pkg/platform/secrets"
	"consentgate/pkg/requestcontext"
)

// HeaderAdminToken carries the operator token on /ops routes.
const HeaderAdminToken = "X-Admin-Token"

// RequireAdminToken guards operator endpoints. When tokenHash is set the
// header is checked against that bcrypt hash, otherwise against token. With
// neither configured every request is rejected.
func RequireAdminToken(token, tokenHash string, logger *slog.Logger) func(http.Handler) http.Handler {
	accept := func(presented string) bool {
		switch {
		case presented == "":
			return false
		case tokenHash != "":
			return secrets.Verify(presented, tokenHash) == nil
		case token != "":
			return subtle.ConstantTimeCompare([]byte(presented), []byte(token)) == 1
		default:
			return false
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !accept(r.Header.Get(HeaderAdminToken)) {
				ctx := r.Context()
				logger.WarnContext(ctx, "admin token mismatch",
					"request_id", requestcontext.RequestID(ctx),
				)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":"unauthorized","error_description":"admin token required"}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
