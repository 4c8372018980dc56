package testutil

import (
	"net/http"

	id "consentgate/pkg/domain"
	"consentgate/pkg/requestcontext"
)

// WithCaller authenticates req as caller, standing in for the bearer
// middleware. Malformed identities leave the request anonymous.
func WithCaller(req *http.Request, caller string) *http.Request {
	parsed, err := id.ParseIdentity(caller)
	if err != nil {
		return req
	}
	return req.WithContext(requestcontext.WithCaller(req.Context(), parsed))
}
