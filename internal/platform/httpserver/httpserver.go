package httpserver

import (
	"net/http"
	"time"
)

// New returns a server whose write deadline outlasts the per-request
// timeout, so the timeout middleware answers before the connection drops.
func New(addr string, handler http.Handler, requestTimeout time.Duration) *http.Server {
	if requestTimeout <= 0 {
		requestTimeout = 30 * time.Second
	}
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      requestTimeout + 5*time.Second,
		IdleTimeout:       2 * requestTimeout,
	}
}
