package httpserver

import (
	"net/http"
	"time"
)

// writeSlack keeps the server write deadline behind the router's request
// timeout so a slow handler gets the JSON timeout response, not a reset.
const writeSlack = 5 * time.Second

// New builds the API server. requestTimeout is the router's per-request
// budget; a non-positive value falls back to 15s.
func New(addr string, handler http.Handler, requestTimeout time.Duration) *http.Server {
	if requestTimeout <= 0 {
		requestTimeout = 15 * time.Second
	}
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       requestTimeout,
		WriteTimeout:      requestTimeout + writeSlack,
		IdleTimeout:       60 * time.Second,
	}
}
