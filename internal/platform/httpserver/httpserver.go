package httpserver

import (
	"net/http"
	"time"
)

// New builds the HTTP server. Write timeout stays above the router's request
// timeout so handlers, not the server, cut off slow ledger calls.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      35 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
