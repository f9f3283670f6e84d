// Package httptransport builds the http.Server shared by the service
// binaries.
package httptransport

import (
	"net/http"
	"time"
)

// Connections idle longer than this are closed even when the caller leaves
// IdleTimeout unset.
const defaultIdleTimeout = time.Minute

// ServerConfig contains tunables for the HTTP server.
type ServerConfig struct {
	Address      string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// NewServer creates *http.Server with the provided handler. A zero
// IdleTimeout falls back to defaultIdleTimeout so keep-alive connections
// are always bounded.
func NewServer(cfg ServerConfig, handler http.Handler) *http.Server {
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = defaultIdleTimeout
	}
	return &http.Server{
		Addr:         cfg.Address,
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
}
