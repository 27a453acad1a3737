// Package api hosts the MCP server over HTTP.
//
// Endpoints:
//
//	POST/GET /mcp             streamable MCP transport (SDK handler)
//	GET      /health          liveness probe, plain text
//	GET      /health/detailed liveness probe, JSON
//
// Middleware order: recovery → request ID → logging → rate limit → host check.
// The host check implements DNS-rebinding protection for local deployments.
//
// File structure:
//   - server.go: HTTP server setup and lifecycle
//   - middleware.go: HTTP middleware
//   - health.go: health check endpoints
//   - response.go: JSON response helpers
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/takodata/tako-mcp/internal/log"
	"github.com/takodata/tako-mcp/internal/security"
)

const (
	// ShutdownTimeout is the maximum time to wait for graceful shutdown.
	ShutdownTimeout = 10 * time.Second

	// ReadHeaderTimeout prevents Slowloris-style attacks (CWE-400).
	ReadHeaderTimeout = 10 * time.Second

	// ReadTimeout is the maximum duration for reading the entire request.
	ReadTimeout = 30 * time.Second

	// WriteTimeout is long: the streamable MCP transport holds the response
	// open while a tool call runs (insights can take 90s upstream).
	WriteTimeout = 2 * time.Minute

	// IdleTimeout is the keep-alive idle limit.
	IdleTimeout = 2 * time.Minute

	// Rate limiting defaults for the whole serving surface.
	defaultRatePerSecond = 25
	defaultRateBurst     = 50
)

// Server is the HTTP server hosting the MCP endpoint and health checks.
type Server struct {
	mux     *http.ServeMux
	logger  log.Logger
	hosts   *security.Hosts
	limiter *rate.Limiter
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	// MCPHandler serves the /mcp endpoint (Server.HTTPHandler from
	// internal/mcp).
	MCPHandler http.Handler

	// Hosts validates the Host header; required (construct with
	// enabled=false to accept all hosts).
	Hosts *security.Hosts

	// Logger defaults to a no-op logger when nil.
	Logger log.Logger

	// RateBurst overrides the default burst when > 0.
	RateBurst int
}

// NewServer creates a new HTTP server with all routes registered.
func NewServer(cfg ServerConfig) (*Server, error) {
	if cfg.MCPHandler == nil {
		return nil, fmt.Errorf("MCP handler is required")
	}
	if cfg.Hosts == nil {
		return nil, fmt.Errorf("host validator is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = log.NewNop()
	}

	burst := cfg.RateBurst
	if burst <= 0 {
		burst = defaultRateBurst
	}

	mux := http.NewServeMux()
	s := &Server{
		mux:     mux,
		logger:  cfg.Logger,
		hosts:   cfg.Hosts,
		limiter: rate.NewLimiter(rate.Limit(defaultRatePerSecond), burst),
	}

	NewHealthHandler(cfg.Logger).RegisterRoutes(mux)
	mux.Handle("/mcp", cfg.MCPHandler)

	return s, nil
}

// Handler returns the HTTP handler with middleware applied.
func (s *Server) Handler() http.Handler {
	return chain(s.mux,
		recoveryMiddleware(s.logger),
		requestIDMiddleware,
		loggingMiddleware(s.logger),
		rateLimitMiddleware(s.logger, s.limiter),
		hostCheckMiddleware(s.logger, s.hosts),
	)
}

// Run starts the HTTP server and blocks until the context is cancelled,
// then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: ReadHeaderTimeout,
		ReadTimeout:       ReadTimeout,
		WriteTimeout:      WriteTimeout,
		IdleTimeout:       IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down server: %w", err)
		}
		<-errCh
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("HTTP server: %w", err)
	}
}
