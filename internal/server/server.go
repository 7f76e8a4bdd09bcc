// Package server exposes the spine scanning pipeline over HTTP: an
// upload endpoint for single spine images, a run history endpoint, a
// WebSocket endpoint for streaming progress, Prometheus metrics and a
// health check.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/spinescan/spinescan/internal/pipeline"
	"github.com/spinescan/spinescan/internal/store"
)

// Config holds server configuration.
type Config struct {
	Host            string
	Port            int
	CORSOrigin      string
	MaxUploadMB     int64
	ShutdownTimeout time.Duration
	OverlayEnabled  bool
}

// Server holds the HTTP server state and dependencies. The pipeline is
// required; the store is optional and disables run tracking when nil.
type Server struct {
	pipeline       *pipeline.Pipeline
	store          *store.Store
	corsOrigin     string
	maxUploadMB    int64
	overlayEnabled bool
}

// NewServer creates a scan server around an initialized pipeline.
func NewServer(p *pipeline.Pipeline, st *store.Store, cfg Config) *Server {
	maxUpload := cfg.MaxUploadMB
	if maxUpload <= 0 {
		maxUpload = 25
	}
	corsOrigin := cfg.CORSOrigin
	if corsOrigin == "" {
		corsOrigin = "*"
	}
	return &Server{
		pipeline:       p,
		store:          st,
		corsOrigin:     corsOrigin,
		maxUploadMB:    maxUpload,
		overlayEnabled: cfg.OverlayEnabled,
	}
}

// SetupRoutes configures the HTTP routes.
func (s *Server) SetupRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/health", s.corsMiddleware(s.healthHandler))
	mux.HandleFunc("/scan", s.corsMiddleware(s.scanHandler))
	mux.HandleFunc("/runs", s.corsMiddleware(s.runsHandler))
	mux.HandleFunc("/ws/scan", s.scanWebSocketHandler)
	mux.Handle("/metrics", promhttp.Handler())
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, cfg Config) error {
	mux := http.NewServeMux()
	s.SetupRoutes(mux)

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	timeout := cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	slog.Info("server shutting down")
	return srv.Shutdown(shutdownCtx)
}
