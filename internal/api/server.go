// Package api exposes the pipeline engine over HTTP.
//
// The server offers a single run endpoint plus health and metrics probes:
//
//	POST /v1/runs    execute a manifest and return its artifacts
//	GET  /healthz    liveness probe
//	GET  /metrics    Prometheus metrics
//
// Requests and responses are JSON; image payloads travel base64-encoded
// inside it. Every request is tagged with a UUID and logged structurally.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lunehart/pixelgrid/pkg/pipeline"
)

// Server wires the pipeline runner into an HTTP surface.
type Server struct {
	runner *pipeline.Runner
	logger *log.Logger
}

// NewServer creates a server around the given runner.
func NewServer(runner *pipeline.Runner, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		runner: runner,
		logger: logger,
	}
}

// Router builds the chi router with middleware and routes attached.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()

	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(s.recoverPanics)

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	r.Post("/v1/runs", s.handleRun)

	return r
}

// ListenAndServe runs the server until the context is canceled, then shuts
// down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe()
	}()

	s.logger.Info("server listening", "addr", addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
