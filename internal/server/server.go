// Package server exposes the pipeline over HTTP.
//
// Routes:
//
//	GET /healthz              build information
//	GET /v1/layout            resolved layout snapshot plus statistics
//	GET /v1/render/{format}   a single rendered artifact
//	GET /v1/stats             event counters, when a recorder is attached
//
// Layout and render endpoints take the pipeline options as query
// parameters (nodes, width, height, seed, policy, epsilon, brightness,
// brightness_seed, phase, noise_scale, cols, rows, scale, labels, refresh).
// Unset parameters fall back to the server's defaults. Node counts above the
// server's cap (DefaultMaxNodes unless SetMaxNodes changes it) are refused.
package server

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/auradisp/pkg/errors"
	"github.com/matzehuels/auradisp/pkg/observability"
	"github.com/matzehuels/auradisp/pkg/pipeline"
)

// DefaultRequestTimeout bounds a single request.
const DefaultRequestTimeout = 60 * time.Second

// DefaultMaxNodes caps the node count a request may ask for. Resolution is
// cubic in the node count, so the server allows far fewer nodes than the CLI.
const DefaultMaxNodes = 256

// Server serves pipeline runs over HTTP.
type Server struct {
	runner   *pipeline.Runner
	defaults pipeline.Options
	logger   *log.Logger
	recorder *observability.Recorder
	maxNodes int
	router   chi.Router
}

// New creates a server. defaults supplies option values for parameters a
// request leaves unset.
func New(runner *pipeline.Runner, defaults pipeline.Options, logger *log.Logger) *Server {
	if logger == nil {
		logger = runner.Logger
	}
	defaults.Logger = logger
	s := &Server{
		runner:   runner,
		defaults: defaults,
		logger:   logger,
		maxNodes: DefaultMaxNodes,
	}
	s.router = s.routes()
	return s
}

// SetRecorder publishes rec at /v1/stats. The caller registers rec with the
// observability package.
func (s *Server) SetRecorder(rec *observability.Recorder) {
	s.recorder = rec
}

// SetMaxNodes sets the largest node count a request may ask for. Values
// outside (0, errors.MaxNodeCount] select DefaultMaxNodes.
func (s *Server) SetMaxNodes(n int) {
	if n <= 0 || n > errors.MaxNodeCount {
		n = DefaultMaxNodes
	}
	s.maxNodes = n
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.observe)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(DefaultRequestTimeout))

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/layout", s.handleLayout)
		r.Get("/render/{format}", s.handleRender)
		r.Get("/stats", s.handleStats)
	})
	return r
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully
// within shutdownTimeout.
func (s *Server) Run(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down", "timeout", shutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return ctx.Err()
}
