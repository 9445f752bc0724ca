// Package api serves the layout pipeline over HTTP.
//
// # Routes
//
//	GET  /healthz             liveness probe
//	GET  /version             build information
//	POST /v1/layout           resolve a manifest, respond with the layout
//	POST /v1/render/{format}  resolve and render a manifest in one format
//
// Request bodies are either a JSON [pipeline.Options] object carrying the
// manifest inline, or the manifest itself sent as YAML or TOML with the
// render options in the query string:
//
//	curl -X POST --data-binary @collection.yaml \
//	     -H 'Content-Type: application/yaml' \
//	     'localhost:8080/v1/render/svg?style=outline&width=320'
//
// Errors are JSON objects with a code and a message, and their status
// follows [errors.HTTPStatus].
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/flowbridge/pkg/config"
	"github.com/matzehuels/flowbridge/pkg/pipeline"
)

// shutdownTimeout bounds graceful shutdown.
const shutdownTimeout = 10 * time.Second

// Server is the HTTP front end of a pipeline.Runner.
type Server struct {
	runner   *pipeline.Runner
	logger   *log.Logger
	cfg      config.ServerConfig
	defaults config.LayoutConfig
}

// Option configures a Server.
type Option func(*Server)

// WithLayoutDefaults fills options a request leaves unset.
func WithLayoutDefaults(lc config.LayoutConfig) Option {
	return func(s *Server) { s.defaults = lc }
}

// New creates a server. A nil logger is log.Default().
func New(runner *pipeline.Runner, logger *log.Logger, cfg config.ServerConfig, opts ...Option) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{runner: runner, logger: logger, cfg: cfg}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the routed handler with all middleware applied.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(s.recoverer)
	r.Use(instrument)

	r.Get("/healthz", s.handleHealth)
	r.Get("/version", s.handleVersion)

	r.Route("/v1", func(r chi.Router) {
		r.Use(s.limitBody)
		r.Post("/layout", s.handleLayout)
		r.Post("/render/{format}", s.handleRender)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorBody("NOT_FOUND", "no route for "+r.URL.Path))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody("METHOD_NOT_ALLOWED", r.Method+" not allowed on "+r.URL.Path))
	})
	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.ReadTimeout.Duration,
		WriteTimeout: s.cfg.WriteTimeout.Duration,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
