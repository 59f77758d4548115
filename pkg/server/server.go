// Package server exposes generation, session editing and downloads over HTTP.
package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/nikogura/resume-studio/pkg/pipeline"
	"github.com/nikogura/resume-studio/pkg/session"
	"github.com/pkg/errors"
)

// DefaultAddr is the listen address used when none is configured.
const DefaultAddr = ":8080"

// maxTextBody bounds edit and render request bodies.
const maxTextBody = 1 << 20

// Runner runs one generation.
type Runner interface {
	Run(ctx context.Context, in pipeline.Input) (pipeline.Result, error)
}

// Server serves the HTTP API.
type Server struct {
	runner Runner
	store  session.Store
	logger *slog.Logger
	mux    *http.ServeMux
}

// New creates a Server. A nil logger uses slog.Default.
func New(runner Runner, store session.Store, logger *slog.Logger) (s *Server) {
	if logger == nil {
		logger = slog.Default()
	}

	s = &Server{
		runner: runner,
		store:  store,
		logger: logger,
		mux:    http.NewServeMux(),
	}

	s.mux.HandleFunc("POST /generate", s.handleGenerate)
	s.mux.HandleFunc("GET /sessions/{id}", s.handleGetSession)
	s.mux.HandleFunc("PUT /sessions/{id}/cover-letter", s.handleEditCoverLetter)
	s.mux.HandleFunc("PUT /sessions/{id}/full-resume", s.handleEditFullResume)
	s.mux.HandleFunc("DELETE /sessions/{id}", s.handleDeleteSession)
	s.mux.HandleFunc("GET /sessions/{id}/downloads/{artifact}", s.handleDownload)
	s.mux.HandleFunc("POST /render", s.handleRender)
	s.mux.HandleFunc("GET /health", s.handleHealth)

	return s
}

// Handler returns the routed handler wrapped in request logging.
func (s *Server) Handler() (h http.Handler) {
	h = s.withLogging(s.mux)
	return h
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) (err error) {
	if addr == "" {
		addr = DefaultAddr
	}

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		// Generation waits on up to three sequential completions.
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "addr", addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err = <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
			return err
		}
		err = errors.Wrapf(err, "failed to serve on %s", addr)
		return err
	case <-ctx.Done():
	}

	s.logger.Info("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	err = httpServer.Shutdown(shutdownCtx)
	if err != nil {
		err = errors.Wrap(err, "server shutdown failed")
		return err
	}

	s.logger.Info("server stopped")
	return err
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) withLogging(next http.Handler) (h http.Handler) {
	h = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
	return h
}

func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(data)
	if err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

// errorResponse writes {"error": ...} with the status mapped from err.
func (s *Server) errorResponse(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "status", status, "error", err)
	} else {
		s.logger.Warn("request rejected", "method", r.Method, "path", r.URL.Path, "status", status, "error", err)
	}
	s.jsonResponse(w, status, map[string]string{"error": err.Error()})
}
