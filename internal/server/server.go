// Package server serves the report over HTTP, rendering it on every request.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/nao1215/gdpreport/internal/config"
	"github.com/nao1215/gdpreport/internal/report"
)

// reportBaseName is the file name offered to clients downloading the report.
const reportBaseName = "ListOfCountriesByGDP"

// Server renders the report on demand.
type Server struct {
	builder         *report.Builder
	logger          *slog.Logger
	addr            string
	shutdownTimeout time.Duration
}

// Option configures a Server.
type Option func(*Server)

// WithAddress sets the listen address.
func WithAddress(addr string) Option {
	return func(s *Server) {
		if addr != "" {
			s.addr = addr
		}
	}
}

// WithLogger sets the logger for requests and lifecycle events.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithShutdownTimeout sets the graceful shutdown timeout.
func WithShutdownTimeout(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.shutdownTimeout = d
		}
	}
}

// New creates a Server rendering reports with builder.
func New(builder *report.Builder, opts ...Option) *Server {
	s := &Server{
		builder:         builder,
		logger:          slog.Default(),
		addr:            config.DefaultListenAddress,
		shutdownTimeout: config.DefaultShutdownTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.addr
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(s.logRequests)
	r.Use(chimw.Recoverer)

	r.Get("/healthz", s.health)
	for _, f := range report.Formats() {
		r.Get("/report"+f.Extension(), s.serveReport(f))
	}
	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		IdleTimeout:       time.Minute,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		ErrorLog:          slog.NewLogLogger(s.logger.Handler(), slog.LevelError),
	}

	g.Go(func() error {
		s.logger.Info("starting server", "addr", s.addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()

		s.logger.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	s.logger.Info("stopped server")
	return nil
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// serveReport renders the whole report into memory before writing, so a
// layout failure becomes a 500 instead of a truncated body.
func (s *Server) serveReport(f report.Format) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var buf bytes.Buffer
		if err := s.builder.WriteTo(&buf, f); err != nil {
			s.logger.Error("failed to render report",
				"format", f,
				"request_id", chimw.GetReqID(r.Context()),
				"error", err,
			)
			http.Error(w, "failed to render report", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", f.ContentType())
		w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
		w.Header().Set("Content-Disposition",
			fmt.Sprintf("inline; filename=%q", reportBaseName+f.Extension()))
		if _, err := buf.WriteTo(w); err != nil {
			s.logger.Debug("client went away", "error", err)
		}
	}
}

// logRequests logs one line per request through slog.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		attrs := []any{
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"remote", r.RemoteAddr,
			"request_id", chimw.GetReqID(r.Context()),
		}

		level := slog.LevelInfo
		if ww.Status() >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		s.logger.Log(r.Context(), level, "request", attrs...)
	})
}
