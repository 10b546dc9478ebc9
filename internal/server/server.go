// Package server serves the variant effect report as a web page.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/inodb/vareff/internal/genelist"
	"github.com/inodb/vareff/internal/report"
	"github.com/inodb/vareff/internal/variant"
)

// RowSource produces result rows for a batch of gene symbols.
type RowSource interface {
	Rows(ctx context.Context, symbols []string) ([]variant.Row, error)
}

// Config holds page settings.
type Config struct {
	Symbols []string
	Caption string
}

// Server renders the report for each request.
type Server struct {
	router chi.Router
	source RowSource
	cfg    Config
	logger *zap.Logger
}

// New creates a server backed by source.
func New(source RowSource, cfg Config, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Caption == "" {
		cfg.Caption = report.DefaultCaption
	}
	s := &Server{
		router: chi.NewRouter(),
		source: source,
		cfg:    cfg,
		logger: logger,
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(s.requestLogger)
	s.router.Use(middleware.Recoverer)
}

func (s *Server) setupRoutes() {
	s.router.Get("/", s.handleIndex)
	s.router.Get("/api/rows", s.handleRows)
	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok\n"))
	})
}

// symbols returns the ?genes= override or the configured batch.
func (s *Server) symbols(r *http.Request) []string {
	if q := r.URL.Query().Get("genes"); q != "" {
		return genelist.Parse(q)
	}
	return s.cfg.Symbols
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	rows, err := s.source.Rows(r.Context(), s.symbols(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := report.Render(w, report.Build(rows, s.cfg.Caption)); err != nil {
		s.logger.Error("render report", zap.Error(err))
	}
}

func (s *Server) handleRows(w http.ResponseWriter, r *http.Request) {
	rows, err := s.source.Rows(r.Context(), s.symbols(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(rows); err != nil {
		s.logger.Error("encode rows", zap.Error(err))
	}
}

// fail reports a failed run as 502.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Warn("run failed",
		zap.String("request_id", middleware.GetReqID(r.Context())),
		zap.Error(err))
	http.Error(w, err.Error(), http.StatusBadGateway)
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())))
	})
}
