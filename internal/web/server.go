// Package web exposes the converter over HTTP: document type metadata,
// detection, conversion and job artifact downloads.
package web

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/JonMunkholm/tradedoc/internal/config"
	"github.com/JonMunkholm/tradedoc/internal/core"
	"github.com/JonMunkholm/tradedoc/internal/store"
	"github.com/JonMunkholm/tradedoc/internal/web/middleware"
)

// maxMemory is the multipart form size kept in memory before spilling to
// temporary files.
const maxMemory = 32 << 20

// Server is the HTTP server for the conversion service.
type Server struct {
	converter *core.Converter
	jobs      store.JobStore
	limiter   *core.Limiter
	cfg       *config.Config
	logger    *slog.Logger

	router      *chi.Mux
	rateLimiter *rateLimiter
	server      *http.Server
}

// NewServer wires routes and middleware. The limiter bounds concurrent
// conversions started through the API.
func NewServer(converter *core.Converter, jobs store.JobStore, limiter *core.Limiter, cfg *config.Config) *Server {
	s := &Server{
		converter: converter,
		jobs:      jobs,
		limiter:   limiter,
		cfg:       cfg,
		logger:    slog.Default().With("component", "web"),
		router:    chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(chimw.RequestID)
	s.router.Use(middleware.TrustedRealIP(s.cfg.Security.TrustedProxies))
	s.router.Use(middleware.Logger)
	s.router.Use(chimw.Recoverer)
	s.router.Use(chimw.Timeout(s.cfg.Server.RequestTimeout))
	s.router.Use(securityHeaders)

	if s.cfg.Rate.Enabled {
		s.rateLimiter = newRateLimiter(s.cfg.Rate.RequestsPerMinute, time.Minute)
		s.router.Use(s.rateLimiter.middleware)
	}
}

func (s *Server) setupRoutes() {
	s.router.Get("/", s.handleIndex)
	s.router.Get("/healthz", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Use(middleware.APIKeyAuth(&s.cfg.Security))

		r.Get("/document-types", s.handleListDocumentTypes)
		r.Get("/document-types/{docType}", s.handleGetDocumentType)

		r.Post("/detect", s.handleDetect)
		r.Post("/convert", s.handleConvert)
		r.Get("/conversions/status", s.handleConversionStatus)

		r.Get("/jobs", s.handleListJobs)
		r.Get("/jobs/{jobID}", s.handleGetJob)
		r.Get("/jobs/{jobID}/output", s.handleJobOutput)
		r.Get("/jobs/{jobID}/errors", s.handleJobErrors)
	})
}

// Start listens until Shutdown is called.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.cfg.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}

	s.logger.Info("starting server", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown stops accepting requests, waits for in-flight ones and stops the
// rate limiter's cleanup loop.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.rateLimiter != nil {
		s.rateLimiter.stop()
	}
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// securityHeaders adds hardening headers to all responses.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Content-Security-Policy", "default-src 'self'; style-src 'self' 'unsafe-inline'")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}
