package web

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// Server is the HTTP front of the recognition pipeline.
type Server struct {
	router     *chi.Mux
	httpServer *http.Server
	logger     *slog.Logger
}

// NewServer builds the router, middleware stack and route table.
func NewServer(service RecognitionService, health HealthFunc, apiKey, host string, port int, logger *slog.Logger) *Server {
	r := chi.NewRouter()

	s := &Server{
		router: r,
		logger: logger,
	}

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	h := newHandler(service, health, logger)

	// Health check (no auth required)
	r.Get("/health", h.Health)

	r.Group(func(r chi.Router) {
		r.Use(RequireAPIKey(apiKey))

		r.Post("/enroll", h.Enroll)
		r.Post("/recognize", h.Recognize)
		r.Post("/identify", h.Identify)
		r.Get("/enrolled", h.ListEnrolled)
		r.Delete("/enrolled/{id}", h.RemoveEnrolled)
		r.Get("/attendance", h.ListAttendance)
	})

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", host, port),
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Start serves until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("starting web server", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// Shutdown gracefully drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down web server")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}
	return nil
}

// Router returns the chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}
