package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/ifweave/ifweave/src/internal/log"
	"github.com/ifweave/ifweave/src/internal/service"
)

// Server represents the status API server.
type Server struct {
	router     *chi.Mux
	httpServer *http.Server
	handler    *Handler
}

// NewServer creates a new API server bound to the given address.
func NewServer(svc *service.Service, bindAddr string) *Server {
	s := &Server{
		router:  chi.NewRouter(),
		handler: NewHandler(svc),
	}

	s.router.Use(Recovery)
	s.router.Use(Logger)
	s.router.Use(JSONContentType)

	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:         bindAddr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handler.CheckHealth)
		r.Get("/requirements", s.handler.GetRequirements)
		r.Get("/events", s.handler.GetEvents)

		r.Route("/extensions", func(r chi.Router) {
			r.Get("/", s.handler.GetExtensions)
			r.Post("/{name}/{op}", s.handler.RunExtension)
		})
	})
}

// Start starts the API server. It blocks until the server is shut down.
func (s *Server) Start() error {
	log.Infof("[API] Starting server on %s", s.httpServer.Addr)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// Stop gracefully stops the API server.
func (s *Server) Stop(ctx context.Context) error {
	log.Infof("[API] Shutting down server...")
	return s.httpServer.Shutdown(ctx)
}
