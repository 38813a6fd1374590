package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/basel-ax/archrender/internal/config"
)

// Server wraps http.Server with start and graceful shutdown helpers
type Server struct {
	server *http.Server
}

// NewServer creates the UI server from configuration
func NewServer(cfg *config.Config, handler http.Handler) *Server {
	return &Server{server: &http.Server{
		Addr:              cfg.HTTP.ListenAddr,
		Handler:           handler,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
	}}
}

// Start serves until Shutdown is called. A clean shutdown returns nil.
func (s *Server) Start() error {
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
