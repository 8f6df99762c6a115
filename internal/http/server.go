// Package http provides the API server, its router and the metrics server.
package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
)

// ReadinessCheck probes one dependency for /ready.
type ReadinessCheck func(ctx context.Context) error

// readinessTimeout bounds all readiness probes of one request.
const readinessTimeout = 2 * time.Second

// Server represents the API HTTP server.
type Server struct {
	server *http.Server
	router *gin.Engine
	checks map[string]ReadinessCheck
	logger *slog.Logger
}

// NewServer creates a new API server. checks maps a component name to its
// readiness probe; a nil map means the server is ready once it is listening.
func NewServer(
	checks map[string]ReadinessCheck,
	host string,
	port int,
	logger *slog.Logger,
) *Server {
	return &Server{
		checks: checks,
		logger: logger,
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", host, port),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 60 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.router
}

// Start starts the HTTP server. SetupRouter must be called first.
func (s *Server) Start(ctx context.Context) error {
	if s.router == nil {
		return fmt.Errorf("router is not configured")
	}
	s.server.Handler = s.router

	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}

// healthHandler reports that the process is alive.
func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler probes every configured dependency.
// Returns 503 with per-component status when any probe fails.
func (s *Server) readinessHandler(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
	defer cancel()

	names := make([]string, 0, len(s.checks))
	for name := range s.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	components := make(map[string]string, len(names))
	ready := true
	for _, name := range names {
		if err := s.checks[name](ctx); err != nil {
			s.logger.Warn("readiness check failed",
				slog.String("component", name),
				slog.Any("error", err))
			components[name] = "error"
			ready = false
			continue
		}
		components[name] = "ok"
	}

	if !ready {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": components,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "ready",
		"components": components,
	})
}
