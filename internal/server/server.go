// Package server exposes the validation engine over HTTP, so tooling that
// cannot shell out to the CLI can submit a configuration and receive the
// same report.
package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/concave-dev/preflight/internal/logging"
	"github.com/concave-dev/preflight/internal/preflight"
	"github.com/concave-dev/preflight/internal/rules"
	"github.com/concave-dev/preflight/internal/version"
	"github.com/gin-gonic/gin"
)

// Server is the validation HTTP service
type Server struct {
	config     *Config
	deps       rules.Deps
	httpServer *http.Server
	startTime  time.Time
}

// NewServer creates a server. The configuration must already be validated.
func NewServer(config *Config) *Server {
	gin.SetMode(gin.ReleaseMode)

	deps := preflight.LiveDeps(config.Settings)
	if config.Deps != nil {
		deps = *config.Deps
	}
	return &Server{config: config, deps: deps, startTime: time.Now()}
}

// Handler builds the router with middleware and routes.
func (s *Server) Handler() http.Handler {
	router := gin.New()

	if !logging.IsConfiguredByCLI() {
		gin.DefaultWriter = logging.NewLevelWriter("INFO", "gin")
		gin.DefaultErrorWriter = logging.NewLevelWriter("ERROR", "gin")
	}

	router.Use(s.loggingMiddleware())
	router.Use(s.bodyLimitMiddleware())
	router.Use(gin.Recovery())

	s.setupRoutes(router)
	return router
}

// Start binds the listener and serves in the background.
func (s *Server) Start() error {
	addr := net.JoinHostPort(s.config.BindAddr, fmt.Sprint(s.config.BindPort))
	logging.Info("Starting validation service on %s", addr)

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to bind to %s: %w", addr, err)
	}
	return s.Serve(listener)
}

// Serve serves on an existing listener in the background.
func (s *Server) Serve(listener net.Listener) error {
	timeout := s.config.Settings.Timeout
	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 15 * time.Second,
		// A pass can run every live check once; leave headroom on top of that.
		WriteTimeout: 15*time.Second + 20*timeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			logging.Error("HTTP server failed: %v", err)
		}
	}()

	logging.Success("Validation service listening on %s", listener.Addr())
	return nil
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	logging.Info("Shutting down validation service...")
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

func (s *Server) uptime() time.Duration {
	return time.Since(s.startTime)
}

func serviceVersion() string {
	return version.PreflightVersion
}
