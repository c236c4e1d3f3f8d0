// Package server provides the public HTTP server of the API
package server

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/alchemorsel/mealplan/internal/infrastructure/config"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

// Server represents the HTTP server
type Server struct {
	config *config.Config
	logger *zap.Logger
	server *http.Server
}

// NewServer wraps the router with tracing and, when enabled, cleartext HTTP/2
func NewServer(cfg *config.Config, router *gin.Engine, logger *zap.Logger) *Server {
	var handler http.Handler = router
	handler = otelhttp.NewHandler(handler, cfg.App.Name,
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
	)

	srv := &http.Server{
		Addr:           cfg.ServerAddr(),
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	if cfg.Server.EnableH2C {
		h2s := &http2.Server{IdleTimeout: cfg.Server.IdleTimeout}
		handler = h2c.NewHandler(handler, h2s)
	}
	srv.Handler = handler

	return &Server{
		config: cfg,
		logger: logger.Named("http-server"),
		server: srv,
	}
}

// Handler returns the root handler
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start listens and serves until Shutdown
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

// Serve serves on an existing listener
func (s *Server) Serve(ln net.Listener) error {
	s.logger.Info("Starting HTTP server",
		zap.String("address", ln.Addr().String()),
		zap.String("environment", s.config.App.Environment),
		zap.Bool("h2c", s.config.Server.EnableH2C),
	)

	if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}
