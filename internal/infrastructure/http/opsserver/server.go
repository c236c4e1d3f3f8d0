// Package opsserver serves Prometheus metrics and health probes on a
// listener separate from the public API.
package opsserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/alchemorsel/mealplan/internal/infrastructure/config"
	"github.com/alchemorsel/mealplan/pkg/healthcheck"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Server is the operations listener
type Server struct {
	logger *zap.Logger
	server *http.Server
}

// NewRouter mounts /metrics and the health endpoints
func NewRouter(registry *prometheus.Registry, health *healthcheck.HealthCheck) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.NoCache)

	r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{
		Registry:          registry,
		EnableOpenMetrics: true,
	}))

	r.Route("/health", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			response := health.Check(r.Context())
			status := http.StatusOK
			if response.Status == healthcheck.StatusUnhealthy {
				status = http.StatusServiceUnavailable
			}
			healthcheck.WriteJSON(w, status, response)
		})
		r.Get("/live", health.LivenessHandler())
		r.Get("/ready", health.ReadinessHandler())
	})

	return r
}

// NewServer creates the operations server
func NewServer(cfg *config.Config, registry *prometheus.Registry, health *healthcheck.HealthCheck, logger *zap.Logger) *Server {
	return &Server{
		logger: logger.Named("ops-server"),
		server: &http.Server{
			Addr:              cfg.OpsAddr(),
			Handler:           NewRouter(registry, health),
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       10 * time.Second,
			WriteTimeout:      30 * time.Second,
		},
	}
}

// Start listens and serves until Shutdown
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return err
	}

	s.logger.Info("Starting ops server", zap.String("address", ln.Addr().String()))
	if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the listener
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
