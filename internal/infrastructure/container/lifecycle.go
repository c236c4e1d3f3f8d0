package container

import (
	"context"

	"github.com/alchemorsel/mealplan/internal/infrastructure/config"
	"github.com/alchemorsel/mealplan/internal/infrastructure/http/opsserver"
	"github.com/alchemorsel/mealplan/internal/infrastructure/http/server"
	"github.com/alchemorsel/mealplan/internal/infrastructure/monitoring"
	"github.com/alchemorsel/mealplan/internal/infrastructure/realtime"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// LifecycleModule starts and stops the listeners
var LifecycleModule = fx.Invoke(
	func(*monitoring.TracingProvider, *monitoring.MeterProvider) {},
	watchLogLevel,
	RegisterLifecycleHooks,
)

// RegisterLifecycleHooks registers application lifecycle hooks. A listener
// that fails after start shuts the whole application down.
func RegisterLifecycleHooks(
	lc fx.Lifecycle,
	shutdowner fx.Shutdowner,
	cfg *config.Config,
	log *zap.Logger,
	api *server.Server,
	ops *opsserver.Server,
	hub *realtime.Hub,
) {
	serve := func(name string, start func() error) {
		go func() {
			if err := start(); err != nil {
				log.Error("Listener failed", zap.String("listener", name), zap.Error(err))
				_ = shutdowner.Shutdown(fx.ExitCode(1))
			}
		}()
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("Starting meal planning API",
				zap.String("version", cfg.App.Version),
				zap.String("environment", cfg.App.Environment),
				zap.String("database", cfg.Database.Driver),
				zap.String("auth_mode", cfg.Auth.Mode),
			)

			serve("api", api.Start)
			if cfg.Ops.Enabled {
				serve("ops", ops.Start)
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down meal planning API")

			hub.Close()
			if err := api.Shutdown(ctx); err != nil {
				log.Error("Failed to shutdown HTTP server", zap.Error(err))
			}
			if cfg.Ops.Enabled {
				if err := ops.Shutdown(ctx); err != nil {
					log.Error("Failed to shutdown ops server", zap.Error(err))
				}
			}

			_ = log.Sync()
			return nil
		},
	})
}
