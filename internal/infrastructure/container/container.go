// Package container provides dependency injection using Uber FX
package container

import (
	"context"

	"github.com/alchemorsel/mealplan/internal/infrastructure/config"
	"github.com/alchemorsel/mealplan/internal/infrastructure/monitoring"
	"github.com/alchemorsel/mealplan/internal/ports/outbound"
	"github.com/alchemorsel/mealplan/pkg/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// New returns every module of the API process, reading configuration from
// configPath. An empty path searches the default locations.
func New(configPath string) fx.Option {
	return fx.Options(
		fx.Supply(fx.Annotated{Name: "configPath", Target: configPath}),

		ConfigModule,
		LoggerModule,
		ObservabilityModule,
		StorageModule,
		ServiceModule,
		HTTPModule,

		LifecycleModule,
	)
}

// ConfigModule provides configuration
var ConfigModule = fx.Provide(
	fx.Annotate(config.Load, fx.ParamTags(`name:"configPath"`)),
)

// LoggerModule provides logging. The level follows logging.level in the
// config file while the process runs.
var LoggerModule = fx.Provide(
	func(cfg *config.Config) (*zap.Logger, zap.AtomicLevel, error) {
		return logger.New(logger.Config{
			Level:       cfg.Logging.Level,
			Format:      cfg.Logging.Format,
			Development: cfg.IsDevelopment(),
			OutputPaths: cfg.Logging.OutputPaths,
		})
	},
)

// ObservabilityModule provides the metrics registry and tracing
var ObservabilityModule = fx.Provide(
	newRegistry,
	monitoring.NewMetrics,
	func(m *monitoring.Metrics) outbound.Metrics { return m },
	newTracing,
	newMeterProvider,
)

func newRegistry() (*prometheus.Registry, prometheus.Registerer) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg, reg
}

func newTracing(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (*monitoring.TracingProvider, error) {
	tp, err := monitoring.NewTracingProvider(context.Background(), cfg.Tracing, cfg.App, log)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{OnStop: tp.Shutdown})
	return tp, nil
}

func newMeterProvider(lc fx.Lifecycle, cfg *config.Config, reg prometheus.Registerer) (*monitoring.MeterProvider, error) {
	mp, err := monitoring.NewMeterProvider(reg, cfg.App)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{OnStop: mp.Shutdown})
	return mp, nil
}

// watchLogLevel applies logging.level changes without a restart
func watchLogLevel(cfg *config.Config, level zap.AtomicLevel, log *zap.Logger) {
	cfg.Watch(
		func(next *config.Config) {
			lvl := logger.ParseLevel(next.Logging.Level)
			if lvl == level.Level() {
				return
			}
			level.SetLevel(lvl)
			log.Info("Log level changed", zap.Stringer("level", lvl))
		},
		func(err error) {
			log.Warn("Ignoring invalid configuration change", zap.Error(err))
		},
	)
}
