// Package main provides the entry point of the meal planning API server
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"github.com/alchemorsel/mealplan/internal/infrastructure/container"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "Configuration file path")
	flag.Parse()

	app := fx.New(
		container.New(*configPath),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			l := &fxevent.ZapLogger{Logger: log.Named("fx")}
			l.UseLogLevel(zap.DebugLevel)
			return l
		}),
	)

	startCtx, cancel := context.WithTimeout(context.Background(), app.StartTimeout())
	defer cancel()
	if err := app.Start(startCtx); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	// Wait returns on SIGINT, SIGTERM or a listener failure
	signal := <-app.Wait()

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer stopCancel()
	if err := app.Stop(stopCtx); err != nil {
		log.Printf("Failed to stop application gracefully: %v", err)
		os.Exit(1)
	}
	os.Exit(signal.ExitCode)
}
