// Package main provides the schema migration command for PostgreSQL
package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/alchemorsel/mealplan/internal/infrastructure/config"
	"github.com/alchemorsel/mealplan/internal/infrastructure/persistence/migrations"
	"github.com/alchemorsel/mealplan/pkg/logger"
	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"
)

const usage = `usage: migrate [-config path] <command>

commands:
  up             apply all pending migrations
  down           roll back the last migration
  version        print the current version
  force VERSION  set the version without running migrations
`

func main() {
	configPath := flag.String("config", "", "Configuration file path")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(*configPath, flag.Args()); err != nil {
		fmt.Fprintln(os.Stderr, "migrate:", err)
		os.Exit(1)
	}
}

func run(configPath string, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cfg.Database.Driver != config.DriverPostgres {
		return fmt.Errorf("migrations apply to postgres only, database.driver is %q", cfg.Database.Driver)
	}

	log, _, err := logger.New(logger.Config{Level: cfg.Logging.Level, Format: "console", Development: true})
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	db, err := sql.Open("pgx", cfg.GetDSN())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	m, err := migrations.New(db, cfg.Database.Database, log)
	if err != nil {
		_ = db.Close()
		return err
	}
	defer func() {
		if err := m.Close(); err != nil {
			log.Warn("Failed to close migrator", zap.Error(err))
		}
	}()

	switch args[0] {
	case "up":
		return m.Up()
	case "down":
		return m.Down()
	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			return err
		}
		fmt.Printf("version %d (dirty: %t)\n", version, dirty)
		return nil
	case "force":
		if len(args) != 2 {
			return fmt.Errorf("force needs a version")
		}
		version, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid version %q", args[1])
		}
		return m.Force(version)
	default:
		flag.Usage()
		return fmt.Errorf("unknown command %q", args[0])
	}
}
