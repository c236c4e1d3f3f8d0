// Package postgres provides PostgreSQL database connection and management
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alchemorsel/mealplan/internal/infrastructure/config"
	gormstore "github.com/alchemorsel/mealplan/internal/infrastructure/persistence/gorm"
	"github.com/alchemorsel/mealplan/internal/infrastructure/persistence/migrations"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/plugin/dbresolver"
)

// ConnectionManager owns the primary pool and any read replicas
type ConnectionManager struct {
	config  config.DatabaseConfig
	logger  *zap.Logger
	db      *gorm.DB
	writeDB *sql.DB
}

// NewConnectionManager opens the primary database through pgx, registers read
// replicas and applies pending migrations when auto_migrate is set.
func NewConnectionManager(cfg *config.Config, logger *zap.Logger) (*ConnectionManager, error) {
	log := logger.Named("postgres")

	writeDB, err := openPool(cfg.GetDSN(), cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to open primary database: %w", err)
	}

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: writeDB}), &gorm.Config{
		Logger:                 gormstore.NewLogger(cfg.Database.LogLevel, cfg.Database.SlowQueryThreshold, log),
		TranslateError:         true,
		PrepareStmt:            true,
		SkipDefaultTransaction: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		writeDB.Close()
		return nil, fmt.Errorf("failed to initialize gorm: %w", err)
	}

	cm := &ConnectionManager{
		config:  cfg.Database,
		logger:  log,
		db:      db,
		writeDB: writeDB,
	}

	if len(cfg.Database.Replicas) > 0 {
		if err := cm.setupReplicas(cfg.Database.Replicas); err != nil {
			cm.Close()
			return nil, err
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := writeDB.PingContext(ctx); err != nil {
		cm.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if cfg.Database.AutoMigrate {
		if err := cm.Migrate(cfg.Database.Database); err != nil {
			cm.Close()
			return nil, err
		}
	}

	log.Info("Database connection established",
		zap.String("host", cfg.Database.Host),
		zap.String("database", cfg.Database.Database),
		zap.Int("replicas", len(cfg.Database.Replicas)),
		zap.Int("max_open_conns", cfg.Database.MaxOpenConns),
	)

	return cm, nil
}

func openPool(dsn string, cfg config.DatabaseConfig) (*sql.DB, error) {
	connConfig, err := pgx.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("invalid dsn: %w", err)
	}

	db := stdlib.OpenDB(*connConfig)
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	return db, nil
}

// setupReplicas routes read queries to the replicas; writes and transactions stay on the primary
func (cm *ConnectionManager) setupReplicas(dsns []string) error {
	replicas := make([]gorm.Dialector, 0, len(dsns))
	for _, dsn := range dsns {
		pool, err := openPool(dsn, cm.config)
		if err != nil {
			return fmt.Errorf("failed to open replica: %w", err)
		}
		replicas = append(replicas, postgres.New(postgres.Config{Conn: pool}))
	}

	resolver := dbresolver.Register(dbresolver.Config{
		Replicas: replicas,
		Policy:   dbresolver.RandomPolicy{},
	}).
		SetMaxOpenConns(cm.config.MaxOpenConns).
		SetMaxIdleConns(cm.config.MaxIdleConns).
		SetConnMaxLifetime(cm.config.ConnMaxLifetime).
		SetConnMaxIdleTime(cm.config.ConnMaxIdleTime)

	if err := cm.db.Use(resolver); err != nil {
		return fmt.Errorf("failed to register read replicas: %w", err)
	}
	return nil
}

// Migrate applies the embedded SQL migrations to the primary
func (cm *ConnectionManager) Migrate(databaseName string) error {
	m, err := migrations.New(cm.writeDB, databaseName, cm.logger)
	if err != nil {
		return err
	}
	// Closing the migrator would close the shared pool.
	return m.Up()
}

// DB returns the GORM handle
func (cm *ConnectionManager) DB() *gorm.DB {
	return cm.db
}

// SQL returns the primary pool
func (cm *ConnectionManager) SQL() *sql.DB {
	return cm.writeDB
}

// Ping checks the primary
func (cm *ConnectionManager) Ping(ctx context.Context) error {
	return cm.writeDB.PingContext(ctx)
}

// Close closes every pool
func (cm *ConnectionManager) Close() error {
	cm.logger.Info("Closing database connections")
	return cm.writeDB.Close()
}
