// Package testutils provides common testing utilities and infrastructure setup
package testutils

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// PostgresContainer is a throwaway PostgreSQL server
type PostgresContainer struct {
	Container testcontainers.Container
	Host      string
	Port      int
	Database  string
	Username  string
	Password  string
}

// DatabaseConfig holds test database configuration
type DatabaseConfig struct {
	Image    string
	Database string
	Username string
	Password string
}

// DefaultDatabaseConfig returns the default test database configuration
func DefaultDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		Image:    "postgres:15-alpine",
		Database: "mealplan_test",
		Username: "test_user",
		Password: "test_password",
	}
}

// StartPostgres runs a PostgreSQL container for the lifetime of the test
func StartPostgres(t *testing.T) *PostgresContainer {
	t.Helper()

	cfg := DefaultDatabaseConfig()
	ctx := context.Background()
	port := nat.Port("5432/tcp")

	container, err := testcontainers.GenericContainer(ctx,
		testcontainers.GenericContainerRequest{
			ContainerRequest: testcontainers.ContainerRequest{
				Image:        cfg.Image,
				ExposedPorts: []string{string(port)},
				Env: map[string]string{
					"POSTGRES_DB":       cfg.Database,
					"POSTGRES_USER":     cfg.Username,
					"POSTGRES_PASSWORD": cfg.Password,
				},
				WaitingFor: wait.ForAll(
					wait.ForLog("database system is ready to accept connections").
						WithOccurrence(2).
						WithStartupTimeout(60*time.Second),
					wait.ForSQL(port, "pgx", func(host string, port nat.Port) string {
						return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
							cfg.Username, cfg.Password, host, port.Port(), cfg.Database)
					}),
				),
				Tmpfs: map[string]string{
					"/var/lib/postgresql/data": "rw,noexec,nosuid,size=512m",
				},
			},
			Started: true,
		})
	require.NoError(t, err, "Failed to start postgres container")

	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("Failed to terminate postgres container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)

	mapped, err := container.MappedPort(ctx, port)
	require.NoError(t, err)

	return &PostgresContainer{
		Container: container,
		Host:      host,
		Port:      mapped.Int(),
		Database:  cfg.Database,
		Username:  cfg.Username,
		Password:  cfg.Password,
	}
}

// StartRedis runs a Redis container for the lifetime of the test and returns its address
func StartRedis(t *testing.T) (host string, port int) {
	t.Helper()

	ctx := context.Background()
	redisPort := nat.Port("6379/tcp")

	container, err := testcontainers.GenericContainer(ctx,
		testcontainers.GenericContainerRequest{
			ContainerRequest: testcontainers.ContainerRequest{
				Image:        "redis:7-alpine",
				ExposedPorts: []string{string(redisPort)},
				WaitingFor: wait.ForLog("Ready to accept connections").
					WithStartupTimeout(30 * time.Second),
			},
			Started: true,
		})
	require.NoError(t, err, "Failed to start redis container")

	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("Failed to terminate redis container: %v", err)
		}
	})

	host, err = container.Host(ctx)
	require.NoError(t, err)

	mapped, err := container.MappedPort(ctx, redisPort)
	require.NoError(t, err)

	return host, mapped.Int()
}
