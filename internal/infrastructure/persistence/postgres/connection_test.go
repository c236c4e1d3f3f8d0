//go:build integration

package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/alchemorsel/mealplan/internal/infrastructure/config"
	gormstore "github.com/alchemorsel/mealplan/internal/infrastructure/persistence/gorm"
	"github.com/alchemorsel/mealplan/internal/infrastructure/persistence/postgres"
	"github.com/alchemorsel/mealplan/test/testutils"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap/zaptest"
)

func TestPostgresRepositoryContract(t *testing.T) {
	pg := testutils.StartPostgres(t)

	cfg := &config.Config{
		Database: config.DatabaseConfig{
			Driver:          config.DriverPostgres,
			Host:            pg.Host,
			Port:            pg.Port,
			Database:        pg.Database,
			Username:        pg.Username,
			Password:        pg.Password,
			SSLMode:         "disable",
			MaxOpenConns:    10,
			MaxIdleConns:    2,
			ConnMaxLifetime: time.Hour,
			ConnMaxIdleTime: time.Minute,
			LogLevel:        "silent",
			AutoMigrate:     true,
		},
	}

	cm, err := postgres.NewConnectionManager(cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { cm.Close() })
	require.NoError(t, cm.Ping(context.Background()))

	// a second run finds nothing to apply
	require.NoError(t, cm.Migrate(pg.Database))

	db := cm.DB()
	contract := &testutils.RepositoryContractSuite{}
	contract.Open = func() testutils.Repositories {
		contract.Require().NoError(db.Exec(`TRUNCATE users, recipes, recipe_steps, recipe_ingredients,
			daily_plans, plan_entries, pantry_items RESTART IDENTITY CASCADE`).Error)
		return testutils.Repositories{
			Users:    gormstore.NewUserRepository(db),
			Recipes:  gormstore.NewRecipeRepository(db),
			Plans:    gormstore.NewPlanRepository(db),
			Pantries: gormstore.NewPantryRepository(db),
		}
	}
	suite.Run(t, contract)
}
