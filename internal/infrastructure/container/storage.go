package container

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alchemorsel/mealplan/internal/infrastructure/config"
	gormstore "github.com/alchemorsel/mealplan/internal/infrastructure/persistence/gorm"
	"github.com/alchemorsel/mealplan/internal/infrastructure/persistence/memory"
	"github.com/alchemorsel/mealplan/internal/infrastructure/persistence/postgres"
	redisstore "github.com/alchemorsel/mealplan/internal/infrastructure/persistence/redis"
	"github.com/alchemorsel/mealplan/internal/infrastructure/persistence/sqlite"
	"github.com/alchemorsel/mealplan/internal/ports/outbound"
	"github.com/alchemorsel/mealplan/pkg/healthcheck"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Storage is the persistence backend selected by database.driver
type Storage struct {
	Users    outbound.UserRepository
	Recipes  outbound.RecipeRepository
	Plans    outbound.PlanRepository
	Pantries outbound.PantryRepository

	// SQL is the pooled handle of SQL backends, nil for the memory driver
	SQL *sql.DB
}

// Cache is the recipe cache with its optional Redis client
type Cache struct {
	outbound.CacheRepository
	Redis redis.UniversalClient
}

// StorageModule provides repositories and the cache
var StorageModule = fx.Provide(
	newStorage,
	func(s *Storage) outbound.UserRepository { return s.Users },
	func(s *Storage) outbound.RecipeRepository { return s.Recipes },
	func(s *Storage) outbound.PlanRepository { return s.Plans },
	func(s *Storage) outbound.PantryRepository { return s.Pantries },
	newCache,
	func(c *Cache) outbound.CacheRepository { return c.CacheRepository },
	newHealthCheck,
)

func newStorage(lc fx.Lifecycle, cfg *config.Config, reg prometheus.Registerer, log *zap.Logger) (*Storage, error) {
	var (
		db      *gorm.DB
		closeDB func() error
	)

	switch cfg.Database.Driver {
	case config.DriverMemory:
		store := memory.NewStore()
		log.Info("Using in-memory storage")
		return &Storage{
			Users:    store.Users(),
			Recipes:  store.Recipes(),
			Plans:    store.Plans(),
			Pantries: store.Pantries(),
		}, nil

	case config.DriverSQLite:
		var err error
		db, err = sqlite.SetupDatabase(cfg.Database.Path,
			gormstore.NewLogger(cfg.Database.LogLevel, cfg.Database.SlowQueryThreshold, log))
		if err != nil {
			return nil, fmt.Errorf("failed to setup SQLite database: %w", err)
		}
		log.Info("Connected to SQLite database", zap.String("path", cfg.Database.Path))

	case config.DriverPostgres:
		cm, err := postgres.NewConnectionManager(cfg, log)
		if err != nil {
			return nil, err
		}
		db = cm.DB()
		closeDB = cm.Close

	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database handle: %w", err)
	}
	if closeDB == nil {
		closeDB = sqlDB.Close
	}
	reg.MustRegister(collectors.NewDBStatsCollector(sqlDB, cfg.Database.Driver))
	lc.Append(fx.Hook{OnStop: func(context.Context) error { return closeDB() }})

	return &Storage{
		Users:    gormstore.NewUserRepository(db),
		Recipes:  gormstore.NewRecipeRepository(db),
		Plans:    gormstore.NewPlanRepository(db),
		Pantries: gormstore.NewPantryRepository(db),
		SQL:      sqlDB,
	}, nil
}

func newCache(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (*Cache, error) {
	if cfg.Redis.Enabled {
		client, err := redisstore.NewClient(context.Background(), cfg.Redis, log)
		if err != nil {
			return nil, err
		}
		lc.Append(fx.Hook{OnStop: func(context.Context) error { return client.Close() }})
		return &Cache{CacheRepository: redisstore.NewCacheRepository(client, log), Redis: client}, nil
	}

	cache := memory.NewCacheRepository()
	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			if cfg.Cache.JanitorInterval > 0 {
				go cache.RunJanitor(ctx, cfg.Cache.JanitorInterval)
			}
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			return nil
		},
	})
	log.Info("Using in-memory recipe cache")
	return &Cache{CacheRepository: cache}, nil
}

func newHealthCheck(cfg *config.Config, storage *Storage, cache *Cache, log *zap.Logger) *healthcheck.HealthCheck {
	health := healthcheck.New(cfg.App.Version, log.Named("health"))
	if storage.SQL != nil {
		health.Register("database", healthcheck.NewDatabaseChecker(storage.SQL))
	}
	if cache.Redis != nil {
		health.Register("redis", healthcheck.NewRedisChecker(cache.Redis))
	}
	return health
}
