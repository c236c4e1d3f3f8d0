package container

import (
	pantryapp "github.com/alchemorsel/mealplan/internal/application/pantry"
	planapp "github.com/alchemorsel/mealplan/internal/application/plan"
	recipeapp "github.com/alchemorsel/mealplan/internal/application/recipe"
	userapp "github.com/alchemorsel/mealplan/internal/application/user"
	"github.com/alchemorsel/mealplan/internal/application/validation"
	"github.com/alchemorsel/mealplan/internal/domain/shared"
	"github.com/alchemorsel/mealplan/internal/infrastructure/config"
	"github.com/alchemorsel/mealplan/internal/infrastructure/realtime"
	"github.com/alchemorsel/mealplan/internal/ports/inbound"
	"github.com/alchemorsel/mealplan/internal/ports/outbound"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// ServiceModule provides application services and the event fan-out
var ServiceModule = fx.Provide(
	validation.New,

	func(cfg *config.Config, log *zap.Logger) *realtime.Hub {
		return realtime.NewHub(realtime.Config{
			PingInterval: cfg.Realtime.PingInterval,
			WriteTimeout: cfg.Realtime.WriteTimeout,
			SendBuffer:   cfg.Realtime.SendBuffer,
		}, log)
	},
	func(hub *realtime.Hub, log *zap.Logger) shared.EventPublisher {
		return realtime.Publishers{realtime.NewLogPublisher(log), hub}
	},

	func(cfg *config.Config) recipeapp.Config {
		return recipeapp.Config{CacheTTL: cfg.Cache.RecipeTTL}
	},
	fx.Annotate(recipeapp.NewRecipeService, fx.As(new(inbound.RecipeService))),
	fx.Annotate(userapp.NewUserService, fx.As(new(inbound.UserService))),
	fx.Annotate(pantryapp.NewPantryService, fx.As(new(inbound.PantryService))),
	func(plans outbound.PlanRepository, events shared.EventPublisher, metrics outbound.Metrics, log *zap.Logger) inbound.PlanService {
		return planapp.NewPlanService(plans, events, metrics, log)
	},
)
