package container

import (
	"github.com/alchemorsel/mealplan/internal/infrastructure/config"
	"github.com/alchemorsel/mealplan/internal/infrastructure/http/handlers"
	"github.com/alchemorsel/mealplan/internal/infrastructure/http/middleware"
	"github.com/alchemorsel/mealplan/internal/infrastructure/http/opsserver"
	"github.com/alchemorsel/mealplan/internal/infrastructure/http/server"
	"github.com/alchemorsel/mealplan/internal/infrastructure/security"
	"github.com/alchemorsel/mealplan/internal/ports/inbound"
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
)

// HTTPModule provides the public API server and the ops listener
var HTTPModule = fx.Provide(
	func(cfg *config.Config) (security.Authenticator, error) {
		return security.NewAuthenticator(cfg.Auth)
	},
	middleware.New,

	handlers.NewRecipeHandler,
	handlers.NewPlanHandler,
	handlers.NewPantryHandler,
	newUserHandler,

	newRouter,
	server.NewServer,
	opsserver.NewServer,
)

// newUserHandler enables sessions only when the authenticator can mint tokens
func newUserHandler(users inbound.UserService, auth security.Authenticator) *handlers.UserHandler {
	if issuer, ok := auth.(security.TokenIssuer); ok {
		return handlers.NewUserHandler(users, issuer)
	}
	return handlers.NewUserHandler(users, nil)
}

func newRouter(
	cfg *config.Config,
	mw *middleware.Middleware,
	auth security.Authenticator,
	users inbound.UserService,
	recipes *handlers.RecipeHandler,
	plans *handlers.PlanHandler,
	pantry *handlers.PantryHandler,
	userHandler *handlers.UserHandler,
) *gin.Engine {
	return server.NewRouter(cfg, mw, middleware.Identity(auth, users), server.Handlers{
		Recipes: recipes,
		Plans:   plans,
		Pantry:  pantry,
		Users:   userHandler,
	})
}
