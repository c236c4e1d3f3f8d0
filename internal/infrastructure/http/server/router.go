package server

import (
	"github.com/alchemorsel/mealplan/internal/infrastructure/config"
	"github.com/alchemorsel/mealplan/internal/infrastructure/http/handlers"
	"github.com/alchemorsel/mealplan/internal/infrastructure/http/middleware"
	"github.com/alchemorsel/mealplan/pkg/errors"
	"github.com/gin-gonic/gin"
)

// Handlers groups the REST handlers mounted by the router
type Handlers struct {
	Recipes *handlers.RecipeHandler
	Plans   *handlers.PlanHandler
	Pantry  *handlers.PantryHandler
	Users   *handlers.UserHandler
}

// NewRouter builds the gin engine with the middleware chain and every route.
// identity guards everything under /api/users/me and the recipe writes.
func NewRouter(cfg *config.Config, mw *middleware.Middleware, identity gin.HandlerFunc, h Handlers) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.HandleMethodNotAllowed = true
	if err := r.SetTrustedProxies(cfg.Server.TrustedProxies); err != nil {
		panic(err)
	}

	r.Use(
		mw.RequestID(),
		mw.Logger(),
		mw.Recovery(),
		mw.Metrics(),
		mw.Security(),
		mw.CORS(),
		mw.Compression(),
		mw.ErrorHandler(),
		mw.RateLimit(),
		mw.Timeout(cfg.Server.RequestTimeout),
	)

	r.NoRoute(func(c *gin.Context) {
		_ = c.Error(errors.NewNotFoundError("Route"))
	})
	r.NoMethod(func(c *gin.Context) {
		_ = c.Error(errors.NewAppError(errors.CodeBadRequest, "Method not allowed", c.Request.Method))
	})

	api := r.Group("/api")
	{
		api.POST("/users", h.Users.Create)
		api.POST("/sessions", h.Users.CreateSession)

		api.GET("/recipes", h.Recipes.List)
		api.GET("/recipes/:id", h.Recipes.Get)
		api.POST("/recipes", identity, h.Recipes.Create)
		api.DELETE("/recipes/:id", identity, h.Recipes.Delete)

		me := api.Group("/users/me", identity)
		{
			me.GET("", h.Users.Me)
			me.PATCH("", h.Users.UpdateMe)

			me.GET("/recommended-recipes", h.Recipes.Recommended)

			me.GET("/pantry", h.Pantry.Get)
			me.PUT("/pantry", h.Pantry.Replace)

			me.GET("/plans/today", h.Plans.Today)
			me.POST("/plans/today/entries", h.Plans.AddEntry)
			me.DELETE("/plan-entries/:id", h.Plans.RemoveEntry)

			me.GET("/calorie-history", h.Plans.CalorieHistory)
			me.GET("/full-calorie-history", h.Plans.FullCalorieHistory)
			me.GET("/first-entry-date", h.Plans.FirstEntryDate)

			me.GET("/plan-events", h.Plans.Events)
		}
	}

	return r
}
