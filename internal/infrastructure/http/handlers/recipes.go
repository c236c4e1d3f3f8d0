package handlers

import (
	"net/http"

	"github.com/alchemorsel/mealplan/internal/infrastructure/http/middleware"
	"github.com/alchemorsel/mealplan/internal/ports/inbound"
	"github.com/alchemorsel/mealplan/pkg/errors"
	"github.com/gin-gonic/gin"
)

const defaultTake = 3

// RecipeHandler serves the catalog and recommendations
type RecipeHandler struct {
	recipes inbound.RecipeService
}

// NewRecipeHandler creates a recipe handler
func NewRecipeHandler(recipes inbound.RecipeService) *RecipeHandler {
	return &RecipeHandler{recipes: recipes}
}

// CreateRecipeRequest is the body of POST /api/recipes
type CreateRecipeRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Kcal        int      `json:"kcal"`
	Time        string   `json:"time"`
	Difficulty  string   `json:"difficulty"`
	Image       string   `json:"image"`
	Steps       []string `json:"steps"`
	Ingredients []string `json:"ingredients"`
}

// Create handles POST /api/recipes
func (h *RecipeHandler) Create(c *gin.Context) {
	var req CreateRecipeRequest
	if !bindJSON(c, &req) {
		return
	}

	recipe, err := h.recipes.CreateRecipe(c.Request.Context(), inbound.CreateRecipeCommand{
		AuthorID:    middleware.UserID(c),
		Title:       req.Title,
		Description: req.Description,
		Kcal:        req.Kcal,
		TimeLabel:   req.Time,
		Difficulty:  req.Difficulty,
		Image:       req.Image,
		Steps:       req.Steps,
		Ingredients: req.Ingredients,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.Header("Location", "/api/recipes/"+itoa(recipe.ID))
	c.JSON(http.StatusCreated, recipe)
}

// List handles GET /api/recipes
func (h *RecipeHandler) List(c *gin.Context) {
	limit, ok := queryInt(c, "limit", 0)
	if !ok {
		return
	}
	offset, ok := queryInt(c, "offset", 0)
	if !ok {
		return
	}

	page, err := h.recipes.ListRecipes(c.Request.Context(), inbound.PaginationParams{Offset: offset, Limit: limit})
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// Get handles GET /api/recipes/:id
func (h *RecipeHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	recipe, err := h.recipes.GetRecipe(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

// Delete handles DELETE /api/recipes/:id
func (h *RecipeHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.recipes.DeleteRecipe(c.Request.Context(), id, middleware.UserID(c)); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Recommended handles GET /api/users/me/recommended-recipes
func (h *RecipeHandler) Recommended(c *gin.Context) {
	take, ok := queryInt(c, "take", defaultTake)
	if !ok {
		return
	}
	if take < 1 {
		_ = c.Error(errors.NewValidationError("take must be at least 1"))
		return
	}

	recipes, err := h.recipes.RecommendRecipes(c.Request.Context(), middleware.UserID(c), take)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, recipes)
}
