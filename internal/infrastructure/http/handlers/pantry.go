package handlers

import (
	"net/http"

	"github.com/alchemorsel/mealplan/internal/infrastructure/http/middleware"
	"github.com/alchemorsel/mealplan/internal/ports/inbound"
	"github.com/alchemorsel/mealplan/pkg/errors"
	"github.com/gin-gonic/gin"
)

// PantryHandler serves the caller's pantry
type PantryHandler struct {
	pantry inbound.PantryService
}

// NewPantryHandler creates a pantry handler
func NewPantryHandler(pantry inbound.PantryService) *PantryHandler {
	return &PantryHandler{pantry: pantry}
}

// PantryBody is the request and response body of the pantry endpoints
type PantryBody struct {
	Ingredients *[]string `json:"ingredients"`
}

// Get handles GET /api/users/me/pantry
func (h *PantryHandler) Get(c *gin.Context) {
	names, err := h.pantry.GetPantry(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, PantryBody{Ingredients: &names})
}

// Replace handles PUT /api/users/me/pantry
func (h *PantryHandler) Replace(c *gin.Context) {
	var body PantryBody
	if !bindJSON(c, &body) {
		return
	}
	if body.Ingredients == nil {
		_ = c.Error(errors.NewAppError(errors.CodeBadRequest, "Malformed request body", "ingredients must be an array"))
		return
	}

	if err := h.pantry.ReplacePantry(c.Request.Context(), middleware.UserID(c), *body.Ingredients); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}
