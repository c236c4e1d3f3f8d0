package handlers

import (
	"net/http"

	"github.com/alchemorsel/mealplan/internal/infrastructure/http/middleware"
	"github.com/alchemorsel/mealplan/internal/infrastructure/realtime"
	"github.com/alchemorsel/mealplan/internal/ports/inbound"
	"github.com/alchemorsel/mealplan/pkg/errors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PlanHandler serves daily plans, calorie history and the live plan feed
type PlanHandler struct {
	plans  inbound.PlanService
	hub    *realtime.Hub
	logger *zap.Logger
}

// NewPlanHandler creates a plan handler
func NewPlanHandler(plans inbound.PlanService, hub *realtime.Hub, logger *zap.Logger) *PlanHandler {
	return &PlanHandler{plans: plans, hub: hub, logger: logger.Named("plan-handler")}
}

// AddEntryRequest is the body of POST /api/users/me/plans/today/entries
type AddEntryRequest struct {
	RecipeID uint `json:"recipeId"`
}

// Today handles GET /api/users/me/plans/today
func (h *PlanHandler) Today(c *gin.Context) {
	plan, err := h.plans.GetToday(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

// AddEntry handles POST /api/users/me/plans/today/entries
func (h *PlanHandler) AddEntry(c *gin.Context) {
	var req AddEntryRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.RecipeID == 0 {
		_ = c.Error(errors.NewValidationError("recipeId is required"))
		return
	}

	entry, err := h.plans.AddEntryToday(c.Request.Context(), middleware.UserID(c), req.RecipeID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// RemoveEntry handles DELETE /api/users/me/plan-entries/:id
func (h *PlanHandler) RemoveEntry(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.plans.RemoveEntry(c.Request.Context(), middleware.UserID(c), id); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

// CalorieHistory handles GET /api/users/me/calorie-history
func (h *PlanHandler) CalorieHistory(c *gin.Context) {
	offset, ok := queryInt(c, "timezoneOffset", 0)
	if !ok {
		return
	}

	days, err := h.plans.CalorieHistory(c.Request.Context(), middleware.UserID(c), c.Query("startDate"), offset)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, days)
}

// FullCalorieHistory handles GET /api/users/me/full-calorie-history
func (h *PlanHandler) FullCalorieHistory(c *gin.Context) {
	days, err := h.plans.FullCalorieHistory(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, days)
}

// FirstEntryDate handles GET /api/users/me/first-entry-date
func (h *PlanHandler) FirstEntryDate(c *gin.Context) {
	date, err := h.plans.FirstEntryDate(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"date": date})
}

// Events handles GET /api/users/me/plan-events
func (h *PlanHandler) Events(c *gin.Context) {
	userID := middleware.UserID(c)
	if err := h.hub.Serve(c.Writer, c.Request, userID); err != nil {
		// the upgrader has already written the handshake error
		h.logger.Debug("Websocket upgrade failed", zap.Uint("user_id", userID), zap.Error(err))
	}
}
