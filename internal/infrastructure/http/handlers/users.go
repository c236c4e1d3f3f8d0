package handlers

import (
	"net/http"
	"time"

	"github.com/alchemorsel/mealplan/internal/infrastructure/http/middleware"
	"github.com/alchemorsel/mealplan/internal/infrastructure/security"
	"github.com/alchemorsel/mealplan/internal/ports/inbound"
	"github.com/alchemorsel/mealplan/pkg/errors"
	"github.com/gin-gonic/gin"
)

// UserHandler serves registration, sessions and the caller's profile
type UserHandler struct {
	users  inbound.UserService
	issuer security.TokenIssuer
}

// NewUserHandler creates a user handler. A nil issuer disables sessions.
func NewUserHandler(users inbound.UserService, issuer security.TokenIssuer) *UserHandler {
	return &UserHandler{users: users, issuer: issuer}
}

// CreateUserRequest is the body of POST /api/users
type CreateUserRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	CalorieGoal int    `json:"calorieGoal"`
}

// SessionRequest is the body of POST /api/sessions
type SessionRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SessionResponse carries a bearer token
type SessionResponse struct {
	Token     string           `json:"token"`
	ExpiresAt time.Time        `json:"expiresAt"`
	User      *inbound.UserDTO `json:"user"`
}

// UpdateProfileRequest is the body of PATCH /api/users/me
type UpdateProfileRequest struct {
	CalorieGoal *int    `json:"calorieGoal"`
	Avatar      *string `json:"avatar"`
	Phone       *string `json:"phone"`
	Address     *string `json:"address"`
	IDNumber    *string `json:"idNumber"`
}

// Create handles POST /api/users
func (h *UserHandler) Create(c *gin.Context) {
	var req CreateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.users.CreateUser(c.Request.Context(), inbound.CreateUserCommand{
		Name:        req.Name,
		Email:       req.Email,
		Password:    req.Password,
		CalorieGoal: req.CalorieGoal,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// CreateSession handles POST /api/sessions
func (h *UserHandler) CreateSession(c *gin.Context) {
	if h.issuer == nil {
		_ = c.Error(errors.NewNotFoundError("Endpoint"))
		return
	}

	var req SessionRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.users.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		_ = c.Error(err)
		return
	}

	token, expiresAt, err := h.issuer.Issue(user.ID)
	if err != nil {
		_ = c.Error(errors.NewInternalError("Failed to issue token").WithCause(err))
		return
	}
	c.JSON(http.StatusCreated, SessionResponse{Token: token, ExpiresAt: expiresAt, User: user})
}

// Me handles GET /api/users/me
func (h *UserHandler) Me(c *gin.Context) {
	user, err := h.users.GetUser(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateMe handles PATCH /api/users/me
func (h *UserHandler) UpdateMe(c *gin.Context) {
	var req UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.users.UpdateProfile(c.Request.Context(), inbound.UpdateProfileCommand{
		UserID:      middleware.UserID(c),
		CalorieGoal: req.CalorieGoal,
		Avatar:      req.Avatar,
		Phone:       req.Phone,
		Address:     req.Address,
		IDNumber:    req.IDNumber,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, user)
}
