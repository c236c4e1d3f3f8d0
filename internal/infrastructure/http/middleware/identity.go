package middleware

import (
	stderrors "errors"

	"github.com/alchemorsel/mealplan/internal/infrastructure/security"
	"github.com/alchemorsel/mealplan/internal/ports/inbound"
	"github.com/alchemorsel/mealplan/pkg/errors"
	"github.com/gin-gonic/gin"
)

const userIDKey = "user_id"

// Identity resolves the caller and rejects the request with 401 unless it
// maps to an existing user
func Identity(auth security.Authenticator, users inbound.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := auth.Authenticate(c.Request)
		if err != nil {
			message := "Invalid credentials"
			if stderrors.Is(err, security.ErrMissingCredentials) {
				message = "Authentication required"
			}
			_ = c.Error(errors.NewUnauthorizedError(message).WithCause(err))
			c.Abort()
			return
		}

		exists, err := users.Exists(c.Request.Context(), userID)
		if err != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}
		if !exists {
			_ = c.Error(errors.NewUnauthorizedError("Unknown user"))
			c.Abort()
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

// UserID returns the caller resolved by Identity
func UserID(c *gin.Context) uint {
	return c.GetUint(userIDKey)
}
