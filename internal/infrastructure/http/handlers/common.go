// Package handlers provides the gin handlers of the REST API
package handlers

import (
	"strconv"

	"github.com/alchemorsel/mealplan/pkg/errors"
	"github.com/gin-gonic/gin"
)

// bindJSON decodes the request body into dst, pushing a 400 on failure
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		_ = c.Error(errors.NewAppError(errors.CodeBadRequest, "Malformed request body", err.Error()))
		return false
	}
	return true
}

// pathID parses a positive integer path parameter, pushing a 400 on failure
func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		_ = c.Error(errors.NewBadRequestError("Invalid " + name))
		return 0, false
	}
	return uint(id), true
}

// queryInt parses an optional integer query parameter
func queryInt(c *gin.Context, name string, fallback int) (int, bool) {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		return fallback, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		_ = c.Error(errors.NewAppError(errors.CodeBadRequest, "Invalid query parameter", name+" must be an integer"))
		return 0, false
	}
	return v, true
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
