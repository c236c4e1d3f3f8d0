package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want int
	}{
		{"validation", NewValidationError("startDate is required"), http.StatusBadRequest},
		{"bad request", NewBadRequestError("malformed body"), http.StatusBadRequest},
		{"unauthorized", NewUnauthorizedError(""), http.StatusUnauthorized},
		{"not found", NewNotFoundError("plan"), http.StatusNotFound},
		{"recipe not found", NewRecipeNotFoundError(7), http.StatusNotFound},
		{"plan entry not found", NewPlanEntryNotFoundError(3), http.StatusNotFound},
		{"conflict", NewConflictError("duplicate"), http.StatusConflict},
		{"email exists", NewEmailAlreadyExistsError("a@b.c"), http.StatusConflict},
		{"database", NewDatabaseError("save plan", stderrors.New("boom")), http.StatusInternalServerError},
		{"rate limited", NewTooManyRequestsError(), http.StatusTooManyRequests},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.StatusCode())
		})
	}
}

func TestWrapAndInspect(t *testing.T) {
	notFound := NewRecipeNotFoundError(42)
	wrapped := fmt.Errorf("loading: %w", notFound)

	assert.True(t, Is(wrapped, CodeRecipeNotFound))
	assert.Equal(t, CodeRecipeNotFound, GetCode(wrapped))
	assert.Same(t, notFound, Wrap(wrapped, "ignored"))

	plain := stderrors.New("disk full")
	appErr := Wrap(plain, "could not save")
	require.NotNil(t, appErr)
	assert.Equal(t, CodeInternal, appErr.Code)
	assert.ErrorIs(t, appErr, plain)
	assert.Nil(t, Wrap(nil, "nothing"))
	assert.Equal(t, CodeInternal, GetCode(plain))
}

func TestToErrorResponse_HidesServerDetails(t *testing.T) {
	dbErr := NewDatabaseError("replace pantry", stderrors.New("pq: connection refused"))

	resp := ToErrorResponse(dbErr, "req-1")

	assert.Equal(t, CodeDatabaseError, resp.Error.Code)
	assert.Equal(t, "Database operation failed", resp.Error.Message)
	assert.Empty(t, resp.Error.Details)
	assert.Equal(t, "req-1", resp.Error.RequestID)
}

func TestToErrorResponse_KeepsClientDetails(t *testing.T) {
	resp := ToErrorResponse(NewRecipeNotFoundError(9), "")

	assert.Equal(t, "Recipe with ID 9 does not exist", resp.Error.Details)
	assert.Equal(t, uint(9), resp.Error.Metadata["recipe_id"])
}

func TestValidationErrors(t *testing.T) {
	err := NewValidationErrors([]ValidationError{
		{Field: "title", Tag: "required", Message: "title is required"},
		{Field: "kcal", Tag: "min", Message: "kcal must be at least 0"},
	})

	assert.Equal(t, CodeValidationFailed, err.Code)
	assert.Equal(t, "title is required; kcal must be at least 0", err.Details)
}
