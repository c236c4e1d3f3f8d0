package recipe

import "errors"

// Domain errors for recipe operations

var (
	ErrTitleRequired       = errors.New("recipe title is required")
	ErrTitleTooLong        = errors.New("recipe title must not exceed 200 characters")
	ErrDescriptionTooLong  = errors.New("recipe description must not exceed 2000 characters")
	ErrNegativeCalories    = errors.New("recipe kcal must not be negative")
	ErrEmptyStep           = errors.New("recipe step description must not be empty")
	ErrEmptyIngredient     = errors.New("ingredient name must not be empty")
	ErrDuplicateIngredient = errors.New("ingredient already exists in recipe")
	ErrInvalidTake         = errors.New("take must be at least 1")

	ErrNotRecipeOwner = errors.New("only recipe owner can perform this action")
)
