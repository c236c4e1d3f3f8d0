// Package validation checks command structs before they reach the domain.
package validation

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/alchemorsel/mealplan/pkg/errors"
	"github.com/go-playground/validator/v10"
)

// Validator wraps go-playground/validator with the rules commands use
type Validator struct {
	validate *validator.Validate
}

// New creates a validator with custom rules registered
func New() *Validator {
	validate := validator.New(validator.WithRequiredStructEnabled())
	_ = validate.RegisterValidation("ingredient", validateIngredient)

	return &Validator{validate: validate}
}

// Struct validates s and converts failures into a VALIDATION_FAILED error.
func (v *Validator) Struct(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return errors.NewValidationError(err.Error())
	}

	fields := make([]errors.ValidationError, 0, len(validationErrors))
	for _, e := range validationErrors {
		fields = append(fields, errors.ValidationError{
			Field:   e.Namespace(),
			Tag:     e.Tag(),
			Message: message(e),
		})
	}
	return errors.NewValidationErrors(fields)
}

// Var validates a single value against a tag.
func (v *Validator) Var(field string, value interface{}, tag string) error {
	if err := v.validate.Var(value, tag); err != nil {
		return errors.NewValidationError(fmt.Sprintf("%s is invalid", field))
	}
	return nil
}

func message(e validator.FieldError) string {
	field := e.Field()
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, e.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, e.Param())
	case "ingredient":
		return "Invalid ingredient name"
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

// validateIngredient accepts printable names up to 100 characters without
// markup characters.
func validateIngredient(fl validator.FieldLevel) bool {
	name := strings.TrimSpace(fl.Field().String())
	if name == "" || len(name) > 100 {
		return false
	}
	for _, r := range name {
		if r == '<' || r == '>' || !unicode.IsPrint(r) {
			return false
		}
	}
	return true
}
