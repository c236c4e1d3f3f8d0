package recipe

import (
	"github.com/alchemorsel/mealplan/internal/domain/recipe"
	"github.com/alchemorsel/mealplan/internal/ports/inbound"
)

// ToDTO converts a recipe entity into its API view
func ToDTO(r *recipe.Recipe) inbound.RecipeDTO {
	steps := r.Steps()
	stepDTOs := make([]inbound.StepDTO, len(steps))
	for i, st := range steps {
		stepDTOs[i] = inbound.StepDTO{Order: st.Order, Description: st.Description}
	}

	ingredients := r.Ingredients()
	ingredientDTOs := make([]inbound.IngredientDTO, len(ingredients))
	for i, ing := range ingredients {
		ingredientDTOs[i] = inbound.IngredientDTO{Name: ing.Name}
	}

	return inbound.RecipeDTO{
		ID:          r.ID(),
		AuthorID:    r.AuthorID(),
		Title:       r.Title(),
		Description: r.Description(),
		Kcal:        r.Kcal(),
		Time:        r.TimeLabel(),
		Difficulty:  r.Difficulty(),
		Image:       r.Image(),
		Steps:       stepDTOs,
		Ingredients: ingredientDTOs,
		CreatedAt:   r.CreatedAt(),
	}
}

// ToDTOs converts recipes keeping their order. A non-nil scores map attaches
// each recipe's match ratio.
func ToDTOs(recipes []*recipe.Recipe, scores map[uint]float64) []inbound.RecipeDTO {
	dtos := make([]inbound.RecipeDTO, len(recipes))
	for i, r := range recipes {
		dtos[i] = ToDTO(r)
		if scores != nil {
			score := scores[r.ID()]
			dtos[i].Score = &score
		}
	}
	return dtos
}
