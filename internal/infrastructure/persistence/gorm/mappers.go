package gorm

import (
	"errors"
	"strings"

	"github.com/alchemorsel/mealplan/internal/domain/pantry"
	"github.com/alchemorsel/mealplan/internal/domain/plan"
	"github.com/alchemorsel/mealplan/internal/domain/recipe"
	"github.com/alchemorsel/mealplan/internal/domain/user"
	"github.com/alchemorsel/mealplan/internal/ports/outbound"
	"gorm.io/gorm"
)

// UserToModel converts a domain user to a GORM model
func UserToModel(u *user.User) *UserModel {
	s := u.Snapshot()
	return &UserModel{
		ID:           s.ID,
		Email:        s.Email,
		Name:         s.Name,
		PasswordHash: s.PasswordHash,
		CalorieGoal:  s.Profile.CalorieGoal,
		Avatar:       s.Profile.Avatar,
		Phone:        s.Profile.Phone,
		Address:      s.Profile.Address,
		IDNumber:     s.Profile.IDNumber,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}

// ModelToUser converts a GORM model to a domain user
func ModelToUser(m *UserModel) *user.User {
	return user.Reconstitute(user.Snapshot{
		ID:           m.ID,
		Email:        m.Email,
		Name:         m.Name,
		PasswordHash: m.PasswordHash,
		Profile: user.Profile{
			CalorieGoal: m.CalorieGoal,
			Avatar:      m.Avatar,
			Phone:       m.Phone,
			Address:     m.Address,
			IDNumber:    m.IDNumber,
		},
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	})
}

// RecipeToModel converts a domain recipe to a GORM model
func RecipeToModel(r *recipe.Recipe) *RecipeModel {
	s := r.Snapshot()

	steps := make([]StepModel, len(s.Steps))
	for i, st := range s.Steps {
		steps[i] = StepModel{Order: st.Order, Description: st.Description}
	}
	ingredients := make([]IngredientModel, len(s.Ingredients))
	for i, ing := range s.Ingredients {
		ingredients[i] = IngredientModel{Name: ing.Name}
	}

	return &RecipeModel{
		ID:          s.ID,
		AuthorID:    s.AuthorID,
		Title:       s.Title,
		Description: s.Description,
		Kcal:        s.Kcal,
		TimeLabel:   s.TimeLabel,
		Difficulty:  s.Difficulty,
		Image:       s.Image,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
		Steps:       steps,
		Ingredients: ingredients,
	}
}

// ModelToRecipe converts a GORM model with preloaded children to a domain recipe
func ModelToRecipe(m *RecipeModel) *recipe.Recipe {
	steps := make([]recipe.Step, len(m.Steps))
	for i, st := range m.Steps {
		steps[i] = recipe.Step{Order: st.Order, Description: st.Description}
	}
	ingredients := make([]recipe.Ingredient, len(m.Ingredients))
	for i, ing := range m.Ingredients {
		ingredients[i] = recipe.Ingredient{Name: ing.Name}
	}

	return recipe.Reconstitute(recipe.Snapshot{
		ID:          m.ID,
		AuthorID:    m.AuthorID,
		Title:       m.Title,
		Description: m.Description,
		Kcal:        m.Kcal,
		TimeLabel:   m.TimeLabel,
		Difficulty:  m.Difficulty,
		Image:       m.Image,
		Steps:       steps,
		Ingredients: ingredients,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	})
}

// ModelToPlan converts a plan with preloaded entries and recipes
func ModelToPlan(m *DailyPlanModel) *plan.DailyPlan {
	p := &plan.DailyPlan{
		ID:        m.ID,
		UserID:    m.UserID,
		Date:      plan.NormalizeDay(m.Date),
		CreatedAt: m.CreatedAt,
		Entries:   make([]plan.Entry, 0, len(m.Entries)),
	}
	for i := range m.Entries {
		p.Entries = append(p.Entries, ModelToEntry(&m.Entries[i]))
	}
	return p
}

// ModelToEntry converts an entry. The recipe must be preloaded for title and kcal.
func ModelToEntry(m *PlanEntryModel) plan.Entry {
	e := plan.Entry{
		ID:        m.ID,
		PlanID:    m.PlanID,
		RecipeID:  m.RecipeID,
		CreatedAt: m.CreatedAt,
	}
	if m.Recipe != nil {
		e.RecipeTitle = m.Recipe.Title
		e.Kcal = m.Recipe.Kcal
	}
	return e
}

// ModelToPantryItem converts a pantry row
func ModelToPantryItem(m PantryItemModel) pantry.Item {
	return pantry.Item{ID: m.ID, UserID: m.UserID, Name: m.Name}
}

// translateError maps driver errors onto the outbound sentinels
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return outbound.ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) || isUniqueViolation(err) {
		return outbound.ErrDuplicate
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) || isForeignKeyViolation(err) {
		return outbound.ErrNotFound
	}
	return err
}

func isUniqueViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "SQLSTATE 23505")
}

func isForeignKeyViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "FOREIGN KEY constraint failed") ||
		strings.Contains(msg, "violates foreign key constraint") ||
		strings.Contains(msg, "SQLSTATE 23503")
}
