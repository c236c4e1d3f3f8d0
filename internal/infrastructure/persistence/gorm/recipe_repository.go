package gorm

import (
	"context"

	"github.com/alchemorsel/mealplan/internal/domain/recipe"
	"github.com/alchemorsel/mealplan/internal/ports/outbound"
	"gorm.io/gorm"
)

// RecipeRepository implements the recipe repository interface using GORM
type RecipeRepository struct {
	db *gorm.DB
}

// NewRecipeRepository creates a new recipe repository
func NewRecipeRepository(db *gorm.DB) *RecipeRepository {
	return &RecipeRepository{db: db}
}

var _ outbound.RecipeRepository = (*RecipeRepository)(nil)

// Create stores a recipe with its steps and ingredients
func (r *RecipeRepository) Create(ctx context.Context, rec *recipe.Recipe) error {
	model := RecipeToModel(rec)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var authors int64
		if err := tx.Model(&UserModel{}).Where("id = ?", model.AuthorID).Count(&authors).Error; err != nil {
			return err
		}
		if authors == 0 {
			return outbound.ErrNotFound
		}
		return tx.Create(model).Error
	})
	if err != nil {
		return translateError(err)
	}

	rec.AssignID(model.ID)
	return nil
}

// Delete removes a recipe together with its steps, ingredients and plan entries
func (r *RecipeRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, child := range []interface{}{&PlanEntryModel{}, &StepModel{}, &IngredientModel{}} {
			if err := tx.Where("recipe_id = ?", id).Delete(child).Error; err != nil {
				return err
			}
		}

		result := tx.Delete(&RecipeModel{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return outbound.ErrNotFound
		}
		return nil
	})
}

// FindByID finds a recipe by ID with its detail
func (r *RecipeRepository) FindByID(ctx context.Context, id uint) (*recipe.Recipe, error) {
	var model RecipeModel

	err := withDetail(r.db.WithContext(ctx)).First(&model, id).Error
	if err != nil {
		return nil, translateError(err)
	}
	return ModelToRecipe(&model), nil
}

// FindByIDs loads the detail of several recipes in one round trip
func (r *RecipeRepository) FindByIDs(ctx context.Context, ids []uint) ([]*recipe.Recipe, error) {
	if len(ids) == 0 {
		return []*recipe.Recipe{}, nil
	}

	var models []RecipeModel
	if err := withDetail(r.db.WithContext(ctx)).Where("id IN ?", ids).Find(&models).Error; err != nil {
		return nil, err
	}
	return toRecipes(models), nil
}

// List returns a page of the catalog ordered by id
func (r *RecipeRepository) List(ctx context.Context, offset, limit int) ([]*recipe.Recipe, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&RecipeModel{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var models []RecipeModel
	query := withDetail(r.db.WithContext(ctx)).Order("id ASC").Offset(offset)
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&models).Error; err != nil {
		return nil, 0, err
	}
	return toRecipes(models), total, nil
}

type candidateRow struct {
	RecipeID uint
	Name     *string
}

// Candidates returns every recipe's ingredient names in catalog order. One
// statement reads recipes and ingredients so both come from the same snapshot.
func (r *RecipeRepository) Candidates(ctx context.Context) ([]recipe.Candidate, error) {
	var rows []candidateRow
	err := r.db.WithContext(ctx).
		Model(&RecipeModel{}).
		Select("recipes.id AS recipe_id, recipe_ingredients.name AS name").
		Joins("LEFT JOIN recipe_ingredients ON recipe_ingredients.recipe_id = recipes.id").
		Order("recipes.id ASC, recipe_ingredients.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	candidates := make([]recipe.Candidate, 0, len(rows))
	for _, row := range rows {
		n := len(candidates)
		if n == 0 || candidates[n-1].RecipeID != row.RecipeID {
			candidates = append(candidates, recipe.Candidate{RecipeID: row.RecipeID})
			n++
		}
		if row.Name != nil {
			candidates[n-1].Ingredients = append(candidates[n-1].Ingredients, *row.Name)
		}
	}
	return candidates, nil
}

func withDetail(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Steps", func(db *gorm.DB) *gorm.DB { return db.Order("step_order ASC") }).
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") })
}

func toRecipes(models []RecipeModel) []*recipe.Recipe {
	recipes := make([]*recipe.Recipe, len(models))
	for i := range models {
		recipes[i] = ModelToRecipe(&models[i])
	}
	return recipes
}
