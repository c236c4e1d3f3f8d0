// Package inbound defines the interfaces for inbound ports (primary/driving adapters)
// These are the interfaces that the application exposes to the outside world
package inbound

import (
	"context"
	"time"

	"github.com/alchemorsel/mealplan/internal/domain/plan"
)

// RecipeService defines the use cases for the recipe catalog
type RecipeService interface {
	CreateRecipe(ctx context.Context, cmd CreateRecipeCommand) (*RecipeDTO, error)
	DeleteRecipe(ctx context.Context, recipeID, userID uint) error

	GetRecipe(ctx context.Context, recipeID uint) (*RecipeDTO, error)
	ListRecipes(ctx context.Context, params PaginationParams) (*RecipeList, error)

	// RecommendRecipes ranks the catalog against the user's pantry. An empty
	// pantry yields the first take recipes of the catalog unscored.
	RecommendRecipes(ctx context.Context, userID uint, take int) ([]RecipeDTO, error)
}

// PlanService defines the use cases for daily plans and calorie history
type PlanService interface {
	GetToday(ctx context.Context, userID uint) (*DailyPlanDTO, error)
	AddEntryToday(ctx context.Context, userID, recipeID uint) (*PlanEntryDTO, error)
	RemoveEntry(ctx context.Context, userID, entryID uint) error

	CalorieHistory(ctx context.Context, userID uint, startDate string, offsetMinutes int) ([]plan.DayTotal, error)
	FullCalorieHistory(ctx context.Context, userID uint) ([]plan.DayTotal, error)
	FirstEntryDate(ctx context.Context, userID uint) (*string, error)
}

// PantryService defines the use cases for a user's pantry
type PantryService interface {
	GetPantry(ctx context.Context, userID uint) ([]string, error)
	ReplacePantry(ctx context.Context, userID uint, ingredients []string) error
}

// UserService defines the use cases for the user store
type UserService interface {
	CreateUser(ctx context.Context, cmd CreateUserCommand) (*UserDTO, error)
	GetUser(ctx context.Context, userID uint) (*UserDTO, error)
	UpdateProfile(ctx context.Context, cmd UpdateProfileCommand) (*UserDTO, error)
	Exists(ctx context.Context, userID uint) (bool, error)

	// Authenticate checks credentials. Unknown email and wrong password fail
	// the same way.
	Authenticate(ctx context.Context, email, password string) (*UserDTO, error)
}

// CreateRecipeCommand contains data for creating a new recipe
type CreateRecipeCommand struct {
	AuthorID    uint     `validate:"required"`
	Title       string   `validate:"required,max=200"`
	Description string   `validate:"max=2000"`
	Kcal        int      `validate:"min=0,max=20000"`
	TimeLabel   string   `validate:"max=50"`
	Difficulty  string   `validate:"max=50"`
	Image       string   `validate:"omitempty,max=500"`
	Steps       []string `validate:"dive,required,max=2000"`
	Ingredients []string `validate:"dive,ingredient"`
}

// CreateUserCommand contains data for creating a user
type CreateUserCommand struct {
	Name        string `validate:"required,max=100"`
	Email       string `validate:"required,email"`
	Password    string `validate:"required,min=8,max=72"`
	CalorieGoal int    `validate:"min=0,max=20000"`
}

// UpdateProfileCommand contains the editable fields of a user. Nil fields
// are left unchanged.
type UpdateProfileCommand struct {
	UserID      uint    `validate:"required"`
	CalorieGoal *int    `validate:"omitempty,min=0,max=20000"`
	Avatar      *string `validate:"omitempty,max=500"`
	Phone       *string `validate:"omitempty,max=50"`
	Address     *string `validate:"omitempty,max=255"`
	IDNumber    *string `validate:"omitempty,max=50"`
}

// PaginationParams contains pagination parameters
type PaginationParams struct {
	Offset int
	Limit  int
}

// RecipeDTO is the API view of a recipe with full detail
type RecipeDTO struct {
	ID          uint            `json:"id"`
	AuthorID    uint            `json:"authorId"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Kcal        int             `json:"kcal"`
	Time        string          `json:"time"`
	Difficulty  string          `json:"difficulty"`
	Image       string          `json:"image,omitempty"`
	Steps       []StepDTO       `json:"steps"`
	Ingredients []IngredientDTO `json:"ingredients"`
	Score       *float64        `json:"score,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// StepDTO is one ordered step
type StepDTO struct {
	Order       int    `json:"order"`
	Description string `json:"description"`
}

// IngredientDTO is one ingredient
type IngredientDTO struct {
	Name string `json:"name"`
}

// RecipeList is a page of recipes
type RecipeList struct {
	Recipes []RecipeDTO `json:"recipes"`
	Total   int64       `json:"total"`
	Offset  int         `json:"offset"`
	Limit   int         `json:"limit"`
}

// DailyPlanDTO is a plan with its computed calorie total
type DailyPlanDTO struct {
	ID            uint           `json:"id"`
	Date          string         `json:"date"`
	Entries       []PlanEntryDTO `json:"entries"`
	TotalCalories int64          `json:"totalCalories"`
}

// PlanEntryDTO is a scheduled recipe
type PlanEntryDTO struct {
	ID          uint   `json:"id"`
	PlanID      uint   `json:"planId"`
	RecipeID    uint   `json:"recipeId"`
	RecipeTitle string `json:"recipeTitle"`
	Kcal        int    `json:"kcal"`
}

// UserDTO is the public view of a user. It never carries the credential hash.
type UserDTO struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	CalorieGoal int       `json:"calorieGoal"`
	Avatar      string    `json:"avatar,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	Address     string    `json:"address,omitempty"`
	IDNumber    string    `json:"idNumber,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}
