// Package outbound defines the interfaces for outbound ports (secondary/driven adapters)
// These are the interfaces that the application uses to interact with external systems
package outbound

import (
	"context"
	"errors"
	"time"

	"github.com/alchemorsel/mealplan/internal/domain/pantry"
	"github.com/alchemorsel/mealplan/internal/domain/plan"
	"github.com/alchemorsel/mealplan/internal/domain/recipe"
	"github.com/alchemorsel/mealplan/internal/domain/user"
)

// Sentinel errors every repository implementation returns for the
// corresponding store condition.
var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
	ErrCacheMiss = errors.New("cache miss")
)

// RecipeRepository defines the interface for recipe persistence
type RecipeRepository interface {
	Create(ctx context.Context, recipe *recipe.Recipe) error
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (*recipe.Recipe, error)

	// FindByIDs loads full detail. The result order is unspecified and ids
	// that do not exist are skipped.
	FindByIDs(ctx context.Context, ids []uint) ([]*recipe.Recipe, error)

	// List returns a page of the catalog in catalog order and the total count.
	List(ctx context.Context, offset, limit int) ([]*recipe.Recipe, int64, error)

	// Candidates returns every recipe reduced to its ingredient names, in
	// catalog order.
	Candidates(ctx context.Context) ([]recipe.Candidate, error)
}

// UserRepository defines the interface for user persistence
type UserRepository interface {
	// Create returns ErrDuplicate when the email is taken.
	Create(ctx context.Context, user *user.User) error
	Update(ctx context.Context, user *user.User) error
	FindByID(ctx context.Context, id uint) (*user.User, error)
	FindByEmail(ctx context.Context, email string) (*user.User, error)
	Exists(ctx context.Context, id uint) (bool, error)
}

// PlanRepository defines the interface for daily plan persistence
type PlanRepository interface {
	// GetOrCreate returns the user's plan for date, creating it when absent.
	// Concurrent calls for the same (user, date) return the same plan.
	GetOrCreate(ctx context.Context, userID uint, date time.Time) (*plan.DailyPlan, error)

	AddEntry(ctx context.Context, planID, recipeID uint) (*plan.Entry, error)

	// FindEntry returns ErrNotFound when the entry does not exist or its
	// plan belongs to another user.
	FindEntry(ctx context.Context, userID, entryID uint) (*plan.Entry, error)
	DeleteEntry(ctx context.Context, entryID uint) error

	// FindInRange returns the user's plans dated in [from, until), with
	// entries and their recipe kcal.
	FindInRange(ctx context.Context, userID uint, from, until time.Time) ([]plan.DailyPlan, error)

	// FirstPlanDate returns nil when the user has no plans.
	FirstPlanDate(ctx context.Context, userID uint) (*time.Time, error)
}

// PantryRepository defines the interface for pantry persistence
type PantryRepository interface {
	List(ctx context.Context, userID uint) ([]pantry.Item, error)

	// Replace swaps the user's whole pantry for names in one atomic step.
	Replace(ctx context.Context, userID uint, names []string) error
}

// CacheRepository defines the interface for caching operations.
// Get returns ErrCacheMiss for absent or expired keys.
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Increment(ctx context.Context, key string) (int64, error)
}
