// Package testutils provides test data factories for consistent test data generation
package testutils

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alchemorsel/mealplan/internal/domain/recipe"
	"github.com/alchemorsel/mealplan/internal/domain/user"
	"github.com/alchemorsel/mealplan/internal/ports/inbound"
	"github.com/alchemorsel/mealplan/internal/ports/outbound"
	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/require"
)

// TestPassword is the password every factory user is created with
const TestPassword = "correct-horse-battery"

// Factory produces deterministic fake data from a seed
type Factory struct {
	faker *gofakeit.Faker
	seq   int
}

// NewFactory creates a new factory with seeded faker
func NewFactory(seed int64) *Factory {
	return &Factory{faker: gofakeit.New(seed)}
}

// NewRandomFactory creates a factory seeded from the clock
func NewRandomFactory() *Factory {
	return NewFactory(time.Now().UnixNano())
}

// Faker exposes the underlying faker for ad hoc values
func (f *Factory) Faker() *gofakeit.Faker {
	return f.faker
}

// Email returns a fake email that is unique within this factory
func (f *Factory) Email() string {
	f.seq++
	return fmt.Sprintf("%d.%s", f.seq, f.faker.Email())
}

// UserCommand builds a valid create-user command
func (f *Factory) UserCommand() inbound.CreateUserCommand {
	return inbound.CreateUserCommand{
		Name:        f.faker.Name(),
		Email:       f.Email(),
		Password:    TestPassword,
		CalorieGoal: f.faker.Number(1200, 3500),
	}
}

// User builds a valid, unsaved user
func (f *Factory) User() *user.User {
	cmd := f.UserCommand()
	u, err := user.NewUser(cmd.Email, cmd.Name, cmd.Password, cmd.CalorieGoal)
	if err != nil {
		panic(fmt.Sprintf("factory user: %v", err))
	}
	return u
}

// RecipeCommand builds a valid create-recipe command with the given ingredients
func (f *Factory) RecipeCommand(authorID uint, ingredients ...string) inbound.CreateRecipeCommand {
	return inbound.CreateRecipeCommand{
		AuthorID:    authorID,
		Title:       f.faker.Sentence(3),
		Description: f.faker.Sentence(10),
		Kcal:        f.faker.Number(100, 900),
		TimeLabel:   fmt.Sprintf("%d min", f.faker.Number(5, 90)),
		Difficulty:  f.faker.RandomString([]string{"easy", "medium", "hard"}),
		Steps:       []string{f.faker.Sentence(6), f.faker.Sentence(6)},
		Ingredients: ingredients,
	}
}

// Recipe builds a valid, unsaved recipe
func (f *Factory) Recipe(authorID uint, kcal int, ingredients ...string) *recipe.Recipe {
	r, err := recipe.NewRecipe(authorID, f.faker.Sentence(3), f.faker.Sentence(8), kcal)
	if err != nil {
		panic(fmt.Sprintf("factory recipe: %v", err))
	}
	_ = r.AddStep(f.faker.Sentence(5))
	for _, name := range ingredients {
		_ = r.AddIngredient(name)
	}
	return r
}

// SeedUser stores a fresh user and returns it with its id assigned
func (f *Factory) SeedUser(t *testing.T, repo outbound.UserRepository) *user.User {
	t.Helper()

	u := f.User()
	require.NoError(t, repo.Create(context.Background(), u))
	return u
}

// SeedRecipe stores a fresh recipe and returns it with its id assigned
func (f *Factory) SeedRecipe(t *testing.T, repo outbound.RecipeRepository, authorID uint, kcal int, ingredients ...string) *recipe.Recipe {
	t.Helper()

	r := f.Recipe(authorID, kcal, ingredients...)
	require.NoError(t, repo.Create(context.Background(), r))
	return r
}
