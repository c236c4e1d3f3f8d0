package recipe

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// RecipeTestSuite provides a test suite for Recipe entity
type RecipeTestSuite struct {
	suite.Suite
}

func (suite *RecipeTestSuite) TestRecipeCreation() {
	suite.Run("ValidRecipe_ShouldCreateSuccessfully", func() {
		// Act
		recipe, err := NewRecipe(7, "  Tortilla de patatas ", "Clásica", 450)

		// Assert
		require.NoError(suite.T(), err)
		assert.Equal(suite.T(), "Tortilla de patatas", recipe.Title())
		assert.Equal(suite.T(), uint(7), recipe.AuthorID())
		assert.Equal(suite.T(), 450, recipe.Kcal())
		assert.NotZero(suite.T(), recipe.CreatedAt())
		assert.Empty(suite.T(), recipe.Events())
	})

	suite.Run("EmptyTitle_ShouldReturnError", func() {
		_, err := NewRecipe(1, "   ", "", 100)
		assert.ErrorIs(suite.T(), err, ErrTitleRequired)
	})

	suite.Run("LongTitle_ShouldReturnError", func() {
		_, err := NewRecipe(1, strings.Repeat("a", 201), "", 100)
		assert.ErrorIs(suite.T(), err, ErrTitleTooLong)
	})

	suite.Run("NegativeKcal_ShouldReturnError", func() {
		_, err := NewRecipe(1, "Sopa", "", -1)
		assert.ErrorIs(suite.T(), err, ErrNegativeCalories)
	})
}

func (suite *RecipeTestSuite) TestStepsAndIngredients() {
	suite.Run("StepsAreNumberedInOrder", func() {
		recipe, err := NewRecipe(1, "Sopa", "", 200)
		require.NoError(suite.T(), err)

		require.NoError(suite.T(), recipe.AddStep("Hervir agua"))
		require.NoError(suite.T(), recipe.AddStep("Añadir fideos"))
		assert.ErrorIs(suite.T(), recipe.AddStep("  "), ErrEmptyStep)

		steps := recipe.Steps()
		require.Len(suite.T(), steps, 2)
		assert.Equal(suite.T(), Step{Order: 1, Description: "Hervir agua"}, steps[0])
		assert.Equal(suite.T(), 2, steps[1].Order)
	})

	suite.Run("IngredientsAreNormalizedAndUnique", func() {
		recipe, err := NewRecipe(1, "Sopa", "", 200)
		require.NoError(suite.T(), err)

		require.NoError(suite.T(), recipe.AddIngredient("  Fideos "))
		assert.ErrorIs(suite.T(), recipe.AddIngredient("FIDEOS"), ErrDuplicateIngredient)
		assert.ErrorIs(suite.T(), recipe.AddIngredient(""), ErrEmptyIngredient)

		assert.Equal(suite.T(), []string{"fideos"}, recipe.IngredientNames())
	})
}

func (suite *RecipeTestSuite) TestLifecycleEvents() {
	recipe, err := NewRecipe(3, "Gazpacho", "", 120)
	require.NoError(suite.T(), err)

	recipe.AssignID(55)
	recipe.MarkDeleted()

	events := recipe.Events()
	require.Len(suite.T(), events, 2)
	created, ok := events[0].(RecipeCreatedEvent)
	require.True(suite.T(), ok)
	assert.Equal(suite.T(), uint(55), created.RecipeID)
	assert.Equal(suite.T(), "recipe.deleted", events[1].EventName())
	assert.Empty(suite.T(), recipe.Events())
}

func (suite *RecipeTestSuite) TestOwnership() {
	recipe := Reconstitute(Snapshot{ID: 1, AuthorID: 9, Title: "Paella"})

	assert.NoError(suite.T(), recipe.EnsureOwnedBy(9))
	assert.ErrorIs(suite.T(), recipe.EnsureOwnedBy(10), ErrNotRecipeOwner)
}

func (suite *RecipeTestSuite) TestSnapshotRoundTripKeepsCollections() {
	snap := Snapshot{
		ID:          4,
		AuthorID:    2,
		Title:       "Ensalada",
		Kcal:        90,
		Steps:       []Step{{Order: 1, Description: "Lavar"}},
		Ingredients: []Ingredient{{Name: "lechuga"}},
	}

	recipe := Reconstitute(snap)
	snap.Steps[0].Description = "mutated"

	assert.Equal(suite.T(), "Lavar", recipe.Steps()[0].Description)
	assert.Equal(suite.T(), []Ingredient{{Name: "lechuga"}}, recipe.Snapshot().Ingredients)
}

func TestRecipeTestSuite(t *testing.T) {
	suite.Run(t, new(RecipeTestSuite))
}
