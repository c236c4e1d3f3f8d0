package recipe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type ScorerTestSuite struct {
	suite.Suite
}

func (suite *ScorerTestSuite) TestMatchScore() {
	pantry := NewIngredientSet("huevo", "tomate")

	suite.Run("FullOverlap_ShouldScoreOne", func() {
		assert.Equal(suite.T(), 1.0, MatchScore(pantry, []string{"tomate", "huevo"}))
	})

	suite.Run("NoOverlap_ShouldScoreZero", func() {
		assert.Equal(suite.T(), 0.0, MatchScore(pantry, []string{"arroz", "pollo"}))
	})

	suite.Run("PartialOverlap_ShouldBeRatio", func() {
		assert.InDelta(suite.T(), 2.0/3.0, MatchScore(pantry, []string{"huevo", "tomate", "cebolla"}), 1e-9)
	})

	suite.Run("NoIngredients_ShouldScoreZero", func() {
		assert.Equal(suite.T(), 0.0, MatchScore(pantry, nil))
	})

	suite.Run("DuplicateIngredients_ShouldCountOnce", func() {
		assert.Equal(suite.T(), 0.5, MatchScore(pantry, []string{"huevo", "huevo", "Huevo ", "sal"}))
	})
}

func (suite *ScorerTestSuite) TestRank() {
	suite.Run("HigherRatioFirst", func() {
		// Arrange
		pantry := NewIngredientSet("huevo", "tomate")
		catalog := []Candidate{
			{RecipeID: 1, Ingredients: []string{"huevo", "tomate", "cebolla"}},
			{RecipeID: 2, Ingredients: []string{"huevo"}},
		}

		// Act
		ranked, err := Rank(pantry, catalog, 2)

		// Assert
		require.NoError(suite.T(), err)
		require.Len(suite.T(), ranked, 2)
		assert.Equal(suite.T(), uint(2), ranked[0].RecipeID)
		assert.Equal(suite.T(), uint(1), ranked[1].RecipeID)
	})

	suite.Run("TiesKeepCatalogOrder", func() {
		pantry := NewIngredientSet("arroz")
		catalog := []Candidate{
			{RecipeID: 10, Ingredients: []string{"pollo"}},
			{RecipeID: 11, Ingredients: []string{"arroz"}},
			{RecipeID: 12, Ingredients: []string{"pasta"}},
			{RecipeID: 13, Ingredients: []string{"arroz", "agua"}},
			{RecipeID: 14, Ingredients: nil},
		}

		ranked, err := Rank(pantry, catalog, 5)

		require.NoError(suite.T(), err)
		ids := make([]uint, len(ranked))
		for i, s := range ranked {
			ids[i] = s.RecipeID
		}
		assert.Equal(suite.T(), []uint{11, 13, 10, 12, 14}, ids)
	})

	suite.Run("OutputIsBoundedByTakeAndCatalog", func() {
		pantry := NewIngredientSet("sal")
		catalog := []Candidate{
			{RecipeID: 1, Ingredients: []string{"sal"}},
			{RecipeID: 2, Ingredients: []string{"sal"}},
			{RecipeID: 3, Ingredients: []string{"sal"}},
			{RecipeID: 4, Ingredients: []string{"sal"}},
		}

		ranked, err := Rank(pantry, catalog, DefaultTake)
		require.NoError(suite.T(), err)
		assert.Len(suite.T(), ranked, 3)

		ranked, err = Rank(pantry, catalog[:2], 10)
		require.NoError(suite.T(), err)
		assert.Len(suite.T(), ranked, 2)
	})

	suite.Run("ScoresAreSortedDescending", func() {
		pantry := NewIngredientSet("a", "b", "c")
		catalog := []Candidate{
			{RecipeID: 1, Ingredients: []string{"a", "x", "y", "z"}},
			{RecipeID: 2, Ingredients: []string{"a", "b", "c"}},
			{RecipeID: 3, Ingredients: []string{"a", "b", "x"}},
			{RecipeID: 4, Ingredients: []string{"q"}},
		}

		ranked, err := Rank(pantry, catalog, 4)

		require.NoError(suite.T(), err)
		for i := 1; i < len(ranked); i++ {
			assert.GreaterOrEqual(suite.T(), ranked[i-1].Score, ranked[i].Score)
		}
		for _, s := range ranked {
			assert.GreaterOrEqual(suite.T(), s.Score, 0.0)
			assert.LessOrEqual(suite.T(), s.Score, 1.0)
		}
	})

	suite.Run("InvalidTake_ShouldReturnError", func() {
		_, err := Rank(NewIngredientSet("a"), nil, 0)
		assert.ErrorIs(suite.T(), err, ErrInvalidTake)
	})
}

func (suite *ScorerTestSuite) TestArrange() {
	a := Reconstitute(Snapshot{ID: 1, Title: "A"})
	b := Reconstitute(Snapshot{ID: 2, Title: "B"})
	ranked := []Scored{{RecipeID: 2, Score: 1}, {RecipeID: 3, Score: 0.9}, {RecipeID: 1, Score: 0.6}}

	ordered, missing := Arrange(ranked, []*Recipe{a, b})

	require.Len(suite.T(), ordered, 2)
	assert.Equal(suite.T(), "B", ordered[0].Title())
	assert.Equal(suite.T(), "A", ordered[1].Title())
	assert.Equal(suite.T(), []uint{3}, missing)
}

func TestScorerTestSuite(t *testing.T) {
	suite.Run(t, new(ScorerTestSuite))
}
