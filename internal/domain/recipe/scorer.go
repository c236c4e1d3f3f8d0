package recipe

import (
	"sort"

	"github.com/alchemorsel/mealplan/internal/domain/shared"
)

// DefaultTake is the number of recommendations returned when the caller
// does not ask for a specific amount.
const DefaultTake = 3

// IngredientSet is a presence set of normalized ingredient names.
type IngredientSet map[string]struct{}

// NewIngredientSet builds a set, normalizing names and skipping blanks.
func NewIngredientSet(names ...string) IngredientSet {
	set := make(IngredientSet, len(names))
	for _, name := range names {
		if n := shared.NormalizeIngredient(name); n != "" {
			set[n] = struct{}{}
		}
	}
	return set
}

// Contains reports whether name is in the set.
func (s IngredientSet) Contains(name string) bool {
	_, ok := s[shared.NormalizeIngredient(name)]
	return ok
}

// Candidate is a catalog entry reduced to what scoring needs.
type Candidate struct {
	RecipeID    uint
	Ingredients []string
}

// Scored pairs a recipe with its match ratio.
type Scored struct {
	RecipeID uint
	Score    float64
}

// MatchScore is the share of the recipe's distinct ingredients present in
// the pantry. A recipe without ingredients scores 0.
func MatchScore(pantry IngredientSet, ingredients []string) float64 {
	own := NewIngredientSet(ingredients...)
	if len(own) == 0 {
		return 0
	}

	matched := 0
	for name := range own {
		if _, ok := pantry[name]; ok {
			matched++
		}
	}
	return float64(matched) / float64(len(own))
}

// Rank scores every candidate and keeps the best take of them. Equal scores
// keep catalog order.
func Rank(pantry IngredientSet, catalog []Candidate, take int) ([]Scored, error) {
	if take < 1 {
		return nil, ErrInvalidTake
	}

	scored := make([]Scored, len(catalog))
	for i, c := range catalog {
		scored[i] = Scored{RecipeID: c.RecipeID, Score: MatchScore(pantry, c.Ingredients)}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if len(scored) > take {
		scored = scored[:take]
	}
	return scored, nil
}

// Arrange puts details, fetched in no particular order, back into ranking
// order. Ranked ids without a detail row are returned as missing.
func Arrange(ranked []Scored, details []*Recipe) ([]*Recipe, []uint) {
	byID := make(map[uint]*Recipe, len(details))
	for _, d := range details {
		byID[d.ID()] = d
	}

	ordered := make([]*Recipe, 0, len(ranked))
	var missing []uint
	for _, s := range ranked {
		if r, ok := byID[s.RecipeID]; ok {
			ordered = append(ordered, r)
			continue
		}
		missing = append(missing, s.RecipeID)
	}
	return ordered, missing
}
