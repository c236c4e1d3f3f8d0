// Package pantry holds a user's available-ingredient inventory.
package pantry

import (
	"errors"
	"sort"

	"github.com/alchemorsel/mealplan/internal/domain/shared"
)

var (
	ErrBlankIngredient = errors.New("pantry ingredient names must not be blank")
	ErrTooManyItems    = errors.New("pantry must not hold more than 500 ingredients")
)

// MaxItems caps a single pantry.
const MaxItems = 500

// Item is one ingredient in a user's pantry. (UserID, Name) is unique.
type Item struct {
	ID     uint
	UserID uint
	Name   string
}

// NormalizeNames canonicalizes a requested pantry: names are normalized,
// duplicates collapse and the result is sorted. Any blank name rejects the
// whole list.
func NormalizeNames(names []string) ([]string, error) {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, raw := range names {
		name := shared.NormalizeIngredient(raw)
		if name == "" {
			return nil, ErrBlankIngredient
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	if len(out) > MaxItems {
		return nil, ErrTooManyItems
	}
	sort.Strings(out)
	return out, nil
}

// Names extracts item names in stored order.
func Names(items []Item) []string {
	names := make([]string, len(items))
	for i, it := range items {
		names[i] = it.Name
	}
	return names
}
