// Package recipe contains the core domain logic for the recipe catalog.
// A recipe owns its ordered steps and its ingredient list.
package recipe

import (
	"strings"
	"time"

	"github.com/alchemorsel/mealplan/internal/domain/shared"
)

const (
	maxTitleLength       = 200
	maxDescriptionLength = 2000
)

// Step is one instruction of a recipe. Order is 1-based and unique per recipe.
type Step struct {
	Order       int
	Description string
}

// Ingredient is a named ingredient. Names are stored normalized.
type Ingredient struct {
	Name string
}

// Recipe represents the core recipe entity in our domain.
type Recipe struct {
	shared.AggregateRoot

	id          uint
	authorID    uint
	title       string
	description string
	kcal        int
	timeLabel   string
	difficulty  string
	image       string

	steps       []Step
	ingredients []Ingredient

	createdAt time.Time
	updatedAt time.Time
}

// Snapshot is the flat, persistence-facing view of a recipe.
type Snapshot struct {
	ID          uint
	AuthorID    uint
	Title       string
	Description string
	Kcal        int
	TimeLabel   string
	Difficulty  string
	Image       string
	Steps       []Step
	Ingredients []Ingredient
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewRecipe creates a new Recipe with validation
func NewRecipe(authorID uint, title, description string, kcal int) (*Recipe, error) {
	title = strings.TrimSpace(title)
	if err := validateTitle(title); err != nil {
		return nil, err
	}
	if len(description) > maxDescriptionLength {
		return nil, ErrDescriptionTooLong
	}
	if kcal < 0 {
		return nil, ErrNegativeCalories
	}

	now := time.Now().UTC()
	return &Recipe{
		authorID:    authorID,
		title:       title,
		description: description,
		kcal:        kcal,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

// Reconstitute rebuilds a recipe from stored state without re-running
// creation rules or raising events.
func Reconstitute(s Snapshot) *Recipe {
	return &Recipe{
		id:          s.ID,
		authorID:    s.AuthorID,
		title:       s.Title,
		description: s.Description,
		kcal:        s.Kcal,
		timeLabel:   s.TimeLabel,
		difficulty:  s.Difficulty,
		image:       s.Image,
		steps:       append([]Step(nil), s.Steps...),
		ingredients: append([]Ingredient(nil), s.Ingredients...),
		createdAt:   s.CreatedAt,
		updatedAt:   s.UpdatedAt,
	}
}

// Snapshot returns a copy of the recipe's state.
func (r *Recipe) Snapshot() Snapshot {
	return Snapshot{
		ID:          r.id,
		AuthorID:    r.authorID,
		Title:       r.title,
		Description: r.description,
		Kcal:        r.kcal,
		TimeLabel:   r.timeLabel,
		Difficulty:  r.difficulty,
		Image:       r.image,
		Steps:       r.Steps(),
		Ingredients: r.Ingredients(),
		CreatedAt:   r.createdAt,
		UpdatedAt:   r.updatedAt,
	}
}

func (r *Recipe) ID() uint             { return r.id }
func (r *Recipe) AuthorID() uint       { return r.authorID }
func (r *Recipe) Title() string        { return r.title }
func (r *Recipe) Description() string  { return r.description }
func (r *Recipe) Kcal() int            { return r.kcal }
func (r *Recipe) TimeLabel() string    { return r.timeLabel }
func (r *Recipe) Difficulty() string   { return r.difficulty }
func (r *Recipe) Image() string        { return r.image }
func (r *Recipe) CreatedAt() time.Time { return r.createdAt }
func (r *Recipe) UpdatedAt() time.Time { return r.updatedAt }

// Steps returns the steps ordered by Order.
func (r *Recipe) Steps() []Step {
	return append([]Step(nil), r.steps...)
}

// Ingredients returns a copy of the ingredient list.
func (r *Recipe) Ingredients() []Ingredient {
	return append([]Ingredient(nil), r.ingredients...)
}

// IngredientNames returns the ingredient names in insertion order.
func (r *Recipe) IngredientNames() []string {
	names := make([]string, len(r.ingredients))
	for i, ing := range r.ingredients {
		names[i] = ing.Name
	}
	return names
}

// SetPresentation sets the descriptive labels shown alongside the recipe.
func (r *Recipe) SetPresentation(timeLabel, difficulty, image string) {
	r.timeLabel = strings.TrimSpace(timeLabel)
	r.difficulty = strings.TrimSpace(difficulty)
	r.image = strings.TrimSpace(image)
	r.updatedAt = time.Now().UTC()
}

// AddStep appends a step; its order is the next position.
func (r *Recipe) AddStep(description string) error {
	description = strings.TrimSpace(description)
	if description == "" {
		return ErrEmptyStep
	}
	r.steps = append(r.steps, Step{Order: len(r.steps) + 1, Description: description})
	r.updatedAt = time.Now().UTC()
	return nil
}

// AddIngredient adds an ingredient by its normalized name.
func (r *Recipe) AddIngredient(name string) error {
	name = shared.NormalizeIngredient(name)
	if name == "" {
		return ErrEmptyIngredient
	}
	for _, existing := range r.ingredients {
		if existing.Name == name {
			return ErrDuplicateIngredient
		}
	}
	r.ingredients = append(r.ingredients, Ingredient{Name: name})
	r.updatedAt = time.Now().UTC()
	return nil
}

// AssignID is called by the repository once the recipe has been stored.
func (r *Recipe) AssignID(id uint) {
	r.id = id
	r.AddEvent(RecipeCreatedEvent{
		RecipeID:  id,
		AuthorID:  r.authorID,
		Title:     r.title,
		CreatedAt: r.createdAt,
	})
}

// EnsureOwnedBy returns ErrNotRecipeOwner unless userID authored the recipe.
func (r *Recipe) EnsureOwnedBy(userID uint) error {
	if r.authorID != userID {
		return ErrNotRecipeOwner
	}
	return nil
}

// MarkDeleted records the deletion event.
func (r *Recipe) MarkDeleted() {
	r.AddEvent(RecipeDeletedEvent{
		RecipeID:  r.id,
		AuthorID:  r.authorID,
		DeletedAt: time.Now().UTC(),
	})
}

func validateTitle(title string) error {
	if title == "" {
		return ErrTitleRequired
	}
	if len(title) > maxTitleLength {
		return ErrTitleTooLong
	}
	return nil
}
