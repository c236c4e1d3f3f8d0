// Package recipe provides the application layer for the recipe catalog
// This implements the use cases defined in the inbound ports
package recipe

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/alchemorsel/mealplan/internal/application/validation"
	"github.com/alchemorsel/mealplan/internal/domain/pantry"
	"github.com/alchemorsel/mealplan/internal/domain/recipe"
	"github.com/alchemorsel/mealplan/internal/domain/shared"
	"github.com/alchemorsel/mealplan/internal/ports/inbound"
	"github.com/alchemorsel/mealplan/internal/ports/outbound"
	"github.com/alchemorsel/mealplan/pkg/errors"
	"go.uber.org/zap"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
	maxTake         = 50
)

// Config tunes the recipe service
type Config struct {
	CacheTTL time.Duration
}

// RecipeService implements the recipe use cases
type RecipeService struct {
	recipeRepo outbound.RecipeRepository
	pantryRepo outbound.PantryRepository
	cache      outbound.CacheRepository
	events     shared.EventPublisher
	metrics    outbound.Metrics
	validator  *validation.Validator
	config     Config
	logger     *zap.Logger
}

// NewRecipeService creates a new recipe service
func NewRecipeService(
	recipeRepo outbound.RecipeRepository,
	pantryRepo outbound.PantryRepository,
	cache outbound.CacheRepository,
	events shared.EventPublisher,
	metrics outbound.Metrics,
	validator *validation.Validator,
	config Config,
	logger *zap.Logger,
) *RecipeService {
	return &RecipeService{
		recipeRepo: recipeRepo,
		pantryRepo: pantryRepo,
		cache:      cache,
		events:     events,
		metrics:    metrics,
		validator:  validator,
		config:     config,
		logger:     logger.Named("recipe-service"),
	}
}

var _ inbound.RecipeService = (*RecipeService)(nil)

// CreateRecipe creates a new recipe owned by cmd.AuthorID
func (s *RecipeService) CreateRecipe(ctx context.Context, cmd inbound.CreateRecipeCommand) (*inbound.RecipeDTO, error) {
	if err := s.validator.Struct(cmd); err != nil {
		return nil, err
	}

	s.logger.Info("Creating new recipe",
		zap.String("title", cmd.Title),
		zap.Uint("author_id", cmd.AuthorID),
	)

	entity, err := recipe.NewRecipe(cmd.AuthorID, cmd.Title, cmd.Description, cmd.Kcal)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	entity.SetPresentation(cmd.TimeLabel, cmd.Difficulty, cmd.Image)

	for _, step := range cmd.Steps {
		if err := entity.AddStep(step); err != nil {
			return nil, errors.NewValidationError(err.Error())
		}
	}
	for _, name := range cmd.Ingredients {
		err := entity.AddIngredient(name)
		if stderrors.Is(err, recipe.ErrDuplicateIngredient) {
			continue
		}
		if err != nil {
			return nil, errors.NewValidationError(err.Error())
		}
	}

	if err := s.recipeRepo.Create(ctx, entity); err != nil {
		if stderrors.Is(err, outbound.ErrNotFound) {
			return nil, errors.NewUserNotFoundError(cmd.AuthorID)
		}
		s.logger.Error("Failed to save recipe", zap.Error(err))
		return nil, errors.NewDatabaseError("save recipe", err)
	}

	s.events.Publish(ctx, entity.Events()...)

	s.logger.Info("Recipe created", zap.Uint("recipe_id", entity.ID()))

	dto := ToDTO(entity)
	return &dto, nil
}

// DeleteRecipe removes a recipe. Recipes of other authors are reported as
// not found.
func (s *RecipeService) DeleteRecipe(ctx context.Context, recipeID, userID uint) error {
	entity, err := s.recipeRepo.FindByID(ctx, recipeID)
	if err != nil {
		return s.lookupError(recipeID, err)
	}
	if err := entity.EnsureOwnedBy(userID); err != nil {
		s.logger.Warn("Delete refused for non-owner",
			zap.Uint("recipe_id", recipeID),
			zap.Uint("user_id", userID),
		)
		return errors.NewRecipeNotFoundError(recipeID)
	}

	if err := s.recipeRepo.Delete(ctx, recipeID); err != nil {
		return s.lookupError(recipeID, err)
	}
	s.invalidate(ctx, recipeID)

	entity.MarkDeleted()
	s.events.Publish(ctx, entity.Events()...)

	s.logger.Info("Recipe deleted", zap.Uint("recipe_id", recipeID))
	return nil
}

// GetRecipe returns one recipe with its detail, served from cache when possible
func (s *RecipeService) GetRecipe(ctx context.Context, recipeID uint) (*inbound.RecipeDTO, error) {
	key := cacheKey(recipeID)

	if data, err := s.cache.Get(ctx, key); err == nil {
		var dto inbound.RecipeDTO
		if err := json.Unmarshal(data, &dto); err == nil {
			s.metrics.CacheLookup(true)
			return &dto, nil
		}
		s.logger.Warn("Discarding undecodable cache entry", zap.String("key", key))
	} else if !stderrors.Is(err, outbound.ErrCacheMiss) {
		s.logger.Warn("Cache read failed", zap.String("key", key), zap.Error(err))
	}
	s.metrics.CacheLookup(false)

	entity, err := s.recipeRepo.FindByID(ctx, recipeID)
	if err != nil {
		return nil, s.lookupError(recipeID, err)
	}

	dto := ToDTO(entity)
	if data, err := json.Marshal(dto); err == nil {
		if err := s.cache.Set(ctx, key, data, s.config.CacheTTL); err != nil {
			s.logger.Warn("Cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return &dto, nil
}

// ListRecipes returns a page of the catalog
func (s *RecipeService) ListRecipes(ctx context.Context, params inbound.PaginationParams) (*inbound.RecipeList, error) {
	if params.Offset < 0 {
		return nil, errors.NewValidationError("offset must not be negative")
	}
	if params.Limit <= 0 {
		params.Limit = defaultPageSize
	}
	if params.Limit > maxPageSize {
		params.Limit = maxPageSize
	}

	recipes, total, err := s.recipeRepo.List(ctx, params.Offset, params.Limit)
	if err != nil {
		return nil, errors.NewDatabaseError("list recipes", err)
	}

	return &inbound.RecipeList{
		Recipes: ToDTOs(recipes, nil),
		Total:   total,
		Offset:  params.Offset,
		Limit:   params.Limit,
	}, nil
}

// RecommendRecipes ranks the catalog by how much of each recipe the user's
// pantry already covers.
func (s *RecipeService) RecommendRecipes(ctx context.Context, userID uint, take int) ([]inbound.RecipeDTO, error) {
	if take < 1 || take > maxTake {
		return nil, errors.NewValidationError(fmt.Sprintf("take must be between 1 and %d", maxTake))
	}

	items, err := s.pantryRepo.List(ctx, userID)
	if err != nil {
		return nil, errors.NewDatabaseError("load pantry", err)
	}

	if len(items) == 0 {
		sample, _, err := s.recipeRepo.List(ctx, 0, take)
		if err != nil {
			return nil, errors.NewDatabaseError("sample recipes", err)
		}
		s.metrics.RecommendationServed(true, nil)
		s.logger.Debug("Empty pantry, serving catalog sample",
			zap.Uint("user_id", userID),
			zap.Int("count", len(sample)),
		)
		return ToDTOs(sample, nil), nil
	}

	catalog, err := s.recipeRepo.Candidates(ctx)
	if err != nil {
		return nil, errors.NewDatabaseError("load recipe ingredients", err)
	}

	ranked, err := recipe.Rank(recipe.NewIngredientSet(pantry.Names(items)...), catalog, take)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	ids := make([]uint, len(ranked))
	scores := make(map[uint]float64, len(ranked))
	for i, r := range ranked {
		ids[i] = r.RecipeID
		scores[r.RecipeID] = r.Score
	}

	details, err := s.recipeRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, errors.NewDatabaseError("load recommended recipes", err)
	}

	ordered, missing := recipe.Arrange(ranked, details)
	if len(missing) > 0 {
		s.logger.Warn("Ranked recipes missing from detail fetch", zap.Uints("recipe_ids", missing))
	}

	served := make([]float64, 0, len(ordered))
	for _, r := range ordered {
		served = append(served, scores[r.ID()])
	}
	s.metrics.RecommendationServed(false, served)

	return ToDTOs(ordered, scores), nil
}

func (s *RecipeService) lookupError(recipeID uint, err error) error {
	if stderrors.Is(err, outbound.ErrNotFound) {
		return errors.NewRecipeNotFoundError(recipeID)
	}
	s.logger.Error("Recipe lookup failed", zap.Uint("recipe_id", recipeID), zap.Error(err))
	return errors.NewDatabaseError("find recipe", err)
}

func (s *RecipeService) invalidate(ctx context.Context, recipeID uint) {
	if err := s.cache.Delete(ctx, cacheKey(recipeID)); err != nil {
		s.logger.Warn("Cache invalidation failed", zap.Uint("recipe_id", recipeID), zap.Error(err))
	}
}

func cacheKey(recipeID uint) string {
	return fmt.Sprintf("recipe:%d", recipeID)
}
