// Package pantry implements the pantry use cases
package pantry

import (
	"context"
	stderrors "errors"

	"github.com/alchemorsel/mealplan/internal/domain/pantry"
	"github.com/alchemorsel/mealplan/internal/ports/inbound"
	"github.com/alchemorsel/mealplan/internal/ports/outbound"
	"github.com/alchemorsel/mealplan/pkg/errors"
	"go.uber.org/zap"
)

// PantryService implements inbound.PantryService
type PantryService struct {
	pantryRepo outbound.PantryRepository
	metrics    outbound.Metrics
	logger     *zap.Logger
}

// NewPantryService creates a new pantry service
func NewPantryService(pantryRepo outbound.PantryRepository, metrics outbound.Metrics, logger *zap.Logger) *PantryService {
	return &PantryService{
		pantryRepo: pantryRepo,
		metrics:    metrics,
		logger:     logger.Named("pantry-service"),
	}
}

var _ inbound.PantryService = (*PantryService)(nil)

// GetPantry returns the user's ingredient names sorted alphabetically
func (s *PantryService) GetPantry(ctx context.Context, userID uint) ([]string, error) {
	items, err := s.pantryRepo.List(ctx, userID)
	if err != nil {
		return nil, errors.NewDatabaseError("load pantry", err)
	}
	return pantry.Names(items), nil
}

// ReplacePantry swaps the whole pantry. Readers see either the old or the
// new list, never a mix.
func (s *PantryService) ReplacePantry(ctx context.Context, userID uint, ingredients []string) error {
	names, err := pantry.NormalizeNames(ingredients)
	if err != nil {
		return errors.NewValidationError(err.Error())
	}

	if err := s.pantryRepo.Replace(ctx, userID, names); err != nil {
		if stderrors.Is(err, outbound.ErrNotFound) {
			return errors.NewUserNotFoundError(userID)
		}
		s.logger.Error("Failed to replace pantry", zap.Uint("user_id", userID), zap.Error(err))
		return errors.NewDatabaseError("replace pantry", err)
	}

	s.metrics.PantryReplaced(len(names))
	s.logger.Info("Pantry replaced",
		zap.Uint("user_id", userID),
		zap.Int("items", len(names)),
	)
	return nil
}
