// Package plan implements the daily plan and calorie history use cases
package plan

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/alchemorsel/mealplan/internal/domain/plan"
	"github.com/alchemorsel/mealplan/internal/domain/shared"
	"github.com/alchemorsel/mealplan/internal/ports/inbound"
	"github.com/alchemorsel/mealplan/internal/ports/outbound"
	"github.com/alchemorsel/mealplan/pkg/errors"
	"go.uber.org/zap"
)

// Option configures a PlanService
type Option func(*PlanService)

// WithClock replaces the wall clock used to decide "today"
func WithClock(now func() time.Time) Option {
	return func(s *PlanService) { s.now = now }
}

// PlanService implements inbound.PlanService
type PlanService struct {
	planRepo outbound.PlanRepository
	events   shared.EventPublisher
	metrics  outbound.Metrics
	now      func() time.Time
	logger   *zap.Logger
}

// NewPlanService creates a new plan service
func NewPlanService(
	planRepo outbound.PlanRepository,
	events shared.EventPublisher,
	metrics outbound.Metrics,
	logger *zap.Logger,
	opts ...Option,
) *PlanService {
	s := &PlanService{
		planRepo: planRepo,
		events:   events,
		metrics:  metrics,
		now:      time.Now,
		logger:   logger.Named("plan-service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ inbound.PlanService = (*PlanService)(nil)

// GetToday returns today's plan, creating it on first access
func (s *PlanService) GetToday(ctx context.Context, userID uint) (*inbound.DailyPlanDTO, error) {
	p, err := s.today(ctx, userID)
	if err != nil {
		return nil, err
	}
	dto := toPlanDTO(p)
	return &dto, nil
}

// AddEntryToday schedules a recipe in today's plan
func (s *PlanService) AddEntryToday(ctx context.Context, userID, recipeID uint) (*inbound.PlanEntryDTO, error) {
	p, err := s.today(ctx, userID)
	if err != nil {
		return nil, err
	}

	entry, err := s.planRepo.AddEntry(ctx, p.ID, recipeID)
	if err != nil {
		if stderrors.Is(err, outbound.ErrNotFound) {
			return nil, errors.NewRecipeNotFoundError(recipeID)
		}
		s.logger.Error("Failed to add plan entry",
			zap.Uint("plan_id", p.ID),
			zap.Uint("recipe_id", recipeID),
			zap.Error(err),
		)
		return nil, errors.NewDatabaseError("add plan entry", err)
	}

	s.metrics.PlanEntryChanged("add")
	s.events.Publish(ctx, plan.NewEntryAdded(userID, *entry))

	s.logger.Info("Recipe scheduled",
		zap.Uint("user_id", userID),
		zap.Uint("plan_id", p.ID),
		zap.Uint("entry_id", entry.ID),
	)

	dto := toEntryDTO(*entry)
	return &dto, nil
}

// RemoveEntry deletes one of the user's plan entries. Entries of other users
// are reported as not found.
func (s *PlanService) RemoveEntry(ctx context.Context, userID, entryID uint) error {
	entry, err := s.planRepo.FindEntry(ctx, userID, entryID)
	if err != nil {
		if stderrors.Is(err, outbound.ErrNotFound) {
			return errors.NewPlanEntryNotFoundError(entryID)
		}
		return errors.NewDatabaseError("find plan entry", err)
	}

	if err := s.planRepo.DeleteEntry(ctx, entryID); err != nil {
		if stderrors.Is(err, outbound.ErrNotFound) {
			return errors.NewPlanEntryNotFoundError(entryID)
		}
		return errors.NewDatabaseError("delete plan entry", err)
	}

	s.metrics.PlanEntryChanged("remove")
	s.events.Publish(ctx, plan.NewEntryRemoved(userID, *entry))
	return nil
}

// CalorieHistory returns seven daily totals starting at startDate in the
// client's zone.
func (s *PlanService) CalorieHistory(ctx context.Context, userID uint, startDate string, offsetMinutes int) ([]plan.DayTotal, error) {
	r, err := plan.WeekRange(startDate, offsetMinutes)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	return s.aggregate(ctx, userID, r)
}

// FullCalorieHistory returns daily totals from the user's first plan up to today
func (s *PlanService) FullCalorieHistory(ctx context.Context, userID uint) ([]plan.DayTotal, error) {
	first, err := s.planRepo.FirstPlanDate(ctx, userID)
	if err != nil {
		return nil, errors.NewDatabaseError("find first plan", err)
	}
	if first == nil {
		return []plan.DayTotal{}, nil
	}
	return s.aggregate(ctx, userID, plan.FullRange(*first, s.now()))
}

// FirstEntryDate returns the day of the user's earliest plan, or nil
func (s *PlanService) FirstEntryDate(ctx context.Context, userID uint) (*string, error) {
	first, err := s.planRepo.FirstPlanDate(ctx, userID)
	if err != nil {
		return nil, errors.NewDatabaseError("find first plan", err)
	}
	if first == nil {
		return nil, nil
	}
	day := plan.DayKey(*first)
	return &day, nil
}

func (s *PlanService) today(ctx context.Context, userID uint) (*plan.DailyPlan, error) {
	p, err := s.planRepo.GetOrCreate(ctx, userID, plan.Today(s.now()))
	if err != nil {
		if stderrors.Is(err, outbound.ErrNotFound) {
			return nil, errors.NewUserNotFoundError(userID)
		}
		s.logger.Error("Failed to load today's plan", zap.Uint("user_id", userID), zap.Error(err))
		return nil, errors.NewDatabaseError("get or create plan", err)
	}
	return p, nil
}

func (s *PlanService) aggregate(ctx context.Context, userID uint, r plan.Range) ([]plan.DayTotal, error) {
	plans, err := s.planRepo.FindInRange(ctx, userID, r.From, r.Until())
	if err != nil {
		return nil, errors.NewDatabaseError("load plans", err)
	}

	s.logger.Debug("Aggregating calorie history",
		zap.Uint("user_id", userID),
		zap.String("from", plan.DayKey(r.From)),
		zap.String("to", plan.DayKey(r.To)),
		zap.Int("plans", len(plans)),
	)
	return plan.Aggregate(plans, r), nil
}

func toPlanDTO(p *plan.DailyPlan) inbound.DailyPlanDTO {
	entries := make([]inbound.PlanEntryDTO, len(p.Entries))
	for i, e := range p.Entries {
		entries[i] = toEntryDTO(e)
	}
	return inbound.DailyPlanDTO{
		ID:            p.ID,
		Date:          p.DayKey(),
		Entries:       entries,
		TotalCalories: p.TotalCalories(),
	}
}

func toEntryDTO(e plan.Entry) inbound.PlanEntryDTO {
	return inbound.PlanEntryDTO{
		ID:          e.ID,
		PlanID:      e.PlanID,
		RecipeID:    e.RecipeID,
		RecipeTitle: e.RecipeTitle,
		Kcal:        e.Kcal,
	}
}
