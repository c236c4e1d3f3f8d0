package gorm

import (
	"context"
	"time"

	"github.com/alchemorsel/mealplan/internal/domain/plan"
	"github.com/alchemorsel/mealplan/internal/ports/outbound"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PlanRepository implements the plan repository interface using GORM
type PlanRepository struct {
	db *gorm.DB
}

// NewPlanRepository creates a new plan repository
func NewPlanRepository(db *gorm.DB) *PlanRepository {
	return &PlanRepository{db: db}
}

var _ outbound.PlanRepository = (*PlanRepository)(nil)

// GetOrCreate inserts the (user, date) row unless it exists and then reads
// it back. The unique index settles concurrent inserts, so every caller
// reads the same row.
func (r *PlanRepository) GetOrCreate(ctx context.Context, userID uint, date time.Time) (*plan.DailyPlan, error) {
	date = plan.NormalizeDay(date)
	db := r.db.WithContext(ctx)

	var users int64
	if err := db.Model(&UserModel{}).Where("id = ?", userID).Count(&users).Error; err != nil {
		return nil, err
	}
	if users == 0 {
		return nil, outbound.ErrNotFound
	}

	row := DailyPlanModel{UserID: userID, Date: date, CreatedAt: time.Now().UTC()}
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "date"}},
		DoNothing: true,
	}).Create(&row).Error
	if err != nil {
		return nil, translateError(err)
	}

	var model DailyPlanModel
	if err := withEntries(db).Where("user_id = ? AND date = ?", userID, date).First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return ModelToPlan(&model), nil
}

// AddEntry appends a recipe to a plan
func (r *PlanRepository) AddEntry(ctx context.Context, planID, recipeID uint) (*plan.Entry, error) {
	var model PlanEntryModel

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var recipeRow RecipeModel
		if err := tx.Select("id", "title", "kcal").First(&recipeRow, recipeID).Error; err != nil {
			return err
		}
		var plans int64
		if err := tx.Model(&DailyPlanModel{}).Where("id = ?", planID).Count(&plans).Error; err != nil {
			return err
		}
		if plans == 0 {
			return outbound.ErrNotFound
		}

		model = PlanEntryModel{PlanID: planID, RecipeID: recipeID, CreatedAt: time.Now().UTC()}
		if err := tx.Create(&model).Error; err != nil {
			return err
		}
		model.Recipe = &recipeRow
		return nil
	})
	if err != nil {
		return nil, translateError(err)
	}

	entry := ModelToEntry(&model)
	return &entry, nil
}

// FindEntry loads an entry only if its plan belongs to userID
func (r *PlanRepository) FindEntry(ctx context.Context, userID, entryID uint) (*plan.Entry, error) {
	var model PlanEntryModel

	err := r.db.WithContext(ctx).
		Joins("JOIN daily_plans ON daily_plans.id = plan_entries.plan_id").
		Where("plan_entries.id = ? AND daily_plans.user_id = ?", entryID, userID).
		Preload("Recipe").
		First(&model).Error
	if err != nil {
		return nil, translateError(err)
	}

	entry := ModelToEntry(&model)
	return &entry, nil
}

// DeleteEntry removes one entry
func (r *PlanRepository) DeleteEntry(ctx context.Context, entryID uint) error {
	result := r.db.WithContext(ctx).Delete(&PlanEntryModel{}, entryID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return outbound.ErrNotFound
	}
	return nil
}

// FindInRange loads the user's plans dated in [from, until)
func (r *PlanRepository) FindInRange(ctx context.Context, userID uint, from, until time.Time) ([]plan.DailyPlan, error) {
	var models []DailyPlanModel

	err := withEntries(r.db.WithContext(ctx)).
		Where("user_id = ? AND date >= ? AND date < ?", userID, from.UTC(), until.UTC()).
		Order("date ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	plans := make([]plan.DailyPlan, len(models))
	for i := range models {
		plans[i] = *ModelToPlan(&models[i])
	}
	return plans, nil
}

// FirstPlanDate returns the date of the user's earliest plan
func (r *PlanRepository) FirstPlanDate(ctx context.Context, userID uint) (*time.Time, error) {
	var models []DailyPlanModel

	err := r.db.WithContext(ctx).
		Select("id", "date").
		Where("user_id = ?", userID).
		Order("date ASC").
		Limit(1).
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	if len(models) == 0 {
		return nil, nil
	}

	first := plan.NormalizeDay(models[0].Date)
	return &first, nil
}

func withEntries(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Entries", func(db *gorm.DB) *gorm.DB { return db.Order("plan_entries.id ASC") }).
		Preload("Entries.Recipe")
}
