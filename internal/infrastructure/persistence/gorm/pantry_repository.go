package gorm

import (
	"context"

	"github.com/alchemorsel/mealplan/internal/domain/pantry"
	"github.com/alchemorsel/mealplan/internal/ports/outbound"
	"gorm.io/gorm"
)

// PantryRepository implements the pantry repository interface using GORM
type PantryRepository struct {
	db *gorm.DB
}

// NewPantryRepository creates a new pantry repository
func NewPantryRepository(db *gorm.DB) *PantryRepository {
	return &PantryRepository{db: db}
}

var _ outbound.PantryRepository = (*PantryRepository)(nil)

// List returns the user's pantry sorted by name
func (r *PantryRepository) List(ctx context.Context, userID uint) ([]pantry.Item, error) {
	var models []PantryItemModel
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("name ASC").Find(&models).Error; err != nil {
		return nil, err
	}

	items := make([]pantry.Item, len(models))
	for i, m := range models {
		items[i] = ModelToPantryItem(m)
	}
	return items, nil
}

// Replace deletes the user's pantry and inserts names in one transaction
func (r *PantryRepository) Replace(ctx context.Context, userID uint, names []string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var users int64
		if err := tx.Model(&UserModel{}).Where("id = ?", userID).Count(&users).Error; err != nil {
			return err
		}
		if users == 0 {
			return outbound.ErrNotFound
		}

		if err := tx.Where("user_id = ?", userID).Delete(&PantryItemModel{}).Error; err != nil {
			return err
		}
		if len(names) == 0 {
			return nil
		}

		rows := make([]PantryItemModel, len(names))
		for i, name := range names {
			rows[i] = PantryItemModel{UserID: userID, Name: name}
		}
		return tx.Create(&rows).Error
	})
	return translateError(err)
}
