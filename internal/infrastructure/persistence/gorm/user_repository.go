package gorm

import (
	"context"
	"time"

	"github.com/alchemorsel/mealplan/internal/domain/user"
	"github.com/alchemorsel/mealplan/internal/ports/outbound"
	"gorm.io/gorm"
)

// UserRepository implements the user repository interface using GORM
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

var _ outbound.UserRepository = (*UserRepository)(nil)

// Create stores a new user. A taken email yields outbound.ErrDuplicate.
func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	model := UserToModel(u)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return translateError(err)
	}
	u.AssignID(model.ID)
	return nil
}

// Update writes the user's profile fields
func (r *UserRepository) Update(ctx context.Context, u *user.User) error {
	p := u.Profile()
	result := r.db.WithContext(ctx).Model(&UserModel{}).
		Where("id = ?", u.ID()).
		Updates(map[string]interface{}{
			"name":         u.Name(),
			"calorie_goal": p.CalorieGoal,
			"avatar":       p.Avatar,
			"phone":        p.Phone,
			"address":      p.Address,
			"id_number":    p.IDNumber,
			"updated_at":   time.Now().UTC(),
		})
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return outbound.ErrNotFound
	}
	return nil
}

// FindByID finds a user by ID
func (r *UserRepository) FindByID(ctx context.Context, id uint) (*user.User, error) {
	var model UserModel
	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		return nil, translateError(err)
	}
	return ModelToUser(&model), nil
}

// FindByEmail finds a user by normalized email
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	var model UserModel
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return ModelToUser(&model), nil
}

// Exists reports whether a user row exists
func (r *UserRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&UserModel{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
