// Package gorm provides GORM model definitions and repositories
package gorm

import (
	"time"
)

// UserModel represents the GORM model for users
type UserModel struct {
	ID           uint   `gorm:"primaryKey"`
	Email        string `gorm:"type:varchar(255);uniqueIndex;not null"`
	Name         string `gorm:"type:varchar(100);not null"`
	PasswordHash string `gorm:"type:varchar(255);not null"`
	CalorieGoal  int    `gorm:"not null;default:2000"`
	Avatar       string `gorm:"type:varchar(500)"`
	Phone        string `gorm:"type:varchar(50)"`
	Address      string `gorm:"type:varchar(255)"`
	IDNumber     string `gorm:"type:varchar(50)"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Relationships
	Recipes     []RecipeModel     `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	Plans       []DailyPlanModel  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	PantryItems []PantryItemModel `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name
func (UserModel) TableName() string {
	return "users"
}

// RecipeModel represents the GORM model for recipes
type RecipeModel struct {
	ID          uint   `gorm:"primaryKey"`
	AuthorID    uint   `gorm:"not null;index"`
	Title       string `gorm:"type:varchar(200);not null"`
	Description string `gorm:"type:text"`
	Kcal        int    `gorm:"not null;default:0"`
	TimeLabel   string `gorm:"type:varchar(50)"`
	Difficulty  string `gorm:"type:varchar(50)"`
	Image       string `gorm:"type:varchar(500)"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Relationships
	Steps       []StepModel       `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
	Ingredients []IngredientModel `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
	PlanEntries []PlanEntryModel  `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name
func (RecipeModel) TableName() string {
	return "recipes"
}

// StepModel is one ordered instruction of a recipe
type StepModel struct {
	ID          uint   `gorm:"primaryKey"`
	RecipeID    uint   `gorm:"not null;uniqueIndex:uidx_recipe_step_order"`
	Order       int    `gorm:"column:step_order;not null;uniqueIndex:uidx_recipe_step_order"`
	Description string `gorm:"type:text;not null"`
}

// TableName specifies the table name
func (StepModel) TableName() string {
	return "recipe_steps"
}

// IngredientModel is one ingredient name of a recipe
type IngredientModel struct {
	ID       uint   `gorm:"primaryKey"`
	RecipeID uint   `gorm:"not null;index"`
	Name     string `gorm:"type:varchar(100);not null;index"`
}

// TableName specifies the table name
func (IngredientModel) TableName() string {
	return "recipe_ingredients"
}

// DailyPlanModel is a user's plan for one UTC day
type DailyPlanModel struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"not null;uniqueIndex:uidx_user_date"`
	Date      time.Time `gorm:"not null;uniqueIndex:uidx_user_date"`
	CreatedAt time.Time

	Entries []PlanEntryModel `gorm:"foreignKey:PlanID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name
func (DailyPlanModel) TableName() string {
	return "daily_plans"
}

// PlanEntryModel schedules a recipe in a plan
type PlanEntryModel struct {
	ID        uint `gorm:"primaryKey"`
	PlanID    uint `gorm:"not null;index"`
	RecipeID  uint `gorm:"not null;index"`
	CreatedAt time.Time

	Recipe *RecipeModel `gorm:"foreignKey:RecipeID"`
}

// TableName specifies the table name
func (PlanEntryModel) TableName() string {
	return "plan_entries"
}

// PantryItemModel is one ingredient a user has at hand
type PantryItemModel struct {
	ID     uint   `gorm:"primaryKey"`
	UserID uint   `gorm:"not null;uniqueIndex:uidx_user_ingredient"`
	Name   string `gorm:"type:varchar(100);not null;uniqueIndex:uidx_user_ingredient"`
}

// TableName specifies the table name
func (PantryItemModel) TableName() string {
	return "pantry_items"
}

// AllModels lists every model in dependency order for AutoMigrate
func AllModels() []interface{} {
	return []interface{}{
		&UserModel{},
		&RecipeModel{},
		&StepModel{},
		&IngredientModel{},
		&DailyPlanModel{},
		&PlanEntryModel{},
		&PantryItemModel{},
	}
}
