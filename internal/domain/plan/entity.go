// Package plan models per-user daily meal plans and the calorie history
// derived from them.
package plan

import (
	"errors"
	"time"
)

// DayLayout is the calendar-day key format used on the wire and for grouping.
const DayLayout = "2006-01-02"

var (
	ErrInvalidStartDate = errors.New("startDate must be a valid YYYY-MM-DD date")
	ErrInvalidOffset    = errors.New("timezoneOffset must be a whole number of minutes within ±14h")
	ErrEntryNotOwned    = errors.New("plan entry does not belong to user")
)

// DailyPlan is a user's plan for one calendar day. Date is always UTC
// midnight; (UserID, Date) is unique.
type DailyPlan struct {
	ID        uint
	UserID    uint
	Date      time.Time
	Entries   []Entry
	CreatedAt time.Time
}

// Entry schedules one recipe in a plan. RecipeTitle and Kcal are read from
// the recipe when the plan is loaded.
type Entry struct {
	ID          uint
	PlanID      uint
	RecipeID    uint
	RecipeTitle string
	Kcal        int
	CreatedAt   time.Time
}

// TotalCalories sums the kcal of every entry. Each entry counts its recipe
// once.
func (p DailyPlan) TotalCalories() int64 {
	var total int64
	for _, e := range p.Entries {
		total += int64(e.Kcal)
	}
	return total
}

// DayKey returns the plan's calendar day.
func (p DailyPlan) DayKey() string {
	return DayKey(p.Date)
}

// NormalizeDay truncates t to midnight of its UTC calendar day.
func NormalizeDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DayKey formats the UTC calendar day of t.
func DayKey(t time.Time) string {
	return t.UTC().Format(DayLayout)
}

// Today is the plan date for "now".
func Today(now time.Time) time.Time {
	return NormalizeDay(now)
}
