package plan

import (
	"time"
)

// WeekDays is the length of the bounded calorie history window.
const WeekDays = 7

// maxOffsetMinutes bounds client UTC offsets to real-world zones.
const maxOffsetMinutes = 14 * 60

// DayTotal is one row of the calorie history.
type DayTotal struct {
	Date          string `json:"date"`
	TotalCalories int64  `json:"totalCalories"`
}

// Range is an inclusive span of UTC calendar days.
type Range struct {
	From time.Time
	To   time.Time
}

// Days is the number of calendar days covered.
func (r Range) Days() int {
	return int(r.To.Sub(r.From).Hours()/24) + 1
}

// Until is the exclusive upper bound to use when querying plan dates.
func (r Range) Until() time.Time {
	return r.To.AddDate(0, 0, 1)
}

// WeekRange is the seven-day window that starts at midnight of startDate in
// the client's zone. offsetMinutes follows the browser convention: positive
// means the client is behind UTC. The window's first row is the UTC day
// holding that instant.
func WeekRange(startDate string, offsetMinutes int) (Range, error) {
	day, err := time.ParseInLocation(DayLayout, startDate, time.UTC)
	if err != nil {
		return Range{}, ErrInvalidStartDate
	}
	if offsetMinutes < -maxOffsetMinutes || offsetMinutes > maxOffsetMinutes {
		return Range{}, ErrInvalidOffset
	}

	anchor := day.Add(time.Duration(offsetMinutes) * time.Minute)
	from := NormalizeDay(anchor)
	return Range{From: from, To: from.AddDate(0, 0, WeekDays-1)}, nil
}

// FullRange spans from the first plan's day to the day of now. A first day
// in the future collapses the range to that single day.
func FullRange(first, now time.Time) Range {
	from, to := NormalizeDay(first), NormalizeDay(now)
	if to.Before(from) {
		to = from
	}
	return Range{From: from, To: to}
}

// Consolidate sums entry calories per calendar day. Several plans on the
// same day add up.
func Consolidate(plans []DailyPlan) map[string]int64 {
	totals := make(map[string]int64, len(plans))
	for _, p := range plans {
		totals[p.DayKey()] += p.TotalCalories()
	}
	return totals
}

// Aggregate produces one row per day of r, in ascending order, with zero
// for days without a plan.
func Aggregate(plans []DailyPlan, r Range) []DayTotal {
	totals := Consolidate(plans)
	history := make([]DayTotal, 0, r.Days())
	for d := NormalizeDay(r.From); !d.After(r.To); d = d.AddDate(0, 0, 1) {
		key := DayKey(d)
		history = append(history, DayTotal{Date: key, TotalCalories: totals[key]})
	}
	return history
}
