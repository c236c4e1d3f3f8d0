package plan

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type HistoryTestSuite struct {
	suite.Suite
}

func day(s string) time.Time {
	t, err := time.Parse(DayLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func planOn(date string, kcals ...int) DailyPlan {
	p := DailyPlan{Date: day(date)}
	for _, k := range kcals {
		p.Entries = append(p.Entries, Entry{Kcal: k})
	}
	return p
}

func (suite *HistoryTestSuite) TestAggregate() {
	suite.Run("FillsGapsWithZero", func() {
		plans := []DailyPlan{planOn("2024-01-01", 300), planOn("2024-01-03", 200, 300)}

		history := Aggregate(plans, FullRange(day("2024-01-01"), day("2024-01-03").Add(15*time.Hour)))

		assert.Equal(suite.T(), []DayTotal{
			{Date: "2024-01-01", TotalCalories: 300},
			{Date: "2024-01-02", TotalCalories: 0},
			{Date: "2024-01-03", TotalCalories: 500},
		}, history)
	})

	suite.Run("NoPlansInRange_ShouldFillZeros", func() {
		history := Aggregate(nil, Range{From: day("2024-01-01"), To: day("2024-01-07")})

		require.Len(suite.T(), history, WeekDays)
		assert.Equal(suite.T(), "2024-01-01", history[0].Date)
		assert.Equal(suite.T(), "2024-01-07", history[6].Date)
		for _, row := range history {
			assert.Zero(suite.T(), row.TotalCalories)
		}
	})

	suite.Run("DuplicateDayRows_ShouldAdd", func() {
		plans := []DailyPlan{
			planOn("2024-03-05", 100),
			{Date: day("2024-03-05").Add(13 * time.Hour), Entries: []Entry{{Kcal: 250}}},
		}

		history := Aggregate(plans, Range{From: day("2024-03-05"), To: day("2024-03-05")})

		assert.Equal(suite.T(), []DayTotal{{Date: "2024-03-05", TotalCalories: 350}}, history)
	})

	suite.Run("ConsecutiveRowsAdvanceOneDay", func() {
		plans := []DailyPlan{planOn("2024-02-27", 10)}

		history := Aggregate(plans, Range{From: day("2024-02-26"), To: day("2024-03-02")})

		require.Len(suite.T(), history, 6)
		for i := 1; i < len(history); i++ {
			prev, cur := day(history[i-1].Date), day(history[i].Date)
			assert.Equal(suite.T(), prev.AddDate(0, 0, 1), cur)
		}
		assert.Equal(suite.T(), "2024-02-29", history[3].Date)
	})

	suite.Run("PlansOutsideRange_AreIgnored", func() {
		plans := []DailyPlan{planOn("2023-12-31", 999), planOn("2024-01-02", 50)}

		history := Aggregate(plans, Range{From: day("2024-01-01"), To: day("2024-01-02")})

		assert.Equal(suite.T(), []DayTotal{
			{Date: "2024-01-01", TotalCalories: 0},
			{Date: "2024-01-02", TotalCalories: 50},
		}, history)
	})
}

func (suite *HistoryTestSuite) TestWeekRange() {
	suite.Run("UTCClient_StartsOnStartDate", func() {
		r, err := WeekRange("2024-01-01", 0)

		require.NoError(suite.T(), err)
		assert.Equal(suite.T(), day("2024-01-01"), r.From)
		assert.Equal(suite.T(), day("2024-01-07"), r.To)
		assert.Equal(suite.T(), WeekDays, r.Days())
		assert.Equal(suite.T(), day("2024-01-08"), r.Until())
	})

	suite.Run("ClientBehindUTC_KeepsStartDate", func() {
		r, err := WeekRange("2024-01-01", 300)

		require.NoError(suite.T(), err)
		assert.Equal(suite.T(), day("2024-01-01"), r.From)
	})

	suite.Run("ClientAheadOfUTC_StartsPreviousUTCDay", func() {
		r, err := WeekRange("2024-01-01", -540)

		require.NoError(suite.T(), err)
		assert.Equal(suite.T(), day("2023-12-31"), r.From)
		assert.Equal(suite.T(), day("2024-01-06"), r.To)
	})

	suite.Run("AlwaysSevenRows", func() {
		r, err := WeekRange("2024-02-26", 60)
		require.NoError(suite.T(), err)

		history := Aggregate([]DailyPlan{planOn("2024-02-28", 1)}, r)

		assert.Len(suite.T(), history, WeekDays)
	})

	suite.Run("InvalidDates_ShouldFail", func() {
		for _, input := range []string{"", "2024-02-30", "01/02/2024", "2024-1-1", "yesterday"} {
			_, err := WeekRange(input, 0)
			assert.ErrorIs(suite.T(), err, ErrInvalidStartDate, input)
		}
	})

	suite.Run("OffsetOutOfBounds_ShouldFail", func() {
		_, err := WeekRange("2024-01-01", 10000)
		assert.ErrorIs(suite.T(), err, ErrInvalidOffset)
	})
}

func (suite *HistoryTestSuite) TestFullRange() {
	r := FullRange(day("2024-01-05").Add(20*time.Hour), day("2024-01-03"))

	assert.Equal(suite.T(), day("2024-01-05"), r.From)
	assert.Equal(suite.T(), day("2024-01-05"), r.To)
}

func (suite *HistoryTestSuite) TestTotalsAndKeys() {
	p := planOn("2024-06-01", 120, 0, 380)

	assert.Equal(suite.T(), int64(500), p.TotalCalories())
	assert.Equal(suite.T(), "2024-06-01", p.DayKey())

	local := time.Date(2024, 6, 1, 23, 30, 0, 0, time.FixedZone("UTC-3", -3*3600))
	assert.Equal(suite.T(), day("2024-06-02"), NormalizeDay(local))
}

func TestHistoryTestSuite(t *testing.T) {
	suite.Run(t, new(HistoryTestSuite))
}
