package recurrence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teambition/rrule-go"

	"github.com/liviogabriel1/FinanTech-Dash/internal/models"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 1, 0, 0, 0, time.UTC)
}

func intPtr(v int) *int { return &v }

func TestNext(t *testing.T) {
	tests := []struct {
		name    string
		current time.Time
		freq    models.Frequency
		want    time.Time
	}{
		{"daily", date(2024, time.March, 10), models.FrequencyDaily, date(2024, time.March, 11)},
		{"daily crosses year", date(2023, time.December, 31), models.FrequencyDaily, date(2024, time.January, 1)},
		{"weekly", date(2024, time.May, 15), models.FrequencyWeekly, date(2024, time.May, 22)},
		{"weekly crosses month", date(2024, time.January, 29), models.FrequencyWeekly, date(2024, time.February, 5)},
		{"monthly same day", date(2024, time.January, 15), models.FrequencyMonthly, date(2024, time.February, 15)},
		{"monthly clamps to feb 28", date(2023, time.January, 31), models.FrequencyMonthly, date(2023, time.February, 28)},
		{"monthly clamps to feb 29 in leap year", date(2024, time.January, 31), models.FrequencyMonthly, date(2024, time.February, 29)},
		{"monthly clamps to apr 30", date(2024, time.March, 31), models.FrequencyMonthly, date(2024, time.April, 30)},
		{"monthly crosses year", date(2024, time.December, 31), models.FrequencyMonthly, date(2025, time.January, 31)},
		{"unknown falls back to daily", date(2024, time.March, 10), models.Frequency("YEARLY"), date(2024, time.March, 11)},
		{"empty falls back to daily", date(2024, time.March, 10), models.Frequency(""), date(2024, time.March, 11)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.want.Equal(Next(tt.current, tt.freq)), "got %s", Next(tt.current, tt.freq))
		})
	}
}

func TestNextKeepsWallClock(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// DST starts on 2024-03-10 in New York.
	current := time.Date(2024, time.March, 9, 12, 0, 0, 0, loc)
	next := Next(current, models.FrequencyDaily)

	assert.Equal(t, 12, next.Hour())
	assert.Equal(t, 10, next.Day())
	assert.Equal(t, 23*time.Hour, next.Sub(current))
}

func TestNextMonthlyDoesNotRecover(t *testing.T) {
	// Once clamped, the day of month stays at the clamped value.
	current := date(2024, time.January, 31)
	current = Next(current, models.FrequencyMonthly)
	current = Next(current, models.FrequencyMonthly)
	assert.True(t, date(2024, time.March, 29).Equal(current))
}

func TestNextStrictlyIncreases(t *testing.T) {
	freqs := []models.Frequency{
		models.FrequencyDaily,
		models.FrequencyWeekly,
		models.FrequencyMonthly,
		models.Frequency("BOGUS"),
	}

	start := date(2023, time.January, 1)
	for _, f := range freqs {
		for d := start; d.Before(date(2025, time.January, 1)); d = d.AddDate(0, 0, 1) {
			if !Next(d, f).After(d) {
				t.Fatalf("Next(%s, %s) did not advance", d, f)
			}
		}
	}
}

func TestAddMonthClamped(t *testing.T) {
	assert.True(t, date(2024, time.February, 29).Equal(AddMonthClamped(date(2023, time.November, 30), 3)))
	assert.True(t, date(2025, time.February, 28).Equal(AddMonthClamped(date(2024, time.January, 31), 13)))
	assert.True(t, date(2024, time.June, 30).Equal(AddMonthClamped(date(2024, time.May, 31), 1)))
}

func TestAligned(t *testing.T) {
	tests := []struct {
		name       string
		current    time.Time
		freq       models.Frequency
		dayOfMonth *int
		dayOfWeek  *int
		want       time.Time
	}{
		{"weekly snaps to monday", date(2024, time.May, 15), models.FrequencyWeekly, nil, intPtr(1), date(2024, time.May, 20)},
		{"weekly on same weekday moves a week", date(2024, time.May, 20), models.FrequencyWeekly, nil, intPtr(1), date(2024, time.May, 27)},
		{"weekly to sunday", date(2024, time.May, 15), models.FrequencyWeekly, nil, intPtr(0), date(2024, time.May, 19)},
		{"weekly without qualifier", date(2024, time.May, 15), models.FrequencyWeekly, nil, nil, date(2024, time.May, 22)},
		{"weekly out of range", date(2024, time.May, 15), models.FrequencyWeekly, nil, intPtr(9), date(2024, time.May, 22)},
		{"monthly recovers day 31", date(2024, time.February, 29), models.FrequencyMonthly, intPtr(31), nil, date(2024, time.March, 31)},
		{"monthly clamps qualifier", date(2024, time.January, 31), models.FrequencyMonthly, intPtr(31), nil, date(2024, time.February, 29)},
		{"monthly snaps to 15", date(2024, time.January, 3), models.FrequencyMonthly, intPtr(15), nil, date(2024, time.February, 15)},
		{"monthly ignores weekday", date(2024, time.January, 15), models.FrequencyMonthly, nil, intPtr(3), date(2024, time.February, 15)},
		{"daily ignores qualifiers", date(2024, time.January, 15), models.FrequencyDaily, intPtr(3), intPtr(3), date(2024, time.January, 16)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Aligned(tt.current, tt.freq, tt.dayOfMonth, tt.dayOfWeek)
			assert.True(t, tt.want.Equal(got), "got %s, want %s", got, tt.want)
		})
	}
}

func TestPreview(t *testing.T) {
	got := Preview(date(2024, time.January, 31), models.FrequencyMonthly, 3)
	require.Len(t, got, 3)
	assert.True(t, date(2024, time.February, 29).Equal(got[0]))
	assert.True(t, date(2024, time.March, 29).Equal(got[1]))
	assert.True(t, date(2024, time.April, 29).Equal(got[2]))

	assert.Empty(t, Preview(date(2024, time.January, 1), models.FrequencyDaily, 0))
}

func TestRuleAndDescribe(t *testing.T) {
	tests := []struct {
		name     string
		schedule *models.ScheduledTransaction
		rule     string
		describe string
	}{
		{"daily", &models.ScheduledTransaction{Frequency: models.FrequencyDaily}, "FREQ=DAILY", "Daily"},
		{"weekly", &models.ScheduledTransaction{Frequency: models.FrequencyWeekly, DayOfWeek: intPtr(5)}, "FREQ=WEEKLY;BYDAY=FR", "Weekly on Friday"},
		{"monthly", &models.ScheduledTransaction{Frequency: models.FrequencyMonthly, DayOfMonth: intPtr(15)}, "FREQ=MONTHLY;BYMONTHDAY=15", "Monthly on day 15"},
		{"qualifier of other frequency ignored", &models.ScheduledTransaction{Frequency: models.FrequencyDaily, DayOfMonth: intPtr(15)}, "FREQ=DAILY", "Daily"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule, err := Rule(tt.schedule)
			require.NoError(t, err)
			assert.Equal(t, tt.rule, rule)
			assert.Equal(t, tt.describe, Describe(rule))
		})
	}
}

func TestRuleRejectsInvalid(t *testing.T) {
	_, err := Rule(&models.ScheduledTransaction{Frequency: "HOURLY"})
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	_, err = Rule(&models.ScheduledTransaction{Frequency: models.FrequencyMonthly, DayOfMonth: intPtr(32)})
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	_, err = Rule(&models.ScheduledTransaction{Frequency: models.FrequencyWeekly, DayOfWeek: intPtr(-1)})
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestDescribeUnparseable(t *testing.T) {
	assert.Equal(t, "not a rule", Describe("not a rule"))
}

func TestRuleBuilderBuild(t *testing.T) {
	b := &RuleBuilder{Freq: rrule.WEEKLY, ByWeekday: []rrule.Weekday{rrule.MO}}
	r, err := b.Build(date(2024, time.May, 15))
	require.NoError(t, err)

	next := r.After(date(2024, time.May, 15), false)
	assert.True(t, date(2024, time.May, 20).Equal(next))
}

func TestRuleBuilderCount(t *testing.T) {
	b := &RuleBuilder{Freq: rrule.WEEKLY, ByWeekday: []rrule.Weekday{rrule.FR}, Count: 2}
	assert.Equal(t, "FREQ=WEEKLY;BYDAY=FR;COUNT=2", b.String())

	r, err := b.Build(date(2024, time.May, 15))
	require.NoError(t, err)

	all := r.All()
	require.Len(t, all, 2)
	assert.True(t, date(2024, time.May, 17).Equal(all[0]))
	assert.True(t, date(2024, time.May, 24).Equal(all[1]))
}
