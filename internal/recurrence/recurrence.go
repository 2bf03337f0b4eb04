// Package recurrence advances scheduled transactions from one occurrence to
// the next.
package recurrence

import (
	"log/slog"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/liviogabriel1/FinanTech-Dash/internal/models"
)

// Next returns the occurrence that follows current for the given frequency.
// Calendar arithmetic happens in current's location, so the wall-clock time
// of day is kept across DST changes. Unknown frequencies advance one day.
func Next(current time.Time, f models.Frequency) time.Time {
	switch f {
	case models.FrequencyDaily:
		return current.AddDate(0, 0, 1)
	case models.FrequencyWeekly:
		return current.AddDate(0, 0, 7)
	case models.FrequencyMonthly:
		return AddMonthClamped(current, 1)
	default:
		slog.Warn("Unknown frequency, advancing one day", "frequency", string(f))
		return current.AddDate(0, 0, 1)
	}
}

// AddMonthClamped moves t forward n calendar months. When the target month
// is shorter than t's day, the result lands on the target month's last day
// (Jan 31 + 1 => Feb 28 or Feb 29).
func AddMonthClamped(t time.Time, n int) time.Time {
	return monthDay(t, n, t.Day())
}

// monthDay returns t moved n months with the day set to day, clamped to the
// length of the target month.
func monthDay(t time.Time, n, day int) time.Time {
	y, m, _ := t.Date()
	hh, mm, ss := t.Clock()
	loc := t.Location()

	first := time.Date(y, m+time.Month(n), 1, hh, mm, ss, t.Nanosecond(), loc)
	last := daysIn(first.Year(), first.Month(), loc)
	if day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, hh, mm, ss, t.Nanosecond(), loc)
}

func daysIn(year int, month time.Month, loc *time.Location) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
}

// Aligned is the strict variant of Next: WEEKLY snaps to dayOfWeek and
// MONTHLY to dayOfMonth (clamped to the month length). A missing qualifier
// falls back to Next.
func Aligned(current time.Time, f models.Frequency, dayOfMonth, dayOfWeek *int) time.Time {
	switch {
	case f == models.FrequencyWeekly && dayOfWeek != nil:
		if next, ok := nextWeekday(current, *dayOfWeek); ok {
			return next
		}
	case f == models.FrequencyMonthly && dayOfMonth != nil:
		if *dayOfMonth >= 1 && *dayOfMonth <= 31 {
			return monthDay(current, 1, *dayOfMonth)
		}
	}
	return Next(current, f)
}

// nextWeekday finds the first day strictly after current that falls on the
// given weekday (0 = Sunday), keeping current's time of day.
func nextWeekday(current time.Time, dow int) (time.Time, bool) {
	if dow < 0 || dow > 6 {
		return time.Time{}, false
	}

	b := &RuleBuilder{Freq: rrule.WEEKLY, ByWeekday: []rrule.Weekday{weekdays[dow]}, Count: 2}
	rule, err := b.Build(current.Truncate(time.Second))
	if err != nil {
		slog.Warn("Failed to build weekly rule", "day_of_week", dow, "error", err)
		return time.Time{}, false
	}

	next := rule.After(current, false)
	if next.IsZero() {
		return time.Time{}, false
	}
	return next.Add(time.Duration(current.Nanosecond())), true
}

// Preview lists the n occurrences that follow start.
func Preview(start time.Time, f models.Frequency, n int) []time.Time {
	if n < 0 {
		n = 0
	}
	out := make([]time.Time, 0, n)
	current := start
	for i := 0; i < n; i++ {
		current = Next(current, f)
		out = append(out, current)
	}
	return out
}

// weekdays maps time.Weekday values to rrule weekdays.
var weekdays = [7]rrule.Weekday{
	rrule.SU, rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR, rrule.SA,
}
