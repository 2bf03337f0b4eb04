package recurrence

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/liviogabriel1/FinanTech-Dash/internal/models"
)

// RuleBuilder assembles an RFC 5545 RRULE for a schedule.
type RuleBuilder struct {
	Freq       rrule.Frequency
	ByWeekday  []rrule.Weekday
	ByMonthDay []int
	// Count limits the rule to that many occurrences. Zero means unbounded.
	Count int
}

var freqNames = map[rrule.Frequency]string{
	rrule.DAILY:   "DAILY",
	rrule.WEEKLY:  "WEEKLY",
	rrule.MONTHLY: "MONTHLY",
}

var frequencies = map[models.Frequency]rrule.Frequency{
	models.FrequencyDaily:   rrule.DAILY,
	models.FrequencyWeekly:  rrule.WEEKLY,
	models.FrequencyMonthly: rrule.MONTHLY,
}

func (b *RuleBuilder) Build(dtstart time.Time) (*rrule.RRule, error) {
	opt := rrule.ROption{
		Freq:    b.Freq,
		Dtstart: dtstart,
	}
	if len(b.ByWeekday) > 0 {
		opt.Byweekday = b.ByWeekday
	}
	if len(b.ByMonthDay) > 0 {
		opt.Bymonthday = b.ByMonthDay
	}
	if b.Count > 0 {
		opt.Count = b.Count
	}
	return rrule.NewRRule(opt)
}

func (b *RuleBuilder) String() string {
	parts := []string{"FREQ=" + freqNames[b.Freq]}

	if len(b.ByWeekday) > 0 {
		days := make([]string, len(b.ByWeekday))
		for i, d := range b.ByWeekday {
			days[i] = dayCodes[d]
		}
		parts = append(parts, "BYDAY="+strings.Join(days, ","))
	}

	if len(b.ByMonthDay) > 0 {
		days := make([]string, len(b.ByMonthDay))
		for i, d := range b.ByMonthDay {
			days[i] = strconv.Itoa(d)
		}
		parts = append(parts, "BYMONTHDAY="+strings.Join(days, ","))
	}

	if b.Count > 0 {
		parts = append(parts, "COUNT="+strconv.Itoa(b.Count))
	}

	return strings.Join(parts, ";")
}

// Rule renders a schedule's recurrence as an RRULE string. Qualifiers are
// included only for the frequency they belong to.
func Rule(s *models.ScheduledTransaction) (string, error) {
	freq, ok := frequencies[s.Frequency]
	if !ok {
		return "", fmt.Errorf("%w: unknown frequency %q", models.ErrInvalidInput, s.Frequency)
	}

	b := &RuleBuilder{Freq: freq}
	switch {
	case freq == rrule.WEEKLY && s.DayOfWeek != nil:
		if *s.DayOfWeek < 0 || *s.DayOfWeek > 6 {
			return "", fmt.Errorf("%w: day of week %d", models.ErrInvalidInput, *s.DayOfWeek)
		}
		b.ByWeekday = []rrule.Weekday{weekdays[*s.DayOfWeek]}
	case freq == rrule.MONTHLY && s.DayOfMonth != nil:
		if *s.DayOfMonth < 1 || *s.DayOfMonth > 31 {
			return "", fmt.Errorf("%w: day of month %d", models.ErrInvalidInput, *s.DayOfMonth)
		}
		b.ByMonthDay = []int{*s.DayOfMonth}
	}

	str := b.String()
	if _, err := rrule.StrToROption(str); err != nil {
		return "", fmt.Errorf("failed to validate RRULE %q: %w", str, err)
	}
	return str, nil
}

// Describe returns a short English description of an RRULE produced by Rule.
func Describe(ruleStr string) string {
	ruleStr = strings.TrimPrefix(ruleStr, "RRULE:")

	opt, err := rrule.StrToROption(ruleStr)
	if err != nil {
		return ruleStr
	}

	var result strings.Builder
	switch opt.Freq {
	case rrule.DAILY:
		result.WriteString("Daily")
	case rrule.WEEKLY:
		result.WriteString("Weekly")
	case rrule.MONTHLY:
		result.WriteString("Monthly")
	default:
		return ruleStr
	}

	if len(opt.Byweekday) > 0 {
		names := make([]string, len(opt.Byweekday))
		for i, d := range opt.Byweekday {
			names[i] = dayNames[d]
		}
		result.WriteString(" on " + strings.Join(names, ", "))
	}

	if len(opt.Bymonthday) > 0 {
		days := make([]string, len(opt.Bymonthday))
		for i, d := range opt.Bymonthday {
			days[i] = strconv.Itoa(d)
		}
		result.WriteString(" on day " + strings.Join(days, ", "))
	}

	return result.String()
}

var dayCodes = map[rrule.Weekday]string{
	rrule.MO: "MO",
	rrule.TU: "TU",
	rrule.WE: "WE",
	rrule.TH: "TH",
	rrule.FR: "FR",
	rrule.SA: "SA",
	rrule.SU: "SU",
}

var dayNames = map[rrule.Weekday]string{
	rrule.MO: "Monday",
	rrule.TU: "Tuesday",
	rrule.WE: "Wednesday",
	rrule.TH: "Thursday",
	rrule.FR: "Friday",
	rrule.SA: "Saturday",
	rrule.SU: "Sunday",
}
