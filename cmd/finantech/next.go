package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/liviogabriel1/FinanTech-Dash/internal/config"
	"github.com/liviogabriel1/FinanTech-Dash/internal/models"
	"github.com/liviogabriel1/FinanTech-Dash/internal/recurrence"
	"github.com/liviogabriel1/FinanTech-Dash/internal/scheduler"
)

func init() {
	rootCmd.AddCommand(nextCmd)
	nextCmd.Flags().String("from", "", "First run date in RFC 3339 (default: now)")
	nextCmd.Flags().IntP("count", "n", 5, "Number of occurrences to list")
	nextCmd.Flags().Int("day-of-month", 0, "Day of month qualifier (MONTHLY)")
	nextCmd.Flags().Int("day-of-week", -1, "Day of week qualifier, 0 = Sunday (WEEKLY)")
}

var nextCmd = &cobra.Command{
	Use:   "next DAILY|WEEKLY|MONTHLY",
	Short: "Preview the run dates of a recurrence",
	Long: `Print the occurrences a schedule with the given frequency would produce,
evaluated in the configured timezone, and the time of the next sweep.
Qualifiers only change the output when scheduler.align_qualifiers is on.`,
	Args: cobra.ExactArgs(1),
	RunE: runNext,
}

func runNext(cmd *cobra.Command, args []string) error {
	fromFlag, _ := cmd.Flags().GetString("from")
	count, _ := cmd.Flags().GetInt("count")
	dom, _ := cmd.Flags().GetInt("day-of-month")
	dow, _ := cmd.Flags().GetInt("day-of-week")

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	hour, minute, err := cfg.RunTime()
	if err != nil {
		return err
	}

	freq := models.Frequency(strings.ToUpper(args[0]))
	if !freq.Valid() {
		return fmt.Errorf("unknown frequency %q", args[0])
	}

	from := time.Now().In(loc)
	if fromFlag != "" {
		from, err = time.Parse(time.RFC3339, fromFlag)
		if err != nil {
			return fmt.Errorf("invalid --from %q: %w", fromFlag, err)
		}
		from = from.In(loc)
	}

	sched := &models.ScheduledTransaction{Frequency: freq, StartDate: from, NextRunDate: from}
	if dom > 0 {
		sched.DayOfMonth = &dom
	}
	if dow >= 0 {
		sched.DayOfWeek = &dow
	}

	rule, err := recurrence.Rule(sched)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Rule: %s (%s)\n", rule, recurrence.Describe(rule))
	fmt.Fprintf(out, "  %s\n", from.Format(time.RFC3339))

	var dates []time.Time
	if cfg.Scheduler.AlignQualifiers {
		current := from
		for i := 0; i < count; i++ {
			current = recurrence.Aligned(current, freq, sched.DayOfMonth, sched.DayOfWeek)
			dates = append(dates, current)
		}
	} else {
		dates = recurrence.Preview(from, freq, count)
	}
	for _, d := range dates {
		fmt.Fprintf(out, "  %s\n", d.Format(time.RFC3339))
	}

	s := scheduler.New(nil, scheduler.Options{Location: loc, RunHour: hour, RunMinute: minute})
	fmt.Fprintf(out, "Next sweep: %s\n", s.NextRun(time.Now()).Format(time.RFC3339))
	return nil
}
