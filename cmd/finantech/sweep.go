package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/liviogabriel1/FinanTech-Dash/internal/notify"
)

func init() {
	rootCmd.AddCommand(sweepCmd)
	sweepCmd.Flags().String("at", "", "Reference time in RFC 3339 (default: now)")
}

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Materialize due scheduled transactions once",
	Args:  cobra.NoArgs,
	RunE:  runSweep,
}

func runSweep(cmd *cobra.Command, _ []string) error {
	atFlag, _ := cmd.Flags().GetString("at")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	at := time.Now()
	if atFlag != "" {
		at, err = time.Parse(time.RFC3339, atFlag)
		if err != nil {
			return fmt.Errorf("invalid --at %q: %w", atFlag, err)
		}
	}

	ctx := cmd.Context()
	db, err := openDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	sched, err := newScheduler(cfg, db, nil)
	if err != nil {
		return err
	}

	report, err := sched.SweepAt(ctx, at)
	if err != nil {
		return err
	}

	text, _ := notify.FormatReport(report, loc)
	fmt.Fprintln(cmd.OutOrStdout(), text)
	if report.Failed > 0 {
		return fmt.Errorf("%d schedule(s) failed", report.Failed)
	}
	return nil
}
