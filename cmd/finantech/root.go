package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/liviogabriel1/FinanTech-Dash/internal/config"
	"github.com/liviogabriel1/FinanTech-Dash/internal/database"
	"github.com/liviogabriel1/FinanTech-Dash/internal/notify"
	"github.com/liviogabriel1/FinanTech-Dash/internal/repository"
	"github.com/liviogabriel1/FinanTech-Dash/internal/scheduler"
)

var configPath string

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", os.Getenv("FINANTECH_CONFIG"), "Path to a TOML config file")
}

var rootCmd = &cobra.Command{
	Use:          "finantech",
	Short:        "Personal finance ledger with recurring transactions",
	SilenceUsage: true,
}

// loadConfig reads and validates the configuration and installs the
// default logger.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	level, _ := cfg.SlogLevel()
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	return cfg, nil
}

func openDB(ctx context.Context, cfg *config.Config) (*database.DB, error) {
	db, err := database.New(ctx, cfg.DatabaseURI)
	if err != nil {
		return nil, err
	}
	slog.Info("Connected to database")

	if err := db.Migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return db, nil
}

// newScheduler wires the scheduler to the database and, when configured,
// to Telegram.
func newScheduler(cfg *config.Config, db *database.DB, metrics *scheduler.Metrics) (*scheduler.Scheduler, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	hour, minute, err := cfg.RunTime()
	if err != nil {
		return nil, err
	}

	opts := scheduler.Options{
		Location:        loc,
		RunHour:         hour,
		RunMinute:       minute,
		Workers:         cfg.Scheduler.Workers,
		AlignQualifiers: cfg.Scheduler.AlignQualifiers,
		Metrics:         metrics,
	}

	if cfg.TelegramEnabled() {
		tg, err := notify.NewTelegram(cfg.Telegram.Token, cfg.Telegram.ChatID, loc)
		if err != nil {
			return nil, err
		}
		opts.Reporter = tg
		slog.Info("Sweep reports enabled", "chat_id", cfg.Telegram.ChatID)
	} else {
		slog.Info("Telegram not configured, sweep reports disabled")
	}

	return scheduler.New(repository.NewScheduleRepository(db), opts), nil
}
