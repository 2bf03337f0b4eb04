package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURI string          `toml:"database_uri"`
	MetricsAddr string          `toml:"metrics_addr"`
	LogLevel    string          `toml:"log_level"`
	Scheduler   SchedulerConfig `toml:"scheduler"`
	Telegram    TelegramConfig  `toml:"telegram"`
}

type SchedulerConfig struct {
	Timezone        string `toml:"timezone"`
	RunAt           string `toml:"run_at"`
	Workers         int    `toml:"workers"`
	AlignQualifiers bool   `toml:"align_qualifiers"`
}

// TelegramConfig enables sweep reports when both fields are set.
type TelegramConfig struct {
	Token  string `toml:"token"`
	ChatID int64  `toml:"chat_id"`
}

func Default() *Config {
	return &Config{
		LogLevel: "info",
		Scheduler: SchedulerConfig{
			Timezone: "America/Sao_Paulo",
			RunAt:    "01:00",
			Workers:  1,
		},
	}
}

// Load builds the configuration from defaults, then the TOML file at path
// (skipped when path is empty), then environment variables. A .env file in
// the working directory is loaded into the environment first if present.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := Default()
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	c.DatabaseURI = getEnvOrDefault("DATABASE_URI", c.DatabaseURI)
	c.MetricsAddr = getEnvOrDefault("METRICS_ADDR", c.MetricsAddr)
	c.LogLevel = getEnvOrDefault("LOG_LEVEL", c.LogLevel)
	c.Scheduler.Timezone = getEnvOrDefault("SCHEDULER_TIMEZONE", c.Scheduler.Timezone)
	c.Scheduler.RunAt = getEnvOrDefault("SCHEDULER_RUN_AT", c.Scheduler.RunAt)
	c.Telegram.Token = getEnvOrDefault("TELEGRAM_TOKEN", c.Telegram.Token)

	if v := os.Getenv("SCHEDULER_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid SCHEDULER_WORKERS %q: %w", v, err)
		}
		c.Scheduler.Workers = n
	}
	if v := os.Getenv("SCHEDULER_ALIGN_QUALIFIERS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid SCHEDULER_ALIGN_QUALIFIERS %q: %w", v, err)
		}
		c.Scheduler.AlignQualifiers = b
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid TELEGRAM_CHAT_ID %q: %w", v, err)
		}
		c.Telegram.ChatID = id
	}
	return nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.DatabaseURI == "" {
		errs = append(errs, errors.New("DATABASE_URI is required"))
	}
	if _, err := c.Location(); err != nil {
		errs = append(errs, err)
	}
	if _, _, err := c.RunTime(); err != nil {
		errs = append(errs, err)
	}
	if c.Scheduler.Workers < 1 {
		errs = append(errs, fmt.Errorf("scheduler workers must be at least 1, got %d", c.Scheduler.Workers))
	}
	if _, err := c.SlogLevel(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Location is the timezone sweeps are scheduled and evaluated in.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Scheduler.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid scheduler timezone %q: %w", c.Scheduler.Timezone, err)
	}
	return loc, nil
}

// RunTime parses Scheduler.RunAt as HH:MM.
func (c *Config) RunTime() (hour, minute int, err error) {
	t, err := time.Parse("15:04", c.Scheduler.RunAt)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid scheduler run_at %q, want HH:MM", c.Scheduler.RunAt)
	}
	return t.Hour(), t.Minute(), nil
}

func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(c.LogLevel))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q", c.LogLevel)
	}
	return level, nil
}

// TelegramEnabled reports whether sweep reports should be sent.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.Token != "" && c.Telegram.ChatID != 0
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
