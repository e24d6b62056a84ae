// Package config loads process settings from CLUBCONNECT_* environment variables,
// optionally seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Prefix is prepended to every variable name.
const Prefix = "CLUBCONNECT_"

// Store backends.
const (
	StoreSQLite = "sqlite"
	StoreMemory = "memory"
)

// Config holds every runtime setting.
type Config struct {
	Addr  string `env:"ADDR" envDefault:":8080"`
	Env   string `env:"ENV" envDefault:"development"`
	Store string `env:"STORE" envDefault:"sqlite"`

	DBPath      string `env:"DB_PATH" envDefault:"clubconnect.db"`
	SlowQueryMs int    `env:"SLOW_QUERY_MS" envDefault:"50"`

	Secret             string   `env:"SECRET"`
	TrustedOrigins     []string `env:"TRUSTED_ORIGINS" envSeparator:"," envDefault:"localhost:8080,127.0.0.1:8080"`
	SlowRequestMs      int      `env:"SLOW_REQUEST_MS" envDefault:"200"`
	RateLimitPerSecond int      `env:"RATE_LIMIT_PER_SECOND" envDefault:"20"`

	ResendKey string   `env:"RESEND_KEY"`
	EmailFrom string   `env:"EMAIL_FROM" envDefault:"ClubConnect <noreply@clubconnect.local>"`
	NotifyTo  []string `env:"NOTIFY_TO" envSeparator:","`

	SeedDemo bool `env:"SEED_DEMO" envDefault:"false"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`
}

// IsProduction reports whether Env is "production".
func (c Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// SlogLevel maps LogLevel to a slog level. Unknown names mean info.
func (c Config) SlogLevel() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

// Validate rejects settings the server cannot start with.
func (c Config) Validate() error {
	var errs []error
	switch c.Store {
	case StoreSQLite, StoreMemory:
	default:
		errs = append(errs, fmt.Errorf("%sSTORE must be %q or %q, got %q", Prefix, StoreSQLite, StoreMemory, c.Store))
	}
	if c.Store == StoreSQLite && strings.TrimSpace(c.DBPath) == "" {
		errs = append(errs, fmt.Errorf("%sDB_PATH is required for the sqlite store", Prefix))
	}
	if c.IsProduction() && c.Secret == "" {
		errs = append(errs, fmt.Errorf("%sSECRET is required in production", Prefix))
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("%sLOG_FORMAT must be text or json, got %q", Prefix, c.LogFormat))
	}
	if c.ResendKey != "" && len(c.NotifyTo) == 0 {
		slog.Warn("config_event", "event", "notify_disabled", "reason", Prefix+"NOTIFY_TO is empty")
	}
	return errors.Join(errs...)
}

// Load reads files (default ".env") into the process environment without
// overriding variables already set, then parses and validates Config.
// Missing files are skipped.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}
	return parse(env.Options{Prefix: Prefix})
}

// FromMap parses Config from vars instead of the process environment.
// Keys include the prefix.
func FromMap(vars map[string]string) (Config, error) {
	return parse(env.Options{Prefix: Prefix, Environment: vars})
}

func parse(opts env.Options) (Config, error) {
	cfg, err := env.ParseAsWithOptions[Config](opts)
	if err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
