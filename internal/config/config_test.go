package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func TestFromMap_Defaults(t *testing.T) {
	cfg, err := FromMap(map[string]string{})
	if err != nil {
		t.Fatalf("FromMap: %v", err)
	}
	if cfg.Addr != ":8080" || cfg.Store != StoreSQLite || cfg.DBPath != "clubconnect.db" {
		t.Errorf("defaults = %+v", cfg)
	}
	if cfg.SlowQueryMs != 50 || cfg.SlowRequestMs != 200 || cfg.RateLimitPerSecond != 20 {
		t.Errorf("thresholds = %d/%d/%d", cfg.SlowQueryMs, cfg.SlowRequestMs, cfg.RateLimitPerSecond)
	}
	if cfg.IsProduction() || cfg.SeedDemo {
		t.Error("development defaults expected")
	}
	if !slices.Equal(cfg.TrustedOrigins, []string{"localhost:8080", "127.0.0.1:8080"}) {
		t.Errorf("TrustedOrigins = %v", cfg.TrustedOrigins)
	}
}

func TestFromMap_Overrides(t *testing.T) {
	cfg, err := FromMap(map[string]string{
		"CLUBCONNECT_STORE":      "memory",
		"CLUBCONNECT_ENV":        "Production",
		"CLUBCONNECT_SECRET":     "s3cret",
		"CLUBCONNECT_NOTIFY_TO":  "a@example.com,b@example.com",
		"CLUBCONNECT_SEED_DEMO":  "true",
		"CLUBCONNECT_LOG_LEVEL":  "debug",
		"CLUBCONNECT_LOG_FORMAT": "json",
		"STORE":                  "ignored without prefix",
	})
	if err != nil {
		t.Fatalf("FromMap: %v", err)
	}
	if cfg.Store != StoreMemory || !cfg.IsProduction() || !cfg.SeedDemo {
		t.Errorf("cfg = %+v", cfg)
	}
	if !slices.Equal(cfg.NotifyTo, []string{"a@example.com", "b@example.com"}) {
		t.Errorf("NotifyTo = %v", cfg.NotifyTo)
	}
	if cfg.SlogLevel() != slog.LevelDebug {
		t.Errorf("SlogLevel = %v", cfg.SlogLevel())
	}
}

func TestFromMap_Invalid(t *testing.T) {
	tests := []struct {
		name string
		vars map[string]string
	}{
		{"unknown store", map[string]string{"CLUBCONNECT_STORE": "postgres"}},
		{"empty db path", map[string]string{"CLUBCONNECT_DB_PATH": " "}},
		{"production without secret", map[string]string{"CLUBCONNECT_ENV": "production"}},
		{"bad log format", map[string]string{"CLUBCONNECT_LOG_FORMAT": "xml"}},
		{"bad int", map[string]string{"CLUBCONNECT_SLOW_QUERY_MS": "fast"}},
		{"bad bool", map[string]string{"CLUBCONNECT_SEED_DEMO": "maybe"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := FromMap(tt.vars); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestSlogLevel_UnknownIsInfo(t *testing.T) {
	if got := (Config{LogLevel: "loud"}).SlogLevel(); got != slog.LevelInfo {
		t.Errorf("SlogLevel = %v, want info", got)
	}
}

func TestLoad_DotEnvDoesNotOverrideEnvironment(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	content := "CLUBCONNECT_ADDR=:9999\nCLUBCONNECT_STORE=memory\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CLUBCONNECT_ADDR", ":7000")
	t.Setenv("CLUBCONNECT_STORE", "")
	os.Unsetenv("CLUBCONNECT_STORE")

	cfg, err := Load(path, filepath.Join(dir, "missing.env"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != ":7000" {
		t.Errorf("Addr = %q, want the process value", cfg.Addr)
	}
	if cfg.Store != StoreMemory {
		t.Errorf("Store = %q, want the .env value", cfg.Store)
	}
}
