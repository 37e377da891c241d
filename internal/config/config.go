// Package config loads engine-wide defaults from a .env file merged with
// environment variables (SPEC_FULL.md §1 Configuration), grounded in the
// teacher's internal/config/config.go env-var loading shape and
// db/sqlite_integration_test.go's godotenv.Load() call.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds process-wide defaults a cobra flag can still override.
type Config struct {
	// DatabaseDSN is the ledger DB passed to internal/store.Connect.
	// "libsql://..." or "https://..." selects the remote Turso driver;
	// anything else is treated as a local sqlite file path.
	DatabaseDSN string

	// LogLevel is the zap level name ("debug", "info", "warn", "error").
	LogLevel string

	// StepBudgetMS is a per-step wall-clock budget in milliseconds, 0
	// meaning no explicit bound. It is loaded but no command applies it;
	// execute-step runs without a timeout.
	StepBudgetMS int

	// PluginDir names a directory of Go plugin(".so") language providers
	// (SPEC_FULL.md §3 plugin hook). It is loaded but no command scans
	// it; plugins load only through lang.Registry.LoadPluginsFromDir.
	PluginDir string

	// RetentionRuns is a count of completed plan runs to keep. It is
	// loaded but the ledger never prunes plan runs.
	RetentionRuns int
}

// Load reads a .env file (if present) then overlays process environment
// variables onto a set of defaults. Missing or malformed values fall
// back to their default rather than erroring, matching the teacher's
// "parse if present, default otherwise" style.
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		DatabaseDSN:   "cstforge.db",
		LogLevel:      "info",
		StepBudgetMS:  0,
		PluginDir:     "",
		RetentionRuns: 20,
	}

	if v := os.Getenv("CSTFORGE_DATABASE_DSN"); v != "" {
		cfg.DatabaseDSN = v
	}
	if v := os.Getenv("CSTFORGE_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("CSTFORGE_PLUGIN_DIR"); v != "" {
		cfg.PluginDir = v
	}
	if v := os.Getenv("CSTFORGE_STEP_BUDGET_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.StepBudgetMS = n
		}
	}
	if v := os.Getenv("CSTFORGE_RETENTION_RUNS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.RetentionRuns = n
		}
	}

	return cfg
}
