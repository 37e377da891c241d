package config

import "testing"

func TestLoad_DefaultsWhenNoEnvSet(t *testing.T) {
	cfg := Load()
	if cfg.DatabaseDSN != "cstforge.db" {
		t.Errorf("got DatabaseDSN %q, want cstforge.db", cfg.DatabaseDSN)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("got LogLevel %q, want info", cfg.LogLevel)
	}
	if cfg.StepBudgetMS != 0 {
		t.Errorf("got StepBudgetMS %d, want 0", cfg.StepBudgetMS)
	}
	if cfg.PluginDir != "" {
		t.Errorf("got PluginDir %q, want empty", cfg.PluginDir)
	}
	if cfg.RetentionRuns != 20 {
		t.Errorf("got RetentionRuns %d, want 20", cfg.RetentionRuns)
	}
}

func TestLoad_EnvironmentOverridesDefaults(t *testing.T) {
	t.Setenv("CSTFORGE_DATABASE_DSN", "libsql://example/db")
	t.Setenv("CSTFORGE_LOG_LEVEL", "debug")
	t.Setenv("CSTFORGE_PLUGIN_DIR", "/opt/plugins")
	t.Setenv("CSTFORGE_STEP_BUDGET_MS", "5000")
	t.Setenv("CSTFORGE_RETENTION_RUNS", "5")

	cfg := Load()
	if cfg.DatabaseDSN != "libsql://example/db" {
		t.Errorf("got DatabaseDSN %q", cfg.DatabaseDSN)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("got LogLevel %q", cfg.LogLevel)
	}
	if cfg.PluginDir != "/opt/plugins" {
		t.Errorf("got PluginDir %q", cfg.PluginDir)
	}
	if cfg.StepBudgetMS != 5000 {
		t.Errorf("got StepBudgetMS %d", cfg.StepBudgetMS)
	}
	if cfg.RetentionRuns != 5 {
		t.Errorf("got RetentionRuns %d", cfg.RetentionRuns)
	}
}

func TestLoad_MalformedIntEnvFallsBackToDefault(t *testing.T) {
	t.Setenv("CSTFORGE_STEP_BUDGET_MS", "not_a_number")
	t.Setenv("CSTFORGE_RETENTION_RUNS", "-3")

	cfg := Load()
	if cfg.StepBudgetMS != 0 {
		t.Errorf("got StepBudgetMS %d, want default 0 for a malformed value", cfg.StepBudgetMS)
	}
	if cfg.RetentionRuns != 20 {
		t.Errorf("got RetentionRuns %d, want default 20 for a negative value", cfg.RetentionRuns)
	}
}
