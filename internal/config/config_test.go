package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("MINING_NEWS_BOT_CONFIG", "")
	t.Setenv("NEWS_API_KEY", "")
	t.Setenv("TWITTER_BEARER_TOKEN", "")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("DATABASE_DSN", "")
	t.Setenv("BOT_STATE_PATH", "")

	cfg := Load()

	if cfg.Scheduler.MinimumIntervalMinutes != 90 {
		t.Fatalf("unexpected default interval %d", cfg.Scheduler.MinimumIntervalMinutes)
	}
	if cfg.Dedupe.TitleThreshold != 0.8 || cfg.Dedupe.ContentThreshold != 0.7 {
		t.Fatalf("unexpected default thresholds %+v", cfg.Dedupe)
	}
	if cfg.Storage.StatePath == "" {
		t.Fatal("default state path must be set")
	}
}

func TestLoadFileAndEnvOverrides(t *testing.T) {
	raw := `
logging:
  level: debug
scheduler:
  minimumIntervalMinutes: 120
sources:
  keywords: ["hashrate"]
dedupe:
  windowHours: 24
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("MINING_NEWS_BOT_CONFIG", path)
	t.Setenv("NEWS_API_KEY", "env-key")
	t.Setenv("BOT_STATE_PATH", "/tmp/override.json")

	cfg := Load()

	if cfg.Logging.Level != "debug" {
		t.Fatalf("file override not applied: %q", cfg.Logging.Level)
	}
	if cfg.Scheduler.MinimumIntervalMinutes != 120 {
		t.Fatalf("file override not applied: %d", cfg.Scheduler.MinimumIntervalMinutes)
	}
	if len(cfg.Sources.Keywords) != 1 || cfg.Sources.Keywords[0] != "hashrate" {
		t.Fatalf("keyword override not applied: %v", cfg.Sources.Keywords)
	}
	if cfg.Dedupe.WindowHours != 24 {
		t.Fatalf("dedupe override not applied: %d", cfg.Dedupe.WindowHours)
	}
	if cfg.Sources.NewsAPI.APIKey != "env-key" {
		t.Fatal("env override must win for secrets")
	}
	if cfg.Storage.StatePath != "/tmp/override.json" {
		t.Fatalf("state path env override not applied: %q", cfg.Storage.StatePath)
	}

	// Untouched settings keep their defaults.
	if cfg.Scheduler.QueueMaxAgeHours != 48 {
		t.Fatalf("unrelated default must survive the merge, got %d", cfg.Scheduler.QueueMaxAgeHours)
	}
}
