package config

import (
	"testing"
	"time"

	"arbodash/internal/errors"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"ESP_DATE", "PORT", "DATASET_PATH", "DATABASE_URL", "SESSION_TTL", "PPROF_ENABLED"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != "8501" {
		t.Errorf("expected default port 8501, got %s", cfg.Server.Port)
	}
	if !cfg.Analysis.ESPDate.Equal(time.Date(2019, 1, 25, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected ESP date %v", cfg.Analysis.ESPDate)
	}
	if cfg.Database.URL != "" {
		t.Errorf("expected empty database URL, got %q", cfg.Database.URL)
	}
	if cfg.Server.SessionTTL != 12*time.Hour {
		t.Errorf("unexpected session TTL %v", cfg.Server.SessionTTL)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ESP_DATE", "2020-03-20")
	t.Setenv("PORT", "9000")
	t.Setenv("PPROF_ENABLED", "true")
	t.Setenv("SESSION_TTL", "30m")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Analysis.ESPDate.Year() != 2020 || cfg.Server.Port != "9000" || !cfg.Profiling.Enabled {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.Server.SessionTTL != 30*time.Minute {
		t.Errorf("unexpected session TTL %v", cfg.Server.SessionTTL)
	}
}

func TestLoadRejectsBadESPDate(t *testing.T) {
	t.Setenv("ESP_DATE", "25/01/2019")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for malformed ESP_DATE")
	}
	if errors.GetCode(err) != errors.CodeConfigInvalid {
		t.Errorf("expected CONFIG_INVALID, got %s", errors.GetCode(err))
	}
}
