package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Source.Kind != "analytic" {
		t.Errorf("expected Kind=analytic, got %s", cfg.Source.Kind)
	}
	if cfg.Source.Timeout() != 30*time.Second {
		t.Errorf("expected 30s timeout, got %v", cfg.Source.Timeout())
	}
	if cfg.Source.SpanDays != 40 {
		t.Errorf("expected SpanDays=40, got %v", cfg.Source.SpanDays)
	}
	if cfg.Cache.TTL() != 720*time.Hour {
		t.Errorf("expected 720h TTL, got %v", cfg.Cache.TTL())
	}
	if cfg.Observer.Site != "greenwich" {
		t.Errorf("expected Site=greenwich, got %s", cfg.Observer.Site)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected Level=info, got %s", cfg.Logging.Level)
	}
}

func TestLoad_NonExistent(t *testing.T) {
	cfg, err := Load("/nonexistent/path/config.yaml")
	if err != nil {
		t.Errorf("expected no error for non-existent file, got %v", err)
	}
	if cfg == nil || cfg.Source.Kind != "analytic" {
		t.Error("expected default config")
	}
}

func TestLoad_ValidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	content := `
source:
  kind: horizons
  timeout_seconds: 10
observer:
  site: ""
  lat_deg: 52.2
  lon_deg: 21.0
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Source.Kind != "horizons" {
		t.Errorf("expected Kind=horizons, got %s", cfg.Source.Kind)
	}
	if cfg.Source.Timeout() != 10*time.Second {
		t.Errorf("expected 10s timeout, got %v", cfg.Source.Timeout())
	}
	if cfg.Observer.Site != "" || cfg.Observer.LatDeg != 52.2 {
		t.Errorf("expected custom observer, got %+v", cfg.Observer)
	}
	// Untouched sections keep their defaults.
	if cfg.Source.SamplesPerBody != 32 {
		t.Errorf("expected SamplesPerBody=32, got %d", cfg.Source.SamplesPerBody)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected Level=info, got %s", cfg.Logging.Level)
	}
}

func TestLoad_Malformed(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("source: [not a map"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(configPath); err == nil {
		t.Error("expected error for malformed YAML")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Source.Kind = "horizons"
	cfg.Cache.Path = "/tmp/spans.db"
	if err := cfg.Save(configPath); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Source.Kind != "horizons" || loaded.Cache.Path != "/tmp/spans.db" {
		t.Errorf("round trip lost fields: %+v", loaded)
	}
}

func TestCachePathPrefersExplicit(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Cache.Path = "/var/cache/eph.db"
	if got := cfg.CachePath(); got != "/var/cache/eph.db" {
		t.Errorf("CachePath() = %s, want explicit path", got)
	}
	cfg.Cache.Path = ""
	if got := cfg.CachePath(); got == "" {
		t.Error("CachePath() empty for default resolution")
	}
}
