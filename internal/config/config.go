// Package config loads the tool's YAML configuration.
package config

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the ephemeris tool.
type Config struct {
	Source   SourceConfig   `yaml:"source"`
	Cache    CacheConfig    `yaml:"cache"`
	Observer ObserverConfig `yaml:"observer"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// SourceConfig selects and tunes the ephemeris source.
type SourceConfig struct {
	Kind           string  `yaml:"kind"`             // "analytic" or "horizons"
	HorizonsURL    string  `yaml:"horizons_url"`     // empty selects the JPL service
	TimeoutSeconds int     `yaml:"timeout_seconds"`
	SpanDays       float64 `yaml:"span_days"`
	SamplesPerBody int     `yaml:"samples_per_body"`
}

// Timeout returns the request timeout as a duration.
func (s SourceConfig) Timeout() time.Duration {
	return time.Duration(s.TimeoutSeconds) * time.Second
}

// CacheConfig tunes the on-disk span cache behind the Horizons source.
type CacheConfig struct {
	Path     string `yaml:"path"`      // empty resolves under the user cache dir
	TTLHours int    `yaml:"ttl_hours"` // 0 keeps entries forever
}

// TTL returns the cache entry lifetime as a duration.
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLHours) * time.Hour
}

// ObserverConfig picks the default ground site. A named site wins over
// raw coordinates.
type ObserverConfig struct {
	Site   string  `yaml:"site"`
	LatDeg float64 `yaml:"lat_deg"`
	LonDeg float64 `yaml:"lon_deg"`
	ElevM  float64 `yaml:"elev_m"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Source: SourceConfig{
			Kind:           "analytic",
			TimeoutSeconds: 30,
			SpanDays:       40,
			SamplesPerBody: 32,
		},
		Cache: CacheConfig{
			TTLHours: 720,
		},
		Observer: ObserverConfig{
			Site: "greenwich",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes the configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0644)
}

// DefaultPath returns the per-user config file location.
func DefaultPath() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".", "ls-ephemeris.yaml")
	}
	return filepath.Join(base, "ls-ephemeris", "config.yaml")
}

// CachePath resolves the span cache location.
func (c *Config) CachePath() string {
	if c.Cache.Path != "" {
		return c.Cache.Path
	}
	base, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(".", ".ls-ephemeris", "horizons.db")
	}
	return filepath.Join(base, "ls-ephemeris", "horizons.db")
}
