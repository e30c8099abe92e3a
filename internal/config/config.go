// Package config provides configuration loading for healthdash.
//
// Configuration is loaded from a YAML file and environment variables with
// sensible defaults. See LoadWithFile for precedence rules.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"
)

// Config holds the complete healthdash client configuration.
type Config struct {
	API       APIConfig       `koanf:"api"`
	Session   SessionConfig   `koanf:"session"`
	Dashboard DashboardConfig `koanf:"dashboard"`
	Logging   LoggingConfig   `koanf:"logging"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
}

// APIConfig holds settings for the external health API.
type APIConfig struct {
	BaseURL string        `koanf:"base_url"`
	Timeout time.Duration `koanf:"timeout"`
	// RateLimit is requests per second; 0 disables client-side limiting.
	RateLimit float64 `koanf:"rate_limit"`
	Burst     int     `koanf:"burst"`
}

// SessionConfig controls where the bearer token and cached profile live.
type SessionConfig struct {
	Path string `koanf:"path"`
}

// DashboardConfig holds terminal dashboard settings.
type DashboardConfig struct {
	RefreshInterval time.Duration `koanf:"refresh_interval"`
	PageSize        int           `koanf:"page_size"`
}

// LoggingConfig holds the subset of logging settings exposed to users.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// TelemetryConfig holds OpenTelemetry export settings.
type TelemetryConfig struct {
	Enabled    bool    `koanf:"enabled"`
	Endpoint   string  `koanf:"endpoint"`
	Protocol   string  `koanf:"protocol"`
	Insecure   bool    `koanf:"insecure"`
	SampleRate float64 `koanf:"sample_rate"`
}

// Default returns a configuration populated with defaults only.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Validate validates the configuration.
//
// Returns an error if:
//   - API base URL is not an absolute http(s) URL
//   - API timeout is not positive
//   - Dashboard refresh interval or page size is not positive
//   - Logging format is not json or console
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid api base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("api base url must use http or https, got %q", c.API.BaseURL)
	}
	if u.Host == "" {
		return fmt.Errorf("api base url has no host: %q", c.API.BaseURL)
	}

	if c.API.Timeout <= 0 {
		return errors.New("api timeout must be positive")
	}
	if c.API.RateLimit < 0 {
		return errors.New("api rate limit cannot be negative")
	}

	if c.Dashboard.RefreshInterval <= 0 {
		return errors.New("dashboard refresh interval must be positive")
	}
	if c.Dashboard.PageSize <= 0 {
		return fmt.Errorf("dashboard page size must be positive, got %d", c.Dashboard.PageSize)
	}

	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		return fmt.Errorf("logging format must be 'json' or 'console', got %q", c.Logging.Format)
	}

	if c.Telemetry.SampleRate < 0 || c.Telemetry.SampleRate > 1 {
		return fmt.Errorf("telemetry sample rate must be between 0 and 1, got %f", c.Telemetry.SampleRate)
	}

	return nil
}
