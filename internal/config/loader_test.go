package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestHome points HOME at a temp dir and returns the healthdash config dir inside it.
func setupTestHome(t *testing.T) string {
	t.Helper()

	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, ".config", "healthdash")
	require.NoError(t, os.MkdirAll(dir, 0700))
	return dir
}

func writeConfig(t *testing.T, dir, content string, perm os.FileMode) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), perm))
	require.NoError(t, os.Chmod(path, perm))
	return path
}

func TestLoadWithFile_Defaults(t *testing.T) {
	setupTestHome(t)

	cfg, err := LoadWithFile("")
	require.NoError(t, err)

	assert.Equal(t, DefaultBaseURL, cfg.API.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.API.Timeout)
	assert.Equal(t, 30*time.Second, cfg.Dashboard.RefreshInterval)
	assert.Equal(t, 10, cfg.Dashboard.PageSize)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.False(t, cfg.Telemetry.Enabled)
	assert.Equal(t, "session.json", filepath.Base(cfg.Session.Path))
}

func TestLoadWithFile_ValidYAML(t *testing.T) {
	dir := setupTestHome(t)

	path := writeConfig(t, dir, `api:
  base_url: https://health.example.com/api/
  timeout: 5s
dashboard:
  refresh_interval: 1m
  page_size: 25
logging:
  level: debug
  format: json
`, 0600)

	cfg, err := LoadWithFile(path)
	require.NoError(t, err)

	assert.Equal(t, "https://health.example.com/api", cfg.API.BaseURL, "trailing slash trimmed")
	assert.Equal(t, 5*time.Second, cfg.API.Timeout)
	assert.Equal(t, time.Minute, cfg.Dashboard.RefreshInterval)
	assert.Equal(t, 25, cfg.Dashboard.PageSize)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadWithFile_EnvironmentOverride(t *testing.T) {
	dir := setupTestHome(t)

	path := writeConfig(t, dir, `api:
  base_url: https://yaml.example.com/api
dashboard:
  page_size: 25
`, 0600)

	t.Setenv("HEALTHDASH_API_BASE_URL", "https://env.example.com/api")
	t.Setenv("HEALTHDASH_DASHBOARD_PAGE_SIZE", "5")

	cfg, err := LoadWithFile(path)
	require.NoError(t, err)

	assert.Equal(t, "https://env.example.com/api", cfg.API.BaseURL)
	assert.Equal(t, 5, cfg.Dashboard.PageSize)
}

func TestLoadWithFile_RateLimitBurstDefault(t *testing.T) {
	setupTestHome(t)
	t.Setenv("HEALTHDASH_API_RATE_LIMIT", "2.5")

	cfg, err := LoadWithFile("")
	require.NoError(t, err)
	assert.Equal(t, 2.5, cfg.API.RateLimit)
	assert.Equal(t, 1, cfg.API.Burst)
}

func TestLoadWithFile_InsecurePermissions(t *testing.T) {
	dir := setupTestHome(t)
	path := writeConfig(t, dir, "api:\n  timeout: 5s\n", 0644)

	_, err := LoadWithFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insecure config file permissions")
}

func TestLoadWithFile_PathOutsideAllowedDirs(t *testing.T) {
	setupTestHome(t)
	other := filepath.Join(t.TempDir(), "config.yaml")

	_, err := LoadWithFile(other)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "~/.config/healthdash/")
}

func TestLoadWithFile_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{"bad scheme", "api:\n  base_url: ftp://example.com\n", "http or https"},
		{"missing host", "api:\n  base_url: http://\n", "no host"},
		{"bad format", "logging:\n  format: xml\n", "logging format"},
		{"bad sample rate", "telemetry:\n  sample_rate: 2\n", "sample rate"},
		{"negative rate limit", "api:\n  rate_limit: -1\n", "rate limit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := setupTestHome(t)
			path := writeConfig(t, dir, tt.yaml, 0600)

			_, err := LoadWithFile(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "api.base_url", envKey("HEALTHDASH_API_BASE_URL"))
	assert.Equal(t, "dashboard.refresh_interval", envKey("HEALTHDASH_DASHBOARD_REFRESH_INTERVAL"))
	assert.Equal(t, "debug", envKey("HEALTHDASH_DEBUG"))
}

func TestDefault_IsValid(t *testing.T) {
	setupTestHome(t)
	require.NoError(t, Default().Validate())
}
