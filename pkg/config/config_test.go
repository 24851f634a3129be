package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Contains(t, cfg.Search.BaseURL, "{query}")
	assert.NotEmpty(t, cfg.Search.Selector)
	assert.Equal(t, 10, cfg.Search.MaxItems)
	assert.True(t, cfg.Browser.Headless)
	assert.Equal(t, Duration(2*time.Second), cfg.RateLimit.CaptureDelay)
	assert.Equal(t, 20, cfg.Scroll.MaxRounds)
	assert.Equal(t, "png", cfg.Output.FileExtension)
	assert.Equal(t, "info", cfg.Logging.Level)

	require.NoError(t, cfg.Validate())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PINSNAP_OUTPUT_DIR", "/tmp/pins")
	t.Setenv("PINSNAP_MAX_ITEMS", "25")
	t.Setenv("PINSNAP_CAPTURE_DELAY", "500ms")
	t.Setenv("PINSNAP_HEADLESS", "false")
	t.Setenv("PINSNAP_LOG_LEVEL", "debug")

	cfg := DefaultConfig()
	require.NoError(t, cfg.LoadFromEnv())

	assert.Equal(t, "/tmp/pins", cfg.Output.BaseDirectory)
	assert.Equal(t, 25, cfg.Search.MaxItems)
	assert.Equal(t, Duration(500*time.Millisecond), cfg.RateLimit.CaptureDelay)
	assert.False(t, cfg.Browser.Headless)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadFromEnvIgnoresInvalidValues(t *testing.T) {
	t.Setenv("PINSNAP_MAX_ITEMS", "not-a-number")
	t.Setenv("PINSNAP_CAPTURE_DELAY", "bogus")

	cfg := DefaultConfig()
	require.NoError(t, cfg.LoadFromEnv())

	assert.Equal(t, 10, cfg.Search.MaxItems)
	assert.Equal(t, Duration(2*time.Second), cfg.RateLimit.CaptureDelay)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := `
search:
  max_items: 7
scroll:
  max_rounds: 5
  settle_timeout: 3s
  poll_interval: 100ms
output:
  base_directory: /data/captures
  file_extension: jpg
logging:
  level: warn
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg := DefaultConfig()
	require.NoError(t, cfg.LoadFromFile(path))

	assert.Equal(t, 7, cfg.Search.MaxItems)
	assert.Equal(t, 5, cfg.Scroll.MaxRounds)
	assert.Equal(t, Duration(3*time.Second), cfg.Scroll.SettleTimeout)
	assert.Equal(t, Duration(100*time.Millisecond), cfg.Scroll.PollInterval)
	assert.Equal(t, "/data/captures", cfg.Output.BaseDirectory)
	assert.Equal(t, "jpg", cfg.Output.FileExtension)
	assert.Equal(t, "warn", cfg.Logging.Level)

	// Fields absent from the file keep their defaults
	assert.Contains(t, cfg.Search.BaseURL, "{query}")
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := DefaultConfig()
	err := cfg.LoadFromFile(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "missing query placeholder",
			mutate:  func(c *Config) { c.Search.BaseURL = "https://example.com/search" },
			wantErr: "{query}",
		},
		{
			name:    "empty selector",
			mutate:  func(c *Config) { c.Search.Selector = "" },
			wantErr: "selector",
		},
		{
			name:    "non-positive max items",
			mutate:  func(c *Config) { c.Search.MaxItems = 0 },
			wantErr: "max items",
		},
		{
			name:    "negative capture delay",
			mutate:  func(c *Config) { c.RateLimit.CaptureDelay = Duration(-time.Second) },
			wantErr: "capture delay",
		},
		{
			name:    "zero max rounds",
			mutate:  func(c *Config) { c.Scroll.MaxRounds = 0 },
			wantErr: "scan rounds",
		},
		{
			name:    "empty output directory",
			mutate:  func(c *Config) { c.Output.BaseDirectory = "" },
			wantErr: "output directory",
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Logging.Level = "loud" },
			wantErr: "log level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestMergeCommandLineFlags(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MergeCommandLineFlags(map[string]interface{}{
		"output":     "/tmp/out",
		"count":      3,
		"rate-limit": time.Second,
		"max-rounds": 8,
		"headless":   false,
		"log-level":  "debug",
	})

	assert.Equal(t, "/tmp/out", cfg.Output.BaseDirectory)
	assert.Equal(t, 3, cfg.Search.MaxItems)
	assert.Equal(t, Duration(time.Second), cfg.RateLimit.CaptureDelay)
	assert.Equal(t, 8, cfg.Scroll.MaxRounds)
	assert.False(t, cfg.Browser.Headless)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestDurationUnmarshal(t *testing.T) {
	var cfg ScrollConfig
	require.NoError(t, yaml.Unmarshal([]byte("settle_timeout: 1500ms\nsettle_delay: 2\n"), &cfg))
	assert.Equal(t, Duration(1500*time.Millisecond), cfg.SettleTimeout)
	// Bare numbers are read as seconds.
	assert.Equal(t, Duration(2*time.Second), cfg.SettleDelay)

	var bad ScrollConfig
	assert.Error(t, yaml.Unmarshal([]byte("settle_timeout: fast"), &bad))
}

func TestSaveAndReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Search.MaxItems = 42
	require.NoError(t, cfg.Save(path))

	loaded := DefaultConfig()
	require.NoError(t, loaded.LoadFromFile(path))
	assert.Equal(t, 42, loaded.Search.MaxItems)
}
