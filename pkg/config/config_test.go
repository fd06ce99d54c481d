package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(m map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "browserkit.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "chrome", cfg.Browser)
	assert.Equal(t, "http://localhost:4444/wd/hub", cfg.GridURL)
	assert.False(t, cfg.Remote)
	assert.False(t, cfg.Headless)
	assert.Equal(t, 10*time.Second, cfg.ImplicitWaitDuration())
	assert.Equal(t, 20*time.Second, cfg.ExplicitWaitDuration())
	assert.Len(t, cfg.Environments, 3)
	assert.NoError(t, cfg.Validate())
}

func TestLoad(t *testing.T) {
	t.Run("defaults only", func(t *testing.T) {
		cfg, err := Load("", envMap(nil))
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
	})

	t.Run("file overrides defaults", func(t *testing.T) {
		path := writeConfig(t, `
browser: Firefox
headless: true
implicit_wait: 5
environments:
  qa: https://qa.internal.test
logging:
  level: debug
`)
		cfg, err := Load(path, envMap(nil))
		require.NoError(t, err)

		assert.Equal(t, "firefox", cfg.Browser)
		assert.True(t, cfg.Headless)
		assert.Equal(t, 5, cfg.ImplicitWait)
		assert.Equal(t, DefaultExplicitWait, cfg.ExplicitWait, "keys missing from the file keep defaults")
		assert.Equal(t, "https://qa.internal.test", cfg.Environments[EnvQA])
		assert.Equal(t, "https://www.example.com", cfg.Environments[EnvProd], "environments are merged")
		assert.Equal(t, "debug", cfg.Logging.Level)
	})

	t.Run("environment overrides file", func(t *testing.T) {
		path := writeConfig(t, "browser: firefox\nremote: false\n")
		cfg, err := Load(path, envMap(map[string]string{
			"BROWSER":       "edge",
			"REMOTE":        "true",
			"GRID_URL":      "http://grid.test:4444/wd/hub",
			"EXPLICIT_WAIT": "30",
			"LOG_LEVEL":     "quiet",
		}))
		require.NoError(t, err)

		assert.Equal(t, "edge", cfg.Browser)
		assert.True(t, cfg.Remote)
		assert.Equal(t, "http://grid.test:4444/wd/hub", cfg.GridURL)
		assert.Equal(t, 30*time.Second, cfg.ExplicitWaitDuration())
		assert.Equal(t, "quiet", cfg.Logging.Level)
	})

	t.Run("empty environment variables are ignored", func(t *testing.T) {
		cfg, err := Load("", envMap(map[string]string{"BROWSER": "", "HEADLESS": " "}))
		require.NoError(t, err)
		assert.Equal(t, "chrome", cfg.Browser)
		assert.False(t, cfg.Headless)
	})

	t.Run("malformed environment value", func(t *testing.T) {
		_, err := Load("", envMap(map[string]string{"IMPLICIT_WAIT": "ten"}))
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), envMap(nil))
		assert.Error(t, err)
	})

	t.Run("malformed file", func(t *testing.T) {
		path := writeConfig(t, "browser: [chrome\n")
		_, err := Load(path, envMap(nil))
		assert.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		expectError string
	}{
		{
			name:        "negative implicit wait",
			mutate:      func(c *Config) { c.ImplicitWait = -1 },
			expectError: "implicit_wait cannot be negative",
		},
		{
			name:        "negative explicit wait",
			mutate:      func(c *Config) { c.ExplicitWait = -1 },
			expectError: "explicit_wait cannot be negative",
		},
		{
			name:        "empty grid url",
			mutate:      func(c *Config) { c.GridURL = " " },
			expectError: "grid_url cannot be empty",
		},
		{
			name:        "unknown environment",
			mutate:      func(c *Config) { c.Environments["dev"] = "https://dev.example.com" },
			expectError: `unknown environment "dev"`,
		},
		{
			name:        "relative environment url",
			mutate:      func(c *Config) { c.Environments[EnvQA] = "qa.example.com" },
			expectError: "must be absolute",
		},
		{
			name:        "bad log level",
			mutate:      func(c *Config) { c.Logging.Level = "loud" },
			expectError: "invalid logging level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectError)
		})
	}
}

func TestYAMLRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Headless = true

	data, err := cfg.YAML()
	require.NoError(t, err)

	path := writeConfig(t, string(data))
	loaded, err := Load(path, envMap(nil))
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
