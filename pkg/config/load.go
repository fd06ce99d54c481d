package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/mstoykov/envconfig"
	"gopkg.in/yaml.v3"
)

// LookupFunc looks up an environment variable.
type LookupFunc func(key string) (string, bool)

// Load builds a Config from defaults, the YAML file at path (skipped when
// path is empty) and the environment, then validates it.
// A nil lookup reads the process environment.
func Load(path string, lookup LookupFunc) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(lookup); err != nil {
		return nil, err
	}

	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// loadFile overlays the YAML file at path. Keys absent from the file keep
// their current values; environments are merged by name.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	envs := c.Environments
	c.Environments = nil

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	merged := make(map[string]string, len(envs)+len(c.Environments))
	for name, base := range envs {
		merged[name] = base
	}
	for name, base := range c.Environments {
		merged[strings.ToLower(name)] = base
	}
	c.Environments = merged

	return nil
}

func (c *Config) applyEnv(lookup LookupFunc) error {
	if lookup == nil {
		lookup = os.LookupEnv
	}

	// Empty variables are treated as unset so BROWSER= does not wipe defaults
	nonEmpty := func(key string) (string, bool) {
		v, ok := lookup(key)
		if !ok || strings.TrimSpace(v) == "" {
			return "", false
		}
		return v, true
	}

	if err := envconfig.Process("", c, nonEmpty); err != nil {
		return fmt.Errorf("failed to read environment: %w", err)
	}
	return nil
}

func (c *Config) normalize() {
	c.Browser = strings.ToLower(strings.TrimSpace(c.Browser))
	if c.Browser == "" {
		c.Browser = DefaultBrowser
	}
	c.GridURL = strings.TrimSpace(c.GridURL)
	if c.Logging.Level == "" {
		c.Logging.Level = DefaultLogLevel
	}
}

// YAML renders the configuration as YAML.
func (c *Config) YAML() ([]byte, error) {
	return yaml.Marshal(c)
}
