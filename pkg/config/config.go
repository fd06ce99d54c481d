// Package config holds the settings browserkit reads once at process start.
//
// Values are layered: built-in defaults, then an optional YAML file, then
// environment variables. The resulting Config is passed explicitly to the
// components that need it; nothing in browserkit reads the environment on
// its own after loading.
package config

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"
)

// Default values for every setting.
const (
	DefaultBrowser      = "chrome"
	DefaultGridURL      = "http://localhost:4444/wd/hub"
	DefaultImplicitWait = 10 // seconds
	DefaultExplicitWait = 20 // seconds
	DefaultLogLevel     = "normal"
)

// Symbolic environment names accepted by navigation.
const (
	EnvQA      = "qa"
	EnvStaging = "staging"
	EnvProd    = "prod"
)

// Config is the complete browserkit configuration.
type Config struct {
	// Browser is the browser kind used when a caller does not name one
	Browser string `yaml:"browser" json:"browser" envconfig:"BROWSER"`

	// GridURL is the remote execution endpoint used in remote mode
	GridURL string `yaml:"grid_url" json:"grid_url" envconfig:"GRID_URL"`

	// Remote selects the remote grid instead of a local browser
	Remote bool `yaml:"remote" json:"remote" envconfig:"REMOTE"`

	// Headless runs browsers without a visible window
	Headless bool `yaml:"headless" json:"headless" envconfig:"HEADLESS"`

	// ImplicitWait is the driver-level element lookup timeout in seconds
	ImplicitWait int `yaml:"implicit_wait" json:"implicit_wait" envconfig:"IMPLICIT_WAIT"`

	// ExplicitWait is the wait policy timeout in seconds
	ExplicitWait int `yaml:"explicit_wait" json:"explicit_wait" envconfig:"EXPLICIT_WAIT"`

	// Environments maps symbolic environment names to base URLs
	Environments map[string]string `yaml:"environments" json:"environments" ignored:"true"`

	Logging LoggingConfig `yaml:"logging" json:"logging" envconfig:"LOG"`
}

// LoggingConfig defines logging configuration
type LoggingConfig struct {
	// Level is quiet, normal, verbose, debug or a logrus level name
	Level string `yaml:"level" json:"level"`

	// Dir overrides the log directory (default ~/.browserkit/logs)
	Dir string `yaml:"dir" json:"dir"`
}

// DefaultEnvironments returns the built-in environment registry.
func DefaultEnvironments() map[string]string {
	return map[string]string{
		EnvQA:      "https://qa.example.com",
		EnvStaging: "https://staging.example.com",
		EnvProd:    "https://www.example.com",
	}
}

// Default returns a configuration populated with default values.
func Default() *Config {
	return &Config{
		Browser:      DefaultBrowser,
		GridURL:      DefaultGridURL,
		Remote:       false,
		Headless:     false,
		ImplicitWait: DefaultImplicitWait,
		ExplicitWait: DefaultExplicitWait,
		Environments: DefaultEnvironments(),
		Logging: LoggingConfig{
			Level: DefaultLogLevel,
		},
	}
}

// ImplicitWaitDuration returns ImplicitWait as a duration.
func (c *Config) ImplicitWaitDuration() time.Duration {
	return time.Duration(c.ImplicitWait) * time.Second
}

// ExplicitWaitDuration returns ExplicitWait as a duration.
func (c *Config) ExplicitWaitDuration() time.Duration {
	return time.Duration(c.ExplicitWait) * time.Second
}

// Validate validates the configuration.
//
// The browser kind is deliberately not checked here: an unknown kind is
// reported when a session is initialized with it.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.GridURL) == "" {
		return fmt.Errorf("grid_url cannot be empty")
	}

	if c.ImplicitWait < 0 {
		return fmt.Errorf("implicit_wait cannot be negative")
	}

	if c.ExplicitWait < 0 {
		return fmt.Errorf("explicit_wait cannot be negative")
	}

	known := DefaultEnvironments()
	for _, name := range c.environmentNames() {
		if _, ok := known[name]; !ok {
			return fmt.Errorf("unknown environment %q (must be one of qa, staging, prod)", name)
		}
		u, err := url.Parse(c.Environments[name])
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("environment %q: base URL %q must be absolute", name, c.Environments[name])
		}
	}

	validLevels := map[string]bool{
		"quiet":   true,
		"normal":  true,
		"verbose": true,
		"debug":   true,
		"info":    true,
		"warn":    true,
		"warning": true,
		"error":   true,
		"trace":   true,
	}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("invalid logging level: %s", c.Logging.Level)
	}

	return nil
}

func (c *Config) environmentNames() []string {
	names := make([]string, 0, len(c.Environments))
	for name := range c.Environments {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
