package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/entrhq/browserkit/pkg/browser"
	"github.com/entrhq/browserkit/pkg/config"
	"github.com/entrhq/browserkit/pkg/logging"
)

// globalFlags override values from the config file and environment.
type globalFlags struct {
	configPath string
	browser    string
	gridURL    string
	headless   bool
	remote     bool
	logLevel   string
}

type rootCommand struct {
	flags     globalFlags
	lookupEnv config.LookupFunc

	// Replaced in tests
	newManager func(cfg *config.Config, opts ...browser.ManagerOption) *browser.Manager
	newLogger  func(cfg *config.Config) *logging.Logger

	cmd *cobra.Command
}

func newRootCommand(lookupEnv config.LookupFunc) *rootCommand {
	c := &rootCommand{
		lookupEnv:  lookupEnv,
		newManager: browser.NewManager,
		newLogger:  fileLogger,
	}

	rootCmd := &cobra.Command{
		Use:           "browserctl",
		Short:         "Open, drive and quit browser sessions",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&c.flags.configPath, "config", "c", "", "path to a YAML configuration file")
	pf.StringVarP(&c.flags.browser, "browser", "b", "", "browser kind: chrome, firefox or edge")
	pf.StringVar(&c.flags.gridURL, "grid-url", "", "remote grid endpoint")
	pf.BoolVar(&c.flags.headless, "headless", false, "run the browser without a window")
	pf.BoolVar(&c.flags.remote, "remote", false, "run the browser on the remote grid")
	pf.StringVarP(&c.flags.logLevel, "verbosity", "v", "", "log verbosity: quiet, normal, verbose or debug")

	rootCmd.AddCommand(
		getCmdOpen(c),
		getCmdEnvs(c),
		getCmdConfig(c),
	)

	c.cmd = rootCmd
	return c
}

// loadConfig reads file and environment settings and applies explicitly
// set flags on top.
func (c *rootCommand) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(c.flags.configPath, c.lookupEnv)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("browser") {
		cfg.Browser = c.flags.browser
	}
	if flags.Changed("grid-url") {
		cfg.GridURL = c.flags.gridURL
	}
	if flags.Changed("headless") {
		cfg.Headless = c.flags.headless
	}
	if flags.Changed("remote") {
		cfg.Remote = c.flags.remote
	}
	if flags.Changed("verbosity") {
		cfg.Logging.Level = c.flags.logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// fileLogger writes to the configured log directory, falling back to stderr.
func fileLogger(cfg *config.Config) *logging.Logger {
	logging.SetDirectory(cfg.Logging.Dir)

	logger, _ := logging.NewLogger("browserctl")
	if err := logger.SetVerbosity(cfg.Logging.Level); err != nil {
		logger.Warnf("ignoring verbosity %q: %v", cfg.Logging.Level, err)
	}
	return logger
}
