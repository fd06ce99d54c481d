package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/entrhq/browserkit/pkg/browser"
	"github.com/entrhq/browserkit/pkg/logging"
)

type openOptions struct {
	contextID   string
	waitTitle   string
	keepOpen    bool
	install     bool
	metricsAddr string
}

func getCmdOpen(c *rootCommand) *cobra.Command {
	opts := &openOptions{}

	cmd := &cobra.Command{
		Use:   "open <url|environment>",
		Short: "Open a browser, navigate and print the page title and URL",
		Example: `  browserctl open qa
  browserctl open https://example.com --headless
  browserctl open staging --remote --grid-url http://grid:4444/wd/hub --wait-title Login`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runOpen(cmd, args[0], opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.contextID, "context", "browserctl", "execution context identifier for the session")
	f.StringVar(&opts.waitTitle, "wait-title", "", "wait until the page title contains this text")
	f.BoolVar(&opts.keepOpen, "keep-open", false, "keep the browser open until interrupted")
	f.BoolVar(&opts.install, "install", false, "download the playwright driver and browsers before launching")
	f.StringVar(&opts.metricsAddr, "metrics-addr", "", "serve prometheus metrics on this address while running")

	return cmd
}

func (c *rootCommand) runOpen(cmd *cobra.Command, target string, opts *openOptions) (err error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := c.loadConfig(cmd)
	if err != nil {
		return err
	}

	logger := c.newLogger(cfg)
	defer logger.Close()

	managerOpts := []browser.ManagerOption{browser.WithLogger(logger)}

	if opts.metricsAddr != "" {
		reg := prometheus.NewRegistry()
		metrics, merr := browser.NewMetrics(reg)
		if merr != nil {
			return fmt.Errorf("failed to register metrics: %w", merr)
		}
		managerOpts = append(managerOpts, browser.WithMetrics(metrics))

		stopMetrics := serveMetrics(opts.metricsAddr, reg, logger)
		defer stopMetrics()
	}

	if opts.install {
		rt := browser.NewPlaywrightRuntime(true)
		defer rt.Close()
		for kind, b := range browser.DefaultBackends(rt) {
			managerOpts = append(managerOpts, browser.WithBackend(kind, b))
		}
	}

	m := c.newManager(cfg, managerOpts...)
	defer func() {
		err = errors.Join(err, m.Close())
	}()

	id := browser.ContextID(opts.contextID)
	if err := m.Initialize(id, "", nil); err != nil {
		return err
	}
	if err := m.NavigateTo(id, target); err != nil {
		return err
	}

	if opts.waitTitle != "" {
		wait, err := m.WaitPolicy(id)
		if err != nil {
			return err
		}
		if err := wait.Until(ctx, browser.TitleContains(opts.waitTitle)); err != nil {
			return fmt.Errorf("title never contained %q: %w", opts.waitTitle, err)
		}
	}

	title, err := m.PageTitle(id)
	if err != nil {
		return err
	}
	u, err := m.CurrentURL(id)
	if err != nil {
		return err
	}

	sess, err := m.Session(id)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("%s session %s", sess.Kind, sess.ID)))
	fmt.Fprintln(out, field("mode", string(sess.Mode)))
	fmt.Fprintln(out, field("title", title))
	fmt.Fprintln(out, field("url", u))

	if opts.keepOpen {
		fmt.Fprintln(out, labelStyle.Render("press Ctrl+C to quit"))
		<-ctx.Done()
	}

	return m.Quit(id)
}

// serveMetrics exposes reg over HTTP and returns a function that stops the server.
func serveMetrics(addr string, reg *prometheus.Registry, logger *logging.Logger) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf("metrics server on %s failed: %v", addr, err)
		}
	}()
	logger.Infof("serving metrics on http://%s/metrics", strings.TrimPrefix(addr, "http://"))

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}
