package browser

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/playwright-community/playwright-go"
)

// PlaywrightRuntime owns the playwright driver process shared by all local
// sessions. It is started on first use.
type PlaywrightRuntime struct {
	mu      sync.Mutex
	pw      *playwright.Playwright
	install bool
}

// NewPlaywrightRuntime creates a runtime. When install is true the
// playwright driver and browsers are downloaded before the first launch.
func NewPlaywrightRuntime(install bool) *PlaywrightRuntime {
	return &PlaywrightRuntime{install: install}
}

func (r *PlaywrightRuntime) start() (*playwright.Playwright, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.pw != nil {
		return r.pw, nil
	}

	// Keep playwright's own output off the caller's terminal
	opts := &playwright.RunOptions{
		Verbose: false,
		Stdout:  io.Discard,
		Stderr:  io.Discard,
	}

	if r.install {
		if err := playwright.Install(opts); err != nil {
			return nil, fmt.Errorf("failed to install playwright: %w", err)
		}
	}

	pw, err := playwright.Run(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	r.pw = pw
	return pw, nil
}

func browserType(pw *playwright.Playwright, kind Kind) (playwright.BrowserType, error) {
	switch kind {
	case Chrome, Edge:
		return pw.Chromium, nil
	case Firefox:
		return pw.Firefox, nil
	}
	_, err := ParseKind(string(kind))
	return nil, err
}

// Launch starts a local browser configured by opts.
func (r *PlaywrightRuntime) Launch(opts Options) (Driver, error) {
	pw, err := r.start()
	if err != nil {
		return nil, err
	}

	bt, err := browserType(pw, opts.Kind)
	if err != nil {
		return nil, err
	}

	b, err := bt.Launch(playwrightLaunchOptions(opts))
	if err != nil {
		return nil, fmt.Errorf("failed to launch %s: %w", opts.Kind, err)
	}

	return newPlaywrightDriver(b, opts)
}

// Connect attaches to a playwright browser server at wsEndpoint.
func (r *PlaywrightRuntime) Connect(wsEndpoint string, opts Options) (Driver, error) {
	pw, err := r.start()
	if err != nil {
		return nil, err
	}

	bt, err := browserType(pw, opts.Kind)
	if err != nil {
		return nil, err
	}

	b, err := bt.Connect(wsEndpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", wsEndpoint, err)
	}

	return newPlaywrightDriver(b, opts)
}

// Close stops the playwright driver process if it was started.
func (r *PlaywrightRuntime) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.pw == nil {
		return nil
	}
	err := r.pw.Stop()
	r.pw = nil
	if err != nil {
		return fmt.Errorf("failed to stop playwright: %w", err)
	}
	return nil
}

// playwrightDriver drives one browser with a single context and page.
type playwrightDriver struct {
	kind    Kind
	browser playwright.Browser
	context playwright.BrowserContext
	page    playwright.Page

	// windowSized is true when the window manager sizes the window
	windowSized bool
}

func newPlaywrightDriver(b playwright.Browser, opts Options) (*playwrightDriver, error) {
	context, err := b.NewContext(playwrightContextOptions(opts))
	if err != nil {
		_ = b.Close()
		return nil, fmt.Errorf("failed to create context: %w", err)
	}

	page, err := context.NewPage()
	if err != nil {
		_ = context.Close()
		_ = b.Close()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}

	return &playwrightDriver{
		kind:        opts.Kind,
		browser:     b,
		context:     context,
		page:        page,
		windowSized: opts.Kind.chromium() && !opts.Headless && !opts.Remote,
	}, nil
}

func (d *playwrightDriver) Kind() Kind {
	return d.kind
}

func (d *playwrightDriver) Navigate(url string) error {
	if _, err := d.page.Goto(url); err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}
	return nil
}

func (d *playwrightDriver) Title() (string, error) {
	title, err := d.page.Title()
	if err != nil {
		return "", fmt.Errorf("failed to read title: %w", err)
	}
	return title, nil
}

func (d *playwrightDriver) CurrentURL() (string, error) {
	return d.page.URL(), nil
}

func (d *playwrightDriver) MaximizeWindow() error {
	if d.windowSized {
		return nil
	}
	if err := d.page.SetViewportSize(DefaultScreenWidth, DefaultScreenHeight); err != nil {
		return fmt.Errorf("failed to maximize window: %w", err)
	}
	return nil
}

func (d *playwrightDriver) SetImplicitWait(timeout time.Duration) error {
	d.page.SetDefaultTimeout(float64(timeout.Milliseconds()))
	return nil
}

func (d *playwrightDriver) Quit() error {
	ctxErr := d.context.Close()
	browserErr := d.browser.Close()

	err := errors.Join(ctxErr, browserErr)
	if err == nil {
		return nil
	}
	if targetClosed(ctxErr) && targetClosed(browserErr) {
		return fmt.Errorf("%w: %v", ErrSessionGone, err)
	}
	return fmt.Errorf("failed to close browser: %w", err)
}

func targetClosed(err error) bool {
	return err == nil || errors.Is(err, playwright.ErrTargetClosed)
}
