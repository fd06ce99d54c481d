package browser

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/tebeka/selenium"
)

// newRemoteWebDriver opens a WebDriver session. Tests replace it.
var newRemoteWebDriver = selenium.NewRemote

// seleniumDriver drives a browser hosted on a WebDriver grid.
type seleniumDriver struct {
	kind Kind
	wd   selenium.WebDriver
}

func connectSelenium(endpoint *url.URL, opts Options) (Driver, error) {
	wd, err := newRemoteWebDriver(seleniumCapabilities(opts), endpoint.String())
	if err != nil {
		return nil, fmt.Errorf("failed to open %s session on %s: %w", opts.Kind, endpoint.Redacted(), err)
	}
	return &seleniumDriver{kind: opts.Kind, wd: wd}, nil
}

func (d *seleniumDriver) Kind() Kind {
	return d.kind
}

func (d *seleniumDriver) Navigate(url string) error {
	if err := d.wd.Get(url); err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}
	return nil
}

func (d *seleniumDriver) Title() (string, error) {
	title, err := d.wd.Title()
	if err != nil {
		return "", fmt.Errorf("failed to read title: %w", err)
	}
	return title, nil
}

func (d *seleniumDriver) CurrentURL() (string, error) {
	u, err := d.wd.CurrentURL()
	if err != nil {
		return "", fmt.Errorf("failed to read url: %w", err)
	}
	return u, nil
}

func (d *seleniumDriver) MaximizeWindow() error {
	// An empty name targets the current window
	if err := d.wd.MaximizeWindow(""); err != nil {
		return fmt.Errorf("failed to maximize window: %w", err)
	}
	return nil
}

func (d *seleniumDriver) SetImplicitWait(timeout time.Duration) error {
	if err := d.wd.SetImplicitWaitTimeout(timeout); err != nil {
		return fmt.Errorf("failed to set implicit wait: %w", err)
	}
	return nil
}

func (d *seleniumDriver) Quit() error {
	err := d.wd.Quit()
	if err == nil {
		return nil
	}
	if webDriverSessionGone(err) {
		return fmt.Errorf("%w: %v", ErrSessionGone, err)
	}
	return fmt.Errorf("failed to quit remote session: %w", err)
}

// webDriverSessionGone reports whether err is the grid saying the session
// or its window no longer exists.
func webDriverSessionGone(err error) bool {
	var wdErr *selenium.Error
	if !errors.As(err, &wdErr) {
		return false
	}
	switch wdErr.Err {
	case "invalid session id", "no such session", "no such window":
		return true
	}
	return false
}
