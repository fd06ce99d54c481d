package browser

import "time"

// Driver is a live, automatable browser handle. Implementations wrap an
// external automation library; the manager only needs these operations.
type Driver interface {
	// Kind returns the browser kind the handle was configured for
	Kind() Kind

	// Navigate loads url in the current page and waits for it
	Navigate(url string) error

	// Title returns the current page title
	Title() (string, error)

	// CurrentURL returns the URL of the current page
	CurrentURL() (string, error)

	// MaximizeWindow sizes the browser window to the screen
	MaximizeWindow() error

	// SetImplicitWait sets the timeout applied to element lookups
	SetImplicitWait(timeout time.Duration) error

	// Quit terminates the browser process or remote session. An error
	// wrapping ErrSessionGone means it was already terminated.
	Quit() error
}
