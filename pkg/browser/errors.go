package browser

import "errors"

var (
	// ErrNotInitialized is returned when a session is used before Initialize.
	ErrNotInitialized = errors.New("browser session not initialized")

	// ErrUnsupportedBrowserKind is returned for browsers outside chrome, firefox and edge.
	ErrUnsupportedBrowserKind = errors.New("unsupported browser kind")

	// ErrInvalidEndpoint is returned when the remote grid endpoint is not a usable URL.
	ErrInvalidEndpoint = errors.New("invalid remote endpoint")

	// ErrUnknownEnvironment is returned when navigating to an unregistered environment name.
	ErrUnknownEnvironment = errors.New("unknown environment")

	// ErrSessionGone is wrapped by drivers when the browser or remote session
	// was already terminated. Quit treats it as success.
	ErrSessionGone = errors.New("browser session already terminated")

	// ErrWaitTimeout is returned when a wait condition does not hold in time.
	ErrWaitTimeout = errors.New("wait timed out")
)
