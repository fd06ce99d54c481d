package browser

import (
	"fmt"
	"net/url"
	"strings"
)

// LocalFunc starts a browser on this machine.
type LocalFunc func(opts Options) (Driver, error)

// RemoteFunc opens a browser session on a remote execution grid.
type RemoteFunc func(endpoint *url.URL, opts Options) (Driver, error)

// Backend is one row of the dispatch table: how to configure and construct
// drivers for a browser kind.
type Backend struct {
	Options OptionsFunc
	Local   LocalFunc
	Remote  RemoteFunc
}

// DefaultBackends returns the dispatch table for every supported kind.
// Local sessions are launched through playwright. Remote endpoints with a
// ws or wss scheme are playwright servers; http and https endpoints are
// WebDriver grids.
func DefaultBackends(rt *PlaywrightRuntime) map[Kind]Backend {
	remote := func(endpoint *url.URL, opts Options) (Driver, error) {
		switch endpoint.Scheme {
		case "ws", "wss":
			return rt.Connect(endpoint.String(), opts)
		default:
			return connectSelenium(endpoint, opts)
		}
	}

	backends := make(map[Kind]Backend, len(optionBuilders))
	for kind, build := range optionBuilders {
		backends[kind] = Backend{
			Options: build,
			Local:   rt.Launch,
			Remote:  remote,
		}
	}
	return backends
}

// parseEndpoint validates a remote grid endpoint.
func parseEndpoint(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, fmt.Errorf("%w: endpoint is empty", ErrInvalidEndpoint)
	}

	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidEndpoint, raw, err)
	}

	switch u.Scheme {
	case "http", "https", "ws", "wss":
	default:
		return nil, fmt.Errorf("%w: %q: scheme must be http, https, ws or wss", ErrInvalidEndpoint, raw)
	}

	if u.Host == "" {
		return nil, fmt.Errorf("%w: %q: missing host", ErrInvalidEndpoint, raw)
	}

	return u, nil
}
