package browser

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// Environments maps symbolic environment names to base URLs.
type Environments map[string]string

// NewEnvironments copies a name to URL mapping, normalizing names to lower case.
func NewEnvironments(m map[string]string) Environments {
	envs := make(Environments, len(m))
	for name, base := range m {
		envs[strings.ToLower(name)] = base
	}
	return envs
}

// hostlessSchemes are URL schemes that are literal targets without a host.
var hostlessSchemes = map[string]bool{
	"about": true,
	"data":  true,
	"file":  true,
}

// isLiteralURL reports whether target is a URL rather than an environment name.
func isLiteralURL(target string) bool {
	u, err := url.Parse(target)
	if err != nil || u.Scheme == "" {
		return false
	}
	return u.Host != "" || hostlessSchemes[u.Scheme]
}

// Resolve turns target into a URL. Absolute URLs, including about:, data:
// and file: URLs, are returned unchanged; anything else must be a
// registered environment name.
func (e Environments) Resolve(target string) (string, error) {
	trimmed := strings.TrimSpace(target)
	if isLiteralURL(trimmed) {
		return trimmed, nil
	}

	if base, ok := e[strings.ToLower(trimmed)]; ok {
		return base, nil
	}

	return "", fmt.Errorf("%w: %q (known: %s)", ErrUnknownEnvironment, target, strings.Join(e.Names(), ", "))
}

// Names returns the registered names in sorted order.
func (e Environments) Names() []string {
	names := make([]string, 0, len(e))
	for name := range e {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
