package browser

import (
	"fmt"
	"strings"
)

// Kind identifies a browser family.
type Kind string

const (
	// Chrome is Google Chrome / Chromium
	Chrome Kind = "chrome"

	// Firefox is Mozilla Firefox
	Firefox Kind = "firefox"

	// Edge is Microsoft Edge (Chromium based)
	Edge Kind = "edge"
)

// Kinds returns every supported browser kind.
func Kinds() []Kind {
	return []Kind{Chrome, Firefox, Edge}
}

// ParseKind converts a browser name to a Kind. Matching ignores case and
// surrounding whitespace.
func ParseKind(name string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(name)))
	switch k {
	case Chrome, Firefox, Edge:
		return k, nil
	}
	return "", fmt.Errorf("%w: %q (must be one of chrome, firefox, edge)", ErrUnsupportedBrowserKind, name)
}

// String implements fmt.Stringer.
func (k Kind) String() string {
	return string(k)
}

// chromium reports whether the kind is driven through a Chromium engine.
func (k Kind) chromium() bool {
	return k == Chrome || k == Edge
}

// Mode is where a session's browser runs.
type Mode string

const (
	// Local runs the browser as a child process of this program
	Local Mode = "local"

	// Remote runs the browser on a remote execution grid
	Remote Mode = "remote"
)

func modeOf(remote bool) Mode {
	if remote {
		return Remote
	}
	return Local
}
