package browser

import "time"

// ContextID identifies an execution context, such as a test or a worker.
// Each context owns at most one Session.
type ContextID string

// Session is the browser owned by one execution context. It is never
// modified after the manager stores it.
type Session struct {
	ID        string
	Context   ContextID
	Kind      Kind
	Mode      Mode
	Headless  bool
	Endpoint  string
	Driver    Driver
	Wait      *WaitPolicy
	CreatedAt time.Time
}

// Info returns a snapshot of the session without its handles.
func (s *Session) Info() SessionInfo {
	return SessionInfo{
		ID:        s.ID,
		Context:   s.Context,
		Kind:      s.Kind,
		Mode:      s.Mode,
		Headless:  s.Headless,
		Endpoint:  s.Endpoint,
		CreatedAt: s.CreatedAt,
	}
}

// SessionInfo contains metadata about a browser session.
type SessionInfo struct {
	ID        string
	Context   ContextID
	Kind      Kind
	Mode      Mode
	Headless  bool
	Endpoint  string
	CreatedAt time.Time
}

// InitOptions overrides configured defaults for a single Initialize call.
// Zero values fall back to the manager's configuration.
type InitOptions struct {
	// Remote selects the remote grid; nil uses the configured default
	Remote *bool

	// Endpoint is the remote grid URL; empty uses the configured default
	Endpoint string

	// Headless selects headless mode; nil uses the configured default
	Headless *bool

	// ImplicitWait is the driver lookup timeout; zero uses the default
	ImplicitWait time.Duration

	// ExplicitWait is the wait policy timeout; zero uses the default
	ExplicitWait time.Duration
}
