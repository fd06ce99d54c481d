package browser

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/entrhq/browserkit/pkg/config"
	"github.com/entrhq/browserkit/pkg/logging"
)

// Manager owns one browser session per execution context.
//
// Contexts are independent: calls for different ContextIDs may run
// concurrently, while calls for the same ContextID are expected to come
// from that context's own, sequential flow. The internal lock only guards
// the slot map and is never held while talking to a browser.
type Manager struct {
	cfg      *config.Config
	backends map[Kind]Backend
	envs     Environments
	logger   *logging.Logger
	metrics  *Metrics
	now      func() time.Time
	closers  []io.Closer

	mu       sync.RWMutex
	sessions map[ContextID]*Session
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithBackend sets the dispatch table entry for kind. Once any entry is set
// the default playwright/WebDriver table is not installed.
func WithBackend(kind Kind, b Backend) ManagerOption {
	return func(m *Manager) {
		if m.backends == nil {
			m.backends = make(map[Kind]Backend)
		}
		m.backends[kind] = b
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *logging.Logger) ManagerOption {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithMetrics records session lifecycle metrics.
func WithMetrics(metrics *Metrics) ManagerOption {
	return func(m *Manager) {
		m.metrics = metrics
	}
}

// WithEnvironments replaces the environment registry taken from the config.
func WithEnvironments(envs Environments) ManagerOption {
	return func(m *Manager) {
		m.envs = NewEnvironments(envs)
	}
}

// WithClock sets the time source used for session timestamps.
func WithClock(now func() time.Time) ManagerOption {
	return func(m *Manager) {
		m.now = now
	}
}

// NewManager creates a session manager. A nil cfg uses config.Default().
func NewManager(cfg *config.Config, opts ...ManagerOption) *Manager {
	if cfg == nil {
		cfg = config.Default()
	}

	m := &Manager{
		cfg:      cfg,
		envs:     NewEnvironments(cfg.Environments),
		logger:   logging.NullLogger(),
		now:      time.Now,
		sessions: make(map[ContextID]*Session),
	}

	for _, opt := range opts {
		opt(m)
	}

	if m.backends == nil {
		rt := NewPlaywrightRuntime(false)
		m.backends = DefaultBackends(rt)
		m.closers = append(m.closers, rt)
	}

	return m
}

// settings are the resolved inputs of one Initialize call.
type settings struct {
	kind         Kind
	backend      Backend
	remote       bool
	headless     bool
	endpoint     string
	implicitWait time.Duration
	explicitWait time.Duration
}

func (m *Manager) resolve(kind Kind, opts *InitOptions) (*settings, error) {
	if kind == "" {
		kind = Kind(m.cfg.Browser)
	}
	if kind == "" {
		kind = Chrome
	}

	k, err := ParseKind(string(kind))
	if err != nil {
		return nil, err
	}
	backend, ok := m.backends[k]
	if !ok {
		return nil, fmt.Errorf("%w: %q has no registered driver", ErrUnsupportedBrowserKind, k)
	}
	if backend.Options == nil {
		backend.Options = optionBuilders[k]
	}

	s := &settings{
		kind:         k,
		backend:      backend,
		remote:       m.cfg.Remote,
		headless:     m.cfg.Headless,
		endpoint:     m.cfg.GridURL,
		implicitWait: m.cfg.ImplicitWaitDuration(),
		explicitWait: m.cfg.ExplicitWaitDuration(),
	}

	if opts.Remote != nil {
		s.remote = *opts.Remote
	}
	if opts.Headless != nil {
		s.headless = *opts.Headless
	}
	if opts.Endpoint != "" {
		s.endpoint = opts.Endpoint
	}
	if opts.ImplicitWait > 0 {
		s.implicitWait = opts.ImplicitWait
	}
	if opts.ExplicitWait > 0 {
		s.explicitWait = opts.ExplicitWait
	}

	return s, nil
}

// Initialize creates the session for id. It is a no-op when id already has
// a session. An empty kind uses the configured default browser.
//
// On failure nothing is stored: a driver that was started but could not be
// configured is quit before returning.
func (m *Manager) Initialize(id ContextID, kind Kind, opts *InitOptions) error {
	log := m.logger.With("context", string(id))

	if _, ok := m.lookup(id); ok {
		log.Debugf("session already initialized, skipping")
		return nil
	}

	if opts == nil {
		opts = &InitOptions{}
	}

	s, err := m.resolve(kind, opts)
	if err != nil {
		m.metrics.recordFailure(failureLabel(kind), reasonUnsupported)
		log.Warnf("initialize rejected: %v", err)
		return err
	}

	sess, err := m.open(id, s)
	if err != nil {
		log.Errorf("initialize %s failed: %v", s.kind, err)
		return err
	}

	m.mu.Lock()
	if _, exists := m.sessions[id]; exists {
		m.mu.Unlock()
		// Another Initialize for the same context won; keep its session
		log.Warnf("concurrent initialize detected, discarding duplicate %s session", s.kind)
		m.discard(sess.Driver)
		return nil
	}
	m.sessions[id] = sess
	m.mu.Unlock()

	m.metrics.recordStarted(sess.Kind, sess.Mode)
	log.Infof("started %s session %s (mode=%s headless=%t)", sess.Kind, sess.ID, sess.Mode, sess.Headless)
	return nil
}

// failureLabel keeps the browser label bounded: names outside the
// supported kinds collapse into a single value.
func failureLabel(kind Kind) Kind {
	if k, err := ParseKind(string(kind)); err == nil {
		return k
	}
	return unsupportedLabel
}

// open constructs and fully configures a session without storing it.
func (m *Manager) open(id ContextID, s *settings) (*Session, error) {
	var (
		driver   Driver
		err      error
		endpoint string
	)

	opts := s.backend.Options(s.headless, s.remote)

	if s.remote {
		u, perr := parseEndpoint(s.endpoint)
		if perr != nil {
			m.metrics.recordFailure(s.kind, reasonEndpoint)
			return nil, perr
		}
		if s.backend.Remote == nil {
			m.metrics.recordFailure(s.kind, reasonLaunch)
			return nil, fmt.Errorf("%s does not support remote sessions", s.kind)
		}
		endpoint = u.Redacted()
		driver, err = s.backend.Remote(u, opts)
	} else {
		if s.backend.Local == nil {
			m.metrics.recordFailure(s.kind, reasonLaunch)
			return nil, fmt.Errorf("%s does not support local sessions", s.kind)
		}
		driver, err = s.backend.Local(opts)
	}
	if err != nil {
		m.metrics.recordFailure(s.kind, reasonLaunch)
		return nil, fmt.Errorf("failed to start %s session: %w", s.kind, err)
	}

	if err := driver.MaximizeWindow(); err != nil {
		m.metrics.recordFailure(s.kind, reasonSetup)
		m.discard(driver)
		return nil, err
	}
	if err := driver.SetImplicitWait(s.implicitWait); err != nil {
		m.metrics.recordFailure(s.kind, reasonSetup)
		m.discard(driver)
		return nil, err
	}

	return &Session{
		ID:        uuid.New().String(),
		Context:   id,
		Kind:      s.kind,
		Mode:      modeOf(s.remote),
		Headless:  s.headless,
		Endpoint:  endpoint,
		Driver:    driver,
		Wait:      NewWaitPolicy(driver, s.explicitWait),
		CreatedAt: m.now(),
	}, nil
}

// discard quits a driver that never made it into a session slot.
func (m *Manager) discard(d Driver) {
	if err := d.Quit(); err != nil && !errors.Is(err, ErrSessionGone) {
		m.logger.Warnf("failed to quit discarded %s driver: %v", d.Kind(), err)
	}
}

func (m *Manager) lookup(id ContextID) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sess, ok := m.sessions[id]
	return sess, ok
}

// Session returns the session for id.
func (m *Manager) Session(id ContextID) (*Session, error) {
	sess, ok := m.lookup(id)
	if !ok {
		return nil, fmt.Errorf("%w: context %q", ErrNotInitialized, id)
	}
	return sess, nil
}

// Driver returns the driver handle for id.
func (m *Manager) Driver(id ContextID) (Driver, error) {
	sess, err := m.Session(id)
	if err != nil {
		return nil, err
	}
	return sess.Driver, nil
}

// WaitPolicy returns the explicit-wait policy for id.
func (m *Manager) WaitPolicy(id ContextID) (*WaitPolicy, error) {
	sess, err := m.Session(id)
	if err != nil {
		return nil, err
	}
	return sess.Wait, nil
}

// NavigateTo loads target in the session for id. target is an absolute URL
// or a registered environment name such as "qa".
func (m *Manager) NavigateTo(id ContextID, target string) error {
	sess, err := m.Session(id)
	if err != nil {
		return err
	}

	u, err := m.envs.Resolve(target)
	if err != nil {
		return err
	}

	label := "url"
	if name := strings.ToLower(strings.TrimSpace(target)); m.envs[name] != "" {
		label = name
	}

	m.logger.With("context", string(id)).Debugf("navigating to %s", u)
	if err := sess.Driver.Navigate(u); err != nil {
		return err
	}
	m.metrics.recordNavigate(label)
	return nil
}

// PageTitle returns the current page title for id.
func (m *Manager) PageTitle(id ContextID) (string, error) {
	sess, err := m.Session(id)
	if err != nil {
		return "", err
	}
	return sess.Driver.Title()
}

// CurrentURL returns the current page URL for id.
func (m *Manager) CurrentURL(id ContextID) (string, error) {
	sess, err := m.Session(id)
	if err != nil {
		return "", err
	}
	return sess.Driver.CurrentURL()
}

// Quit terminates the session for id and frees its slot. It is a no-op
// when id has no session. A browser that was already gone is not an error.
func (m *Manager) Quit(id ContextID) error {
	m.mu.Lock()
	sess, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if !ok {
		return nil
	}

	log := m.logger.With("context", string(id))
	err := sess.Driver.Quit()
	switch {
	case err == nil:
		m.metrics.recordQuit("ok")
		log.Infof("quit %s session %s", sess.Kind, sess.ID)
		return nil
	case errors.Is(err, ErrSessionGone):
		m.metrics.recordQuit("gone")
		log.Debugf("session %s was already terminated: %v", sess.ID, err)
		return nil
	default:
		m.metrics.recordQuit("error")
		log.Errorf("quit session %s failed: %v", sess.ID, err)
		return fmt.Errorf("failed to quit session for context %q: %w", id, err)
	}
}

// QuitAll quits every session concurrently and returns the joined errors.
func (m *Manager) QuitAll() error {
	m.mu.RLock()
	ids := make([]ContextID, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	m.mu.RUnlock()

	errs := make([]error, len(ids))
	var g errgroup.Group
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			errs[i] = m.Quit(id)
			return nil
		})
	}
	_ = g.Wait()

	return errors.Join(errs...)
}

// Sessions returns a snapshot of all live sessions, oldest first.
func (m *Manager) Sessions() []SessionInfo {
	m.mu.RLock()
	infos := make([]SessionInfo, 0, len(m.sessions))
	for _, sess := range m.sessions {
		infos = append(infos, sess.Info())
	}
	m.mu.RUnlock()

	sort.Slice(infos, func(i, j int) bool {
		if infos[i].CreatedAt.Equal(infos[j].CreatedAt) {
			return infos[i].Context < infos[j].Context
		}
		return infos[i].CreatedAt.Before(infos[j].CreatedAt)
	})
	return infos
}

// Environments returns the registry used by NavigateTo.
func (m *Manager) Environments() Environments {
	return m.envs
}

// Close quits every session and releases driver runtimes.
func (m *Manager) Close() error {
	err := m.QuitAll()
	for _, c := range m.closers {
		err = errors.Join(err, c.Close())
	}
	return err
}
