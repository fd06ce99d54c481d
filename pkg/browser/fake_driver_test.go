package browser

import (
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/entrhq/browserkit/pkg/config"
)

// fakeDriver is an in-memory Driver.
type fakeDriver struct {
	mu sync.Mutex

	kind     Kind
	opts     Options
	endpoint string

	url          string
	titles       map[string]string
	maximized    bool
	implicitWait time.Duration
	quitCalls    int

	navigateErr error
	maximizeErr error
	implicitErr error
	quitErr     error
}

func (d *fakeDriver) Kind() Kind { return d.kind }

func (d *fakeDriver) Navigate(u string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.navigateErr != nil {
		return d.navigateErr
	}
	d.url = u
	return nil
}

func (d *fakeDriver) Title() (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.titles[d.url], nil
}

func (d *fakeDriver) CurrentURL() (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.url, nil
}

func (d *fakeDriver) MaximizeWindow() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.maximizeErr != nil {
		return d.maximizeErr
	}
	d.maximized = true
	return nil
}

func (d *fakeDriver) SetImplicitWait(timeout time.Duration) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.implicitErr != nil {
		return d.implicitErr
	}
	d.implicitWait = timeout
	return nil
}

func (d *fakeDriver) Quit() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.quitCalls++
	return d.quitErr
}

func (d *fakeDriver) quits() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.quitCalls
}

// fakeFactory records every driver it constructs.
type fakeFactory struct {
	mu        sync.Mutex
	drivers   []*fakeDriver
	launchErr error

	// configure runs on each new driver before it is returned
	configure func(d *fakeDriver)
}

func (f *fakeFactory) create(opts Options, endpoint string) (Driver, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.launchErr != nil {
		return nil, f.launchErr
	}

	d := &fakeDriver{
		kind:     opts.Kind,
		opts:     opts,
		endpoint: endpoint,
		url:      "about:blank",
		titles:   map[string]string{},
	}
	if f.configure != nil {
		f.configure(d)
	}
	f.drivers = append(f.drivers, d)
	return d, nil
}

func (f *fakeFactory) backend(kind Kind) Backend {
	return Backend{
		Options: optionBuilders[kind],
		Local: func(opts Options) (Driver, error) {
			return f.create(opts, "")
		},
		Remote: func(endpoint *url.URL, opts Options) (Driver, error) {
			return f.create(opts, endpoint.String())
		},
	}
}

func (f *fakeFactory) created() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.drivers)
}

func (f *fakeFactory) last() *fakeDriver {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.drivers[len(f.drivers)-1]
}

// newTestManager returns a manager whose dispatch table builds fake drivers.
func newTestManager(t *testing.T, cfg *config.Config, f *fakeFactory, opts ...ManagerOption) *Manager {
	t.Helper()

	if cfg == nil {
		cfg = config.Default()
	}

	all := make([]ManagerOption, 0, len(Kinds())+len(opts))
	for _, k := range Kinds() {
		all = append(all, WithBackend(k, f.backend(k)))
	}
	all = append(all, opts...)

	m := NewManager(cfg, all...)
	t.Cleanup(func() { _ = m.Close() })
	return m
}
