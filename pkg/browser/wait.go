package browser

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// DefaultPollInterval is how often a WaitPolicy re-checks its condition.
const DefaultPollInterval = 500 * time.Millisecond

// Condition reports whether the awaited state has been reached.
type Condition func(d Driver) (bool, error)

// WaitPolicy performs explicit, polling waits against one driver.
type WaitPolicy struct {
	driver   Driver
	timeout  time.Duration
	interval time.Duration
}

// NewWaitPolicy returns a policy that waits up to timeout on d.
func NewWaitPolicy(d Driver, timeout time.Duration) *WaitPolicy {
	return &WaitPolicy{
		driver:   d,
		timeout:  timeout,
		interval: DefaultPollInterval,
	}
}

// WithInterval returns a copy of the policy polling at interval.
func (w *WaitPolicy) WithInterval(interval time.Duration) *WaitPolicy {
	cp := *w
	if interval > 0 {
		cp.interval = interval
	}
	return &cp
}

// Timeout returns the explicit-wait duration.
func (w *WaitPolicy) Timeout() time.Duration {
	return w.timeout
}

// Interval returns the poll interval.
func (w *WaitPolicy) Interval() time.Duration {
	return w.interval
}

// Driver returns the driver the policy waits on.
func (w *WaitPolicy) Driver() Driver {
	return w.driver
}

// Until polls cond until it returns true, returns an error, ctx is done or
// the timeout elapses. The condition is always evaluated at least once.
func (w *WaitPolicy) Until(ctx context.Context, cond Condition) error {
	deadline := time.NewTimer(w.timeout)
	defer deadline.Stop()
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		ok, err := cond(w.driver)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-deadline.C:
			return fmt.Errorf("%w after %s", ErrWaitTimeout, w.timeout)
		case <-ticker.C:
		}
	}
}

// TitleContains waits for the page title to contain s.
func TitleContains(s string) Condition {
	return func(d Driver) (bool, error) {
		title, err := d.Title()
		if err != nil {
			return false, err
		}
		return strings.Contains(title, s), nil
	}
}

// URLContains waits for the current URL to contain s.
func URLContains(s string) Condition {
	return func(d Driver) (bool, error) {
		u, err := d.CurrentURL()
		if err != nil {
			return false, err
		}
		return strings.Contains(u, s), nil
	}
}
