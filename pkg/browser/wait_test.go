package browser

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWaitPolicyUntil(t *testing.T) {
	d := &fakeDriver{kind: Chrome, titles: map[string]string{}}

	t.Run("condition already true", func(t *testing.T) {
		w := NewWaitPolicy(d, time.Second)
		calls := 0
		err := w.Until(context.Background(), func(Driver) (bool, error) {
			calls++
			return true, nil
		})
		require.NoError(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("condition becomes true", func(t *testing.T) {
		w := NewWaitPolicy(d, time.Second).WithInterval(5 * time.Millisecond)
		calls := 0
		err := w.Until(context.Background(), func(Driver) (bool, error) {
			calls++
			return calls == 3, nil
		})
		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("timeout", func(t *testing.T) {
		w := NewWaitPolicy(d, 20*time.Millisecond).WithInterval(5 * time.Millisecond)
		err := w.Until(context.Background(), func(Driver) (bool, error) { return false, nil })
		assert.ErrorIs(t, err, ErrWaitTimeout)
	})

	t.Run("zero timeout checks once", func(t *testing.T) {
		w := NewWaitPolicy(d, 0)
		calls := 0
		err := w.Until(context.Background(), func(Driver) (bool, error) {
			calls++
			return false, nil
		})
		assert.ErrorIs(t, err, ErrWaitTimeout)
		assert.Equal(t, 1, calls)
	})

	t.Run("context cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		w := NewWaitPolicy(d, time.Minute)
		err := w.Until(ctx, func(Driver) (bool, error) { return false, nil })
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("condition error", func(t *testing.T) {
		condErr := errors.New("stale element")
		w := NewWaitPolicy(d, time.Second)
		err := w.Until(context.Background(), func(Driver) (bool, error) { return false, condErr })
		assert.ErrorIs(t, err, condErr)
	})
}

func TestWaitPolicyAccessors(t *testing.T) {
	d := &fakeDriver{kind: Firefox}
	w := NewWaitPolicy(d, 20*time.Second)

	assert.Equal(t, 20*time.Second, w.Timeout())
	assert.Equal(t, DefaultPollInterval, w.Interval())
	assert.Same(t, d, w.Driver())

	fast := w.WithInterval(time.Millisecond)
	assert.Equal(t, time.Millisecond, fast.Interval())
	assert.Equal(t, DefaultPollInterval, w.Interval(), "WithInterval returns a copy")
	assert.Equal(t, DefaultPollInterval, w.WithInterval(0).Interval())
}

func TestWaitConditions(t *testing.T) {
	d := &fakeDriver{
		kind:   Chrome,
		url:    "https://qa.example.com/login",
		titles: map[string]string{"https://qa.example.com/login": "Sign in - QA"},
	}

	ok, err := TitleContains("Sign in")(d)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = TitleContains("Dashboard")(d)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = URLContains("/login")(d)
	require.NoError(t, err)
	assert.True(t, ok)
}
