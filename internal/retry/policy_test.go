package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/prpreview/internal/config"
)

func TestNewPolicyDefaultsAndClamp(t *testing.T) {
	p := NewPolicy("", 0, 0, 0)
	require.Equal(t, config.RetryBackoffExponential, p.Mode)
	require.Equal(t, time.Second, p.Initial)
	require.Equal(t, 10*time.Second, p.Max)
	require.Equal(t, 0, p.MaxRetries)

	// initial > max -> clamped
	p = NewPolicy(config.RetryBackoffFixed, 5*time.Second, 2*time.Second, 5)
	require.Equal(t, 2*time.Second, p.Initial)
	require.Equal(t, config.RetryBackoffFixed, p.Mode)
	require.Equal(t, 5, p.MaxRetries)
	require.NoError(t, p.Validate())
}

func TestFromClone(t *testing.T) {
	p := FromClone(config.CloneConfig{MaxRetries: 3, Backoff: "LINEAR", InitialDelay: "200ms", MaxDelay: "1s"})
	require.Equal(t, config.RetryBackoffLinear, p.Mode)
	require.Equal(t, 200*time.Millisecond, p.Initial)
	require.Equal(t, time.Second, p.Max)
	require.Equal(t, 3, p.MaxRetries)
}

func TestDelayModes(t *testing.T) {
	fixed := NewPolicy(config.RetryBackoffFixed, 100*time.Millisecond, 500*time.Millisecond, 3)
	for i := 1; i <= 3; i++ {
		require.Equal(t, 100*time.Millisecond, fixed.Delay(i))
	}

	linear := NewPolicy(config.RetryBackoffLinear, 100*time.Millisecond, 250*time.Millisecond, 5)
	require.Equal(t, 100*time.Millisecond, linear.Delay(1))
	require.Equal(t, 200*time.Millisecond, linear.Delay(2))
	require.Equal(t, 250*time.Millisecond, linear.Delay(3))

	exp := NewPolicy(config.RetryBackoffExponential, 50*time.Millisecond, 160*time.Millisecond, 5)
	require.Equal(t, 50*time.Millisecond, exp.Delay(1))
	require.Equal(t, 100*time.Millisecond, exp.Delay(2))
	require.Equal(t, 160*time.Millisecond, exp.Delay(3))
	require.Equal(t, 160*time.Millisecond, exp.Delay(60))
	require.Equal(t, time.Duration(0), exp.Delay(0))
}

func TestDoRetriesTransientFailures(t *testing.T) {
	p := NewPolicy(config.RetryBackoffFixed, time.Millisecond, time.Millisecond, 3)
	attempts := 0
	var retried []int
	err := p.Do(context.Background(), func() error {
		attempts++
		if attempts < 3 {
			return errors.New("temporary network failure")
		}
		return nil
	}, nil, func(n int, _ error) { retried = append(retried, n) })

	require.NoError(t, err)
	require.Equal(t, 3, attempts)
	require.Equal(t, []int{1, 2}, retried)
}

func TestDoStopsOnPermanentError(t *testing.T) {
	p := NewPolicy(config.RetryBackoffFixed, time.Millisecond, time.Millisecond, 5)
	attempts := 0
	permanent := errors.New("authentication required")
	err := p.Do(context.Background(), func() error {
		attempts++
		return permanent
	}, func(err error) bool { return errors.Is(err, permanent) }, nil)

	require.ErrorIs(t, err, permanent)
	require.Equal(t, 1, attempts)
}

func TestDoExhausted(t *testing.T) {
	p := NewPolicy(config.RetryBackoffFixed, time.Millisecond, time.Millisecond, 2)
	boom := errors.New("connection reset")
	attempts := 0
	err := p.Do(context.Background(), func() error { attempts++; return boom }, nil, nil)
	require.ErrorIs(t, err, boom)
	require.Equal(t, 3, attempts)

	attempts = 0
	err = None().Do(context.Background(), func() error { attempts++; return boom }, nil, nil)
	require.Equal(t, boom, err)
	require.Equal(t, 1, attempts)
}

func TestDoHonoursCancellation(t *testing.T) {
	p := NewPolicy(config.RetryBackoffFixed, time.Hour, time.Hour, 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := p.Do(ctx, func() error { return errors.New("timeout") }, nil, nil)
	require.ErrorIs(t, err, context.Canceled)
}
