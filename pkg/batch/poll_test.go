package batch

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func recordingSleep(slept *[]time.Duration) SleepFunc {
	return func(_ context.Context, d time.Duration) error {
		*slept = append(*slept, d)
		return nil
	}
}

func TestPollerFixedInterval(t *testing.T) {
	var slept []time.Duration
	poller := NewPoller(PollPolicy{Interval: 30 * time.Second}, recordingSleep(&slept))

	calls := 0
	err := poller.Poll(context.Background(), func(context.Context) (bool, error) {
		calls++
		return calls == 3, nil
	})
	require.NoError(t, err)
	require.Equal(t, 3, calls)
	require.Equal(t, []time.Duration{30 * time.Second, 30 * time.Second}, slept)
}

func TestPollerNoSleepWhenAlreadyDone(t *testing.T) {
	var slept []time.Duration
	poller := NewPoller(PollPolicy{Interval: 5 * time.Second}, recordingSleep(&slept))

	err := poller.Poll(context.Background(), func(context.Context) (bool, error) {
		return true, nil
	})
	require.NoError(t, err)
	require.Empty(t, slept)
}

func TestPollerBackoff(t *testing.T) {
	var slept []time.Duration
	poller := NewPoller(PollPolicy{
		Interval:    time.Second,
		MaxInterval: 4 * time.Second,
		Multiplier:  2,
	}, recordingSleep(&slept))

	calls := 0
	err := poller.Poll(context.Background(), func(context.Context) (bool, error) {
		calls++
		return calls == 5, nil
	})
	require.NoError(t, err)
	require.Equal(t, []time.Duration{
		time.Second, 2 * time.Second, 4 * time.Second, 4 * time.Second,
	}, slept)
}

func TestPollerExhaustion(t *testing.T) {
	var slept []time.Duration
	poller := NewPoller(PollPolicy{Interval: time.Second, MaxAttempts: 3}, recordingSleep(&slept))

	calls := 0
	err := poller.Poll(context.Background(), func(context.Context) (bool, error) {
		calls++
		return false, nil
	})
	require.ErrorIs(t, err, ErrPollExhausted)
	require.Equal(t, 3, calls)
	require.Len(t, slept, 2)
}

func TestPollerPropagatesError(t *testing.T) {
	poller := NewPoller(PollPolicy{Interval: time.Second}, recordingSleep(new([]time.Duration)))

	boom := errors.New("boom")
	err := poller.Poll(context.Background(), func(context.Context) (bool, error) {
		return false, boom
	})
	require.ErrorIs(t, err, boom)
}

func TestPollerContextCancelledDuringSleep(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	poller := NewPoller(PollPolicy{Interval: time.Second}, func(ctx context.Context, _ time.Duration) error {
		cancel()
		return ctx.Err()
	})

	err := poller.Poll(ctx, func(context.Context) (bool, error) {
		return false, nil
	})
	require.ErrorIs(t, err, context.Canceled)
}
