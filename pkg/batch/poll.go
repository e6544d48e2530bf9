package batch

import (
	"context"
	"errors"
	"math"
	"time"
)

// ErrPollExhausted is returned when a poll loop hits its attempt cap before
// observing a terminal status.
var ErrPollExhausted = errors.New("batch: poll attempts exhausted")

// PollPolicy controls how a status loop waits between observations.
// A zero Multiplier (or one below 1) keeps the interval fixed. MaxAttempts of
// zero polls indefinitely, matching the service's own completion window.
type PollPolicy struct {
	Interval    time.Duration
	MaxInterval time.Duration
	Multiplier  float64
	MaxAttempts int
}

func (p PollPolicy) normalized() PollPolicy {
	if p.Interval <= 0 {
		p.Interval = 5 * time.Second
	}
	if p.Multiplier < 1 {
		p.Multiplier = 1
	}
	if p.MaxInterval < p.Interval {
		p.MaxInterval = p.Interval
	}
	if p.MaxAttempts < 0 {
		p.MaxAttempts = 0
	}
	return p
}

// SleepFunc waits for d or until ctx is done. Injectable for deterministic tests.
type SleepFunc func(ctx context.Context, d time.Duration) error

func ctxSleep(ctx context.Context, d time.Duration) error {
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Poller repeatedly evaluates a condition under a PollPolicy.
type Poller struct {
	policy PollPolicy
	sleep  SleepFunc
}

// NewPoller constructs a Poller; a nil sleep uses a context-aware time.After.
func NewPoller(policy PollPolicy, sleep SleepFunc) *Poller {
	if sleep == nil {
		sleep = ctxSleep
	}
	return &Poller{policy: policy.normalized(), sleep: sleep}
}

// Poll invokes fn until it reports done, fails, or the policy's attempt cap is
// reached. fn is called once before the first sleep, so an already-terminal
// status never waits.
func (p *Poller) Poll(ctx context.Context, fn func(ctx context.Context) (bool, error)) error {
	interval := p.policy.Interval
	for attempt := 1; ; attempt++ {
		done, err := fn(ctx)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
		if p.policy.MaxAttempts > 0 && attempt >= p.policy.MaxAttempts {
			return ErrPollExhausted
		}
		if err := p.sleep(ctx, interval); err != nil {
			return err
		}
		interval = time.Duration(math.Min(
			float64(p.policy.MaxInterval),
			float64(interval)*p.policy.Multiplier,
		))
	}
}
