package retry

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Scheduler gates every model call. Wait blocks until the next call may be
// made or ctx is done.
type Scheduler interface {
	Wait(ctx context.Context) error
}

// FixedDelay sleeps for the same interval before every call.
type FixedDelay struct {
	Interval time.Duration
}

// Wait sleeps for Interval.
func (d FixedDelay) Wait(ctx context.Context) error {
	return sleepContext(ctx, d.Interval)
}

// RateScheduler spaces calls with a token bucket holding a single token, so
// bursts are never allowed.
type RateScheduler struct {
	limiter *rate.Limiter
}

// NewRateScheduler allows perMinute calls per minute.
func NewRateScheduler(perMinute int) *RateScheduler {
	every := rate.Every(time.Minute / time.Duration(perMinute))
	return &RateScheduler{limiter: rate.NewLimiter(every, 1)}
}

// Wait blocks until a token is available.
func (s *RateScheduler) Wait(ctx context.Context) error {
	return s.limiter.Wait(ctx)
}

// None never waits. Used by tests.
type None struct{}

// Wait returns ctx.Err().
func (None) Wait(ctx context.Context) error { return ctx.Err() }

// NewScheduler picks the token bucket when perMinute is positive and the
// fixed delay otherwise.
func NewScheduler(delay time.Duration, perMinute int) Scheduler {
	if perMinute > 0 {
		return NewRateScheduler(perMinute)
	}
	return FixedDelay{Interval: delay}
}
