// Package retry owns the timing policy around model calls: the pre-call
// scheduler wait and the bounded retry loop with backoff.
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/lingopath/backend/internal/apperr"
	"go.uber.org/zap"
)

const (
	DefaultMaxAttempts    = 5
	DefaultInitialBackoff = 60 * time.Second
	DefaultMaxBackoff     = 5 * time.Minute
)

// Config holds the retry policy.
type Config struct {
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	// Jitter is the randomization factor applied to each backoff (0 disables it).
	Jitter float64
}

// Controller runs operations under a Scheduler with bounded retries.
type Controller struct {
	scheduler Scheduler
	cfg       Config
	logger    *zap.Logger
	sleep     func(ctx context.Context, d time.Duration) error
}

// NewController creates a retry controller. Zero values in cfg fall back to
// the package defaults.
func NewController(scheduler Scheduler, cfg Config, logger *zap.Logger) *Controller {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = DefaultInitialBackoff
	}
	if cfg.MaxBackoff <= 0 {
		cfg.MaxBackoff = DefaultMaxBackoff
	}
	if cfg.MaxBackoff < cfg.InitialBackoff {
		cfg.MaxBackoff = cfg.InitialBackoff
	}
	return &Controller{
		scheduler: scheduler,
		cfg:       cfg,
		logger:    logger,
		sleep:     sleepContext,
	}
}

// MaxAttempts returns the attempt ceiling.
func (c *Controller) MaxAttempts() int { return c.cfg.MaxAttempts }

func (c *Controller) newBackOff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.cfg.InitialBackoff
	b.Multiplier = 2
	b.MaxInterval = c.cfg.MaxBackoff
	b.RandomizationFactor = c.cfg.Jitter
	b.Reset()
	return b
}

// Do runs op until it succeeds, returns a non-retryable error, or the
// attempt ceiling is reached. Every attempt waits on the scheduler first.
// role names the calling planner in logs.
func Do[T any](ctx context.Context, c *Controller, role string, op func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	b := c.newBackOff()

	var lastErr error
	for attempt := 1; attempt <= c.cfg.MaxAttempts; attempt++ {
		if err := c.scheduler.Wait(ctx); err != nil {
			return zero, err
		}

		result, err := op(ctx)
		if err == nil {
			if attempt > 1 {
				c.logger.Info("model call succeeded after retry",
					zap.String("role", role),
					zap.Int("attempt", attempt),
				)
			}
			return result, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return zero, ctx.Err()
		}
		if !apperr.Retryable(err) {
			var transport *apperr.TransportError
			if errors.As(err, &transport) {
				c.logger.Error("model endpoint rejected the request, not retrying",
					zap.String("role", role),
					zap.Int("status", transport.Status),
					zap.String("body", transport.Body),
				)
			}
			return zero, err
		}
		if attempt == c.cfg.MaxAttempts {
			break
		}

		wait := b.NextBackOff()
		c.logger.Warn("model call failed, retrying",
			zap.String("role", role),
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", c.cfg.MaxAttempts),
			zap.Duration("backoff", wait),
			zap.Error(err),
		)

		if err := c.sleep(ctx, wait); err != nil {
			return zero, err
		}
	}

	return zero, fmt.Errorf("%s: giving up after %d attempts: %w", role, c.cfg.MaxAttempts, lastErr)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
