// Package retry runs remote calls with exponential backoff.
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// Func is one attempt of a retried operation.
type Func func() error

type config struct {
	maxRetries   int
	initialDelay time.Duration
	maxDelay     time.Duration
	multiplier   float64
	retryIf      func(error) bool
}

// Option configures Do.
type Option func(*config)

// WithMaxRetries sets the number of retries after the first attempt.
// Default is 3.
func WithMaxRetries(n int) Option {
	return func(c *config) {
		if n >= 0 {
			c.maxRetries = n
		}
	}
}

// WithInitialDelay sets the delay before the first retry. Default is 1s.
func WithInitialDelay(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.initialDelay = d
		}
	}
}

// WithMaxDelay caps the delay between retries. Default is 30s.
func WithMaxDelay(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.maxDelay = d
		}
	}
}

// WithMultiplier sets the backoff multiplier. Default is 2.
func WithMultiplier(m float64) Option {
	return func(c *config) {
		if m > 0 {
			c.multiplier = m
		}
	}
}

// WithRetryIf limits retries to errors for which fn returns true. Other
// errors are returned immediately.
func WithRetryIf(fn func(error) bool) Option {
	return func(c *config) {
		c.retryIf = fn
	}
}

func defaultConfig() *config {
	return &config{
		maxRetries:   3,
		initialDelay: time.Second,
		maxDelay:     30 * time.Second,
		multiplier:   2.0,
	}
}

// backOff is initialDelay * multiplier^(attempt-1), capped at maxDelay,
// without jitter.
func (c *config) backOff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.initialDelay
	b.MaxInterval = c.maxDelay
	b.Multiplier = c.multiplier
	b.RandomizationFactor = 0
	b.Reset()
	return b
}

// Do calls fn until it succeeds, the retries are used up, fn returns an
// error the retry predicate rejects, or ctx is done.
func Do(ctx context.Context, fn Func, opts ...Option) error {
	if fn == nil {
		return errors.New("retry: function cannot be nil")
	}
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	attempts := 0
	var rejected error
	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		attempts++
		err := fn()
		if err != nil && cfg.retryIf != nil && !cfg.retryIf(err) {
			rejected = err
			return struct{}{}, backoff.Permanent(err)
		}
		return struct{}{}, err
	},
		backoff.WithBackOff(cfg.backOff()),
		backoff.WithMaxTries(uint(cfg.maxRetries+1)),
	)

	switch {
	case err == nil:
		return nil
	case rejected != nil:
		return rejected
	case ctx.Err() != nil:
		return fmt.Errorf("retry aborted during backoff (attempt %d/%d): %w", attempts, cfg.maxRetries+1, ctx.Err())
	default:
		return fmt.Errorf("retry failed after %d attempts: %w", attempts, err)
	}
}
