// Package poll provides a bounded fixed-interval wait for a condition.
package poll

import (
	"context"
	"time"
)

// Config holds polling configuration.
type Config struct {
	Interval time.Duration
	Timeout  time.Duration
}

// Option is a functional option for polling configuration.
type Option func(*Config)

// WithInterval sets the delay between condition checks.
func WithInterval(d time.Duration) Option {
	return func(c *Config) {
		c.Interval = d
	}
}

// WithTimeout sets the total wait budget.
func WithTimeout(d time.Duration) Option {
	return func(c *Config) {
		c.Timeout = d
	}
}

// ErrTimeout is returned by Until when the budget elapses before the
// condition holds. Callers wrap it into their own domain error.
type timeoutError struct{}

func (timeoutError) Error() string { return "condition not met within timeout" }

// ErrTimeout reports budget exhaustion.
var ErrTimeout error = timeoutError{}

// Until repeatedly evaluates cond at a fixed interval until it returns true,
// the budget elapses, or the context is cancelled. The condition is checked
// once immediately before the first delay.
func Until(ctx context.Context, cond func(context.Context) bool, opts ...Option) error {
	cfg := &Config{
		Interval: time.Second,
		Timeout:  60 * time.Second,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	deadline := time.Now().Add(cfg.Timeout)
	for {
		if cond(ctx) {
			return nil
		}
		if !time.Now().Add(cfg.Interval).Before(deadline) {
			return ErrTimeout
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(cfg.Interval):
		}
	}
}
