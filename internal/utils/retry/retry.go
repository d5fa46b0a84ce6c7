// Package retry provides a bounded-retry wrapper with exponential backoff
// for operations against flaky external dependencies (object storage, mail).
package retry

import (
	"context"
	"errors"
	"net"
	"strings"
	"time"
)

// Config controls the retry loop. Zero-valued fields fall back to the
// defaults used across the application.
type Config struct {
	MaxAttempts       int
	InitialDelay      time.Duration
	MaxDelay          time.Duration
	BackoffMultiplier float64
	ShouldRetry       func(error) bool
}

const (
	defaultMaxAttempts       = 3
	defaultInitialDelay      = 1 * time.Second
	defaultMaxDelay          = 10 * time.Second
	defaultBackoffMultiplier = 2.0
)

// DefaultConfig returns the standard retry policy: 3 attempts, 1s initial
// delay doubling up to 10s, transient-error classification.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:       defaultMaxAttempts,
		InitialDelay:      defaultInitialDelay,
		MaxDelay:          defaultMaxDelay,
		BackoffMultiplier: defaultBackoffMultiplier,
		ShouldRetry:       IsTransient,
	}
}

func (c Config) withDefaults() Config {
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = defaultMaxAttempts
	}
	if c.InitialDelay <= 0 {
		c.InitialDelay = defaultInitialDelay
	}
	if c.MaxDelay <= 0 {
		c.MaxDelay = defaultMaxDelay
	}
	if c.BackoffMultiplier <= 0 {
		c.BackoffMultiplier = defaultBackoffMultiplier
	}
	if c.ShouldRetry == nil {
		c.ShouldRetry = IsTransient
	}
	return c
}

var transientSignals = []string{
	"timeout",
	"timed out",
	"connection reset",
	"connection refused",
	"no such host",
	"dns",
	"unavailable",
	"rate limit",
	"throttle",
	"throttling",
	"temporary failure",
}

// IsTransient classifies an error as likely to succeed on retry. It matches
// net.Error timeouts plus case-insensitive substrings of known transient
// signals in the error text.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, signal := range transientSignals {
		if strings.Contains(msg, signal) {
			return true
		}
	}
	return false
}

// Do runs op up to cfg.MaxAttempts times. After a failure classified as
// retryable it sleeps min(InitialDelay * BackoffMultiplier^(attempt-1),
// MaxDelay) and tries again. A non-retryable error, or the final attempt's
// error, is returned as-is with no further sleep. The sleep honours ctx
// cancellation.
func Do[T any](ctx context.Context, cfg Config, op func(ctx context.Context) (T, error)) (T, error) {
	cfg = cfg.withDefaults()

	var zero T
	var lastErr error
	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		result, err := op(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if attempt == cfg.MaxAttempts || !cfg.ShouldRetry(err) {
			return zero, err
		}

		if sleepErr := sleep(ctx, delayFor(cfg, attempt)); sleepErr != nil {
			return zero, lastErr
		}
	}
	return zero, lastErr
}

func delayFor(cfg Config, attempt int) time.Duration {
	delay := cfg.InitialDelay
	for i := 1; i < attempt; i++ {
		delay = time.Duration(float64(delay) * cfg.BackoffMultiplier)
		if delay >= cfg.MaxDelay {
			return cfg.MaxDelay
		}
	}
	if delay > cfg.MaxDelay {
		return cfg.MaxDelay
	}
	return delay
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
