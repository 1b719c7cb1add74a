// Package retry provides a retry combinator driven by pluggable backoff
// strategies. A Strategy is a stateless policy value: it carries the attempt
// ceiling and a wait-interval function, and may be shared across calls.
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Strategy describes how an operation is retried: how many attempts are made
// in total and how long to wait before each retry.
type Strategy struct {
	// MaxAttempts is the total number of attempts, including the first.
	MaxAttempts int

	// Interval returns the wait before retry number n (1-based).
	Interval func(n int) time.Duration
}

// Fixed returns a strategy with a constant delay between attempts.
func Fixed(maxAttempts int, delay time.Duration) Strategy {
	return Strategy{
		MaxAttempts: maxAttempts,
		Interval:    func(int) time.Duration { return delay },
	}
}

// Exponential returns a strategy whose delay doubles each retry, starting at
// initial and capped at maxDelay.
func Exponential(maxAttempts int, initial, maxDelay time.Duration) Strategy {
	return Strategy{
		MaxAttempts: maxAttempts,
		Interval: func(n int) time.Duration {
			d := initial
			for i := 1; i < n; i++ {
				d *= 2
				if d > maxDelay {
					return maxDelay
				}
			}
			if d > maxDelay {
				return maxDelay
			}
			return d
		},
	}
}

// None returns a strategy that makes a single attempt.
func None() Strategy {
	return Strategy{MaxAttempts: 1, Interval: func(int) time.Duration { return 0 }}
}

// Do executes the operation under the given strategy. Cancellation is honored
// at the top of every retry iteration, so a blocked backoff never outlives
// its context. Errors wrapped with Fatal are not retried.
func Do(ctx context.Context, s Strategy, operation func() error) error {
	if s.MaxAttempts < 1 {
		s.MaxAttempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= s.MaxAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return fmt.Errorf("cancelled after %d attempts: %w", attempt-1, ctx.Err())
			case <-time.After(s.Interval(attempt - 1)):
			}
		}

		err := operation()
		if err == nil {
			return nil
		}
		lastErr = err

		if IsFatal(err) {
			return fmt.Errorf("fatal error (not retrying): %w", err)
		}
	}

	return fmt.Errorf("operation failed after %d attempts: %w", s.MaxAttempts, lastErr)
}

// FatalError wraps an error to mark it as fatal (non-retryable).
type FatalError struct {
	Err error
}

func (e *FatalError) Error() string {
	return e.Err.Error()
}

func (e *FatalError) Unwrap() error {
	return e.Err
}

// Fatal marks an error as fatal (non-retryable).
// Operations that encounter fatal errors will not be retried.
func Fatal(err error) error {
	if err == nil {
		return nil
	}
	return &FatalError{Err: err}
}

// IsFatal checks if an error is fatal (non-retryable).
func IsFatal(err error) bool {
	var fatalErr *FatalError
	return errors.As(err, &fatalErr)
}
