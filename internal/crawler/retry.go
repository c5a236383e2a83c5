package crawler

import (
	"context"
	"fmt"
	"time"
)

// RetryPolicy bounds the retry behavior of navigation and wait steps.
// Transient failures get a second chance; the failure taxonomy is
// unchanged because the last error is what gets classified.
type RetryPolicy struct {
	Attempts int
	Backoff  time.Duration
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{Attempts: 3, Backoff: 2 * time.Second}
}

// Do runs fn up to r.Attempts times, sleeping a linearly growing backoff
// between attempts. Context cancellation aborts the wait.
func (r RetryPolicy) Do(ctx context.Context, fn func() error) error {
	attempts := r.Attempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for i := 0; i < attempts; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(i) * r.Backoff):
			}
		}
		if lastErr = fn(); lastErr == nil {
			return nil
		}
	}
	return fmt.Errorf("failed after %d attempts: %w", attempts, lastErr)
}
