package util

import (
	"context"
	"time"
)

// Retry runs fn up to attempts times, doubling the delay between failures
// starting at baseDelay. The first nil result wins; otherwise the last
// error is returned. Cancelling the context aborts the wait between
// attempts. onRetry, when non-nil, observes each failed attempt before the
// backoff sleep.
func Retry(ctx context.Context, attempts int, baseDelay time.Duration, fn func() error, onRetry func(attempt int, err error)) error {
	var err error
	delay := baseDelay

	for attempt := 1; attempt <= attempts; attempt++ {
		if err = fn(); err == nil {
			return nil
		}
		if attempt == attempts {
			break
		}
		if onRetry != nil {
			onRetry(attempt, err)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}

	return err
}
