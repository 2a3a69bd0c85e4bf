// ABOUTME: Exponential backoff with jitter for API retries
// ABOUTME: Computes randomized wait times bounded by a configurable maximum
package boond

import (
	"context"
	"math/rand"
	"time"
)

// backoffTime returns a random duration in [0, slot * 2^attempt), capped at
// maximum. attempt is zero-based: the first retry draws from [0, 2*slot).
func backoffTime(attempt int, slot, maximum time.Duration) time.Duration {
	if slot <= 0 || attempt < 0 {
		return 0
	}
	if attempt > 20 {
		return maximum
	}
	window := slot << uint(attempt+1)
	if window <= 0 || window > maximum {
		window = maximum
	}
	if window <= 0 {
		return 0
	}
	return time.Duration(rand.Int63n(int64(window)))
}

// sleepBackoff waits the backoff duration or until the context is cancelled.
func sleepBackoff(ctx context.Context, attempt int, slot, maximum time.Duration) error {
	d := backoffTime(attempt, slot, maximum)
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
