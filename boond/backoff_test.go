// ABOUTME: Tests for the retry backoff computation
// ABOUTME: Checks bounds and degenerate inputs
package boond

import (
	"testing"
	"time"
)

func TestBackoffTimeBounds(t *testing.T) {
	slot := 100 * time.Millisecond
	max := time.Second

	for attempt := 0; attempt < 12; attempt++ {
		for i := 0; i < 50; i++ {
			d := backoffTime(attempt, slot, max)
			if d < 0 {
				t.Fatalf("attempt %d: negative backoff %v", attempt, d)
			}
			if d >= max {
				t.Fatalf("attempt %d: backoff %v exceeds maximum %v", attempt, d, max)
			}
		}
	}
}

func TestBackoffTimeDegenerateInputs(t *testing.T) {
	if d := backoffTime(0, 0, time.Second); d != 0 {
		t.Errorf("zero slot should yield zero backoff, got %v", d)
	}
	if d := backoffTime(-1, time.Millisecond, time.Second); d != 0 {
		t.Errorf("negative attempt should yield zero backoff, got %v", d)
	}
	// Very large attempts must not overflow past the cap.
	if d := backoffTime(63, time.Second, time.Second); d > time.Second {
		t.Errorf("overflowing attempt should be capped, got %v", d)
	}
}
