package utils

import (
	"context"
	"math/rand/v2"
	"time"
)

// CalculateExponentialBackoffWithJitter computes a jittered exponential backoff delay.
// - count: Retry attempt number (1-based, e.g., 1 for first retry)
// - base: Base delay (e.g., 20 * time.Millisecond)
// - max: Maximum allowable delay
// The delay is base * 2^(count-1) with +/-12.5% jitter, capped at max.
func CalculateExponentialBackoffWithJitter(count int, base, max time.Duration) time.Duration {
	if count <= 0 || base <= 0 {
		return 0
	}
	delay := base
	for i := 1; i < count && delay < max; i++ {
		delay *= 2
	}
	if jitterRange := int64(delay / 4); jitterRange > 0 {
		delay += time.Duration(rand.Int64N(jitterRange)) - delay/8
	}
	if max > 0 && delay > max {
		delay = max
	}
	return delay
}

// Retry calls fn until it succeeds, returns an error retryable rejects, or
// maxRetries retries have been spent. It waits between attempts using
// CalculateExponentialBackoffWithJitter and gives up early when ctx is done,
// returning the last error from fn.
func Retry(
	ctx context.Context,
	maxRetries int,
	base, max time.Duration,
	retryable func(error) bool,
	fn func() error,
) error {
	var err error
	for attempt := 0; ; attempt++ {
		if err = fn(); err == nil || attempt >= maxRetries || !retryable(err) {
			return err
		}
		timer := time.NewTimer(CalculateExponentialBackoffWithJitter(attempt+1, base, max))
		select {
		case <-ctx.Done():
			timer.Stop()
			return err
		case <-timer.C:
		}
	}
}
