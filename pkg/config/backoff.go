package config

import (
	"context"
	"math/rand"
	"time"
)

// Backoff spaces out connection attempts to the cache backend.
type Backoff struct {
	Base   time.Duration
	Max    time.Duration
	Factor float64
	Jitter float64 // 0.0 to 1.0
}

// DefaultBackoff starts at 100ms and doubles up to 2s with 20% jitter.
func DefaultBackoff() Backoff {
	return Backoff{
		Base:   100 * time.Millisecond,
		Max:    2 * time.Second,
		Factor: 2.0,
		Jitter: 0.2,
	}
}

// Next returns the wait before retry number attempt (0-based).
func (b Backoff) Next(attempt int) time.Duration {
	delay := float64(b.Base)
	for i := 0; i < attempt; i++ {
		delay *= b.Factor
		if delay > float64(b.Max) {
			break
		}
	}
	delay = min(delay, float64(b.Max))

	if b.Jitter > 0 {
		delay += delay * (rand.Float64()*2 - 1) * b.Jitter
	}
	return time.Duration(max(delay, 0))
}

// retry calls fn up to attempts times, sleeping b.Next between failures.
// It returns the last error, or ctx's error if ctx ends while waiting.
func retry(ctx context.Context, b Backoff, attempts int, fn func(context.Context) error) error {
	var err error
	for i := 0; i < max(attempts, 1); i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(b.Next(i - 1)):
			}
		}
		if err = fn(ctx); err == nil {
			return nil
		}
	}
	return err
}
