package resilience

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// linearBackOff yields intervals of attempt × BaseInterval: base, 2×base,
// 3×base, ... It implements backoff.BackOff.
type linearBackOff struct {
	BaseInterval time.Duration
	attempt      int
}

// NextBackOff returns the next wait interval.
func (b *linearBackOff) NextBackOff() time.Duration {
	b.attempt++
	return time.Duration(b.attempt) * b.BaseInterval
}

// Reset restarts the attempt counter.
func (b *linearBackOff) Reset() {
	b.attempt = 0
}

// RetryLinear invokes op up to maxAttempts times, sleeping attempt × base
// between failures. It stops early when the context is cancelled or when op
// returns a backoff.Permanent error. The last error is returned when all
// attempts fail.
func RetryLinear(ctx context.Context, maxAttempts int, base time.Duration, op func() error) error {
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	bo := backoff.WithContext(
		backoff.WithMaxRetries(&linearBackOff{BaseInterval: base}, uint64(maxAttempts-1)), //nolint:gosec // maxAttempts >= 1
		ctx,
	)
	return backoff.Retry(op, bo)
}
