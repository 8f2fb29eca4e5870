package llm

import (
	"context"
	"errors"
	"math"
	"time"
)

// WithRetry retries fn up to maxRetries times with exponential backoff
// (base 200ms, doubling), returning the last error if all attempts fail.
// Retry budgets are per provider call, per spec.md §4.2.
func WithRetry(ctx context.Context, maxRetries int, fn func(ctx context.Context) error) error {
	var lastErr error
	attempts := maxRetries + 1
	for attempt := 0; attempt < attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
		if attempt == attempts-1 {
			break
		}
		backoff := time.Duration(200*math.Pow(2, float64(attempt))) * time.Millisecond
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return lastErr
}

// ErrBackendUnavailable is returned by a provider probe when its runtime is
// not present on the host (e.g. the macOS MLX subprocess backend).
var ErrBackendUnavailable = errors.New("llm backend unavailable")
