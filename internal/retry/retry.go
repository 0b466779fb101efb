// Package retry runs an operation with exponential backoff.
package retry

import (
	"context"
	"log/slog"
	"math/rand"
	"time"

	"github.com/m-mizutani/goerr/v2"
)

// Config controls retry behaviour. Retryable decides whether an error is
// worth another attempt; nil retries every error.
type Config struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
	Timeout    time.Duration
	Retryable  func(error) bool
}

// WithRetry calls operation until it succeeds, returns a non-retryable error,
// the retry budget is spent or ctx is done. Each attempt gets its own timeout
// when Config.Timeout is set.
func WithRetry[T any](ctx context.Context, config Config, operation func(context.Context) (T, error)) (T, error) {
	var zero T
	for attempt := 0; attempt <= config.MaxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		default:
		}

		opCtx, cancel := ctx, context.CancelFunc(func() {})
		if config.Timeout > 0 {
			opCtx, cancel = context.WithTimeout(ctx, config.Timeout)
		}
		result, err := operation(opCtx)
		cancel()

		if err == nil {
			return result, nil
		}

		slog.Debug("operation failed", "attempt", attempt+1, "error", err)

		if config.Retryable != nil && !config.Retryable(err) {
			return zero, err
		}

		if attempt < config.MaxRetries {
			delay := calculateBackoffDelay(attempt, config.BaseDelay, config.MaxDelay)
			slog.Debug("retrying after delay", "delay", delay, "next_attempt", attempt+2)

			select {
			case <-ctx.Done():
				return zero, ctx.Err()
			case <-time.After(delay):
				continue
			}
		}
		return zero, goerr.Wrap(err, "operation failed after retries", goerr.V("attempts", config.MaxRetries+1))
	}
	return zero, goerr.New("unexpected: exceeded retry loop")
}

func calculateBackoffDelay(attempt int, baseDelay, maxDelay time.Duration) time.Duration {
	// 2^30 is the largest shift that cannot overflow
	safeAttempt := min(attempt, 30)
	multiplier := 1 << safeAttempt
	delay := time.Duration(multiplier) * baseDelay

	if delay > maxDelay || delay < 0 {
		delay = maxDelay
	}

	// jitter between 0.5x and 1.5x
	jitter := 0.5 + rand.Float64()
	delay = time.Duration(float64(delay) * jitter)

	if delay > maxDelay {
		delay = maxDelay
	}

	return delay
}
