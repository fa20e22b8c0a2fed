package retry

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

type Policy struct {
	MaxAttempts int
	Delay       time.Duration
	Backoff     bool // Linear backoff: attempt * Delay
	Logger      *slog.Logger
}

// Do calls fn until it succeeds, the attempts run out or ctx is done.
// A MaxAttempts below one is treated as a single attempt.
func Do(ctx context.Context, policy Policy, fn func(ctx context.Context) error) error {
	attempts := policy.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	log := policy.Logger
	if log == nil {
		log = slog.Default()
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
		if attempt == attempts {
			break
		}

		delay := policy.Delay
		if policy.Backoff {
			delay = time.Duration(attempt) * policy.Delay
		}
		log.Warn("attempt failed, retrying", "attempt", attempt, "of", attempts, "delay", delay, "error", lastErr)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
	return fmt.Errorf("failed after %d attempts: %w", attempts, lastErr)
}
