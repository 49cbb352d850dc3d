package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// Config parameterizes the retry decorator.
type Config struct {
	// MaxAttempts is the total number of tries including the first one.
	MaxAttempts uint

	// BaseDelay is the initial backoff interval; subsequent delays grow
	// exponentially with jitter.
	BaseDelay time.Duration
}

// DefaultConfig returns the retry parameters used for Gmail API calls.
func DefaultConfig() Config {
	return Config{
		MaxAttempts: 4,
		BaseDelay:   time.Second,
	}
}

// Do runs op with bounded exponential backoff. It returns the first
// successful result, or the last error once attempts are exhausted, the
// context is cancelled, or op returns a permanent error.
func Do[T any](ctx context.Context, cfg Config, op func() (T, error)) (T, error) {
	b := backoff.NewExponentialBackOff()
	if cfg.BaseDelay > 0 {
		b.InitialInterval = cfg.BaseDelay
	}

	return backoff.Retry(ctx, backoff.Operation[T](op),
		backoff.WithBackOff(b),
		backoff.WithMaxTries(cfg.MaxAttempts))
}

// Permanent wraps err so Do stops retrying immediately.
func Permanent(err error) error {
	return backoff.Permanent(err)
}
