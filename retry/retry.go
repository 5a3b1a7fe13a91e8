package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/pkg/errors"
)

const (
	DefaultInitialInterval = 500 * time.Millisecond
	DefaultMaxInterval     = 10 * time.Second
	DefaultMaxAttempts     = 10
)

// Operation is retried until it returns nil, a permanent error, or the budget is spent.
type Operation func() error

// Config is an exponential backoff policy with a cap.
//
// Fields:
// - InitialInterval: the first delay.
// - MaxInterval: the cap applied to each delay.
// - MaxElapsedTime: the total time budget, 0 means unlimited.
// - MaxAttempts: the maximum number of calls, 0 means DefaultMaxAttempts.
// - OnRetry: called after each failure with the next delay.
type Config struct {
	InitialInterval time.Duration
	MaxInterval     time.Duration
	MaxElapsedTime  time.Duration
	MaxAttempts     uint64
	OnRetry         func(error, time.Duration)
}

// Permanent marks err as not worth retrying.
func Permanent(err error) error {
	return backoff.Permanent(err)
}

// Exponential runs fn with exponential backoff until it succeeds.
// The last error is returned once the budget is exhausted or ctx is done.
func Exponential(ctx context.Context, fn Operation, cfg Config) error {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = DefaultInitialInterval
	if cfg.InitialInterval > 0 {
		bo.InitialInterval = cfg.InitialInterval
	}
	bo.MaxInterval = DefaultMaxInterval
	if cfg.MaxInterval > 0 {
		bo.MaxInterval = cfg.MaxInterval
	}
	bo.MaxElapsedTime = cfg.MaxElapsedTime

	attempts := cfg.MaxAttempts
	if attempts == 0 {
		attempts = DefaultMaxAttempts
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(bo, attempts-1), ctx)

	err := backoff.RetryNotify(backoff.Operation(fn), policy, func(err error, next time.Duration) {
		if cfg.OnRetry != nil {
			cfg.OnRetry(err, next)
		}
	})
	if err != nil && ctx.Err() != nil {
		return errors.Wrap(ctx.Err(), err.Error())
	}
	return err
}
