package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bnema/selfcord/internal/domain"
	"github.com/cenkalti/backoff/v5"
)

const (
	DefaultRateLimitCeiling = 180 * time.Second
	DefaultRateLimitPadding = 100 * time.Millisecond
)

// RetryPolicy controls WaitIfRateLimited. Waits longer than Ceiling abort.
type RetryPolicy struct {
	Ceiling time.Duration
	Padding time.Duration
	Logger  *slog.Logger
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		Ceiling: DefaultRateLimitCeiling,
		Padding: DefaultRateLimitPadding,
		Logger:  slog.Default(),
	}
}

// WaitIfRateLimited runs op and, while it fails with an upstream rate limit,
// sleeps retry_after plus padding and runs it again. Any other error is
// returned as-is on the first occurrence.
func WaitIfRateLimited[T any](ctx context.Context, policy RetryPolicy, op func(context.Context) (T, error)) (T, error) {
	if policy.Ceiling <= 0 {
		policy.Ceiling = DefaultRateLimitCeiling
	}
	if policy.Padding <= 0 {
		policy.Padding = DefaultRateLimitPadding
	}
	if policy.Logger == nil {
		policy.Logger = slog.Default()
	}

	operation := func() (T, error) {
		result, err := op(ctx)
		if err == nil {
			return result, nil
		}

		var upstream *domain.UpstreamError
		if !errors.As(err, &upstream) || !upstream.RateLimited() {
			return result, backoff.Permanent(err)
		}

		retryAfter := time.Duration(upstream.RetryAfter * float64(time.Second))
		if retryAfter > policy.Ceiling {
			return result, backoff.Permanent(&domain.RateLimitTooHighError{
				RetryAfter: upstream.RetryAfter,
				Ceiling:    policy.Ceiling.Seconds(),
			})
		}

		return result, fmt.Errorf("%w: %w", &backoff.RetryAfterError{Duration: retryAfter + policy.Padding}, err)
	}

	return backoff.Retry(ctx, operation,
		backoff.WithMaxElapsedTime(0),
		backoff.WithNotify(func(err error, wait time.Duration) {
			policy.Logger.Info("rate limited, backing off", "wait", wait, "error", err)
		}),
	)
}
