package fetcher

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v5"
	"resty.dev/v3"
)

const (
	// Default retry configuration
	defaultRetryAttempts    = 3
	defaultRetryWaitTime    = 1 * time.Second
	defaultRetryMaxWaitTime = 10 * time.Second
	defaultRetryMultiplier  = 2.0
	defaultRequestTimeout   = 30 * time.Second
)

// RetryPolicy bounds the exponential backoff applied to retryable failures.
type RetryPolicy struct {
	// MaxAttempts is the total number of attempts, including the first one
	MaxAttempts uint
	// InitialInterval is the wait before the second attempt
	InitialInterval time.Duration
	// MaxInterval caps any single wait
	MaxInterval time.Duration
	// Multiplier grows the wait between consecutive attempts
	Multiplier float64
	// RandomizationFactor adds jitter; zero disables it
	RandomizationFactor float64
}

// DefaultRetryPolicy returns three attempts with 1s, 2s waits capped at 10s
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:         defaultRetryAttempts,
		InitialInterval:     defaultRetryWaitTime,
		MaxInterval:         defaultRetryMaxWaitTime,
		Multiplier:          defaultRetryMultiplier,
		RandomizationFactor: backoff.DefaultRandomizationFactor,
	}
}

func (p RetryPolicy) backOff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	if p.InitialInterval > 0 {
		b.InitialInterval = p.InitialInterval
	}
	if p.MaxInterval > 0 {
		b.MaxInterval = p.MaxInterval
	}
	if p.Multiplier >= 1 {
		b.Multiplier = p.Multiplier
	}
	b.RandomizationFactor = p.RandomizationFactor
	return b
}

// NewHTTPClient creates a new HTTP client for a JSON API.
// Retries are driven by Retry rather than by resty so that only
// rate-limited requests are repeated.
func NewHTTPClient(baseURL string, timeout time.Duration) *resty.Client {
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}

	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")

	return client
}

// Retry runs op until it succeeds, returns an error that is not retryable,
// or the policy's attempt budget is spent. The last error is returned unchanged.
func Retry[T any](ctx context.Context, policy RetryPolicy, op func() (T, error)) (T, error) {
	attempts := policy.MaxAttempts
	if attempts == 0 {
		attempts = 1
	}

	attempt := 0
	operation := func() (T, error) {
		attempt++
		res, err := op()
		if err != nil && !IsRetryable(err) {
			return res, backoff.Permanent(err)
		}
		return res, err
	}

	res, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(policy.backOff()),
		backoff.WithMaxTries(attempts),
		backoff.WithMaxElapsedTime(0),
		backoff.WithNotify(func(err error, wait time.Duration) {
			retryHook(attempt, wait, err)
		}),
	)
	if err != nil {
		var permanent *backoff.PermanentError
		if errors.As(err, &permanent) {
			err = permanent.Err
		}
		return res, err
	}

	return res, nil
}

// retryHook logs retry attempts for observability
func retryHook(attempt int, wait time.Duration, err error) {
	var fe *FetchError
	if errors.As(err, &fe) && fe.StatusCode > 0 {
		slog.Debug("retrying request due to status code",
			"attempt", attempt,
			"wait", wait,
			"status_code", fe.StatusCode)
		return
	}

	slog.Debug("retrying request due to error",
		"attempt", attempt,
		"wait", wait,
		"error", err.Error())
}
