package cache

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrCacheMiss reports a lookup that found nothing.
	ErrCacheMiss = errors.New("cache miss")

	// ErrUnavailable reports a remote backend that cannot be reached.
	ErrUnavailable = errors.New("cache backend unavailable")
)

// transientError marks a failure worth another attempt.
type transientError struct{ err error }

func (e *transientError) Error() string { return e.err.Error() }
func (e *transientError) Unwrap() error { return e.err }

// Retryable marks err as transient. A nil err stays nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &transientError{err: err}
}

// IsRetryable reports whether err was marked by Retryable.
func IsRetryable(err error) bool {
	var te *transientError
	return errors.As(err, &te)
}

// Backoff describes a retry schedule: Attempts calls in total, the first
// pause Initial long and every later pause twice the previous one.
type Backoff struct {
	Attempts int
	Initial  time.Duration
}

// DefaultBackoff is the schedule used when connecting to Redis.
var DefaultBackoff = Backoff{Attempts: 3, Initial: 200 * time.Millisecond}

// Retry calls fn until it succeeds, fails with an error not marked by
// Retryable, runs out of attempts or ctx ends. The last error is returned.
func (b Backoff) Retry(ctx context.Context, fn func() error) error {
	attempts := max(b.Attempts, 1)
	pause := b.Initial
	var err error
	for i := range attempts {
		if err = fn(); err == nil || !IsRetryable(err) {
			return err
		}
		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(pause):
			pause *= 2
		}
	}
	return err
}

// RetryWithBackoff retries fn on the DefaultBackoff schedule.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	return DefaultBackoff.Retry(ctx, fn)
}
