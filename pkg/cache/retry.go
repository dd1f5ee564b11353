package cache

import (
	"context"
	"errors"
	"time"
)

// ErrNetwork marks a backend that could not be reached.
var ErrNetwork = errors.New("cache backend unreachable")

// transient marks an error that may clear up on another attempt.
type transient struct{ err error }

func (t transient) Error() string { return t.err.Error() }
func (t transient) Unwrap() error { return t.err }

// Retryable marks err as transient. A nil error stays nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return transient{err}
}

// IsRetryable reports whether err, or an error it wraps, was marked by
// [Retryable].
func IsRetryable(err error) bool {
	var t transient
	return errors.As(err, &t)
}

// Backoff is a retry schedule. Delay doubles after every failed attempt.
type Backoff struct {
	Attempts int
	Delay    time.Duration
}

// WriteBackoff is the schedule [RetryWithBackoff] uses for cache writes.
var WriteBackoff = Backoff{Attempts: 3, Delay: 100 * time.Millisecond}

// Do calls fn until it succeeds, fails with an error not marked by
// [Retryable], or runs out of attempts. The last error is returned.
func (b Backoff) Do(ctx context.Context, fn func() error) error {
	delay := b.Delay
	for attempt := 1; ; attempt++ {
		err := fn()
		if err == nil || !IsRetryable(err) || attempt >= b.Attempts {
			return err
		}
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		delay *= 2
	}
}

// RetryWithBackoff runs fn on the [WriteBackoff] schedule.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	return WriteBackoff.Do(ctx, fn)
}
