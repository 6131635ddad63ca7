package cache

import (
	"context"
	"errors"
	"time"
)

// ErrNetwork marks a transport failure talking to a remote backend.
var ErrNetwork = errors.New("network error")

// RetryableError marks an error worth retrying.
type RetryableError struct{ Err error }

// Retryable wraps err. Retryable(nil) is nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// IsRetryable reports whether err carries a RetryableError.
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// retryDelay is the first backoff interval. Tests shorten it.
var retryDelay = 100 * time.Millisecond

// RetryWithBackoff calls fn up to three times, doubling the delay between
// attempts. Only retryable errors trigger another attempt.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	const attempts = 3
	delay := retryDelay
	var last error

	for i := range attempts {
		err := fn()
		if err == nil {
			return nil
		}
		if last = err; !IsRetryable(err) {
			return err
		}
		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
			delay *= 2
		}
	}
	return last
}

// netErr wraps a backend transport failure.
func netErr(op string, err error) error {
	return Retryable(&opError{op: op, err: err})
}

type opError struct {
	op  string
	err error
}

func (e *opError) Error() string { return e.op + ": " + ErrNetwork.Error() + ": " + e.err.Error() }

func (e *opError) Unwrap() []error { return []error{ErrNetwork, e.err} }
