// Package retry re-runs store writes that fail with transient errors.
package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/KirkDiggler/rpg-sheet/internal/errors"
)

// Defaults used when a Policy field is left zero
const (
	DefaultAttempts = 3
	DefaultBackoff  = 100 * time.Millisecond
)

// Policy bounds how often and how patiently a write is retried
type Policy struct {
	Attempts int
	Backoff  time.Duration
}

// Do runs op until it succeeds, returns a non-transient error, or runs out of
// attempts. Exhausted attempts surface as a StoreWriteFailure carrying the
// last error and the number of attempts made.
func (p Policy) Do(ctx context.Context, op func(ctx context.Context) error) error {
	attempts := p.Attempts
	if attempts < 1 {
		attempts = DefaultAttempts
	}
	interval := p.Backoff
	if interval <= 0 {
		interval = DefaultBackoff
	}

	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = interval
	eb.Multiplier = 2
	eb.MaxElapsedTime = 0

	made := 0
	err := backoff.Retry(func() error {
		made++
		err := op(ctx)
		if err != nil && !Transient(err) {
			return backoff.Permanent(err)
		}
		return err
	}, backoff.WithContext(backoff.WithMaxRetries(eb, uint64(attempts-1)), ctx))

	switch {
	case err == nil:
		return nil
	case ctx.Err() != nil:
		return errors.WrapWithCode(err, errors.CodeCanceled, "write canceled")
	case !Transient(err):
		return err
	default:
		return errors.StoreWriteFailure(err, made)
	}
}

// Transient reports whether err is worth retrying. Caller mistakes and
// missing records are not.
func Transient(err error) bool {
	switch errors.GetCode(err) {
	case errors.CodeInvalidArgument,
		errors.CodeNotFound,
		errors.CodeAlreadyExists,
		errors.CodeFailedPrecondition,
		errors.CodeOutOfRange,
		errors.CodeCanceled:
		return false
	}
	return true
}
