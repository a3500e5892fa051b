package retry_test

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/rpg-sheet/internal/errors"
	"github.com/KirkDiggler/rpg-sheet/internal/storage/retry"
)

var errFlaky = stderrors.New("connection reset")

func TestDoRecoversFromTransientFailures(t *testing.T) {
	calls := 0
	policy := retry.Policy{Attempts: 3, Backoff: time.Millisecond}

	err := policy.Do(context.Background(), func(context.Context) error {
		calls++
		if calls < 3 {
			return errFlaky
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDoExhaustsAttempts(t *testing.T) {
	calls := 0
	policy := retry.Policy{Attempts: 2, Backoff: time.Millisecond}

	err := policy.Do(context.Background(), func(context.Context) error {
		calls++
		return errFlaky
	})

	require.Error(t, err)
	assert.Equal(t, 2, calls)
	assert.True(t, errors.IsUnavailable(err))
	assert.True(t, errors.HasReason(err, errors.ReasonStoreWriteFailure))
	assert.Equal(t, 2, errors.GetMeta(err)["attempts"])
	assert.ErrorIs(t, err, errFlaky)
}

func TestDoStopsOnPermanentErrors(t *testing.T) {
	calls := 0
	policy := retry.Policy{Attempts: 5, Backoff: time.Millisecond}

	err := policy.Do(context.Background(), func(context.Context) error {
		calls++
		return errors.InvalidArgument("bad record")
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.True(t, errors.IsInvalidArgument(err))
	assert.False(t, errors.HasReason(err, errors.ReasonStoreWriteFailure))
}

func TestDoHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := retry.Policy{Attempts: 5, Backoff: time.Millisecond}.Do(ctx, func(context.Context) error {
		return errFlaky
	})

	require.Error(t, err)
	assert.True(t, errors.IsCanceled(err))
}

func TestDoDefaults(t *testing.T) {
	calls := 0
	err := retry.Policy{}.Do(context.Background(), func(context.Context) error {
		calls++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestTransient(t *testing.T) {
	assert.True(t, retry.Transient(errFlaky))
	assert.True(t, retry.Transient(errors.New(errors.CodeUnavailable, "down")))
	assert.False(t, retry.Transient(errors.NotFound("gone")))
	assert.False(t, retry.Transient(errors.FailedPrecondition("nope")))
}
