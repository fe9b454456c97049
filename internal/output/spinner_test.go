package output

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noTTY() bool { return false }

func TestRunWithSpinner_NoTTYRunsAction(t *testing.T) {
	called := false
	err := RunWithSpinner(context.Background(), func(context.Context) error {
		called = true
		return nil
	}, withTTY(noTTY), WithTitle("baking"))

	require.NoError(t, err)
	assert.True(t, called)
}

func TestRunWithSpinner_PropagatesError(t *testing.T) {
	want := errors.New("boom")
	err := RunWithSpinner(context.Background(), func(context.Context) error {
		return want
	}, withTTY(noTTY))

	assert.ErrorIs(t, err, want)
}

func TestRunWithSpinner_TimeoutCancelsContext(t *testing.T) {
	err := RunWithSpinner(context.Background(), func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}, withTTY(noTTY), WithTimeout(10*time.Millisecond))

	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
