package wizard

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoToStep(t *testing.T) {
	w := New(CreateEmail, 4)
	assert.Equal(t, CreateEmail, w.Current())

	require.NoError(t, w.GoToStep(context.Background(), CreateOAuth))
	assert.Equal(t, CreateOAuth, w.Current())

	select {
	case tr := <-w.Changes():
		assert.Equal(t, Transition{From: CreateEmail, To: CreateOAuth}, tr)
	default:
		t.Fatal("transition not published")
	}
}

func TestGoToStepSameStepIsNoop(t *testing.T) {
	w := New(CreateOAuth, 4)

	ctx, cancel := w.Enter(context.Background(), CreateOAuth)
	defer cancel()

	require.NoError(t, w.GoToStep(context.Background(), CreateOAuth))

	assert.NoError(t, ctx.Err())
	assert.Empty(t, w.Changes())
}

func TestEnterCancelledOnLeave(t *testing.T) {
	w := New(ProcessExternalPayment, 4)

	ctx, cancel := w.Enter(context.Background(), ProcessExternalPayment)
	defer cancel()
	require.NoError(t, ctx.Err())

	require.NoError(t, w.GoToStep(context.Background(), ProcessSuccess))
	assert.ErrorIs(t, ctx.Err(), context.Canceled)

	// Re-entering a step registers a fresh context
	require.NoError(t, w.GoToStep(context.Background(), ProcessExternalPayment))
	again, cancelAgain := w.Enter(context.Background(), ProcessExternalPayment)
	defer cancelAgain()
	assert.NoError(t, again.Err())
}

func TestEnterOtherStepIsCancelled(t *testing.T) {
	w := New(CreateEmail, 0)

	ctx, cancel := w.Enter(context.Background(), CreateOAuth)
	defer cancel()
	assert.ErrorIs(t, ctx.Err(), context.Canceled)
}

func TestEnterFollowsParent(t *testing.T) {
	w := New(CreateOAuth, 0)
	parent, cancelParent := context.WithCancel(context.Background())

	ctx, cancel := w.Enter(parent, CreateOAuth)
	defer cancel()

	cancelParent()
	assert.ErrorIs(t, ctx.Err(), context.Canceled)
	assert.Equal(t, CreateOAuth, w.Current())
}

func TestChangesDropsWhenFull(t *testing.T) {
	w := New(ProcessExternalPayment, 1)

	require.NoError(t, w.GoToStep(context.Background(), ProcessEmail))
	require.NoError(t, w.GoToStep(context.Background(), ProcessExternalPayment))

	assert.Len(t, w.Changes(), 1)
	assert.Equal(t, ProcessExternalPayment, w.Current())
}

func TestEnterCancelReleasesRegistration(t *testing.T) {
	w := New(CreateOAuth, 4)

	ctx, cancel := w.Enter(context.Background(), CreateOAuth)
	other, cancelOther := w.Enter(context.Background(), CreateOAuth)
	defer cancelOther()
	require.Len(t, w.exits[CreateOAuth], 2)

	cancel()
	assert.ErrorIs(t, ctx.Err(), context.Canceled)
	assert.Len(t, w.exits[CreateOAuth], 1)
	assert.NoError(t, other.Err())

	cancelOther()
	assert.NotContains(t, w.exits, CreateOAuth)

	// Cancelling after the wizard moved on is harmless
	_, late := w.Enter(context.Background(), CreateOAuth)
	require.NoError(t, w.GoToStep(context.Background(), CreateConfirm))
	late()
	assert.Empty(t, w.exits)
}
