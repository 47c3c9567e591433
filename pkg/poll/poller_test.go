package poll

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"swapwizard/pkg/logging"
)

func TestPollerStopsWhenCheckReportsDone(t *testing.T) {
	var calls atomic.Int32
	p := New(func(ctx context.Context) (bool, error) {
		return calls.Add(1) == 3, nil
	}, time.Millisecond, WithLogger(logging.Discard()))

	run, err := p.Start(context.Background())
	require.NoError(t, err)
	require.NoError(t, run.Wait())

	assert.Equal(t, int32(3), calls.Load())
	assert.False(t, p.Running())
}

func TestPollerFirstCheckIsImmediate(t *testing.T) {
	checked := make(chan struct{}, 1)
	p := New(func(ctx context.Context) (bool, error) {
		checked <- struct{}{}
		return true, nil
	}, time.Hour, WithLogger(logging.Discard()))

	run, err := p.Start(context.Background())
	require.NoError(t, err)

	select {
	case <-checked:
	case <-time.After(time.Second):
		t.Fatal("first check did not run immediately")
	}
	require.NoError(t, run.Wait())
}

func TestPollerTicksNeverOverlap(t *testing.T) {
	var (
		inFlight atomic.Int32
		maxSeen  atomic.Int32
		calls    atomic.Int32
	)
	p := New(func(ctx context.Context) (bool, error) {
		n := inFlight.Add(1)
		defer inFlight.Add(-1)
		if n > maxSeen.Load() {
			maxSeen.Store(n)
		}
		// Slower than the interval
		time.Sleep(15 * time.Millisecond)
		return calls.Add(1) == 5, nil
	}, time.Millisecond, WithLogger(logging.Discard()))

	run, err := p.Start(context.Background())
	require.NoError(t, err)
	require.NoError(t, run.Wait())

	assert.Equal(t, int32(1), maxSeen.Load())
	assert.Equal(t, int32(5), calls.Load())
}

func TestPollerErrorsDoNotStopPolling(t *testing.T) {
	var (
		mu       sync.Mutex
		attempts []int
		calls    atomic.Int32
	)
	boom := errors.New("boom")

	p := New(func(ctx context.Context) (bool, error) {
		if calls.Add(1) < 3 {
			return false, boom
		}
		return true, nil
	}, time.Millisecond, WithErrorHandler(func(attempt int, err error) {
		mu.Lock()
		defer mu.Unlock()
		assert.ErrorIs(t, err, boom)
		attempts = append(attempts, attempt)
	}))

	run, err := p.Start(context.Background())
	require.NoError(t, err)
	require.NoError(t, run.Wait())

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []int{1, 2}, attempts)
}

func TestPollerMaxAttempts(t *testing.T) {
	var calls atomic.Int32
	p := New(func(ctx context.Context) (bool, error) {
		calls.Add(1)
		return false, nil
	}, time.Millisecond, WithMaxAttempts(4), WithLogger(logging.Discard()))

	run, err := p.Start(context.Background())
	require.NoError(t, err)

	assert.ErrorIs(t, run.Wait(), ErrAttemptsExhausted)
	assert.Equal(t, int32(4), calls.Load())
}

func TestPollerTimeout(t *testing.T) {
	p := New(func(ctx context.Context) (bool, error) {
		return false, nil
	}, 5*time.Millisecond, WithTimeout(30*time.Millisecond), WithLogger(logging.Discard()))

	run, err := p.Start(context.Background())
	require.NoError(t, err)

	assert.ErrorIs(t, run.Wait(), ErrTimeout)
}

func TestPollerStop(t *testing.T) {
	p := New(func(ctx context.Context) (bool, error) {
		return false, nil
	}, time.Hour, WithLogger(logging.Discard()))

	run, err := p.Start(context.Background())
	require.NoError(t, err)
	assert.True(t, p.Running())
	assert.NoError(t, run.Err())

	run.Stop()
	run.Stop()

	assert.ErrorIs(t, run.Wait(), ErrStopped)
	assert.False(t, p.Running())
}

func TestPollerParentCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	started := make(chan struct{})

	p := New(func(ctx context.Context) (bool, error) {
		close(started)
		<-ctx.Done()
		// Reported done, but after cancellation: must be discarded
		return true, nil
	}, time.Millisecond, WithLogger(logging.Discard()))

	run, err := p.Start(ctx)
	require.NoError(t, err)

	<-started
	cancel()

	select {
	case <-run.Done():
	case <-time.After(time.Second):
		t.Fatal("run did not end after cancellation")
	}
	assert.ErrorIs(t, run.Err(), ErrStopped)
}

func TestPollerAlreadyRunning(t *testing.T) {
	p := New(func(ctx context.Context) (bool, error) {
		return false, nil
	}, time.Hour, WithLogger(logging.Discard()))

	run, err := p.Start(context.Background())
	require.NoError(t, err)

	_, err = p.Start(context.Background())
	assert.ErrorIs(t, err, ErrAlreadyRunning)

	run.Stop()
	_ = run.Wait()

	// A finished poller can be started again
	again, err := p.Start(context.Background())
	require.NoError(t, err)
	assert.NotEqual(t, run.ID, again.ID)
	again.Stop()
	assert.ErrorIs(t, again.Wait(), ErrStopped)
}
