// Package poll runs a check function on a fixed delay until it reports done.
//
// Ticks never overlap: the next check is scheduled only after the previous
// one has returned. A run ends when the check reports done, when its context
// is cancelled, when Stop is called, or when an optional attempt or time
// bound is reached.
package poll

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrAlreadyRunning    = errors.New("poller is already running")
	ErrAttemptsExhausted = errors.New("polling attempts exhausted")
	ErrTimeout           = errors.New("polling timed out")
	ErrStopped           = errors.New("polling stopped")
)

// CheckFunc is invoked on every tick. Returning true stops polling.
type CheckFunc func(ctx context.Context) (done bool, err error)

// ErrorHandler receives errors returned by the check. Polling continues afterwards.
type ErrorHandler func(attempt int, err error)

// Poller schedules a CheckFunc with a fixed delay between ticks
type Poller struct {
	check       CheckFunc
	interval    time.Duration
	maxAttempts int
	timeout     time.Duration
	onError     ErrorHandler
	logger      logrus.FieldLogger
	name        string

	mu      sync.Mutex
	current *Run
}

// Option configures a Poller
type Option func(*Poller)

// WithMaxAttempts bounds the number of checks. Zero means unbounded.
func WithMaxAttempts(n int) Option {
	return func(p *Poller) { p.maxAttempts = n }
}

// WithTimeout bounds the wall-clock duration of a run. Zero means unbounded.
func WithTimeout(d time.Duration) Option {
	return func(p *Poller) { p.timeout = d }
}

// WithErrorHandler replaces the default handler, which logs a warning
func WithErrorHandler(h ErrorHandler) Option {
	return func(p *Poller) { p.onError = h }
}

// WithLogger sets the logger used for diagnostics
func WithLogger(l logrus.FieldLogger) Option {
	return func(p *Poller) { p.logger = l }
}

// WithName labels log lines of this poller
func WithName(name string) Option {
	return func(p *Poller) { p.name = name }
}

// New creates a poller. It does nothing until Start is called.
func New(check CheckFunc, interval time.Duration, opts ...Option) *Poller {
	p := &Poller{
		check:    check,
		interval: interval,
		logger:   logrus.StandardLogger(),
		name:     "poll",
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.onError == nil {
		p.onError = func(attempt int, err error) {
			p.logger.WithFields(logrus.Fields{
				"poller":  p.name,
				"attempt": attempt,
			}).WithError(err).Warn("check failed, will retry")
		}
	}
	return p
}

// Start launches a run bound to ctx. Cancelling ctx cancels the pending timer
// and the context of an in-flight check.
func (p *Poller) Start(ctx context.Context) (*Run, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.current != nil && !p.current.finished() {
		return nil, ErrAlreadyRunning
	}

	runCtx, cancel := context.WithCancel(ctx)
	if p.timeout > 0 {
		runCtx, cancel = withTimeout(runCtx, cancel, p.timeout)
	}

	run := &Run{
		ID:     uuid.New().String(),
		cancel: cancel,
		done:   make(chan struct{}),
	}
	p.current = run

	go p.loop(runCtx, run)

	return run, nil
}

// Running reports whether a run is active
func (p *Poller) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current != nil && !p.current.finished()
}

func withTimeout(ctx context.Context, parentCancel context.CancelFunc, d time.Duration) (context.Context, context.CancelFunc) {
	timeoutCtx, cancel := context.WithTimeoutCause(ctx, d, ErrTimeout)
	return timeoutCtx, func() {
		cancel()
		parentCancel()
	}
}

func (p *Poller) loop(ctx context.Context, run *Run) {
	log := p.logger.WithFields(logrus.Fields{"poller": p.name, "run": run.ID})
	log.Debug("polling started")

	timer := time.NewTimer(0)
	defer timer.Stop()

	attempts := 0
	for {
		select {
		case <-ctx.Done():
			run.finish(p.stopReason(ctx))
			log.WithError(run.err).Debug("polling cancelled")
			return
		case <-timer.C:
		}

		attempts++
		done, err := p.check(ctx)

		// A result that arrives after cancellation is discarded
		if ctx.Err() != nil {
			run.finish(p.stopReason(ctx))
			log.WithError(run.err).Debug("polling cancelled during check")
			return
		}

		if err != nil {
			p.onError(attempts, err)
		} else if done {
			run.finish(nil)
			log.WithField("attempts", attempts).Debug("polling finished")
			return
		}

		if p.maxAttempts > 0 && attempts >= p.maxAttempts {
			run.finish(ErrAttemptsExhausted)
			log.WithField("attempts", attempts).Debug("polling attempts exhausted")
			return
		}

		timer.Reset(p.interval)
	}
}

func (p *Poller) stopReason(ctx context.Context) error {
	if cause := context.Cause(ctx); errors.Is(cause, ErrTimeout) {
		return ErrTimeout
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return ErrTimeout
	}
	return ErrStopped
}

// Run is a single activation of a Poller
type Run struct {
	ID string

	cancel context.CancelFunc
	once   sync.Once
	done   chan struct{}
	err    error
}

// Stop cancels the run. It is safe to call more than once.
func (r *Run) Stop() {
	r.cancel()
}

// Done is closed when the run has ended
func (r *Run) Done() <-chan struct{} {
	return r.done
}

// Wait blocks until the run ends and returns its outcome: nil when the check
// reported done, ErrStopped, ErrTimeout or ErrAttemptsExhausted otherwise.
func (r *Run) Wait() error {
	<-r.done
	return r.err
}

// Err returns the outcome of a finished run, or nil while it is still active
func (r *Run) Err() error {
	select {
	case <-r.done:
		return r.err
	default:
		return nil
	}
}

func (r *Run) finish(err error) {
	r.once.Do(func() {
		r.err = err
		close(r.done)
		r.cancel()
	})
}

func (r *Run) finished() bool {
	select {
	case <-r.done:
		return true
	default:
		return false
	}
}
