// Package wizard holds the current step of a linear or branching flow.
package wizard

import (
	"context"
	"sync"
)

// Transition records a step change
type Transition struct {
	From Step
	To   Step
}

// Navigator is what reconciliation checks need from a wizard
type Navigator interface {
	Current() Step
	GoToStep(ctx context.Context, next Step) error
}

// Wizard is a single-writer container for the current step
type Wizard struct {
	mu      sync.RWMutex
	current Step
	exits   map[Step]map[*exit]struct{}
	changes chan Transition
}

// exit is a context to cancel when the wizard leaves a step
type exit struct {
	cancel context.CancelFunc
}

// New creates a wizard positioned on initial. Transitions are published on
// a channel with the given buffer; transitions that do not fit are dropped.
func New(initial Step, buffer int) *Wizard {
	return &Wizard{
		current: initial,
		exits:   make(map[Step]map[*exit]struct{}),
		changes: make(chan Transition, buffer),
	}
}

// Current returns the current step
func (w *Wizard) Current() Step {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.current
}

// GoToStep overwrites the current step. Moving to the step the wizard is
// already on is a no-op.
func (w *Wizard) GoToStep(_ context.Context, next Step) error {
	w.mu.Lock()
	if w.current == next {
		w.mu.Unlock()
		return nil
	}

	prev := w.current
	w.current = next
	exits := w.exits[prev]
	delete(w.exits, prev)
	w.mu.Unlock()

	for e := range exits {
		e.cancel()
	}

	select {
	case w.changes <- Transition{From: prev, To: next}:
	default:
	}
	return nil
}

// Enter returns a context that is cancelled when the wizard leaves step, or
// when parent is cancelled. If the wizard is not on step the returned context
// is already cancelled. Calling the returned cancel releases the registration.
func (w *Wizard) Enter(parent context.Context, step Step) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.current != step {
		cancel()
		return ctx, cancel
	}

	e := &exit{cancel: cancel}
	if w.exits[step] == nil {
		w.exits[step] = make(map[*exit]struct{})
	}
	w.exits[step][e] = struct{}{}

	return ctx, func() {
		w.release(step, e)
		cancel()
	}
}

func (w *Wizard) release(step Step, e *exit) {
	w.mu.Lock()
	defer w.mu.Unlock()

	set, ok := w.exits[step]
	if !ok {
		return
	}
	delete(set, e)
	if len(set) == 0 {
		delete(w.exits, step)
	}
}

// Changes publishes every transition
func (w *Wizard) Changes() <-chan Transition {
	return w.changes
}
