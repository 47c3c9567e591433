package reconcile

import (
	"context"
	"sync"

	"swapwizard/pkg/types"
	"swapwizard/pkg/wizard"
)

type fakeWindow struct {
	mu     sync.Mutex
	href   string
	closed int
}

func (w *fakeWindow) navigate(href string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.href = href
}

func (w *fakeWindow) Location() (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.href == "" {
		return "", ErrWindowUnreadable
	}
	return w.href, nil
}

func (w *fakeWindow) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed++
	return nil
}

func (w *fakeWindow) closeCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closed
}

type fakeExchanges struct {
	mu       sync.Mutex
	enabled  []types.UserExchange
	calls    int
	lastAuth string
	err      error
}

func (f *fakeExchanges) GetUserExchanges(_ context.Context, accessToken string) ([]types.UserExchange, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.lastAuth = accessToken
	return f.enabled, f.err
}

func (f *fakeExchanges) enable(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.enabled = append(f.enabled, types.UserExchange{ExchangeID: id})
}

// fakeSwaps returns the statuses in order, repeating the last one
type fakeSwaps struct {
	mu       sync.Mutex
	statuses []types.SwapStatus
	calls    int
	err      error
}

func (f *fakeSwaps) GetSwap(_ context.Context, _ string, id string) (*types.Swap, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	i := f.calls - 1
	if i >= len(f.statuses) {
		i = len(f.statuses) - 1
	}
	return &types.Swap{ID: id, Status: f.statuses[i]}, nil
}

func (f *fakeSwaps) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type recordingNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (n *recordingNotifier) Error(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, msg)
}

// countingWizard counts GoToStep calls per target
type countingWizard struct {
	*wizard.Wizard
	mu    sync.Mutex
	moves map[wizard.Step]int
}

func newCountingWizard(initial wizard.Step) *countingWizard {
	return &countingWizard{Wizard: wizard.New(initial, 16), moves: map[wizard.Step]int{}}
}

func (w *countingWizard) GoToStep(ctx context.Context, next wizard.Step) error {
	w.mu.Lock()
	w.moves[next]++
	w.mu.Unlock()
	return w.Wizard.GoToStep(ctx, next)
}

func (w *countingWizard) movesTo(step wizard.Step) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.moves[step]
}

func (w *countingWizard) totalMoves() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	n := 0
	for _, c := range w.moves {
		n += c
	}
	return n
}
