package reconcile

import (
	"context"
	"fmt"
	"sync"

	"swapwizard/pkg/session"
	"swapwizard/pkg/types"
	"swapwizard/pkg/wizard"
)

// UnauthenticatedPolicy decides what a payment tick does after redirecting
// an anonymous user to the email step
type UnauthenticatedPolicy int

const (
	// StopOnUnauthenticated ends polling right after the redirect
	StopOnUnauthenticated UnauthenticatedPolicy = iota
	// ContinueOnUnauthenticated keeps polling; the next tick finds the wizard
	// on another step and stops there
	ContinueOnUnauthenticated
)

// ExternalPayment waits for a swap paid from an external exchange to settle
type ExternalPayment struct {
	Wizard  wizard.Navigator
	Session session.Provider
	Swaps   SwapGetter
	SwapID  string
	Policy  UnauthenticatedPolicy

	mu   sync.Mutex
	last *types.Swap
}

// LastSwap returns the snapshot fetched by the most recent tick
func (p *ExternalPayment) LastSwap() *types.Swap {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.last
}

// Tick implements Checker
func (p *ExternalPayment) Tick(ctx context.Context) (bool, error) {
	if p.Wizard.Current() != wizard.ProcessExternalPayment {
		return true, nil
	}

	cred, ok := p.Session.Get()
	if !ok {
		if err := p.Wizard.GoToStep(ctx, wizard.ProcessEmail); err != nil {
			return false, fmt.Errorf("failed to go to email step: %w", err)
		}
		return p.Policy == StopOnUnauthenticated, nil
	}

	swap, err := p.Swaps.GetSwap(ctx, cred.AccessToken, p.SwapID)
	if err != nil {
		return false, err
	}

	p.mu.Lock()
	p.last = swap
	p.mu.Unlock()

	switch {
	case swap.Status == types.SwapCompleted:
		if err := p.Wizard.GoToStep(ctx, wizard.ProcessSuccess); err != nil {
			return false, fmt.Errorf("failed to go to success step: %w", err)
		}
		return true, nil
	case swap.Status.IsFailure():
		if err := p.Wizard.GoToStep(ctx, wizard.ProcessFailed); err != nil {
			return false, fmt.Errorf("failed to go to failed step: %w", err)
		}
		return true, nil
	default:
		return false, nil
	}
}
