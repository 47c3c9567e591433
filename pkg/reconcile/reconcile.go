// Package reconcile decides, tick by tick, whether an external action started
// from a wizard step has reached a definitive outcome.
package reconcile

import (
	"context"
	"errors"
	"time"

	"swapwizard/pkg/poll"
	"swapwizard/pkg/types"
	"swapwizard/pkg/wizard"
)

// Checker is a reconciliation state machine driven by a poller
type Checker interface {
	Tick(ctx context.Context) (done bool, err error)
}

// UserExchangeLister lists the exchange accounts a user has connected
type UserExchangeLister interface {
	GetUserExchanges(ctx context.Context, accessToken string) ([]types.UserExchange, error)
}

// SwapGetter fetches a swap snapshot by id
type SwapGetter interface {
	GetSwap(ctx context.Context, accessToken, swapID string) (*types.Swap, error)
}

// Notifier surfaces transient messages to the user
type Notifier interface {
	Error(msg string)
}

// Run polls check while w stays on step. The poll run is cancelled as soon as
// the wizard leaves step, so a transition made by the check itself ends the
// run. Leaving the step is a normal outcome and returns nil.
func Run(ctx context.Context, w *wizard.Wizard, step wizard.Step, check Checker, interval time.Duration, opts ...poll.Option) error {
	stepCtx, cancel := w.Enter(ctx, step)
	defer cancel()

	run, err := poll.New(check.Tick, interval, opts...).Start(stepCtx)
	if err != nil {
		return err
	}

	err = run.Wait()
	if errors.Is(err, poll.ErrStopped) && ctx.Err() == nil && w.Current() != step {
		return nil
	}
	return err
}
