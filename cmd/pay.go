package cmd

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"swapwizard/pkg/client"
	"swapwizard/pkg/logging"
	"swapwizard/pkg/poll"
	"swapwizard/pkg/reconcile"
	"swapwizard/pkg/session"
	"swapwizard/pkg/wizard"
)

var (
	payDepositAddress bool
	payContinueAnon   bool
)

var payCmd = &cobra.Command{
	Use:   "pay <swap-id>",
	Short: "Wait for an exchange payment to complete",
	Long: `Wait while you complete the payment of a swap on the exchange.

The swap is checked every polling interval until it completes, fails, is
cancelled or expires.

With --deposit-address the argument is a 1Click deposit address and its
execution status is watched instead; no login is needed for it.

Examples:
  swapwizard pay 3f6b9a1e-...
  swapwizard pay 0x1234...abcd --deposit-address`,
	Args: cobra.ExactArgs(1),
	Run:  runPay,
}

func init() {
	rootCmd.AddCommand(payCmd)

	payCmd.Flags().BoolVar(&payDepositAddress, "deposit-address", false, "Treat the argument as a 1Click deposit address")
	payCmd.Flags().BoolVar(&payContinueAnon, "continue-unauthenticated", false, "Keep polling for one more tick after a missing session redirects to the email step")
}

func runPay(cmd *cobra.Command, args []string) {
	a, err := newApp(cmd)
	exitOnError(err)

	ctx, cancel := signalContext()
	defer cancel()

	swaps, sessions := paymentSource(a, payDepositAddress)

	policy := reconcile.StopOnUnauthenticated
	if payContinueAnon {
		policy = reconcile.ContinueOnUnauthenticated
	}

	w := wizard.New(wizard.ProcessExternalPayment, 4)
	check := &reconcile.ExternalPayment{
		Wizard:  w,
		Session: sessions,
		Swaps:   swaps,
		SwapID:  args[0],
		Policy:  policy,
	}

	if !a.json {
		fmt.Printf("\nWaiting for payment of swap %s\n", color.CyanString(args[0]))
		fmt.Printf("Checking every %s. Press Ctrl+C to stop.\n", a.cfg.Polling.PaymentInterval)
		go renderTransitions(w)
	}

	err = a.withSpinner("Waiting for the exchange payment...", func() error {
		return reconcile.Run(ctx, w, wizard.ProcessExternalPayment, check, a.cfg.Polling.PaymentInterval,
			poll.WithName("external-payment"),
			poll.WithLogger(logging.Logger),
			poll.WithTimeout(a.cfg.Polling.PaymentTimeout),
			poll.WithMaxAttempts(a.cfg.Polling.MaxAttempts),
		)
	})

	if a.json {
		output := map[string]any{
			"swap_id": args[0],
			"step":    w.Current(),
		}
		if swap := check.LastSwap(); swap != nil {
			output["status"] = swap.Status
		}
		if err != nil {
			output["error"] = err.Error()
		}
		printJSON(output)
		return
	}

	switch {
	case errors.Is(err, poll.ErrTimeout):
		exitOnError(fmt.Errorf("timed out waiting for the payment; check later with: swapwizard status %s", args[0]))
	case errors.Is(err, poll.ErrStopped):
		fmt.Println("\nStopped watching.")
		return
	case err != nil:
		exitOnError(err)
	}

	switch w.Current() {
	case wizard.ProcessSuccess:
		color.Green("\n✓ Swap completed")
		if swap := check.LastSwap(); swap != nil && swap.OutputTransactionID != "" {
			fmt.Printf("  Transaction: %s\n", color.CyanString(swap.OutputTransactionID))
		}
		fmt.Println()
	case wizard.ProcessFailed:
		status := "failed"
		if swap := check.LastSwap(); swap != nil {
			status = string(swap.Status)
		}
		exitOnError(fmt.Errorf("swap %s", status))
	case wizard.ProcessEmail:
		exitOnError(fmt.Errorf("you are not logged in (try: swapwizard login <access-token>)"))
	}
}

// oneClickCredential stands in for a session on 1Click swaps, which are
// authorized by the configured JWT rather than a user login
var oneClickCredential = session.Credential{AccessToken: "oneclick"}

// paymentSource picks where swap snapshots come from and the session the
// payment check requires
func paymentSource(a *app, depositAddress bool) (reconcile.SwapGetter, session.Provider) {
	if depositAddress {
		return client.NewOneClickClient(a.cfg.OneClickJWT), session.NewMemoryStoreWith(oneClickCredential)
	}
	return a.api, a.sessions
}

func renderTransitions(w *wizard.Wizard) {
	for t := range w.Changes() {
		logging.Logger.WithField("from", t.From).WithField("to", t.To).Debug("wizard step changed")
	}
}
