package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"swapwizard/pkg/client"
	"swapwizard/pkg/logging"
	"swapwizard/pkg/poll"
	"swapwizard/pkg/session"
	"swapwizard/pkg/types"
)

var (
	watchStatus          bool
	watchInterval        int
	statusDepositAddress bool
)

var statusCmd = &cobra.Command{
	Use:   "status <swap-id>",
	Short: "Check the status of a swap",
	Long: `Check the status of a swap by its id, or of a 1Click swap by its deposit address.

Examples:
  swapwizard status 3f6b9a1e-...
  swapwizard status 3f6b9a1e-... --watch
  swapwizard status 0x1234...abcd --deposit-address --watch --interval 10`,
	Args: cobra.ExactArgs(1),
	Run:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().BoolVarP(&watchStatus, "watch", "w", false, "Watch status updates continuously")
	statusCmd.Flags().IntVar(&watchInterval, "interval", 5, "Polling interval in seconds (when watching)")
	statusCmd.Flags().BoolVar(&statusDepositAddress, "deposit-address", false, "Treat the argument as a 1Click deposit address")
}

type statusFetcher func(ctx context.Context) (*types.SwapStatusView, error)

func runStatus(cmd *cobra.Command, args []string) {
	a, err := newApp(cmd)
	exitOnError(err)

	id := args[0]
	fetch := layerswapStatus(a, id)
	if statusDepositAddress {
		fetch = oneClickStatus(client.NewOneClickClient(a.cfg.OneClickJWT), id)
	}

	ctx, cancel := signalContext()
	defer cancel()

	if watchStatus {
		watchSwapStatus(ctx, a, fetch, id)
	} else {
		checkSwapStatus(ctx, a, fetch)
	}
}

func layerswapStatus(a *app, id string) statusFetcher {
	return func(ctx context.Context) (*types.SwapStatusView, error) {
		cred, ok := a.sessions.Get()
		if !ok {
			return nil, session.ErrNoSession
		}
		swap, err := a.api.GetSwap(ctx, cred.AccessToken, id)
		if err != nil {
			return nil, err
		}
		return &types.SwapStatusView{
			SwapID:      swap.ID,
			Status:      strings.ToUpper(string(swap.Status)),
			Destination: swap.DestinationAddress,
			TxHash:      swap.OutputTransactionID,
			AmountIn:    formatAmount(swap.RequestedAmount),
			AmountOut:   formatAmount(swap.ReceivedAmount),
			UpdatedAt:   swap.CreatedDate,
		}, nil
	}
}

func oneClickStatus(oc *client.OneClickClient, depositAddress string) statusFetcher {
	return func(ctx context.Context) (*types.SwapStatusView, error) {
		status, err := oc.GetExecutionStatus(ctx, depositAddress)
		if err != nil {
			return nil, err
		}
		return oc.StatusView(depositAddress, status), nil
	}
}

func formatAmount(v float64) string {
	if v == 0 {
		return ""
	}
	return fmt.Sprintf("%g", v)
}

func checkSwapStatus(ctx context.Context, a *app, fetch statusFetcher) {
	var view *types.SwapStatusView
	err := a.withSpinner("Checking swap status...", func() error {
		var err error
		view, err = fetch(ctx)
		return err
	})
	exitOnError(err)

	if a.json {
		printJSON(view)
	} else {
		displayStatus(view)
	}
}

func watchSwapStatus(ctx context.Context, a *app, fetch statusFetcher, id string) {
	if a.json {
		fmt.Println(`{"error": "watch mode not supported with JSON output"}`)
		return
	}

	fmt.Printf("\nWatching swap status (%s)\n", color.CyanString(id))
	fmt.Printf("Checking every %d seconds. Press Ctrl+C to stop.\n\n", watchInterval)

	poller := poll.New(statusCheck(fetch, displayStatus), time.Duration(watchInterval)*time.Second,
		poll.WithName("status-watch"),
		poll.WithLogger(logging.Logger),
		poll.WithTimeout(a.cfg.Polling.PaymentTimeout),
		poll.WithMaxAttempts(a.cfg.Polling.MaxAttempts),
		poll.WithErrorHandler(func(attempt int, err error) {
			color.Red("Error: %v", err)
		}),
	)
	run, err := poller.Start(ctx)
	exitOnError(err)

	if err := run.Wait(); errors.Is(err, poll.ErrTimeout) || errors.Is(err, poll.ErrAttemptsExhausted) {
		exitOnError(fmt.Errorf("stopped watching: %w", err))
	}
}

// statusCheck shows every fetched status and reports done once the swap
// reached a terminal state
func statusCheck(fetch statusFetcher, show func(*types.SwapStatusView)) poll.CheckFunc {
	return func(ctx context.Context) (bool, error) {
		view, err := fetch(ctx)
		if err != nil {
			return false, err
		}

		show(view)
		return types.SwapStatus(strings.ToLower(view.Status)).IsTerminal() ||
			client.MapOneClickStatus(view.Status).IsTerminal(), nil
	}
}

func displayStatus(view *types.SwapStatusView) {
	fmt.Println("\n" + strings.Repeat("=", 70))
	color.Green("                        SWAP STATUS")
	fmt.Println(strings.Repeat("=", 70))

	fmt.Printf("\n  Swap:            %s\n", color.CyanString(view.SwapID))
	fmt.Printf("  Status:          %s\n", getColoredStatus(view.Status))
	if !view.UpdatedAt.IsZero() {
		fmt.Printf("  Last Updated:    %s\n", view.UpdatedAt.Format("2006-01-02 15:04:05"))
	}
	if view.Destination != "" {
		fmt.Printf("  Destination:     %s\n", view.Destination)
	}
	if view.TxHash != "" {
		fmt.Printf("  Output Tx:       %s\n", color.HiBlackString(view.TxHash))
	}
	if view.AmountIn != "" {
		fmt.Printf("  Amount In:       %s\n", view.AmountIn)
	}
	if view.AmountOut != "" {
		fmt.Printf("  Amount Out:      %s\n", view.AmountOut)
	}

	fmt.Println("\n" + strings.Repeat("=", 70) + "\n")
}

func getColoredStatus(status string) string {
	status = strings.ToUpper(status)

	switch status {
	case "SUCCESS", "COMPLETED":
		return color.GreenString(status)
	case "PENDING_DEPOSIT", "PENDING", "PROCESSING", "CREATED", "USER_TRANSFER_PENDING", "LS_TRANSFER_PENDING":
		return color.YellowString(status)
	case "FAILED", "REFUNDED", "CANCELLED", "EXPIRED":
		return color.RedString(status)
	case "INCOMPLETE_DEPOSIT", "USER_TRANSFER_DELAYED":
		return color.MagentaString(status)
	default:
		return status
	}
}
