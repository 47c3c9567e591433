package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"swapwizard/pkg/authwindow"
	"swapwizard/pkg/logging"
	"swapwizard/pkg/parser"
	"swapwizard/pkg/poll"
	"swapwizard/pkg/reconcile"
	"swapwizard/pkg/types"
	"swapwizard/pkg/wizard"
)

var (
	connectSkipGuide bool
	connectNoBrowser bool
)

var connectCmd = &cobra.Command{
	Use:   "connect <exchange> <amount> <asset>",
	Short: "Connect an exchange account for a withdrawal",
	Long: `Connect your exchange account so a swap can withdraw from it.

A short guide explains what happens on the exchange, then the exchange's
authorization page opens in your browser. Authorize at least the amount shown;
the command waits until the exchange redirects back.

Examples:
  swapwizard connect coinbase 10 ETH
  swapwizard connect coinbase 250 USDC --skip-guide
  swapwizard connect coinbase 1 ETH --no-browser`,
	Args: cobra.MinimumNArgs(3),
	Run:  runConnect,
}

func init() {
	rootCmd.AddCommand(connectCmd)

	connectCmd.Flags().BoolVar(&connectSkipGuide, "skip-guide", false, "Skip the onboarding guide")
	connectCmd.Flags().BoolVar(&connectNoBrowser, "no-browser", false, "Print the authorization link instead of opening a browser")
}

func connectGuide(exchangeName string) []string {
	return []string{
		fmt.Sprintf("After this guide, you'll be taken to %s to connect your account. You'll be prompted to log in to your %s account.", exchangeName, exchangeName),
		fmt.Sprintf("%s will ask you to set a sending limit. Make sure it covers at least the amount shown below.", exchangeName),
		"Confirm the connection. You'll be redirected back and this command continues on its own.",
	}
}

func runConnect(cmd *cobra.Command, args []string) {
	a, err := newApp(cmd)
	exitOnError(err)

	request, err := parser.ParseAmount(strings.Join(args[1:], " "))
	exitOnError(err)

	ctx, cancel := signalContext()
	defer cancel()

	var settings *types.Settings
	err = a.withSpinner("Fetching exchange details...", func() error {
		settings, err = a.api.GetSettings(ctx)
		return err
	})
	exitOnError(err)

	exchange, ok := settings.FindExchange(args[0])
	if !ok {
		exitOnError(fmt.Errorf("exchange '%s' not found (try: swapwizard exchanges)", args[0]))
	}
	currency, ok := settings.FindCurrency(request.Asset)
	if !ok {
		exitOnError(fmt.Errorf("asset '%s' not found", request.Asset))
	}
	if exchange.OAuthAuthorizationURL == "" {
		exitOnError(fmt.Errorf("%s does not offer account connection", exchange.DisplayName))
	}

	minimal, err := reconcile.MinimalAuthorizeAmount(currency.USDPrice, request.Amount)
	exitOnError(err)

	w := wizard.New(wizard.CreateOAuth, 4)
	check := &reconcile.AccountConnect{
		Wizard:        w,
		Session:       a.sessions,
		Exchanges:     a.api,
		Exchange:      *exchange,
		MinimalAmount: minimal,
		Notifier:      terminalNotifier{},
		Logger:        logging.Logger,
	}

	cred, ok := a.sessions.Get()
	if !ok {
		_ = w.GoToStep(ctx, wizard.CreateEmail)
		exitOnError(fmt.Errorf("you are not logged in (try: swapwizard login <access-token>)"))
	}
	subject, err := cred.Subject()
	exitOnError(err)

	if !connectSkipGuide && !a.json {
		for i, page := range connectGuide(exchange.DisplayName) {
			color.Cyan("\n.0%d", i+1)
			fmt.Println(page)
			if i < 2 {
				waitForEnter("Press Enter to continue...")
			}
		}
	}

	if !a.json {
		fmt.Printf("\n  Minimal amount to authorize: %s\n", color.YellowString("$%.0f", minimal))
		if !confirm(fmt.Sprintf("Open %s now?", exchange.DisplayName)) {
			fmt.Println("\nConnection cancelled.")
			return
		}
	}

	window, err := authwindow.Listen(a.cfg.AppOrigin, logging.Logger)
	exitOnError(err)
	defer window.Close()
	check.AppOrigin = window.Origin()

	link, err := reconcile.AuthorizationURL(exchange.OAuthAuthorizationURL, subject, window.Origin())
	exitOnError(err)

	opener := authwindow.OpenBrowser
	if connectNoBrowser {
		opener = func(link string) error {
			fmt.Printf("\nOpen this link to continue:\n\n  %s\n", color.CyanString(link))
			return nil
		}
	}
	exitOnError(window.Open(link, opener))
	check.SetWindow(window)

	err = a.withSpinner(fmt.Sprintf("Waiting for %s authorization...", exchange.DisplayName), func() error {
		return reconcile.Run(ctx, w, wizard.CreateOAuth, check, a.cfg.Polling.ConnectInterval,
			poll.WithName("account-connect"),
			poll.WithLogger(logging.Logger),
			poll.WithTimeout(a.cfg.Polling.ConnectTimeout),
			poll.WithMaxAttempts(a.cfg.Polling.MaxAttempts),
		)
	})

	reportConnect(a, exchange, check, w, err)
}

func reportConnect(a *app, exchange *types.Exchange, check *reconcile.AccountConnect, w *wizard.Wizard, err error) {
	if a.json {
		output := map[string]any{
			"exchange":       exchange.InternalName,
			"step":           w.Current(),
			"outcome":        check.Outcome(),
			"minimal_amount": check.MinimalAmount,
		}
		if err != nil {
			output["error"] = err.Error()
		}
		printJSON(output)
		return
	}

	switch {
	case errors.Is(err, poll.ErrTimeout):
		exitOnError(fmt.Errorf("timed out waiting for %s authorization; run connect again when ready", exchange.DisplayName))
	case errors.Is(err, poll.ErrAttemptsExhausted):
		exitOnError(fmt.Errorf("gave up waiting for %s authorization", exchange.DisplayName))
	case err != nil:
		exitOnError(err)
	}

	switch w.Current() {
	case wizard.CreateConfirm:
		color.Green("\n✓ %s account connected", exchange.DisplayName)
		printSuccess("You can now confirm the swap.")
	case wizard.CreateEmail:
		exitOnError(fmt.Errorf("your session expired (try: swapwizard login <access-token>)"))
	default:
		if check.Outcome() == reconcile.ConnectInsufficient {
			exitOnError(fmt.Errorf("authorize at least $%.0f and run connect again", check.MinimalAmount))
		}
		fmt.Println("\nConnection not completed.")
	}
}
