package cmd

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"swapwizard/pkg/transfer"
)

var (
	depositAsset string
	depositSend  string
	depositNoAsk bool
)

var depositCmd = &cobra.Command{
	Use:   "deposit <network>",
	Short: "Show manual-transfer deposit instructions",
	Long: `Show the deposit address to send a manual transfer to on a network.

With --send the deposit is sent from the wallet configured under
auto_deposit in the config file.

Examples:
  swapwizard deposit ARBITRUM_MAINNET
  swapwizard deposit LOOPRING_MAINNET --asset ETH
  swapwizard deposit ETHEREUM_MAINNET --send 0.05`,
	Args: cobra.ExactArgs(1),
	Run:  runDeposit,
}

func init() {
	rootCmd.AddCommand(depositCmd)

	depositCmd.Flags().StringVar(&depositAsset, "asset", "", "Asset you are going to send")
	depositCmd.Flags().StringVar(&depositSend, "send", "", "Send this amount from the configured wallet")
	depositCmd.Flags().BoolVarP(&depositNoAsk, "yes", "y", false, "Skip confirmation prompt")
}

func runDeposit(cmd *cobra.Command, args []string) {
	a, err := newApp(cmd)
	exitOnError(err)

	ctx, cancel := signalContext()
	defer cancel()

	network := strings.ToUpper(args[0])

	var token string
	if cred, ok := a.sessions.Get(); ok {
		token = cred.AccessToken
	}

	var instructions *transfer.Instructions
	err = a.withSpinner("Fetching deposit address...", func() error {
		instructions, err = transfer.Prepare(ctx, a.api, token, network, strings.ToUpper(depositAsset))
		return err
	})
	exitOnError(err)

	if a.json {
		printJSON(instructions)
	} else {
		displayDepositInstructions(instructions)
	}

	if depositSend == "" {
		return
	}

	manager := transfer.NewManager(a.cfg.AutoDeposit)
	if !manager.IsEnabledForNetwork(network) {
		exitOnError(fmt.Errorf("no wallet configured for %s (configured: %s)", network, strings.Join(manager.SupportedNetworks(), ", ")))
	}

	color.Yellow("\nSending deposit...")
	fmt.Printf("  Network: %s\n", network)
	fmt.Printf("  Amount:  %s %s\n", depositSend, depositAsset)
	fmt.Printf("  To:      %s\n", instructions.Address)

	if !depositNoAsk && !confirm("Proceed with the deposit?") {
		fmt.Println("\nDeposit cancelled.")
		return
	}

	var txid string
	err = a.withSpinner("Sending deposit...", func() error {
		txid, err = manager.SendDeposit(ctx, network, instructions.Address, depositSend)
		return err
	})
	exitOnError(err)

	color.Green("\n✓ Deposit sent successfully!")
	fmt.Printf("  Transaction ID: %s\n\n", color.CyanString(txid))
}

func displayDepositInstructions(in *transfer.Instructions) {
	fmt.Println("\n" + strings.Repeat("=", 60))
	color.Yellow("                 DEPOSIT INSTRUCTIONS")
	fmt.Println(strings.Repeat("=", 60))

	if in.Asset != "" {
		fmt.Printf("\nSend %s on %s to:\n\n", in.Asset, in.Network)
	} else {
		fmt.Printf("\nSend your funds on %s to:\n\n", in.Network)
	}
	color.Cyan("  %s\n", in.Address)

	if in.SendType != "" {
		fmt.Printf("\nSend type: %s\n", color.MagentaString(in.SendType))
	}

	fmt.Println("\n" + strings.Repeat("=", 60) + "\n")
}
