package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"swapwizard/config"
	"swapwizard/pkg/logging"
)

var rootCmd = &cobra.Command{
	Use:   "swapwizard",
	Short: "A CLI for exchange-funded cross-chain swaps and campaign rewards",
	Long: `swapwizard drives the swap wizards of the Layerswap API from the terminal:
connect an exchange account, wait for an exchange payment to settle, show
manual-transfer deposit instructions and browse campaign rewards.

Examples:
  swapwizard login <access-token>
  swapwizard connect coinbase 10 ETH
  swapwizard pay <swap-id>
  swapwizard deposit ARBITRUM_MAINNET
  swapwizard rewards 0x1234...abcd`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		verbose, _ := cmd.Flags().GetBool("verbose")
		logging.Init("swapwizard", cfg.LogLevel, verbose)
		return nil
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Add global flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "Output in JSON format")
	rootCmd.PersistentFlags().String("token", "", "Use this access token instead of the stored session")
}

func printError(err error) {
	fmt.Printf("\nError: %v\n\n", err)
}

func printSuccess(message string) {
	fmt.Printf("\n%s\n\n", message)
}
