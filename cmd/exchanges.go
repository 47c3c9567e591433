package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"swapwizard/pkg/types"
)

var filterAsset string

var exchangesCmd = &cobra.Command{
	Use:     "exchanges",
	Aliases: []string{"ls"},
	Short:   "List exchanges you can withdraw from",
	Long: `List the exchanges known to the API and how their accounts get connected.

Examples:
  swapwizard exchanges
  swapwizard exchanges --asset USDC`,
	Run: runListExchanges,
}

func init() {
	rootCmd.AddCommand(exchangesCmd)

	exchangesCmd.Flags().StringVar(&filterAsset, "asset", "", "Only exchanges supporting this asset")
}

func runListExchanges(cmd *cobra.Command, args []string) {
	a, err := newApp(cmd)
	exitOnError(err)

	ctx, cancel := signalContext()
	defer cancel()

	var settings *types.Settings
	err = a.withSpinner("Fetching exchanges...", func() error {
		settings, err = a.api.GetSettings(ctx)
		return err
	})
	exitOnError(err)

	exchanges := settings.Exchanges
	if filterAsset != "" {
		var filtered []types.Exchange
		for _, e := range exchanges {
			for _, c := range e.Currencies {
				if strings.EqualFold(c.Asset, filterAsset) {
					filtered = append(filtered, e)
					break
				}
			}
		}
		exchanges = filtered
	}
	sort.Slice(exchanges, func(i, j int) bool {
		return exchanges[i].DisplayName < exchanges[j].DisplayName
	})

	if a.json {
		printJSON(exchanges)
		return
	}
	displayExchanges(exchanges)
}

func displayExchanges(exchanges []types.Exchange) {
	if len(exchanges) == 0 {
		fmt.Println("\nNo exchanges found matching the criteria.")
		return
	}

	fmt.Println("\n" + strings.Repeat("=", 70))
	color.Green("                          EXCHANGES")
	fmt.Println(strings.Repeat("=", 70))

	for _, e := range exchanges {
		flow := string(e.AuthorizationFlow)
		if !e.RequiresAuthorization() {
			flow = "none"
		}
		assets := make([]string, 0, len(e.Currencies))
		for _, c := range e.Currencies {
			assets = append(assets, c.Asset)
		}
		fmt.Printf("  %-20s  %-18s  %s\n",
			color.YellowString(e.InternalName),
			color.CyanString(flow),
			color.HiBlackString(strings.Join(assets, ", ")))
	}

	fmt.Println("\n" + strings.Repeat("=", 70))
	fmt.Printf("\nTotal: %d exchanges\n\n", len(exchanges))
}
