package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"swapwizard/pkg/client"
	"swapwizard/pkg/rewards"
	"swapwizard/pkg/types"
)

var campaignName string

var rewardsCmd = &cobra.Command{
	Use:   "rewards <address>",
	Short: "Show campaign rewards of a wallet address",
	Long: `Show pending and total earnings, the weekly limit progress, the next
airdrop countdown and past payouts of an address.

Examples:
  swapwizard rewards 0x1234...abcd
  swapwizard rewards 0x1234...abcd --campaign OPTIMISM_REWARDS --json`,
	Args: cobra.ExactArgs(1),
	Run:  runRewards,
}

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Show the campaign leaderboard",
	Args:  cobra.NoArgs,
	Run:   runLeaderboard,
}

var payoutsCmd = &cobra.Command{
	Use:   "payouts <address>",
	Short: "List reward payouts of a wallet address",
	Args:  cobra.ExactArgs(1),
	Run:   runPayouts,
}

func init() {
	for _, c := range []*cobra.Command{rewardsCmd, leaderboardCmd, payoutsCmd} {
		rootCmd.AddCommand(c)
		c.Flags().StringVar(&campaignName, "campaign", "", "Campaign name (defaults to the configured or first campaign)")
	}
}

func loadCampaign(ctx context.Context, a *app) (*types.Settings, *types.Campaign) {
	var settings *types.Settings
	err := a.withSpinner("Fetching campaign...", func() error {
		var err error
		settings, err = a.api.GetSettings(ctx)
		return err
	})
	exitOnError(err)

	name := campaignName
	if name == "" {
		name = a.cfg.Campaign
	}
	campaign, ok := settings.Campaign(name)
	if !ok {
		exitOnError(fmt.Errorf("campaign '%s' not found", name))
	}
	return settings, campaign
}

func runRewards(cmd *cobra.Command, args []string) {
	a, err := newApp(cmd)
	exitOnError(err)

	ctx, cancel := signalContext()
	defer cancel()

	settings, campaign := loadCampaign(ctx, a)
	address := args[0]

	var (
		reward      *types.Reward
		payouts     []types.RewardPayout
		leaderboard *types.Leaderboard
	)
	err = a.withSpinner("Fetching rewards...", func() error {
		var err error
		if reward, err = a.api.GetRewards(ctx, campaign.Name, address); err != nil && !errors.Is(err, client.ErrNotFound) {
			return err
		}
		if payouts, err = a.api.GetPayouts(ctx, campaign.Name, address); err != nil && !errors.Is(err, client.ErrNotFound) {
			return err
		}
		leaderboard, err = a.api.GetLeaderboard(ctx, campaign.Name)
		return err
	})
	exitOnError(err)

	dashboard := rewards.BuildDashboard(rewards.Input{
		Settings:    settings,
		Campaign:    *campaign,
		Reward:      reward,
		Payouts:     payouts,
		Leaderboard: leaderboard,
	})

	if a.json {
		printJSON(dashboard)
		return
	}
	displayDashboard(dashboard)
}

func displayDashboard(d *rewards.Dashboard) {
	asset := d.Campaign.Asset

	fmt.Println("\n" + strings.Repeat("=", 70))
	color.Green("                    %s REWARDS", strings.ToUpper(d.NetworkName))
	fmt.Println(strings.Repeat("=", 70))

	if d.Ended {
		color.Yellow("\n  The campaign has ended.")
		fmt.Println("\n" + strings.Repeat("=", 70) + "\n")
		return
	}

	fmt.Printf("\n  Pending Earnings:  %s %s   (next airdrop in %dd %dh)\n",
		color.CyanString("%g", rewards.TruncateDecimals(d.PendingAmount, 6)), asset, d.DaysLeft, d.HoursLeft)
	fmt.Printf("  Total Earnings:    %s %s   ($%.2f)\n",
		color.CyanString("%g", rewards.TruncateDecimals(d.TotalAmount, 6)), asset, d.TotalUSD)
	fmt.Printf("  Period Reward:     %g / %g %s  [%s] %s\n",
		d.PeriodPending, d.Campaign.RewardLimitForPeriod, asset, progressBar(d.PeriodProgress, 20), d.RefreshLabel)
	if d.Position > 0 {
		fmt.Printf("  Leaderboard:       #%d\n", d.Position)
	}

	if len(d.Payouts) > 0 {
		color.Cyan("\n  PAYOUTS")
		tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "  Tx Id\tAmount\tDate")
		for _, p := range d.Payouts {
			fmt.Fprintf(tw, "  %s\t%g\t%s\n", p.ShortTxID, p.Amount, p.Date.Local().Format("2006-01-02 15:04"))
		}
		tw.Flush()
	}

	if len(d.Standings) > 0 {
		displayStandings(d.Standings, asset)
	}

	fmt.Println("\n" + strings.Repeat("=", 70) + "\n")
}

func progressBar(percent float64, width int) string {
	filled := int(percent / 100 * float64(width))
	return strings.Repeat("#", filled) + strings.Repeat("-", width-filled)
}

func displayStandings(standings []rewards.Standing, asset string) {
	color.Cyan("\n  LEADERBOARD")
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "  #\tAddress\tVolume\tReward")
	for _, s := range standings {
		reward := "-"
		if s.HasReward {
			reward = fmt.Sprintf("%g %s", s.Reward, asset)
		}
		fmt.Fprintf(tw, "  %d\t%s\t%g\t%s\n", s.Position, rewards.ShortenAddress(s.Address), s.Amount, reward)
	}
	tw.Flush()
}

func runLeaderboard(cmd *cobra.Command, args []string) {
	a, err := newApp(cmd)
	exitOnError(err)

	ctx, cancel := signalContext()
	defer cancel()

	_, campaign := loadCampaign(ctx, a)

	var leaderboard *types.Leaderboard
	err = a.withSpinner("Fetching leaderboard...", func() error {
		leaderboard, err = a.api.GetLeaderboard(ctx, campaign.Name)
		return err
	})
	exitOnError(err)

	standings := rewards.Standings(leaderboard)
	if a.json {
		printJSON(map[string]any{
			"campaign":           campaign.Name,
			"leaderboard_budget": leaderboard.LeaderboardBudget,
			"standings":          standings,
		})
		return
	}

	fmt.Printf("\n%s leaderboard, budget %g %s\n", campaign.Name, leaderboard.LeaderboardBudget, campaign.Asset)
	displayStandings(standings, campaign.Asset)
	fmt.Println()
}

func runPayouts(cmd *cobra.Command, args []string) {
	a, err := newApp(cmd)
	exitOnError(err)

	ctx, cancel := signalContext()
	defer cancel()

	settings, campaign := loadCampaign(ctx, a)

	var payouts []types.RewardPayout
	err = a.withSpinner("Fetching payouts...", func() error {
		payouts, err = a.api.GetPayouts(ctx, campaign.Name, args[0])
		return err
	})
	exitOnError(err)

	var template string
	if network, ok := settings.FindNetwork(campaign.NetworkName); ok {
		template = network.TransactionExplorerTemplate
	}

	if a.json {
		printJSON(payouts)
		return
	}
	if len(payouts) == 0 {
		fmt.Println("\nNo payouts yet.")
		return
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "\nTx\tAmount\tDate")
	for _, p := range payouts {
		link := rewards.ExplorerURL(template, p.TransactionID)
		if link == "" {
			link = p.TransactionID
		}
		fmt.Fprintf(tw, "%s\t%g %s\t%s\n", link, p.Amount, campaign.Asset, p.Date.Local().Format("2006-01-02 15:04"))
	}
	tw.Flush()
	fmt.Println()
}
