package rewards

import (
	"time"

	"swapwizard/pkg/types"
)

// Payout is a payout row ready for display
type Payout struct {
	TransactionID string
	ShortTxID     string
	ExplorerURL   string
	Amount        float64
	Date          time.Time
}

// Standing is a leaderboard row with its reward
type Standing struct {
	Position  int
	Address   string
	Amount    float64
	Reward    float64
	HasReward bool
}

// Dashboard is everything the rewards screen shows
type Dashboard struct {
	Campaign       types.Campaign
	Ended          bool
	NetworkName    string
	PendingAmount  float64
	TotalAmount    float64
	TotalUSD       float64
	PeriodPending  float64
	PeriodProgress float64
	RefreshLabel   string
	DaysLeft       int
	HoursLeft      int
	Position       int
	Payouts        []Payout
	Standings      []Standing
}

// Input gathers the API snapshots a dashboard is built from. Reward, payouts
// and leaderboard may be nil when the address is unknown.
type Input struct {
	Settings    *types.Settings
	Campaign    types.Campaign
	Reward      *types.Reward
	Payouts     []types.RewardPayout
	Leaderboard *types.Leaderboard
	Now         time.Time
}

// BuildDashboard assembles the dashboard figures
func BuildDashboard(in Input) *Dashboard {
	now := in.Now
	if now.IsZero() {
		now = time.Now()
	}

	d := &Dashboard{
		Campaign:     in.Campaign,
		Ended:        CampaignEnded(in.Campaign.EndDate, now),
		NetworkName:  in.Campaign.NetworkName,
		RefreshLabel: RefreshLabel(in.Campaign.RewardLimitPeriod),
	}

	var explorerTemplate string
	if in.Settings != nil {
		if network, ok := in.Settings.FindNetwork(in.Campaign.NetworkName); ok {
			d.NetworkName = network.DisplayName
			explorerTemplate = network.TransactionExplorerTemplate
		}
	}

	if in.Reward != nil {
		r := in.Reward.UserReward
		d.PendingAmount = r.TotalPendingAmount
		d.TotalAmount = r.TotalAmount
		d.PeriodPending = r.PeriodPendingAmount
		d.PeriodProgress = PeriodProgress(r.PeriodPendingAmount, in.Campaign.RewardLimitForPeriod)
		d.Position = r.Position
		d.DaysLeft, d.HoursLeft = Countdown(in.Reward.NextAirdropDate, now)

		if in.Settings != nil {
			if currency, ok := in.Settings.FindCurrency(in.Campaign.Asset); ok {
				d.TotalUSD = USDValue(currency.USDPrice, r.TotalAmount)
			}
		}
	}

	for _, p := range in.Payouts {
		d.Payouts = append(d.Payouts, Payout{
			TransactionID: p.TransactionID,
			ShortTxID:     ShortenAddress(p.TransactionID),
			ExplorerURL:   ExplorerURL(explorerTemplate, p.TransactionID),
			Amount:        p.Amount,
			Date:          p.Date,
		})
	}

	if in.Leaderboard != nil {
		d.Standings = Standings(in.Leaderboard)
	}

	return d
}

// Standings attaches the reward of each leaderboard position
func Standings(lb *types.Leaderboard) []Standing {
	standings := make([]Standing, 0, len(lb.Leaderboard))
	for _, entry := range lb.Leaderboard {
		reward, ok := LeaderboardReward(lb.LeaderboardBudget, entry.Position)
		standings = append(standings, Standing{
			Position:  entry.Position,
			Address:   entry.Address,
			Amount:    entry.Amount,
			Reward:    reward,
			HasReward: ok,
		})
	}
	return standings
}
