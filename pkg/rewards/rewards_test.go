package rewards

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"swapwizard/pkg/types"
)

func TestLeaderboardRewardSplit(t *testing.T) {
	tests := []struct {
		position int
		want     float64
		ok       bool
	}{
		{1, 600, true},
		{2, 300, true},
		{3, 100, true},
		{4, 0, false},
		{10, 0, false},
		{0, 0, false},
	}
	for _, tt := range tests {
		got, ok := LeaderboardReward(1000, tt.position)
		assert.Equal(t, tt.ok, ok, "position %d", tt.position)
		assert.Equal(t, tt.want, got, "position %d", tt.position)
	}
}

func TestCountdown(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	days, hours := Countdown(now.Add(3*24*time.Hour+5*time.Hour), now)
	assert.Equal(t, 3, days)
	assert.Equal(t, 5, hours)

	days, hours = Countdown(now.Add(-(2*24*time.Hour + 2*time.Hour)), now)
	assert.Equal(t, 2, days)
	assert.Equal(t, 2, hours)

	days, hours = Countdown(now, now)
	assert.Zero(t, days)
	assert.Zero(t, hours)
}

func TestCampaignEnded(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	assert.False(t, CampaignEnded(now.Add(48*time.Hour), now))
	assert.False(t, CampaignEnded(now.Add(-6*time.Hour), now))
	assert.False(t, CampaignEnded(now.Add(-12*time.Hour), now))
	assert.True(t, CampaignEnded(now.Add(-13*time.Hour), now))
	assert.True(t, CampaignEnded(now.Add(-24*time.Hour), now))
}

func TestPeriodProgress(t *testing.T) {
	assert.Equal(t, 25.0, PeriodProgress(5, 20))
	assert.Equal(t, 100.0, PeriodProgress(30, 20))
	assert.Equal(t, 0.0, PeriodProgress(-1, 20))
	assert.Equal(t, 0.0, PeriodProgress(5, 0))
}

func TestFormatting(t *testing.T) {
	assert.Equal(t, "0x1234...cdef", ShortenAddress("0x1234567890abcdef"))
	assert.Equal(t, "short", ShortenAddress("short"))

	assert.Equal(t, "https://etherscan.io/tx/0xabc", ExplorerURL("https://etherscan.io/tx/{0}", "0xabc"))
	assert.Empty(t, ExplorerURL("", "0xabc"))

	assert.Equal(t, "Refreshes every 7 days", RefreshLabel(7))
	assert.Equal(t, "Refreshes every day", RefreshLabel(1))

	assert.Equal(t, 12.35, USDValue(2.47, 5))
	assert.Equal(t, 1.234, TruncateDecimals(1.23456, 3))
}

func TestBuildDashboard(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	campaign := types.Campaign{
		Name:                 "OPTIMISM_REWARDS",
		Asset:                "OP",
		NetworkName:          "OPTIMISM_MAINNET",
		RewardLimitForPeriod: 20,
		RewardLimitPeriod:    7,
		EndDate:              now.Add(30 * 24 * time.Hour),
	}
	settings := &types.Settings{
		Networks: []types.Network{{
			InternalName:                "OPTIMISM_MAINNET",
			DisplayName:                 "Optimism",
			TransactionExplorerTemplate: "https://optimistic.etherscan.io/tx/{0}",
		}},
		Currencies: []types.Currency{{Asset: "OP", USDPrice: 2}},
	}

	d := BuildDashboard(Input{
		Settings: settings,
		Campaign: campaign,
		Reward: &types.Reward{
			NextAirdropDate: now.Add(2*24*time.Hour + 3*time.Hour),
			UserReward: types.UserReward{
				TotalAmount:         10,
				TotalPendingAmount:  4,
				PeriodPendingAmount: 5,
				Position:            2,
			},
		},
		Payouts: []types.RewardPayout{{TransactionID: "0x1234567890abcdef", Amount: 3, Date: now}},
		Leaderboard: &types.Leaderboard{
			LeaderboardBudget: 1000,
			Leaderboard: []types.LeaderboardEntry{
				{Position: 1, Address: "0xaaa", Amount: 100},
				{Position: 2, Address: "0xbbb", Amount: 50},
				{Position: 4, Address: "0xddd", Amount: 10},
			},
		},
		Now: now,
	})

	assert.False(t, d.Ended)
	assert.Equal(t, "Optimism", d.NetworkName)
	assert.Equal(t, 4.0, d.PendingAmount)
	assert.Equal(t, 10.0, d.TotalAmount)
	assert.Equal(t, 20.0, d.TotalUSD)
	assert.Equal(t, 25.0, d.PeriodProgress)
	assert.Equal(t, "Refreshes every 7 days", d.RefreshLabel)
	assert.Equal(t, 2, d.DaysLeft)
	assert.Equal(t, 3, d.HoursLeft)
	assert.Equal(t, 2, d.Position)

	require.Len(t, d.Payouts, 1)
	assert.Equal(t, "0x1234...cdef", d.Payouts[0].ShortTxID)
	assert.Equal(t, "https://optimistic.etherscan.io/tx/0x1234567890abcdef", d.Payouts[0].ExplorerURL)

	require.Len(t, d.Standings, 3)
	assert.Equal(t, Standing{Position: 1, Address: "0xaaa", Amount: 100, Reward: 600, HasReward: true}, d.Standings[0])
	assert.Equal(t, 300.0, d.Standings[1].Reward)
	assert.False(t, d.Standings[2].HasReward)
}

func TestBuildDashboardUnknownAddress(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	d := BuildDashboard(Input{
		Campaign: types.Campaign{Name: "C", NetworkName: "BASE_MAINNET", EndDate: now.Add(-72 * time.Hour)},
		Now:      now,
	})

	assert.True(t, d.Ended)
	assert.Equal(t, "BASE_MAINNET", d.NetworkName)
	assert.Zero(t, d.TotalAmount)
	assert.Empty(t, d.Payouts)
	assert.Empty(t, d.Standings)
}
