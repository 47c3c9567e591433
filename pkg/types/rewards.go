package types

import "time"

// UserReward is the reward state of a single address in a campaign
type UserReward struct {
	TotalAmount         float64 `json:"total_amount"`
	TotalPendingAmount  float64 `json:"total_pending_amount"`
	PeriodPendingAmount float64 `json:"period_pending_amount"`
	Position            int     `json:"position"`
}

// Reward is the reward snapshot for an address
type Reward struct {
	NextAirdropDate time.Time  `json:"next_airdrop_date"`
	UserReward      UserReward `json:"user_reward"`
}

// LeaderboardEntry is a single leaderboard row
type LeaderboardEntry struct {
	Position int     `json:"position"`
	Address  string  `json:"address"`
	Amount   float64 `json:"amount"`
}

// Leaderboard is the campaign leaderboard and its reward budget
type Leaderboard struct {
	LeaderboardBudget float64            `json:"leaderboard_budget"`
	Leaderboard       []LeaderboardEntry `json:"leaderboard"`
}

// RewardPayout is a reward already paid out on-chain
type RewardPayout struct {
	TransactionID string    `json:"transaction_id"`
	Amount        float64   `json:"amount"`
	Date          time.Time `json:"date"`
}
