// Package rewards computes the figures of the campaign rewards dashboard.
package rewards

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Leaderboard split of the campaign budget for the top three positions, in percent
var leaderboardShares = map[int]float64{
	1: 60,
	2: 30,
	3: 10,
}

// LeaderboardReward returns the reward of a leaderboard position. Positions
// outside the top three get nothing and ok is false.
func LeaderboardReward(budget float64, position int) (float64, bool) {
	share, ok := leaderboardShares[position]
	if !ok {
		return 0, false
	}
	return budget * share / 100, true
}

// Countdown splits the time until next into whole days and remaining hours,
// each rounded to the nearest unit
func Countdown(next, now time.Time) (days, hours int) {
	diff := next.Sub(now)
	totalHours := math.Abs(diff.Hours())
	d := math.Round(totalHours / 24)
	h := math.Round(math.Abs(totalHours - d*24))
	return int(d), int(h)
}

// CampaignEnded reports whether end lies more than half a day in the past.
// Halves round up, so exactly half a day is not ended yet.
func CampaignEnded(end, now time.Time) bool {
	return math.Floor(end.Sub(now).Hours()/24+0.5) < 0
}

// PeriodProgress is the share of the period reward limit already earned, in
// percent clamped to [0, 100]
func PeriodProgress(periodPending, limit float64) float64 {
	if limit <= 0 {
		return 0
	}
	p := periodPending / limit * 100
	if math.IsNaN(p) || p < 0 {
		return 0
	}
	return math.Min(p, 100)
}

// USDValue is the dollar value of amount, rounded to cents
func USDValue(usdPrice, amount float64) float64 {
	return math.Round(usdPrice*amount*100) / 100
}

// TruncateDecimals cuts value to the given number of decimals without rounding
func TruncateDecimals(value float64, decimals int) float64 {
	if decimals < 0 {
		return value
	}
	pow := math.Pow(10, float64(decimals))
	return math.Trunc(value*pow) / pow
}

// ShortenAddress keeps the first six and last four characters
func ShortenAddress(address string) string {
	if len(address) <= 12 {
		return address
	}
	return address[:6] + "..." + address[len(address)-4:]
}

// ExplorerURL fills a transaction explorer template such as
// "https://etherscan.io/tx/{0}"
func ExplorerURL(template, txID string) string {
	if template == "" {
		return ""
	}
	return strings.ReplaceAll(template, "{0}", txID)
}

// RefreshLabel describes how often the period limit resets
func RefreshLabel(periodDays int) string {
	if periodDays > 1 {
		return "Refreshes every " + strconv.Itoa(periodDays) + " days"
	}
	return "Refreshes every day"
}
