package parser

import (
	"fmt"
	"regexp"
	"strings"
)

var amountAssetPattern = regexp.MustCompile(`^(\d+\.?\d*)\s+([A-Z0-9.]+)$`)

// AmountRequest is the amount a user intends to withdraw from an exchange
type AmountRequest struct {
	Amount string
	Asset  string
}

// ParseAmount parses "<amount> <asset>" as typed on the command line
// Examples:
//   - "10 ETH"
//   - "0.5 usdc"
//   - "withdraw 100 USDT"
func ParseAmount(input string) (*AmountRequest, error) {
	input = strings.TrimSpace(strings.ToUpper(input))
	input = strings.TrimPrefix(input, "WITHDRAW ")

	matches := amountAssetPattern.FindStringSubmatch(input)
	if matches == nil {
		return nil, fmt.Errorf("invalid amount format. Expected: '<amount> <asset>' (e.g., '10 ETH')")
	}

	return &AmountRequest{
		Amount: matches[1],
		Asset:  NormalizeAsset(matches[2]),
	}, nil
}

// NormalizeAsset normalizes asset symbols to the names the API lists
func NormalizeAsset(symbol string) string {
	symbol = strings.TrimSpace(strings.ToUpper(symbol))

	aliases := map[string]string{
		"USDC.E": "USDC",
		"WETH":   "ETH",
		"WBTC":   "BTC",
	}

	if normalized, exists := aliases[symbol]; exists {
		return normalized
	}

	return symbol
}
