package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		input  string
		amount string
		asset  string
	}{
		{"10 ETH", "10", "ETH"},
		{"0.5 usdc", "0.5", "USDC"},
		{"withdraw 100 USDT", "100", "USDT"},
		{"  2 usdc.e ", "2", "USDC"},
		{"1 WBTC", "1", "BTC"},
	}
	for _, tt := range tests {
		req, err := ParseAmount(tt.input)
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.amount, req.Amount, tt.input)
		assert.Equal(t, tt.asset, req.Asset, tt.input)
	}
}

func TestParseAmountInvalid(t *testing.T) {
	for _, input := range []string{"", "ETH 10", "ten ETH", "10", "-1 ETH"} {
		_, err := ParseAmount(input)
		assert.Error(t, err, input)
	}
}
