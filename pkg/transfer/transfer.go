// Package transfer prepares manual-transfer deposit instructions and can send
// the deposit from a locally configured wallet.
package transfer

import (
	"context"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gagliardetto/solana-go"

	"swapwizard/pkg/types"
)

// LoopringSendType is shown for Loopring networks, where deposits must be L2 transfers
const LoopringSendType = "To Another Loopring L2 Account"

// AddressFamily groups networks that share an address format
type AddressFamily string

const (
	FamilyEVM    AddressFamily = "evm"
	FamilySolana AddressFamily = "solana"
	FamilyOther  AddressFamily = "other"
)

var evmNetworkPrefixes = []string{
	"ETHEREUM", "ARBITRUM", "OPTIMISM", "POLYGON", "BSC", "BASE", "LINEA",
	"ZKSYNC", "SCROLL", "AVAX", "LOOPRING", "IMMUTABLEX", "MANTLE", "ZORA",
}

// Family returns the address family of a network internal name
func Family(network string) AddressFamily {
	name := strings.ToUpper(network)
	if strings.HasPrefix(name, "SOLANA") {
		return FamilySolana
	}
	for _, prefix := range evmNetworkPrefixes {
		if strings.HasPrefix(name, prefix) {
			return FamilyEVM
		}
	}
	return FamilyOther
}

// IsLoopring reports whether network is a Loopring network
func IsLoopring(network string) bool {
	return strings.HasPrefix(strings.ToUpper(network), "LOOPRING")
}

// ValidateAddress checks address against the format of the network family.
// Networks of unknown family are accepted as is.
func ValidateAddress(network, address string) error {
	if address == "" {
		return fmt.Errorf("empty deposit address")
	}
	switch Family(network) {
	case FamilyEVM:
		if !common.IsHexAddress(address) {
			return fmt.Errorf("invalid EVM address: %s", address)
		}
	case FamilySolana:
		if _, err := solana.PublicKeyFromBase58(address); err != nil {
			return fmt.Errorf("invalid Solana address: %w", err)
		}
	}
	return nil
}

// DepositAddressGetter fetches deposit addresses
type DepositAddressGetter interface {
	GetDepositAddress(ctx context.Context, accessToken, network string, source types.DepositAddressSource) (*types.DepositAddress, error)
}

// Instructions tell the user where and how to send a manual transfer
type Instructions struct {
	Network string `json:"network"`
	Asset   string `json:"asset,omitempty"`
	Address string `json:"address"`
	// SendType is set for networks that need a specific kind of transfer
	SendType string `json:"send_type,omitempty"`
}

// Prepare fetches the user generated deposit address of network and checks it
func Prepare(ctx context.Context, api DepositAddressGetter, accessToken, network, asset string) (*Instructions, error) {
	deposit, err := api.GetDepositAddress(ctx, accessToken, network, types.DepositAddressUserGenerated)
	if err != nil {
		return nil, err
	}

	if err := ValidateAddress(network, deposit.Address); err != nil {
		return nil, fmt.Errorf("API returned an unusable deposit address: %w", err)
	}

	in := &Instructions{
		Network: network,
		Asset:   asset,
		Address: deposit.Address,
	}
	if IsLoopring(network) {
		in.SendType = LoopringSendType
	}
	return in, nil
}
