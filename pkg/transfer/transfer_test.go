package transfer

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"swapwizard/config"
	"swapwizard/pkg/types"
)

const (
	evmAddress    = "0x0000000000000000000000000000000000000001"
	solanaAddress = "11111111111111111111111111111111"
)

type fakeDepositAPI struct {
	address string
	err     error
	source  types.DepositAddressSource
	token   string
}

func (f *fakeDepositAPI) GetDepositAddress(_ context.Context, accessToken, _ string, source types.DepositAddressSource) (*types.DepositAddress, error) {
	f.source = source
	f.token = accessToken
	if f.err != nil {
		return nil, f.err
	}
	return &types.DepositAddress{Address: f.address}, nil
}

func TestFamily(t *testing.T) {
	assert.Equal(t, FamilyEVM, Family("ETHEREUM_MAINNET"))
	assert.Equal(t, FamilyEVM, Family("arbitrum_mainnet"))
	assert.Equal(t, FamilyEVM, Family("LOOPRING_MAINNET"))
	assert.Equal(t, FamilySolana, Family("SOLANA_MAINNET"))
	assert.Equal(t, FamilyOther, Family("STARKNET_MAINNET"))

	assert.True(t, IsLoopring("LOOPRING_GOERLI"))
	assert.False(t, IsLoopring("ETHEREUM_MAINNET"))
}

func TestValidateAddress(t *testing.T) {
	assert.NoError(t, ValidateAddress("ETHEREUM_MAINNET", evmAddress))
	assert.Error(t, ValidateAddress("ETHEREUM_MAINNET", "0x123"))
	assert.NoError(t, ValidateAddress("SOLANA_MAINNET", solanaAddress))
	assert.Error(t, ValidateAddress("SOLANA_MAINNET", "not-base58-0OIl"))
	assert.NoError(t, ValidateAddress("STARKNET_MAINNET", "anything"))
	assert.Error(t, ValidateAddress("STARKNET_MAINNET", ""))
}

func TestPrepare(t *testing.T) {
	api := &fakeDepositAPI{address: evmAddress}

	in, err := Prepare(context.Background(), api, "token", "ARBITRUM_MAINNET", "ETH")
	require.NoError(t, err)
	assert.Equal(t, &Instructions{Network: "ARBITRUM_MAINNET", Asset: "ETH", Address: evmAddress}, in)
	assert.Equal(t, types.DepositAddressUserGenerated, api.source)
	assert.Equal(t, "token", api.token)
}

func TestPrepareLoopringSendType(t *testing.T) {
	in, err := Prepare(context.Background(), &fakeDepositAPI{address: evmAddress}, "", "LOOPRING_MAINNET", "")
	require.NoError(t, err)
	assert.Equal(t, LoopringSendType, in.SendType)
}

func TestPrepareRejectsBadAddress(t *testing.T) {
	_, err := Prepare(context.Background(), &fakeDepositAPI{address: "0xnope"}, "", "ETHEREUM_MAINNET", "ETH")
	assert.Error(t, err)

	boom := errors.New("boom")
	_, err = Prepare(context.Background(), &fakeDepositAPI{err: boom}, "", "ETHEREUM_MAINNET", "ETH")
	assert.ErrorIs(t, err, boom)
}

func TestParseEther(t *testing.T) {
	wei, err := ParseEther("1.5")
	require.NoError(t, err)
	want, _ := new(big.Int).SetString("1500000000000000000", 10)
	assert.Equal(t, 0, want.Cmp(wei))

	wei, err = ParseEther("0.000000000000000001")
	require.NoError(t, err)
	assert.Equal(t, int64(1), wei.Int64())

	_, err = ParseEther("0")
	assert.Error(t, err)
	_, err = ParseEther("abc")
	assert.Error(t, err)
}

func TestParseSOL(t *testing.T) {
	lamports, err := ParseSOL("0.25")
	require.NoError(t, err)
	assert.Equal(t, uint64(250_000_000), lamports)

	_, err = ParseSOL("-1")
	assert.Error(t, err)
	_, err = ParseSOL("1e30")
	assert.Error(t, err)
}

func TestManagerNetworks(t *testing.T) {
	m := NewManager(config.AutoDepositConfig{
		Enabled: true,
		EVM: config.EVMConfig{Networks: map[string]config.EVMNetwork{
			// Keys arrive lowercased from the config loader
			"arbitrum_mainnet": {RPCUrl: "http://localhost:8545", PrivateKey: "00", ChainID: 42161},
		}},
		Solana: config.SolanaConfig{Enabled: true},
	})

	assert.True(t, m.IsEnabled())
	assert.True(t, m.IsEnabledForNetwork("ARBITRUM_MAINNET"))
	assert.False(t, m.IsEnabledForNetwork("ETHEREUM_MAINNET"))
	assert.True(t, m.IsEnabledForNetwork("SOLANA_MAINNET"))
	assert.Equal(t, []string{"ARBITRUM_MAINNET", "SOLANA_MAINNET"}, m.SupportedNetworks())
}

func TestManagerDisabled(t *testing.T) {
	m := NewManager(config.AutoDepositConfig{})

	assert.False(t, m.IsEnabledForNetwork("SOLANA_MAINNET"))
	_, err := m.SendDeposit(context.Background(), "SOLANA_MAINNET", solanaAddress, "1")
	assert.Error(t, err)
}
