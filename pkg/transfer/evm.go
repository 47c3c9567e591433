package transfer

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"

	"swapwizard/config"
)

const nativeTransferGas = uint64(21000)

// EVMSender sends native deposits on an EVM network
type EVMSender struct {
	networkName string
	network     config.EVMNetwork
	client      *ethclient.Client
	privateKey  *ecdsa.PrivateKey
}

// NewEVMSender connects to the network's RPC endpoint
func NewEVMSender(ctx context.Context, network config.EVMNetwork, networkName string) (*EVMSender, error) {
	if network.RPCUrl == "" {
		return nil, fmt.Errorf("RPC URL not configured for network %s", networkName)
	}
	if network.PrivateKey == "" {
		return nil, fmt.Errorf("private key not configured for network %s", networkName)
	}

	privateKey, err := crypto.HexToECDSA(strings.TrimPrefix(network.PrivateKey, "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}

	client, err := ethclient.DialContext(ctx, network.RPCUrl)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RPC endpoint: %w", err)
	}

	return &EVMSender{
		networkName: networkName,
		network:     network,
		client:      client,
		privateKey:  privateKey,
	}, nil
}

// SendDeposit sends amount (in whole ether units) to address
func (e *EVMSender) SendDeposit(ctx context.Context, address string, amount string) (string, error) {
	if !common.IsHexAddress(address) {
		return "", fmt.Errorf("invalid recipient address: %s", address)
	}

	publicKeyECDSA, ok := e.privateKey.Public().(*ecdsa.PublicKey)
	if !ok {
		return "", fmt.Errorf("failed to get public key")
	}
	from := crypto.PubkeyToAddress(*publicKeyECDSA)

	amountWei, err := ParseEther(amount)
	if err != nil {
		return "", fmt.Errorf("invalid amount: %w", err)
	}

	balance, err := e.client.BalanceAt(ctx, from, nil)
	if err != nil {
		return "", fmt.Errorf("failed to get balance: %w", err)
	}
	if balance.Cmp(amountWei) < 0 {
		return "", fmt.Errorf("insufficient balance: have %s wei, need %s wei", balance.String(), amountWei.String())
	}

	nonce, err := e.client.PendingNonceAt(ctx, from)
	if err != nil {
		return "", fmt.Errorf("failed to get nonce: %w", err)
	}

	gasPrice, err := e.gasPrice(ctx)
	if err != nil {
		return "", err
	}

	gasLimit := nativeTransferGas
	if e.network.GasLimit != nil {
		gasLimit = *e.network.GasLimit
	}

	tx := types.NewTransaction(nonce, common.HexToAddress(address), amountWei, gasLimit, gasPrice, nil)

	signedTx, err := types.SignTx(tx, types.NewEIP155Signer(big.NewInt(e.network.ChainID)), e.privateKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign transaction: %w", err)
	}

	if err := e.client.SendTransaction(ctx, signedTx); err != nil {
		return "", fmt.Errorf("failed to send transaction: %w", err)
	}

	return signedTx.Hash().Hex(), nil
}

func (e *EVMSender) gasPrice(ctx context.Context) (*big.Int, error) {
	if e.network.GasPrice != nil {
		return big.NewInt(*e.network.GasPrice), nil
	}
	gasPrice, err := e.client.SuggestGasPrice(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get gas price: %w", err)
	}
	return gasPrice, nil
}

// Close closes the client connection
func (e *EVMSender) Close() {
	if e.client != nil {
		e.client.Close()
	}
}

// ParseEther converts a decimal ether amount to wei without going through float64
func ParseEther(amount string) (*big.Int, error) {
	r, ok := new(big.Rat).SetString(strings.TrimSpace(amount))
	if !ok {
		return nil, fmt.Errorf("invalid amount format: %s", amount)
	}
	if r.Sign() <= 0 {
		return nil, fmt.Errorf("amount must be greater than 0")
	}
	wei := new(big.Rat).Mul(r, new(big.Rat).SetInt(big.NewInt(1e18)))
	// Truncate below one wei
	return new(big.Int).Quo(wei.Num(), wei.Denom()), nil
}
