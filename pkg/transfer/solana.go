package transfer

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/gagliardetto/solana-go/rpc"

	"swapwizard/config"
)

// Solana charges 5000 lamports per signature
const solanaSignatureFee = uint64(5000)

// SolanaSender sends native SOL deposits
type SolanaSender struct {
	config     config.SolanaConfig
	client     *rpc.Client
	privateKey solana.PrivateKey
	publicKey  solana.PublicKey
}

// NewSolanaSender creates a new Solana sender
func NewSolanaSender(cfg config.SolanaConfig) (*SolanaSender, error) {
	if cfg.RPCUrl == "" {
		return nil, fmt.Errorf("RPC URL not configured for Solana")
	}
	if cfg.PrivateKey == "" {
		return nil, fmt.Errorf("private key not configured for Solana")
	}

	privateKey, err := solana.PrivateKeyFromBase58(cfg.PrivateKey)
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}

	return &SolanaSender{
		config:     cfg,
		client:     rpc.New(cfg.RPCUrl),
		privateKey: privateKey,
		publicKey:  privateKey.PublicKey(),
	}, nil
}

// SendDeposit sends amount SOL to address
func (s *SolanaSender) SendDeposit(ctx context.Context, address string, amount string) (string, error) {
	recipient, err := solana.PublicKeyFromBase58(address)
	if err != nil {
		return "", fmt.Errorf("invalid recipient address: %w", err)
	}

	lamports, err := ParseSOL(amount)
	if err != nil {
		return "", fmt.Errorf("invalid amount: %w", err)
	}

	balance, err := s.client.GetBalance(ctx, s.publicKey, s.commitment())
	if err != nil {
		return "", fmt.Errorf("failed to get balance: %w", err)
	}
	if balance.Value < lamports+solanaSignatureFee {
		return "", fmt.Errorf("insufficient balance: have %d lamports, need %d lamports (including fees)", balance.Value, lamports+solanaSignatureFee)
	}

	recent, err := s.client.GetLatestBlockhash(ctx, rpc.CommitmentFinalized)
	if err != nil {
		return "", fmt.Errorf("failed to get recent blockhash: %w", err)
	}

	instruction := system.NewTransferInstruction(
		lamports,
		s.publicKey,
		recipient,
	).Build()

	tx, err := solana.NewTransaction(
		[]solana.Instruction{instruction},
		recent.Value.Blockhash,
		solana.TransactionPayer(s.publicKey),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create transaction: %w", err)
	}

	_, err = tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		if key.Equals(s.publicKey) {
			return &s.privateKey
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to sign transaction: %w", err)
	}

	sig, err := s.client.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{
		SkipPreflight:       s.config.SkipPreflight,
		PreflightCommitment: s.commitment(),
	})
	if err != nil {
		return "", fmt.Errorf("failed to send transaction: %w", err)
	}

	return sig.String(), nil
}

func (s *SolanaSender) commitment() rpc.CommitmentType {
	switch strings.ToLower(s.config.Commitment) {
	case "processed":
		return rpc.CommitmentProcessed
	case "confirmed":
		return rpc.CommitmentConfirmed
	default:
		return rpc.CommitmentFinalized
	}
}

// Close implements Sender. The RPC client holds no connection to release.
func (s *SolanaSender) Close() {}

// ParseSOL converts a decimal SOL amount to lamports
func ParseSOL(amount string) (uint64, error) {
	r, ok := new(big.Rat).SetString(strings.TrimSpace(amount))
	if !ok {
		return 0, fmt.Errorf("invalid amount format: %s", amount)
	}
	if r.Sign() <= 0 {
		return 0, fmt.Errorf("amount must be greater than 0")
	}
	lamports := new(big.Rat).Mul(r, new(big.Rat).SetInt64(1_000_000_000))
	n := new(big.Int).Quo(lamports.Num(), lamports.Denom())
	if !n.IsUint64() {
		return 0, fmt.Errorf("amount too large: %s", amount)
	}
	return n.Uint64(), nil
}
