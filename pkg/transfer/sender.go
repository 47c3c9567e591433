package transfer

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"swapwizard/config"
)

// Sender sends a deposit and returns the transaction id
type Sender interface {
	SendDeposit(ctx context.Context, address string, amount string) (string, error)
	Close()
}

// Manager sends manual-transfer deposits from the configured wallets
type Manager struct {
	config config.AutoDepositConfig
}

// NewManager creates a new deposit manager
func NewManager(cfg config.AutoDepositConfig) *Manager {
	return &Manager{
		config: cfg,
	}
}

// IsEnabled returns whether auto-deposit is enabled globally
func (m *Manager) IsEnabled() bool {
	return m.config.Enabled
}

// IsEnabledForNetwork returns whether a wallet is configured for network
func (m *Manager) IsEnabledForNetwork(network string) bool {
	if !m.config.Enabled {
		return false
	}

	switch Family(network) {
	case FamilyEVM:
		_, ok := m.evmNetwork(network)
		return ok
	case FamilySolana:
		return m.config.Solana.Enabled
	default:
		return false
	}
}

// SendDeposit sends amount of the network's native asset to address
func (m *Manager) SendDeposit(ctx context.Context, network, address, amount string) (string, error) {
	if !m.IsEnabled() {
		return "", fmt.Errorf("auto-deposit is not enabled in configuration")
	}
	if !m.IsEnabledForNetwork(network) {
		return "", fmt.Errorf("auto-deposit is not enabled for network: %s", network)
	}
	if err := ValidateAddress(network, address); err != nil {
		return "", err
	}

	sender, err := m.senderFor(ctx, network)
	if err != nil {
		return "", err
	}
	defer sender.Close()

	return sender.SendDeposit(ctx, address, amount)
}

func (m *Manager) senderFor(ctx context.Context, network string) (Sender, error) {
	switch Family(network) {
	case FamilyEVM:
		cfg, _ := m.evmNetwork(network)
		return NewEVMSender(ctx, cfg, network)
	case FamilySolana:
		return NewSolanaSender(m.config.Solana)
	default:
		return nil, fmt.Errorf("auto-deposit not supported for network: %s", network)
	}
}

// evmNetwork looks the wallet up ignoring case, since config keys are lowercased on load
func (m *Manager) evmNetwork(network string) (config.EVMNetwork, bool) {
	for name, cfg := range m.config.EVM.Networks {
		if strings.EqualFold(name, network) {
			return cfg, true
		}
	}
	return config.EVMNetwork{}, false
}

// SupportedNetworks lists the networks a wallet is configured for
func (m *Manager) SupportedNetworks() []string {
	supported := make([]string, 0, len(m.config.EVM.Networks)+1)
	for name := range m.config.EVM.Networks {
		supported = append(supported, strings.ToUpper(name))
	}
	sort.Strings(supported)

	if m.config.Solana.Enabled {
		supported = append(supported, "SOLANA_MAINNET")
	}

	return supported
}
