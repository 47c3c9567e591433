package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestDefaultMatchesLoadWithoutFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	assert.Equal(t, "https://api.layerswap.io/api", cfg.BaseURL)
	assert.Equal(t, 2*time.Second, cfg.Polling.ConnectInterval)
	assert.Equal(t, 10*time.Second, cfg.Polling.PaymentInterval)
	assert.Equal(t, 10*time.Minute, cfg.Polling.ConnectTimeout)
	assert.Equal(t, 2*time.Hour, cfg.Polling.PaymentTimeout)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := Default()
	cfg.BaseURL = "not a url"
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.LogLevel = "loud"
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Polling.PaymentInterval = 0
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.AutoDeposit.EVM.Networks = map[string]EVMNetwork{"base_mainnet": {RPCUrl: "http://localhost"}}
	assert.Error(t, cfg.Validate())
}

func TestLoadFromFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("SWAPWIZARD_CAMPAIGN", "OPTIMISM_REWARDS")

	yaml := `
base_url: https://api.example.com/api
polling:
  payment_interval: 30s
auto_deposit:
  enabled: true
  evm:
    networks:
      ARBITRUM_MAINNET:
        rpc_url: http://localhost:8545
        private_key: "00"
        chain_id: 42161
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".swapwizard.yaml"), []byte(yaml), 0600))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.com/api", cfg.BaseURL)
	assert.Equal(t, "OPTIMISM_REWARDS", cfg.Campaign)
	assert.Equal(t, 30*time.Second, cfg.Polling.PaymentInterval)
	assert.Equal(t, 2*time.Second, cfg.Polling.ConnectInterval)
	assert.Equal(t, "http://127.0.0.1:8765", cfg.AppOrigin)
	assert.True(t, cfg.AutoDeposit.Enabled)
	assert.Contains(t, cfg.AutoDeposit.EVM.Networks, "arbitrum_mainnet")

	got, err := Get()
	require.NoError(t, err)
	assert.Same(t, cfg, got)
}
