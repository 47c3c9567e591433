package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config holds the application configuration
type Config struct {
	BaseURL     string  `mapstructure:"base_url" validate:"required,url"`
	AppOrigin   string  `mapstructure:"app_origin" validate:"required,url"`
	Campaign    string  `mapstructure:"campaign"`
	SessionFile string  `mapstructure:"session_file"`
	OneClickJWT string  `mapstructure:"oneclick_jwt"`
	LogLevel    string  `mapstructure:"log_level" validate:"omitempty,oneof=trace debug info warn warning error fatal panic"`
	RequestRate float64 `mapstructure:"request_rate" validate:"gte=0"`

	Polling     PollingConfig     `mapstructure:"polling"`
	AutoDeposit AutoDepositConfig `mapstructure:"auto_deposit"`
}

// PollingConfig bounds the two wizard polling loops
type PollingConfig struct {
	ConnectInterval time.Duration `mapstructure:"connect_interval" validate:"gt=0"`
	ConnectTimeout  time.Duration `mapstructure:"connect_timeout" validate:"gte=0"`
	PaymentInterval time.Duration `mapstructure:"payment_interval" validate:"gt=0"`
	PaymentTimeout  time.Duration `mapstructure:"payment_timeout" validate:"gte=0"`
	MaxAttempts     int           `mapstructure:"max_attempts" validate:"gte=0"`
}

// AutoDepositConfig configures sending manual-transfer deposits from a local wallet
type AutoDepositConfig struct {
	Enabled bool         `mapstructure:"enabled"`
	EVM     EVMConfig    `mapstructure:"evm"`
	Solana  SolanaConfig `mapstructure:"solana"`
}

// EVMConfig holds the wallets for EVM networks, keyed by network internal name
type EVMConfig struct {
	Networks map[string]EVMNetwork `mapstructure:"networks" validate:"dive"`
}

// EVMNetwork is a single EVM network wallet
type EVMNetwork struct {
	RPCUrl     string  `mapstructure:"rpc_url" validate:"required"`
	PrivateKey string  `mapstructure:"private_key" validate:"required"`
	ChainID    int64   `mapstructure:"chain_id" validate:"gt=0"`
	GasLimit   *uint64 `mapstructure:"gas_limit"`
	GasPrice   *int64  `mapstructure:"gas_price"`
}

// SolanaConfig is the Solana wallet
type SolanaConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	RPCUrl        string `mapstructure:"rpc_url"`
	PrivateKey    string `mapstructure:"private_key"`
	Commitment    string `mapstructure:"commitment"`
	SkipPreflight bool   `mapstructure:"skip_preflight"`
}

var globalConfig *Config

// Load reads configuration from environment variables and config file
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName(".swapwizard")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME")
	v.AddConfigPath(".")

	setDefaults(v)

	// Read from environment variables
	v.SetEnvPrefix("SWAPWIZARD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Config file is optional
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	globalConfig = cfg
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("base_url", "https://api.layerswap.io/api")
	v.SetDefault("app_origin", "http://127.0.0.1:8765")
	v.SetDefault("campaign", "")
	v.SetDefault("session_file", "")
	v.SetDefault("oneclick_jwt", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("request_rate", 5)
	v.SetDefault("polling.connect_interval", 2*time.Second)
	v.SetDefault("polling.connect_timeout", 10*time.Minute)
	v.SetDefault("polling.payment_interval", 10*time.Second)
	v.SetDefault("polling.payment_timeout", 2*time.Hour)
	v.SetDefault("polling.max_attempts", 0)
}

// Validate checks the configuration against its struct constraints
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// Default returns the configuration with only defaults applied
func Default() *Config {
	v := viper.New()
	setDefaults(v)

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		panic(fmt.Sprintf("config: defaults do not decode: %v", err))
	}
	return cfg
}

// Get returns the global configuration
func Get() (*Config, error) {
	if globalConfig == nil {
		return Load()
	}
	return globalConfig, nil
}
