package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"

	"near-intents/pkg/assets"
	"near-intents/pkg/intents"
	"near-intents/pkg/nearclient"
	"near-intents/pkg/solverbus"
)

// Config holds the application configuration.
type Config struct {
	SolverBusURL      string
	NearRPCURL        string
	VerifyingContract string
	AccountFile       string
	DeadlineMs        int64
	RequestTimeout    time.Duration

	// JWTToken authenticates the optional 1Click token discovery.
	JWTToken string

	// Assets replaces the built-in asset table when set.
	Assets []assets.Asset

	AutoDeposit AutoDepositConfig
}

// AutoDepositConfig enables sending swap input deposits automatically.
type AutoDepositConfig struct {
	Enabled bool             `mapstructure:"enabled"`
	Zcash   ZcashConfig      `mapstructure:"zcash"`
	EVM     EVMDepositConfig `mapstructure:"evm"`
}

// ZcashConfig drives the zcash-cli based depositor.
type ZcashConfig struct {
	Enabled     bool     `mapstructure:"enabled"`
	CLIPath     string   `mapstructure:"cli_path"`
	CLIArgs     []string `mapstructure:"cli_args"`
	FromAddress string   `mapstructure:"from_address"`
}

// EVMDepositConfig drives origin-chain deposits of bridged tokens.
type EVMDepositConfig struct {
	Enabled        bool              `mapstructure:"enabled"`
	RPCURL         string            `mapstructure:"rpc_url"`
	PrivateKey     string            `mapstructure:"private_key"`
	ChainID        int64             `mapstructure:"chain_id"`
	TokenContracts map[string]string `mapstructure:"token_contracts"`
	GasLimit       uint64            `mapstructure:"gas_limit"`
}

var globalConfig *Config

// Load reads configuration from environment variables and an optional
// .near-intents.yaml file in the home or working directory.
func Load() (*Config, error) {
	viper.SetConfigName(".near-intents")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("$HOME")
	viper.AddConfigPath(".")

	viper.SetDefault("solver_bus_url", solverbus.DefaultURL)
	viper.SetDefault("near_rpc_url", nearclient.DefaultURL)
	viper.SetDefault("verifying_contract", intents.DefaultVerifyingContract)
	viper.SetDefault("deadline_ms", intents.DefaultDeadlineMs)
	viper.SetDefault("request_timeout", "30s")

	viper.SetEnvPrefix("NEAR_INTENTS")
	viper.AutomaticEnv()

	// Config file is optional.
	_ = viper.ReadInConfig()

	cfg := &Config{
		SolverBusURL:      viper.GetString("solver_bus_url"),
		NearRPCURL:        viper.GetString("near_rpc_url"),
		VerifyingContract: viper.GetString("verifying_contract"),
		AccountFile:       viper.GetString("account_file"),
		DeadlineMs:        viper.GetInt64("deadline_ms"),
		RequestTimeout:    viper.GetDuration("request_timeout"),
		JWTToken:          viper.GetString("jwt_token"),
	}

	if err := viper.UnmarshalKey("assets", &cfg.Assets); err != nil {
		return nil, fmt.Errorf("invalid assets table: %w", err)
	}
	if err := viper.UnmarshalKey("auto_deposit", &cfg.AutoDeposit); err != nil {
		return nil, fmt.Errorf("invalid auto_deposit config: %w", err)
	}

	globalConfig = cfg
	return cfg, nil
}

// Registry builds the asset registry from the configured table, falling
// back to the built-in assets.
func (c *Config) Registry() *assets.Registry {
	if len(c.Assets) > 0 {
		return assets.NewRegistry(c.Assets)
	}
	return assets.DefaultRegistry()
}

// Get returns the global configuration, loading it on first use.
func Get() *Config {
	if globalConfig == nil {
		cfg, err := Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
			os.Exit(1)
		}
		return cfg
	}
	return globalConfig
}

// Set updates the global configuration.
func Set(cfg *Config) {
	globalConfig = cfg
}
