package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Wallet string `yaml:"wallet"`
	Token  struct {
		Mint string `yaml:"mint"`
	} `yaml:"token"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Exchange struct {
		QuoteURL    string `yaml:"quote_url"`
		RPCEndpoint string `yaml:"rpc_endpoint"`
		DryRun      bool   `yaml:"dry_run"`
	} `yaml:"exchange"`
	Market struct {
		JupiterURL     string `yaml:"jupiter_url"`
		DexScreenerURL string `yaml:"dexscreener_url"`
		RefreshCron    string `yaml:"refresh_cron"`
		StatsCron      string `yaml:"stats_cron"`
	} `yaml:"market"`
	API struct {
		Port string `yaml:"port"`
	} `yaml:"api"`
	VolumeBot struct {
		Enabled        bool    `yaml:"enabled"`
		MinBuySol      float64 `yaml:"min_buy_sol"`
		MaxBuySol      float64 `yaml:"max_buy_sol"`
		MinIntervalSec int     `yaml:"min_interval_sec"`
		MaxIntervalSec int     `yaml:"max_interval_sec"`
		FeeReserveSol  float64 `yaml:"fee_reserve_sol"`
	} `yaml:"volume_bot"`
	GridBot struct {
		Enabled   bool   `yaml:"enabled"`
		Levels    int    `yaml:"levels"`
		PriceMin  string `yaml:"price_min"`
		PriceMax  string `yaml:"price_max"`
		OrderSize string `yaml:"order_size"`
	} `yaml:"grid_bot"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("WALLET_ADDRESS"); v != "" {
		cfg.Wallet = v
	}
	if v := os.Getenv("TOKEN_MINT"); v != "" {
		cfg.Token.Mint = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("API_PORT"); v != "" {
		cfg.API.Port = v
	}
	if v := os.Getenv("RPC_ENDPOINT"); v != "" {
		cfg.Exchange.RPCEndpoint = v
	}
	if v := os.Getenv("DRY_RUN"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Exchange.DryRun = b
		}
	}

	// Defaults
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/trapwars.db"
	}
	if cfg.Market.RefreshCron == "" {
		cfg.Market.RefreshCron = "0 */30 * * * *" // every 30 minutes
	}
	if cfg.Market.StatsCron == "" {
		cfg.Market.StatsCron = "0 0 * * * *" // hourly
	}
	if cfg.API.Port == "" {
		cfg.API.Port = "8080"
	}
	if cfg.VolumeBot.MinBuySol == 0 {
		cfg.VolumeBot.MinBuySol = 0.01
	}
	if cfg.VolumeBot.MaxBuySol == 0 {
		cfg.VolumeBot.MaxBuySol = 0.05
	}
	if cfg.VolumeBot.MinIntervalSec == 0 {
		cfg.VolumeBot.MinIntervalSec = 30
	}
	if cfg.VolumeBot.MaxIntervalSec == 0 {
		cfg.VolumeBot.MaxIntervalSec = 120
	}
	if cfg.VolumeBot.FeeReserveSol == 0 {
		cfg.VolumeBot.FeeReserveSol = 0.01
	}
	if cfg.GridBot.Levels == 0 {
		cfg.GridBot.Levels = 10
	}
	if cfg.GridBot.PriceMin == "" {
		cfg.GridBot.PriceMin = "0.000001"
	}
	if cfg.GridBot.PriceMax == "" {
		cfg.GridBot.PriceMax = "0.00001"
	}
	if cfg.GridBot.OrderSize == "" {
		cfg.GridBot.OrderSize = "0.1"
	}

	return cfg, nil
}

// Validate checks that all required fields are set and consistent.
func (c *Config) Validate() error {
	if c.Wallet == "" {
		return fmt.Errorf("wallet is required")
	}
	if (c.VolumeBot.Enabled || c.GridBot.Enabled) && c.Token.Mint == "" {
		return fmt.Errorf("token.mint is required when an agent is enabled")
	}
	if c.VolumeBot.MinBuySol > c.VolumeBot.MaxBuySol {
		return fmt.Errorf("volume_bot.min_buy_sol must not exceed max_buy_sol")
	}
	if c.VolumeBot.MinIntervalSec > c.VolumeBot.MaxIntervalSec {
		return fmt.Errorf("volume_bot.min_interval_sec must not exceed max_interval_sec")
	}
	if c.GridBot.Levels < 2 {
		return fmt.Errorf("grid_bot.levels must be at least 2")
	}
	return nil
}
