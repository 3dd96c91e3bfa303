// Package config loads and validates the agent configuration from YAML or
// JSON files.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Aditya-Mallik-M/AutoAgents/market"
)

// Config is the complete agent configuration.
type Config struct {
	Account  AccountConfig  `json:"account" yaml:"account"`
	Monitor  MonitorConfig  `json:"monitor" yaml:"monitor"`
	Risk     RiskConfig     `json:"risk" yaml:"risk"`
	Provider ProviderConfig `json:"provider" yaml:"provider"`
	Journal  JournalConfig  `json:"journal" yaml:"journal"`
}

// AccountConfig sets up the simulated portfolio.
type AccountConfig struct {
	Currency      string  `json:"currency" yaml:"currency"`
	InitialAmount float64 `json:"initial_amount" yaml:"initial_amount"`
}

// MonitorConfig drives the monitoring loop.
type MonitorConfig struct {
	Pairs                []string `json:"pairs" yaml:"pairs"`
	IntervalSeconds      int      `json:"interval_seconds" yaml:"interval_seconds"`
	SignificantChangePct float64  `json:"significant_change_pct" yaml:"significant_change_pct"`
	HistoryBars          int      `json:"history_bars" yaml:"history_bars"`
}

func (m MonitorConfig) Interval() time.Duration {
	return time.Duration(m.IntervalSeconds) * time.Second
}

// RiskConfig gates trade execution.
type RiskConfig struct {
	MaxRiskPerTrade float64 `json:"max_risk_per_trade" yaml:"max_risk_per_trade"`
	MinTradeAmount  float64 `json:"min_trade_amount" yaml:"min_trade_amount"`
	MinStrength     float64 `json:"min_strength" yaml:"min_strength"`
	MinConfidence   float64 `json:"min_confidence" yaml:"min_confidence"`
	MinRewardRisk   float64 `json:"min_reward_risk" yaml:"min_reward_risk"`
}

// ProviderConfig selects the market data source. The API key may instead
// come from the ALPHA_VANTAGE_API_KEY environment variable.
type ProviderConfig struct {
	APIKey    string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
	BaseURL   string `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	StreamURL string `json:"stream_url,omitempty" yaml:"stream_url,omitempty"`
}

// JournalConfig selects persistence for transactions and equity history.
type JournalConfig struct {
	Type             string `json:"type" yaml:"type"` // "csv", "sqlite", or "none"
	TransactionsFile string `json:"transactions_file,omitempty" yaml:"transactions_file,omitempty"`
	EquityFile       string `json:"equity_file,omitempty" yaml:"equity_file,omitempty"`
	DBPath           string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// LoadFromFile reads a config file, trying YAML first and falling back to
// JSON, then validates it.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		if jsonErr := json.Unmarshal(data, cfg); jsonErr != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// SaveToFile writes the config as YAML (.yaml/.yml extension) or indented
// JSON.
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if (len(path) > 5 && path[len(path)-5:] == ".yaml") || (len(path) > 4 && path[len(path)-4:] == ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate checks the configuration for fatal problems.
func (c *Config) Validate() error {
	if c.Account.Currency == "" {
		return fmt.Errorf("account.currency is required")
	}
	if c.Account.InitialAmount <= 0 {
		return fmt.Errorf("account.initial_amount must be positive")
	}
	if len(c.Monitor.Pairs) == 0 {
		return fmt.Errorf("monitor.pairs must not be empty")
	}
	for _, pair := range c.Monitor.Pairs {
		if _, _, err := market.SplitPair(pair); err != nil {
			return fmt.Errorf("monitor.pairs: %w", err)
		}
	}
	if c.Monitor.IntervalSeconds <= 0 {
		return fmt.Errorf("monitor.interval_seconds must be positive")
	}
	if c.Monitor.SignificantChangePct <= 0 {
		return fmt.Errorf("monitor.significant_change_pct must be positive")
	}
	if c.Monitor.HistoryBars <= 0 {
		return fmt.Errorf("monitor.history_bars must be positive")
	}
	if c.Risk.MaxRiskPerTrade <= 0 || c.Risk.MaxRiskPerTrade > 1 {
		return fmt.Errorf("risk.max_risk_per_trade must be between 0 and 1")
	}
	if c.Risk.MinTradeAmount < 0 {
		return fmt.Errorf("risk.min_trade_amount must not be negative")
	}
	if c.Risk.MinRewardRisk < 0 {
		return fmt.Errorf("risk.min_reward_risk must not be negative")
	}
	switch c.Journal.Type {
	case "csv":
		if c.Journal.TransactionsFile == "" || c.Journal.EquityFile == "" {
			return fmt.Errorf("journal transactions_file and equity_file required for CSV type")
		}
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal db_path required for SQLite type")
		}
	case "none":
	default:
		return fmt.Errorf("journal.type must be 'csv', 'sqlite', or 'none'")
	}
	return nil
}

// Default returns a configuration with sensible defaults: the eight majors,
// a 60 second cycle, and a 1000 USD simulated portfolio.
func Default() *Config {
	return &Config{
		Account: AccountConfig{
			Currency:      "USD",
			InitialAmount: 1000,
		},
		Monitor: MonitorConfig{
			Pairs: []string{
				"EUR/USD", "GBP/USD", "USD/JPY", "USD/CHF",
				"AUD/USD", "USD/CAD", "NZD/USD", "EUR/GBP",
			},
			IntervalSeconds:      60,
			SignificantChangePct: 0.5,
			HistoryBars:          100,
		},
		Risk: RiskConfig{
			MaxRiskPerTrade: 0.10,
			MinTradeAmount:  0.01,
			MinStrength:     20,
			MinConfidence:   30,
			MinRewardRisk:   1.0,
		},
		Journal: JournalConfig{
			Type:             "csv",
			TransactionsFile: "./transactions.csv",
			EquityFile:       "./equity.csv",
		},
	}
}
