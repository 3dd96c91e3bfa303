package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Aditya-Mallik-M/AutoAgents/config"
	"github.com/Aditya-Mallik-M/AutoAgents/marketdata"
)

var rootCmd = &cobra.Command{
	Use:   "fxagent",
	Short: "An autonomous forex market analysis and trading agent",
	Long: `fxagent analyzes currency pairs with technical indicators, generates
weighted trading signals, and can run an autonomous monitoring loop over a
simulated portfolio.

It provides tools for:
  - Live quotes with pip-scaled spreads
  - RSI / MACD / Bollinger / EMA indicator analysis
  - Weighted buy/sell/hold signals with stop-loss and take-profit levels
  - A recurring monitoring loop with alerts and a transaction journal
  - Multi-pair market overviews with aggregate sentiment`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

var (
	cfgPath string
	apiKey  string
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "f", "", "path to config file (YAML or JSON)")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", "", "Alpha Vantage API key (overrides config and ALPHA_VANTAGE_API_KEY)")
}

// loadConfig reads the config file when one was given, defaults otherwise.
func loadConfig() (*config.Config, error) {
	if cfgPath == "" {
		return config.Default(), nil
	}
	return config.LoadFromFile(cfgPath)
}

// resolveAPIKey prefers the flag, then the environment, then the config file.
func resolveAPIKey(cfg *config.Config) (string, error) {
	if apiKey != "" {
		return apiKey, nil
	}
	if key := os.Getenv("ALPHA_VANTAGE_API_KEY"); key != "" {
		return key, nil
	}
	if cfg.Provider.APIKey != "" {
		return cfg.Provider.APIKey, nil
	}
	return "", fmt.Errorf("no API key: set --api-key, ALPHA_VANTAGE_API_KEY, or provider.api_key")
}

// buildProvider creates the REST client against the configured endpoint.
func buildProvider(cfg *config.Config) (marketdata.Provider, error) {
	key, err := resolveAPIKey(cfg)
	if err != nil {
		return nil, err
	}
	if cfg.Provider.BaseURL != "" {
		return marketdata.NewAlphaVantageWithBaseURL(key, cfg.Provider.BaseURL), nil
	}
	return marketdata.NewAlphaVantage(key), nil
}
