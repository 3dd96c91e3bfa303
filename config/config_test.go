package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultValidates(t *testing.T) {
	assert.NoError(t, Default().Validate())
	assert.Equal(t, 60*time.Second, Default().Monitor.Interval())
}

func TestLoadFromFileYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
account:
  currency: EUR
  initial_amount: 2500
monitor:
  pairs: ["EUR/USD", "USD/JPY"]
  interval_seconds: 30
  significant_change_pct: 1.0
  history_bars: 60
risk:
  max_risk_per_trade: 0.05
  min_trade_amount: 0.01
journal:
  type: sqlite
  db_path: ./agent.db
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "EUR", cfg.Account.Currency)
	assert.Equal(t, 2500.0, cfg.Account.InitialAmount)
	assert.Equal(t, []string{"EUR/USD", "USD/JPY"}, cfg.Monitor.Pairs)
	assert.Equal(t, 30*time.Second, cfg.Monitor.Interval())
	assert.Equal(t, 0.05, cfg.Risk.MaxRiskPerTrade)
	assert.Equal(t, "sqlite", cfg.Journal.Type)
}

func TestLoadFromFileJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	data := `{
		"account": {"currency": "USD", "initial_amount": 1000},
		"monitor": {"pairs": ["EUR/USD"], "interval_seconds": 60, "significant_change_pct": 0.5, "history_bars": 100},
		"risk": {"max_risk_per_trade": 0.1, "min_trade_amount": 0.01},
		"journal": {"type": "none"}
	}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "none", cfg.Journal.Type)
	assert.Equal(t, []string{"EUR/USD"}, cfg.Monitor.Pairs)
}

func TestLoadFromFileInvalid(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadFromFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	garbled := filepath.Join(dir, "garbled.yaml")
	require.NoError(t, os.WriteFile(garbled, []byte("{{{not config"), 0644))
	_, err = LoadFromFile(garbled)
	assert.Error(t, err)

	// Parses but fails validation.
	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("account:\n  currency: USD\n  initial_amount: -5\n"), 0644))
	_, err = LoadFromFile(bad)
	assert.ErrorContains(t, err, "initial_amount")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"bad pair", func(c *Config) { c.Monitor.Pairs = []string{"EURUSD"} }, "monitor.pairs"},
		{"zero interval", func(c *Config) { c.Monitor.IntervalSeconds = 0 }, "interval_seconds"},
		{"risk too high", func(c *Config) { c.Risk.MaxRiskPerTrade = 1.5 }, "max_risk_per_trade"},
		{"negative reward risk", func(c *Config) { c.Risk.MinRewardRisk = -1 }, "min_reward_risk"},
		{"unknown journal", func(c *Config) { c.Journal.Type = "parquet" }, "journal.type"},
		{"csv without files", func(c *Config) { c.Journal.TransactionsFile = "" }, "transactions_file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Account.InitialAmount = 5000

	path := filepath.Join(t.TempDir(), "saved.yaml")
	require.NoError(t, cfg.SaveToFile(path))

	loaded, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
