package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Aditya-Mallik-M/AutoAgents/agent"
)

var overviewCmd = &cobra.Command{
	Use:   "overview [PAIR...]",
	Short: "Summarize signals across multiple pairs",
	Long: `Generate a signal for each pair and aggregate the results into a
market sentiment. Without arguments the configured pairs are used.

Example:
  fxagent overview EUR/USD GBP/USD USD/JPY`,
	RunE: runOverview,
}

func init() {
	rootCmd.AddCommand(overviewCmd)
}

func runOverview(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	provider, err := buildProvider(cfg)
	if err != nil {
		return err
	}

	pairs := args
	if len(pairs) == 0 {
		pairs = cfg.Monitor.Pairs
	}

	a := agent.New(provider, nil)
	ov, err := a.MarketOverview(context.Background(), pairs)
	if err != nil {
		return fmt.Errorf("market overview: %w", err)
	}

	fmt.Printf("Market overview (%s)\n", ov.GeneratedAt.Format("2006-01-02 15:04:05 MST"))
	for _, sig := range ov.Signals {
		fmt.Printf("  %-8s %-4s strength %3.0f confidence %3.0f entry %.5f\n",
			sig.Pair, sig.Direction, sig.Strength, sig.Confidence, sig.EntryPrice)
	}
	for pair, msg := range ov.Errors {
		fmt.Printf("  %-8s unavailable: %s\n", pair, msg)
	}
	fmt.Printf("Sentiment: %s (%d buy / %d sell / %d hold)\n",
		ov.Sentiment, ov.Buy, ov.Sell, ov.Hold)
	return nil
}
