package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Aditya-Mallik-M/AutoAgents/agent"
)

var quoteCmd = &cobra.Command{
	Use:   "quote PAIR",
	Short: "Fetch the live quote for a currency pair",
	Long: `Fetch the current bid/ask for a currency pair in FROM/TO notation.

Example:
  fxagent quote EUR/USD`,
	Args: cobra.ExactArgs(1),
	RunE: runQuote,
}

func init() {
	rootCmd.AddCommand(quoteCmd)
}

func runQuote(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	provider, err := buildProvider(cfg)
	if err != nil {
		return err
	}

	a := agent.New(provider, nil)
	q, err := a.Quote(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("fetch quote: %w", err)
	}

	fmt.Printf("%s\n", q.Pair)
	fmt.Printf("  Bid:    %.5f\n", q.Bid)
	fmt.Printf("  Ask:    %.5f\n", q.Ask)
	fmt.Printf("  Mid:    %.5f\n", q.Mid())
	fmt.Printf("  Spread: %.1f pips\n", q.SpreadPips())
	fmt.Printf("  Time:   %s\n", q.Time.Format("2006-01-02 15:04:05 MST"))
	return nil
}
