package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Aditya-Mallik-M/AutoAgents/agent"
)

var signalCmd = &cobra.Command{
	Use:   "signal PAIR",
	Short: "Generate a trading signal for a currency pair",
	Long: `Run the full pipeline for one pair: fetch the quote and history,
compute indicators, and produce a weighted buy/sell/hold signal with
entry, stop-loss, and take-profit levels.

Example:
  fxagent signal EUR/USD`,
	Args: cobra.ExactArgs(1),
	RunE: runSignal,
}

func init() {
	rootCmd.AddCommand(signalCmd)
}

func runSignal(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	provider, err := buildProvider(cfg)
	if err != nil {
		return err
	}

	a := agent.New(provider, nil)
	sig, err := a.Signal(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("generate signal: %w", err)
	}

	fmt.Printf("%s signal: %s\n", sig.Pair, sig.Direction)
	fmt.Printf("  Strength:    %.0f / 100\n", sig.Strength)
	fmt.Printf("  Confidence:  %.0f / 100\n", sig.Confidence)
	fmt.Printf("  Entry:       %.5f\n", sig.EntryPrice)
	fmt.Printf("  Stop Loss:   %.5f\n", sig.StopLoss)
	fmt.Printf("  Take Profit: %.5f\n", sig.TakeProfit)
	fmt.Println("  Reasoning:")
	for _, r := range sig.Reasoning {
		fmt.Printf("    - %s\n", r)
	}
	return nil
}
