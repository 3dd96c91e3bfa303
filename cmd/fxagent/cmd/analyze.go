package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Aditya-Mallik-M/AutoAgents/agent"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze PAIR",
	Short: "Compute technical indicators for a currency pair",
	Long: `Fetch recent intraday history and compute the full indicator set:
RSI, MACD, Bollinger bands, SMA and EMAs, and ATR.

Example:
  fxagent analyze EUR/USD`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	provider, err := buildProvider(cfg)
	if err != nil {
		return err
	}

	a := agent.New(provider, nil)
	set, err := a.Analyze(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("analyze %s: %w", args[0], err)
	}

	fmt.Printf("%s technical analysis\n", args[0])
	fmt.Printf("  RSI(14):   %.2f\n", set.RSI)
	fmt.Printf("  MACD:      line %.5f  signal %.5f  histogram %.5f\n",
		set.MACD.Line, set.MACD.Signal, set.MACD.Histogram)
	fmt.Printf("  Bollinger: upper %.5f  middle %.5f  lower %.5f\n",
		set.Bollinger.Upper, set.Bollinger.Middle, set.Bollinger.Lower)
	fmt.Printf("  SMA(20):   %.5f\n", set.SMA20)
	fmt.Printf("  EMA(12):   %.5f\n", set.EMA12)
	fmt.Printf("  EMA(26):   %.5f\n", set.EMA26)
	fmt.Printf("  ATR(14):   %.5f\n", set.ATR)
	return nil
}
