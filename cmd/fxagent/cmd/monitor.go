package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	ossignal "os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Aditya-Mallik-M/AutoAgents/config"
	"github.com/Aditya-Mallik-M/AutoAgents/journal"
	"github.com/Aditya-Mallik-M/AutoAgents/market"
	"github.com/Aditya-Mallik-M/AutoAgents/marketdata"
	"github.com/Aditya-Mallik-M/AutoAgents/monitor"
	"github.com/Aditya-Mallik-M/AutoAgents/risk"
)

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Run the autonomous monitoring loop",
	Long: `Start the monitoring loop: every interval it fetches fresh quotes and
history for the tracked pairs, computes indicators, generates signals,
executes admitted trades against the simulated portfolio, and raises alerts.

Transactions and equity history go to the configured journal. Stop with
Ctrl-C; the loop terminates at the next suspension point.

Example:
  fxagent monitor -f config.yaml`,
	RunE: runMonitor,
}

func init() {
	rootCmd.AddCommand(monitorCmd)
}

func buildJournal(cfg *config.Config) (journal.Journal, error) {
	switch cfg.Journal.Type {
	case "csv":
		return journal.NewCSV(cfg.Journal.TransactionsFile, cfg.Journal.EquityFile)
	case "sqlite":
		return journal.NewSQLite(cfg.Journal.DBPath)
	default:
		return journal.Nop{}, nil
	}
}

func runMonitor(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer logger.Sync()

	provider, err := buildProvider(cfg)
	if err != nil {
		return err
	}

	jour, err := buildJournal(cfg)
	if err != nil {
		return fmt.Errorf("create journal: %w", err)
	}
	defer jour.Close()

	ctx, stop := ossignal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// A streaming feed, when configured, serves quotes from its local store
	// and leaves history fetches on the REST client.
	if cfg.Provider.StreamURL != "" {
		store := market.NewQuoteStore()
		stream := marketdata.NewStream(cfg.Provider.StreamURL, cfg.Monitor.Pairs, store, logger)
		go func() {
			if err := stream.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Warn("quote stream stopped", zap.Error(err))
			}
		}()
		provider = marketdata.NewStoreProvider(store, provider)
	}

	mcfg := monitor.Config{
		Pairs:                cfg.Monitor.Pairs,
		Interval:             cfg.Monitor.Interval(),
		InitialAmount:        cfg.Account.InitialAmount,
		InitialCurrency:      cfg.Account.Currency,
		SignificantChangePct: cfg.Monitor.SignificantChangePct,
		HistoryBars:          cfg.Monitor.HistoryBars,
		SeriesInterval:       marketdata.Min5,
		Policy: risk.Policy{
			MaxRiskPerTrade: cfg.Risk.MaxRiskPerTrade,
			MinTradeAmount:  cfg.Risk.MinTradeAmount,
			MinStrength:     cfg.Risk.MinStrength,
			MinConfidence:   cfg.Risk.MinConfidence,
			MinRewardRisk:   cfg.Risk.MinRewardRisk,
		},
	}

	m, err := monitor.New(mcfg, provider, jour, logger)
	if err != nil {
		return fmt.Errorf("start monitoring: %w", err)
	}

	go printAlerts(ctx, m)

	fmt.Printf("Monitoring %d pairs every %s. Ctrl-C to stop.\n",
		len(cfg.Monitor.Pairs), cfg.Monitor.Interval())

	if err := m.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	snap := m.Ledger().Snapshot()
	fmt.Printf("\nFinal portfolio:\n")
	fmt.Printf("  Cash:           %.2f %s\n", snap.Cash, snap.Currency)
	fmt.Printf("  Total value:    %.2f %s\n", snap.TotalValue, snap.Currency)
	fmt.Printf("  Realized P&L:   %.2f %s\n", snap.RealizedPnL, snap.Currency)
	fmt.Printf("  Unrealized P&L: %.2f %s\n", snap.UnrealizedPnL, snap.Currency)
	fmt.Printf("  Transactions:   %d\n", snap.Transactions)
	return nil
}

func printAlerts(ctx context.Context, m *monitor.Monitor) {
	for {
		select {
		case <-ctx.Done():
			return
		case a := <-m.Alerts():
			fmt.Printf("[%s] %s %s %s: %s\n",
				a.Time.Format("15:04:05"), a.Severity, a.Kind, a.Pair, a.Message)
		}
	}
}
