// Package agent is the interactive query surface: direct typed operations
// over the market data provider and the signal pipeline, independent of the
// monitoring loop.
package agent

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/Aditya-Mallik-M/AutoAgents/indicators"
	"github.com/Aditya-Mallik-M/AutoAgents/market"
	"github.com/Aditya-Mallik-M/AutoAgents/marketdata"
	"github.com/Aditya-Mallik-M/AutoAgents/monitor"
	"github.com/Aditya-Mallik-M/AutoAgents/portfolio"
	"github.com/Aditya-Mallik-M/AutoAgents/signal"
)

// ErrMonitorNotRunning is returned by portfolio queries when no monitoring
// loop is active.
var ErrMonitorNotRunning = errors.New("monitoring is not running")

// historyBars is the intraday window fetched for ad-hoc analysis.
const historyBars = 100

// Agent answers one-off queries. It shares nothing with the monitoring loop
// except an optional read-only handle for portfolio snapshots.
type Agent struct {
	provider marketdata.Provider
	gen      *signal.Generator
	log      *zap.Logger
	mon      *monitor.Monitor
}

func New(provider marketdata.Provider, log *zap.Logger) *Agent {
	if log == nil {
		log = zap.NewNop()
	}
	return &Agent{
		provider: provider,
		gen:      signal.NewGenerator(signal.DefaultConfig()),
		log:      log,
	}
}

// AttachMonitor wires a running loop in for portfolio queries.
func (a *Agent) AttachMonitor(m *monitor.Monitor) { a.mon = m }

// Quote returns the live quote for a pair.
func (a *Agent) Quote(ctx context.Context, pair string) (market.Quote, error) {
	return a.provider.GetQuote(ctx, pair)
}

// Analyze fetches recent history and computes the full indicator set.
func (a *Agent) Analyze(ctx context.Context, pair string) (indicators.Set, error) {
	candles, err := a.provider.GetIntradaySeries(ctx, pair, marketdata.Min5, historyBars)
	if err != nil {
		return indicators.Set{}, err
	}
	return indicators.Calculate(candles)
}

// Signal runs the whole pipeline for one pair: quote, history, indicators,
// signal.
func (a *Agent) Signal(ctx context.Context, pair string) (signal.Signal, error) {
	quote, err := a.provider.GetQuote(ctx, pair)
	if err != nil {
		return signal.Signal{}, err
	}
	set, err := a.Analyze(ctx, pair)
	if err != nil {
		return signal.Signal{}, err
	}
	return a.gen.Generate(set, quote)
}

// Overview is a multi-pair market summary with aggregate sentiment counts.
type Overview struct {
	GeneratedAt time.Time
	Signals     []signal.Signal
	Errors      map[string]string // pair -> failure, for pairs without a signal
	Buy         int
	Sell        int
	Hold        int
	Sentiment   string
}

// MarketOverview generates a signal for every pair and tallies the outcomes.
// Per-pair failures are recorded, not fatal; the call errors only when every
// pair failed.
func (a *Agent) MarketOverview(ctx context.Context, pairs []string) (Overview, error) {
	ov := Overview{
		GeneratedAt: time.Now().UTC(),
		Errors:      make(map[string]string),
	}

	for _, pair := range pairs {
		sig, err := a.Signal(ctx, pair)
		if err != nil {
			a.log.Warn("overview signal failed", zap.String("pair", pair), zap.Error(err))
			ov.Errors[pair] = err.Error()
			continue
		}
		ov.Signals = append(ov.Signals, sig)
		switch sig.Direction {
		case signal.Buy:
			ov.Buy++
		case signal.Sell:
			ov.Sell++
		default:
			ov.Hold++
		}
	}

	if len(ov.Signals) == 0 {
		return ov, errors.New("no pair produced a signal")
	}

	switch {
	case ov.Buy > ov.Sell:
		ov.Sentiment = "bullish"
	case ov.Sell > ov.Buy:
		ov.Sentiment = "bearish"
	default:
		ov.Sentiment = "neutral"
	}
	return ov, nil
}

// PortfolioSnapshot reads the monitored portfolio. Fails when no loop is
// attached or it has stopped.
func (a *Agent) PortfolioSnapshot() (portfolio.Snapshot, error) {
	if a.mon == nil || !a.mon.Running() {
		return portfolio.Snapshot{}, ErrMonitorNotRunning
	}
	return a.mon.Ledger().Snapshot(), nil
}
