// Package monitor runs the recurring analyze-decide-execute cycle across the
// tracked currency pairs.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Aditya-Mallik-M/AutoAgents/indicators"
	"github.com/Aditya-Mallik-M/AutoAgents/journal"
	"github.com/Aditya-Mallik-M/AutoAgents/market"
	"github.com/Aditya-Mallik-M/AutoAgents/marketdata"
	"github.com/Aditya-Mallik-M/AutoAgents/portfolio"
	"github.com/Aditya-Mallik-M/AutoAgents/risk"
	"github.com/Aditya-Mallik-M/AutoAgents/signal"
)

// ErrConfiguration marks a fatal startup problem. The loop refuses to start.
var ErrConfiguration = errors.New("configuration error")

// degradedAfter is the consecutive-failure count that escalates a pair to a
// degraded alert.
const degradedAfter = 3

// Config drives one monitoring loop.
type Config struct {
	Pairs                []string
	Interval             time.Duration
	InitialAmount        float64
	InitialCurrency      string
	SignificantChangePct float64 // rate-change alert threshold, percent
	HistoryBars          int     // intraday bars fetched per tick
	SeriesInterval       marketdata.Interval
	Policy               risk.Policy
	AlertBuffer          int
}

// DefaultConfig tracks the eight majors on a 60s cycle with a 1000 USD
// simulated portfolio.
func DefaultConfig() Config {
	return Config{
		Pairs: []string{
			"EUR/USD", "GBP/USD", "USD/JPY", "USD/CHF",
			"AUD/USD", "USD/CAD", "NZD/USD", "EUR/GBP",
		},
		Interval:             60 * time.Second,
		InitialAmount:        1000,
		InitialCurrency:      "USD",
		SignificantChangePct: 0.5,
		HistoryBars:          100,
		SeriesInterval:       marketdata.Min5,
		Policy:               risk.DefaultPolicy(),
		AlertBuffer:          64,
	}
}

func (c Config) Validate() error {
	if len(c.Pairs) == 0 {
		return fmt.Errorf("%w: no pairs to track", ErrConfiguration)
	}
	for _, pair := range c.Pairs {
		if _, _, err := market.SplitPair(pair); err != nil {
			return fmt.Errorf("%w: %v", ErrConfiguration, err)
		}
	}
	if c.Interval <= 0 {
		return fmt.Errorf("%w: interval must be positive, got %v", ErrConfiguration, c.Interval)
	}
	if c.InitialAmount <= 0 {
		return fmt.Errorf("%w: initial amount must be positive, got %v", ErrConfiguration, c.InitialAmount)
	}
	if c.InitialCurrency == "" {
		return fmt.Errorf("%w: initial currency is required", ErrConfiguration)
	}
	if c.SignificantChangePct <= 0 {
		return fmt.Errorf("%w: significant change threshold must be positive, got %v",
			ErrConfiguration, c.SignificantChangePct)
	}
	if c.HistoryBars < indicators.MinBars {
		return fmt.Errorf("%w: history bars %d below indicator minimum %d",
			ErrConfiguration, c.HistoryBars, indicators.MinBars)
	}
	if err := c.Policy.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	return nil
}

// exitLevels are the stop/target attached to an open position.
type exitLevels struct {
	stopLoss   float64
	takeProfit float64
}

// pairTick carries one pair's data through the phases of a single cycle.
type pairTick struct {
	pair     string
	quote    market.Quote
	set      indicators.Set
	sig      signal.Signal
	fetched  bool
	analyzed bool
	decided  bool
}

// Monitor owns the ledger and runs the cycle. The ledger mutates only in the
// Executing phase; concurrent readers take snapshots through the ledger's own
// lock.
type Monitor struct {
	cfg      Config
	provider marketdata.Provider
	gen      *signal.Generator
	jour     journal.Journal
	log      *zap.Logger

	ledger *portfolio.Ledger
	alerts chan Alert

	mu        sync.RWMutex
	state     State
	series    map[string]*market.Series
	lastQuote map[string]market.Quote
	failures  map[string]int
	exits     map[string]exitLevels

	sleep       time.Duration // next inter-tick sleep; doubled after throttling
	rateLimited bool
}

func New(cfg Config, provider marketdata.Provider, jour journal.Journal, log *zap.Logger) (*Monitor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if provider == nil {
		return nil, fmt.Errorf("%w: market data provider is required", ErrConfiguration)
	}
	if jour == nil {
		jour = journal.Nop{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.AlertBuffer <= 0 {
		cfg.AlertBuffer = 64
	}

	ledger, err := portfolio.NewLedger(cfg.InitialAmount, cfg.InitialCurrency)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}

	series := make(map[string]*market.Series, len(cfg.Pairs))
	for _, pair := range cfg.Pairs {
		series[pair] = market.NewSeries(pair)
	}

	return &Monitor{
		cfg:       cfg,
		provider:  provider,
		gen:       signal.NewGenerator(signal.DefaultConfig()),
		jour:      jour,
		log:       log,
		ledger:    ledger,
		alerts:    make(chan Alert, cfg.AlertBuffer),
		state:     Idle,
		series:    series,
		lastQuote: make(map[string]market.Quote),
		failures:  make(map[string]int),
		exits:     make(map[string]exitLevels),
		sleep:     cfg.Interval,
	}, nil
}

// Alerts is the loop's output channel. Consumers that fall behind lose
// alerts; drops are logged.
func (m *Monitor) Alerts() <-chan Alert { return m.alerts }

// Ledger exposes the portfolio for read-only snapshots.
func (m *Monitor) Ledger() *portfolio.Ledger { return m.ledger }

func (m *Monitor) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Running reports whether the loop is between start and stop.
func (m *Monitor) Running() bool { return m.State() != Idle }

func (m *Monitor) setState(s State) {
	m.mu.Lock()
	m.state = s
	m.mu.Unlock()
}

// Run executes the cycle until ctx is cancelled. Cancellation lands at the
// suspension points: the data fetch and the inter-tick sleep. Run always
// leaves the loop in Idle.
func (m *Monitor) Run(ctx context.Context) error {
	defer m.setState(Idle)

	m.log.Info("monitoring started",
		zap.Strings("pairs", m.cfg.Pairs),
		zap.Duration("interval", m.cfg.Interval),
		zap.Float64("initial_amount", m.cfg.InitialAmount),
		zap.String("currency", m.cfg.InitialCurrency))

	for {
		m.tick(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}

		m.setState(Sleeping)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(m.sleep):
		}
	}
}

// tick runs one full cycle: poll all pairs, analyze, decide, execute, alert.
func (m *Monitor) tick(ctx context.Context) {
	ticks := make([]*pairTick, len(m.cfg.Pairs))
	for i, pair := range m.cfg.Pairs {
		ticks[i] = &pairTick{pair: pair}
	}

	m.rateLimited = false

	m.setState(Polling)
	m.pollAll(ctx, ticks)
	if ctx.Err() != nil {
		return
	}

	m.setState(Analyzing)
	m.analyzeAll(ticks)

	m.setState(Deciding)
	for _, pt := range ticks {
		if !pt.analyzed {
			continue
		}
		sig, err := m.gen.Generate(pt.set, pt.quote)
		if err != nil {
			m.log.Warn("signal generation failed",
				zap.String("pair", pt.pair), zap.Error(err))
			m.emit(Alert{Kind: DataError, Pair: pt.pair, Severity: Warning,
				Message: fmt.Sprintf("signal generation failed: %v", err),
				Time:    time.Now().UTC()})
			continue
		}
		pt.sig = sig
		pt.decided = true
	}

	m.setState(Executing)
	for _, pt := range ticks {
		if !pt.fetched {
			continue
		}
		if _, err := m.ledger.MarkToMarket(pt.pair, pt.quote); err != nil {
			m.log.Warn("mark to market failed",
				zap.String("pair", pt.pair), zap.Error(err))
		}
	}
	m.checkExits(ticks)
	for _, pt := range ticks {
		if pt.decided {
			m.execute(pt)
		}
	}

	m.setState(Alerting)
	for _, pt := range ticks {
		if !pt.fetched {
			continue
		}
		m.rateChangeAlert(pt)
		if pt.decided {
			m.signalAlert(pt.sig)
		}
		m.lastQuote[pt.pair] = pt.quote
	}

	if err := m.jour.RecordEquity(journal.SnapshotOf(m.ledger.Snapshot())); err != nil {
		m.log.Warn("journal equity write failed", zap.Error(err))
	}

	// Double the next sleep once after throttling; a clean tick resets it.
	if m.rateLimited {
		m.sleep = 2 * m.cfg.Interval
	} else {
		m.sleep = m.cfg.Interval
	}
}

// pollAll fetches quote and candle history for every pair concurrently. A
// failed pair is alerted and skipped; the rest of the cycle continues.
func (m *Monitor) pollAll(ctx context.Context, ticks []*pairTick) {
	var wg sync.WaitGroup
	var mu sync.Mutex // guards series map writes and failure bookkeeping

	for _, pt := range ticks {
		wg.Add(1)
		go func(pt *pairTick) {
			defer wg.Done()

			quote, qErr := m.provider.GetQuote(ctx, pt.pair)
			var candles []market.Candle
			var sErr error
			if qErr == nil {
				candles, sErr = m.provider.GetIntradaySeries(ctx, pt.pair, m.cfg.SeriesInterval, m.cfg.HistoryBars)
			}

			mu.Lock()
			defer mu.Unlock()

			err := qErr
			if err == nil {
				err = sErr
			}
			if err != nil {
				m.recordFailure(pt.pair, err)
				return
			}

			if err := m.series[pt.pair].Replace(candles); err != nil {
				m.recordFailure(pt.pair, fmt.Errorf("%s: %w", pt.pair, err))
				return
			}

			m.failures[pt.pair] = 0
			pt.quote = quote
			pt.fetched = true
		}(pt)
	}
	wg.Wait()
}

// recordFailure counts consecutive per-pair failures and escalates at the
// threshold. Rate limiting is remembered for the backoff decision.
func (m *Monitor) recordFailure(pair string, err error) {
	if errors.Is(err, marketdata.ErrRateLimited) {
		m.rateLimited = true
	}

	m.failures[pair]++
	count := m.failures[pair]

	m.log.Warn("data fetch failed",
		zap.String("pair", pair), zap.Int("consecutive", count), zap.Error(err))

	severity := Warning
	kind := DataError
	msg := fmt.Sprintf("data fetch failed: %v", err)
	if count >= degradedAfter {
		severity = Critical
		kind = Degraded
		msg = fmt.Sprintf("degraded after %d consecutive failures: %v", count, err)
	}
	m.emit(Alert{Kind: kind, Pair: pair, Message: msg, Severity: severity, Time: time.Now().UTC()})
}

// analyzeAll computes indicator sets concurrently for the fetched pairs.
func (m *Monitor) analyzeAll(ticks []*pairTick) {
	var wg sync.WaitGroup
	var mu sync.Mutex

	for _, pt := range ticks {
		if !pt.fetched {
			continue
		}
		wg.Add(1)
		go func(pt *pairTick) {
			defer wg.Done()

			set, err := indicators.Calculate(m.series[pt.pair].Candles())

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				m.log.Warn("indicator calculation failed",
					zap.String("pair", pt.pair), zap.Error(err))
				m.emit(Alert{Kind: DataError, Pair: pt.pair, Severity: Warning,
					Message: fmt.Sprintf("indicator calculation failed: %v", err),
					Time:    time.Now().UTC()})
				return
			}
			pt.set = set
			pt.analyzed = true
		}(pt)
	}
	wg.Wait()
}

// checkExits closes positions whose stop or target was crossed by the fresh
// quote. Positions close at the bid.
func (m *Monitor) checkExits(ticks []*pairTick) {
	for _, pt := range ticks {
		if !pt.fetched {
			continue
		}
		exit, ok := m.exits[pt.pair]
		if !ok {
			continue
		}
		pos, held := m.ledger.Position(pt.pair)
		if !held {
			delete(m.exits, pt.pair)
			continue
		}

		var kind Kind
		var reason string
		switch {
		case pt.quote.Bid <= exit.stopLoss:
			kind, reason = StopLossHit, "stop loss hit"
		case pt.quote.Bid >= exit.takeProfit:
			kind, reason = TakeProfitHit, "take profit hit"
		default:
			continue
		}

		tx := portfolio.Transaction{
			Pair:   pt.pair,
			Side:   portfolio.Sell,
			Amount: pos.Units,
			Price:  pt.quote.Bid,
			Time:   pt.quote.Time,
		}
		applied, err := m.ledger.Apply(tx)
		if err != nil {
			m.log.Error("exit close failed", zap.String("pair", pt.pair), zap.Error(err))
			continue
		}
		delete(m.exits, pt.pair)

		if err := m.jour.RecordTransaction(journal.RecordOf(applied, reason)); err != nil {
			m.log.Warn("journal transaction write failed", zap.Error(err))
		}

		pnl := 0.0
		if applied.RealizedPnL != nil {
			pnl = *applied.RealizedPnL
		}
		m.log.Info("position closed",
			zap.String("pair", pt.pair), zap.String("reason", reason),
			zap.Float64("price", pt.quote.Bid), zap.Float64("realized_pnl", pnl))
		m.emit(Alert{Kind: kind, Pair: pt.pair, Severity: Warning,
			Message: fmt.Sprintf("%s at %.5f, realized P&L %.2f %s",
				reason, pt.quote.Bid, pnl, m.ledger.Currency()),
			Time: pt.quote.Time})
	}
}

// execute acts on one admitted Buy/Sell signal. Ledger mutations happen only
// here and in checkExits, both inside the Executing phase.
func (m *Monitor) execute(pt *pairTick) {
	sig := pt.sig
	ok, reason := m.cfg.Policy.Admit(sig)
	if !ok {
		m.log.Debug("signal not admitted",
			zap.String("pair", sig.Pair), zap.String("direction", string(sig.Direction)),
			zap.String("reason", reason))
		return
	}

	switch sig.Direction {
	case signal.Buy:
		if _, held := m.ledger.Position(sig.Pair); held {
			return // one position per pair
		}
		snap := m.ledger.Snapshot()
		spend := m.cfg.Policy.TradeAmount(snap.TotalValue, snap.Cash)
		if spend <= 0 {
			m.log.Debug("trade below minimum size", zap.String("pair", sig.Pair))
			return
		}

		tx := portfolio.BuyWithCash(sig.Pair, spend, 1/sig.EntryPrice, sig.GeneratedAt)
		applied, err := m.ledger.Apply(tx)
		if err != nil {
			m.log.Warn("buy rejected", zap.String("pair", sig.Pair), zap.Error(err))
			return
		}
		m.exits[sig.Pair] = exitLevels{stopLoss: sig.StopLoss, takeProfit: sig.TakeProfit}

		m.log.Info("bought",
			zap.String("pair", sig.Pair), zap.Float64("spend", spend),
			zap.Float64("units", applied.Amount), zap.Float64("price", applied.Price),
			zap.Float64("stop_loss", sig.StopLoss), zap.Float64("take_profit", sig.TakeProfit))
		m.journalSignalTx(applied, sig)

	case signal.Sell:
		pos, held := m.ledger.Position(sig.Pair)
		if !held {
			return
		}
		tx := portfolio.Transaction{
			Pair:   sig.Pair,
			Side:   portfolio.Sell,
			Amount: pos.Units,
			Price:  pt.quote.Bid,
			Time:   sig.GeneratedAt,
		}
		applied, err := m.ledger.Apply(tx)
		if err != nil {
			m.log.Warn("sell rejected", zap.String("pair", sig.Pair), zap.Error(err))
			return
		}
		delete(m.exits, sig.Pair)

		pnl := 0.0
		if applied.RealizedPnL != nil {
			pnl = *applied.RealizedPnL
		}
		m.log.Info("sold",
			zap.String("pair", sig.Pair), zap.Float64("units", applied.Amount),
			zap.Float64("price", applied.Price), zap.Float64("realized_pnl", pnl))
		m.journalSignalTx(applied, sig)
	}
}

func (m *Monitor) journalSignalTx(tx portfolio.Transaction, sig signal.Signal) {
	reason := "signal"
	if len(sig.Reasoning) > 0 {
		reason = sig.Reasoning[0]
	}
	if err := m.jour.RecordTransaction(journal.RecordOf(tx, reason)); err != nil {
		m.log.Warn("journal transaction write failed", zap.Error(err))
	}
}

// rateChangeAlert compares the fresh quote with the previous tick's and
// alerts when the mid moved more than the configured percentage.
func (m *Monitor) rateChangeAlert(pt *pairTick) {
	prev, ok := m.lastQuote[pt.pair]
	if !ok || prev.Mid() <= 0 {
		return
	}
	changePct := (pt.quote.Mid() - prev.Mid()) / prev.Mid() * 100
	if changePct < 0 {
		changePct = -changePct
	}
	if changePct < m.cfg.SignificantChangePct {
		return
	}

	m.emit(Alert{Kind: RateChange, Pair: pt.pair, Severity: Info,
		Message: fmt.Sprintf("rate moved %.2f%% since last tick (%.5f -> %.5f)",
			changePct, prev.Mid(), pt.quote.Mid()),
		Time: pt.quote.Time})
}

// signalAlert announces non-Hold signals that clear the admission gates.
func (m *Monitor) signalAlert(sig signal.Signal) {
	if ok, _ := m.cfg.Policy.Admit(sig); !ok {
		return
	}
	m.emit(Alert{Kind: SignalTriggered, Pair: sig.Pair, Severity: Info,
		Message: fmt.Sprintf("%s signal, strength %.0f confidence %.0f, entry %.5f",
			sig.Direction, sig.Strength, sig.Confidence, sig.EntryPrice),
		Time: sig.GeneratedAt})
}

// emit delivers an alert without blocking the loop. A full channel drops the
// alert and logs it.
func (m *Monitor) emit(a Alert) {
	select {
	case m.alerts <- a:
	default:
		m.log.Warn("alert dropped, channel full",
			zap.String("kind", string(a.Kind)), zap.String("pair", a.Pair))
	}
}
