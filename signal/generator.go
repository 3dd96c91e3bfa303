package signal

import (
	"fmt"
	"math"
	"sort"

	"github.com/Aditya-Mallik-M/AutoAgents/indicators"
	"github.com/Aditya-Mallik-M/AutoAgents/market"
)

// Config holds the fixed decision constants. The weights must sum to 1.
type Config struct {
	RSIWeight   float64
	MACDWeight  float64
	TrendWeight float64

	// HoldBand is the net-score magnitude below which the signal is Hold.
	HoldBand float64

	// BaseConfidence scales with factor agreement:
	// confidence = BaseConfidence * agreeing/3.
	BaseConfidence float64

	// Stop/target distances as multiples of the volatility band (ATR).
	StopMultiple   float64
	TargetMultiple float64
}

// DefaultConfig returns the standard weighting: RSI 40%, MACD 35%, trend 25%,
// hold band 20, 1.5x ATR stop and 2.5x ATR target.
func DefaultConfig() Config {
	return Config{
		RSIWeight:      0.40,
		MACDWeight:     0.35,
		TrendWeight:    0.25,
		HoldBand:       20,
		BaseConfidence: 90,
		StopMultiple:   1.5,
		TargetMultiple: 2.5,
	}
}

// Generator produces trading signals from indicator sets. It is stateless and
// safe for concurrent use across pairs.
type Generator struct {
	cfg Config
}

func NewGenerator(cfg Config) *Generator {
	return &Generator{cfg: cfg}
}

// Generate builds exactly one Signal from the indicator set and quote.
// It fails with ErrInvalidQuote when bid >= ask or either side is
// non-positive.
func (g *Generator) Generate(set indicators.Set, q market.Quote) (Signal, error) {
	if q.Bid <= 0 || q.Ask <= 0 {
		return Signal{}, fmt.Errorf("%w: %s bid=%v ask=%v must be positive", ErrInvalidQuote, q.Pair, q.Bid, q.Ask)
	}
	if q.Bid >= q.Ask {
		return Signal{}, fmt.Errorf("%w: %s bid %v >= ask %v", ErrInvalidQuote, q.Pair, q.Bid, q.Ask)
	}

	factors := []Factor{
		g.rsiFactor(set),
		g.macdFactor(set, q),
		g.trendFactor(set),
	}

	score := 0.0
	for _, f := range factors {
		score += f.Contribution()
	}
	score = clamp(score, -100, 100)

	dir := Hold
	switch {
	case score > g.cfg.HoldBand:
		dir = Buy
	case score < -g.cfg.HoldBand:
		dir = Sell
	}

	strength := math.Abs(score)
	confidence := g.cfg.BaseConfidence * float64(agreeing(dir, factors)) / 3.0

	entry, stop, target := g.levels(dir, set, q)

	reasoning := reasoningFor(factors)
	if advisory := bollingerAdvisory(set, q); advisory != "" {
		reasoning = append(reasoning, advisory)
	}

	return Signal{
		Pair:        q.Pair,
		Direction:   dir,
		Strength:    strength,
		Confidence:  confidence,
		EntryPrice:  entry,
		StopLoss:    stop,
		TakeProfit:  target,
		Reasoning:   reasoning,
		GeneratedAt: q.Time,
	}, nil
}

// rsiFactor maps RSI onto a signed score: bullish below 50, bearish above,
// saturating past the 30/70 oversold/overbought lines.
func (g *Generator) rsiFactor(set indicators.Set) Factor {
	score := clamp(2.5*(50-set.RSI), -100, 100)

	var detail string
	switch {
	case set.RSI < 30:
		detail = fmt.Sprintf("RSI %.1f indicates oversold condition (bullish)", set.RSI)
	case set.RSI > 70:
		detail = fmt.Sprintf("RSI %.1f indicates overbought condition (bearish)", set.RSI)
	default:
		detail = fmt.Sprintf("RSI %.1f in neutral zone", set.RSI)
	}

	return Factor{Name: "rsi", Score: score, Weight: g.cfg.RSIWeight, Detail: detail}
}

// macdFactor scores the MACD crossover direction, scaled by the histogram
// magnitude expressed in pips.
func (g *Generator) macdFactor(set indicators.Set, q market.Quote) Factor {
	pip := market.PipSize(q.Pair)
	histPips := math.Abs(set.MACD.Histogram) / pip
	magnitude := math.Min(100, 50+10*histPips)

	var score float64
	var detail string
	switch {
	case set.MACD.Line > set.MACD.Signal:
		score = magnitude
		detail = "MACD bullish crossover"
	case set.MACD.Line < set.MACD.Signal:
		score = -magnitude
		detail = "MACD bearish crossover"
	default:
		score = 0
		detail = "MACD flat"
	}

	return Factor{Name: "macd", Score: score, Weight: g.cfg.MACDWeight, Detail: detail}
}

func (g *Generator) trendFactor(set indicators.Set) Factor {
	switch {
	case set.EMA12 > set.EMA26:
		return Factor{Name: "trend", Score: 100, Weight: g.cfg.TrendWeight,
			Detail: "short-term EMA above long-term EMA (bullish trend)"}
	case set.EMA12 < set.EMA26:
		return Factor{Name: "trend", Score: -100, Weight: g.cfg.TrendWeight,
			Detail: "short-term EMA below long-term EMA (bearish trend)"}
	default:
		return Factor{Name: "trend", Score: 0, Weight: g.cfg.TrendWeight, Detail: "EMAs flat"}
	}
}

// levels derives entry, stop-loss, and take-profit. Hold signals still get
// buy-side levels computed as if entering now, so consumers always see a
// fully populated signal.
func (g *Generator) levels(dir Direction, set indicators.Set, q market.Quote) (entry, stop, target float64) {
	band := set.ATR
	if band <= 0 {
		// Degenerate window; fall back on the band width, then the spread.
		band = (set.Bollinger.Upper - set.Bollinger.Lower) / 4
	}
	if band <= 0 {
		band = q.Spread() * 10
	}

	if dir == Sell {
		entry = q.Bid
		stop = entry + g.cfg.StopMultiple*band
		// Stop must not cross the opposite Bollinger band.
		if set.Bollinger.Upper > entry && stop > set.Bollinger.Upper {
			stop = set.Bollinger.Upper
		}
		target = entry - g.cfg.TargetMultiple*band
		return entry, stop, target
	}

	entry = q.Ask
	stop = entry - g.cfg.StopMultiple*band
	if set.Bollinger.Lower < entry && stop < set.Bollinger.Lower {
		stop = set.Bollinger.Lower
	}
	target = entry + g.cfg.TargetMultiple*band
	return entry, stop, target
}

// agreeing counts factors consistent with the signal direction. For Hold a
// factor agrees when it is not strongly directional either way.
func agreeing(dir Direction, factors []Factor) int {
	n := 0
	for _, f := range factors {
		switch dir {
		case Buy:
			if f.Score > 0 {
				n++
			}
		case Sell:
			if f.Score < 0 {
				n++
			}
		default:
			if math.Abs(f.Score) <= 50 {
				n++
			}
		}
	}
	return n
}

// reasoningFor orders the factor details by descending absolute contribution.
func reasoningFor(factors []Factor) []string {
	sorted := make([]Factor, len(factors))
	copy(sorted, factors)
	sort.SliceStable(sorted, func(i, j int) bool {
		return math.Abs(sorted[i].Contribution()) > math.Abs(sorted[j].Contribution())
	})

	out := make([]string, len(sorted))
	for i, f := range sorted {
		out[i] = f.Detail
	}
	return out
}

// bollingerAdvisory adds a band-touch note when price sits at or beyond a
// Bollinger band. Advisory only; it does not enter the weighted score.
func bollingerAdvisory(set indicators.Set, q market.Quote) string {
	mid := q.Mid()
	switch {
	case mid <= set.Bollinger.Lower:
		return "price at lower Bollinger band (potential bounce)"
	case mid >= set.Bollinger.Upper:
		return "price at upper Bollinger band (potential reversal)"
	}
	return ""
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
