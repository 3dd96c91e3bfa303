// Package indicators provides technical analysis indicators for trading.
//
// Every function here is a pure computation over an ordered candle window:
// identical input produces identical output, with no hidden state between
// calls.
package indicators

import (
	"errors"
	"fmt"

	"github.com/Aditya-Mallik-M/AutoAgents/market"
)

// Standard periods used by Calculate.
const (
	RSIPeriod       = 14
	FastEMAPeriod   = 12
	SlowEMAPeriod   = 26
	SignalEMAPeriod = 9
	BollingerPeriod = 20
	BollingerWidth  = 2.0
	SMAPeriod       = 20
	ATRPeriod       = 14

	// MinBars is the smallest window Calculate accepts: the slow EMA needs
	// 26 closes, which also covers RSI (15), Bollinger and SMA (20), and
	// ATR (15).
	MinBars = SlowEMAPeriod
)

// ErrInsufficientData reports that a candle window is shorter than the
// indicator's required period.
var ErrInsufficientData = errors.New("insufficient data")

func insufficient(need, got int) error {
	return fmt.Errorf("%w: need %d candles, got %d", ErrInsufficientData, need, got)
}

// MACD is the Moving Average Convergence Divergence triple.
type MACD struct {
	Line      float64
	Signal    float64
	Histogram float64
}

// Bollinger holds the three Bollinger Band levels.
type Bollinger struct {
	Upper  float64
	Middle float64
	Lower  float64
}

// Set is the full indicator snapshot for the most recent bar of a window.
type Set struct {
	RSI       float64
	MACD      MACD
	Bollinger Bollinger
	SMA20     float64
	EMA12     float64
	EMA26     float64
	ATR       float64
}

// Calculate computes the complete indicator Set for the latest candle of the
// given window. The window must hold at least MinBars candles.
func Calculate(candles []market.Candle) (Set, error) {
	if len(candles) < MinBars {
		return Set{}, insufficient(MinBars, len(candles))
	}

	closes := market.Closes(candles)

	rsi, err := RSI(closes, RSIPeriod)
	if err != nil {
		return Set{}, err
	}

	macd, err := MACDOf(closes)
	if err != nil {
		return Set{}, err
	}

	boll, err := BollingerBands(closes, BollingerPeriod, BollingerWidth)
	if err != nil {
		return Set{}, err
	}

	sma, err := SMA(closes, SMAPeriod)
	if err != nil {
		return Set{}, err
	}

	ema12, err := EMA(closes, FastEMAPeriod)
	if err != nil {
		return Set{}, err
	}
	ema26, err := EMA(closes, SlowEMAPeriod)
	if err != nil {
		return Set{}, err
	}

	atr, err := ATR(candles, ATRPeriod)
	if err != nil {
		return Set{}, err
	}

	return Set{
		RSI:       rsi,
		MACD:      macd,
		Bollinger: boll,
		SMA20:     sma,
		EMA12:     ema12,
		EMA26:     ema26,
		ATR:       atr,
	}, nil
}
