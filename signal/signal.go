// Package signal turns an indicator snapshot and a live quote into a single
// directional trading signal.
package signal

import (
	"errors"
	"time"
)

// Direction is the trade side a signal recommends.
type Direction string

const (
	Buy  Direction = "BUY"
	Sell Direction = "SELL"
	Hold Direction = "HOLD"
)

// ErrInvalidQuote reports an unusable quote (bid >= ask, or non-positive
// prices).
var ErrInvalidQuote = errors.New("invalid quote")

// Factor is one scored contributor to a signal. Score is a signed value in
// [-100,100] (positive bullish), Weight its share of the final score.
type Factor struct {
	Name   string
	Score  float64
	Weight float64
	Detail string
}

// Contribution is the factor's weighted share of the net score.
func (f Factor) Contribution() float64 {
	return f.Score * f.Weight
}

// Signal is one immutable trading decision for a pair. Every monitoring tick
// produces a fresh Signal; prior signals are never updated.
type Signal struct {
	Pair        string
	Direction   Direction
	Strength    float64 // [0,100]
	Confidence  float64 // [0,100]
	EntryPrice  float64
	StopLoss    float64
	TakeProfit  float64
	Reasoning   []string // contributing factors, descending weight
	GeneratedAt time.Time
}
