// Package risk gates signal execution and sizes trades against the portfolio.
package risk

import (
	"fmt"

	"github.com/Aditya-Mallik-M/AutoAgents/signal"
)

// Policy holds the trade admission limits.
type Policy struct {
	// MaxRiskPerTrade is the fraction of total portfolio value committed to
	// a single trade.
	MaxRiskPerTrade float64

	// MinTradeAmount is the smallest cash amount worth trading, in account
	// currency.
	MinTradeAmount float64

	// MinStrength and MinConfidence gate which signals are acted on.
	MinStrength   float64
	MinConfidence float64

	// MinRewardRisk rejects trades whose planned reward/risk ratio is too
	// thin for the stop and target to be worth taking.
	MinRewardRisk float64
}

// DefaultPolicy mirrors the monitor defaults: 10% of the portfolio per
// trade, signals acted on from strength 20 / confidence 30 up.
func DefaultPolicy() Policy {
	return Policy{
		MaxRiskPerTrade: 0.10,
		MinTradeAmount:  0.01,
		MinStrength:     20,
		MinConfidence:   30,
		MinRewardRisk:   1.0,
	}
}

func (p Policy) Validate() error {
	if p.MaxRiskPerTrade <= 0 || p.MaxRiskPerTrade > 1 {
		return fmt.Errorf("max risk per trade must be in (0,1], got %v", p.MaxRiskPerTrade)
	}
	if p.MinTradeAmount < 0 {
		return fmt.Errorf("min trade amount must not be negative, got %v", p.MinTradeAmount)
	}
	if p.MinRewardRisk < 0 {
		return fmt.Errorf("min reward/risk must not be negative, got %v", p.MinRewardRisk)
	}
	return nil
}

// TradeAmount returns the cash to commit to one trade, capped by available
// cash. Returns 0 when the result falls below MinTradeAmount.
func (p Policy) TradeAmount(totalValue, availableCash float64) float64 {
	amount := totalValue * p.MaxRiskPerTrade
	if amount > availableCash {
		amount = availableCash
	}
	if amount < p.MinTradeAmount {
		return 0
	}
	return amount
}

// Admit reports whether a signal clears the strength, confidence, and
// reward/risk gates. Hold signals are never admitted.
func (p Policy) Admit(sig signal.Signal) (bool, string) {
	if sig.Direction == signal.Hold {
		return false, "hold signal"
	}
	if sig.Strength < p.MinStrength {
		return false, fmt.Sprintf("strength %.1f below minimum %.1f", sig.Strength, p.MinStrength)
	}
	if sig.Confidence < p.MinConfidence {
		return false, fmt.Sprintf("confidence %.1f below minimum %.1f", sig.Confidence, p.MinConfidence)
	}
	if rr := RR(sig.EntryPrice, sig.StopLoss, sig.TakeProfit); rr < p.MinRewardRisk {
		return false, fmt.Sprintf("reward/risk %.2f below minimum %.2f", rr, p.MinRewardRisk)
	}
	return true, ""
}
