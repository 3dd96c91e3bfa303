package risk

import (
	"testing"

	"github.com/Aditya-Mallik-M/AutoAgents/signal"
	"github.com/stretchr/testify/assert"
)

func TestDefaultPolicyValidates(t *testing.T) {
	assert.NoError(t, DefaultPolicy().Validate())
}

func TestPolicyValidate(t *testing.T) {
	p := DefaultPolicy()
	p.MaxRiskPerTrade = 0
	assert.Error(t, p.Validate())

	p = DefaultPolicy()
	p.MaxRiskPerTrade = 1.5
	assert.Error(t, p.Validate())

	p = DefaultPolicy()
	p.MinTradeAmount = -1
	assert.Error(t, p.Validate())

	p = DefaultPolicy()
	p.MinRewardRisk = -0.5
	assert.Error(t, p.Validate())
}

func TestTradeAmount(t *testing.T) {
	p := DefaultPolicy()

	// 10% of total value.
	assert.InDelta(t, 100.0, p.TradeAmount(1000, 1000), 1e-9)

	// Capped by available cash.
	assert.InDelta(t, 40.0, p.TradeAmount(1000, 40), 1e-9)

	// Below the minimum tradable amount.
	assert.Equal(t, 0.0, p.TradeAmount(0.05, 0.05))
	assert.Equal(t, 0.0, p.TradeAmount(1000, 0.001))
}

func TestAdmit(t *testing.T) {
	p := DefaultPolicy()

	// Buy at 1.1000 risking 30 pips for 50: reward/risk 1.67.
	planned := signal.Signal{
		Direction:  signal.Buy,
		Strength:   60,
		Confidence: 60,
		EntryPrice: 1.1000,
		StopLoss:   1.0970,
		TakeProfit: 1.1050,
	}

	sig := planned
	sig.Direction = signal.Hold
	ok, reason := p.Admit(sig)
	assert.False(t, ok)
	assert.Contains(t, reason, "hold")

	sig = planned
	sig.Strength = 5
	ok, reason = p.Admit(sig)
	assert.False(t, ok)
	assert.Contains(t, reason, "strength")

	sig = planned
	sig.Direction = signal.Sell
	sig.Confidence = 10
	sig.StopLoss, sig.TakeProfit = 1.1030, 1.0950
	ok, reason = p.Admit(sig)
	assert.False(t, ok)
	assert.Contains(t, reason, "confidence")

	ok, _ = p.Admit(planned)
	assert.True(t, ok)
}

func TestAdmitRejectsThinRewardRisk(t *testing.T) {
	p := DefaultPolicy()

	// Risking 50 pips to make 20: reward/risk 0.4, below the 1.0 minimum.
	sig := signal.Signal{
		Direction:  signal.Buy,
		Strength:   60,
		Confidence: 60,
		EntryPrice: 1.1000,
		StopLoss:   1.0950,
		TakeProfit: 1.1020,
	}
	ok, reason := p.Admit(sig)
	assert.False(t, ok)
	assert.Contains(t, reason, "reward/risk")

	// A zero minimum disables the gate.
	p.MinRewardRisk = 0
	ok, _ = p.Admit(sig)
	assert.True(t, ok)
}

func TestRR(t *testing.T) {
	// Buy at 1.10, stop 1.09, target 1.125: reward 0.025 / risk 0.01 = 2.5.
	assert.InDelta(t, 2.5, RR(1.10, 1.09, 1.125), 1e-9)
	// Sell side mirrors.
	assert.InDelta(t, 2.5, RR(1.10, 1.11, 1.075), 1e-9)
	// Degenerate stop at entry.
	assert.Equal(t, 0.0, RR(1.10, 1.10, 1.20))
}
