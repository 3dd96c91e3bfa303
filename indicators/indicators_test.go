package indicators

import (
	"math"
	"testing"
	"time"

	"github.com/Aditya-Mallik-M/AutoAgents/market"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// risingCandles builds n bars climbing from start in fixed steps.
func risingCandles(n int, start, step float64) []market.Candle {
	t0 := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	out := make([]market.Candle, n)
	for i := range out {
		c := start + float64(i)*step
		out[i] = market.Candle{
			Open:  c - step/2,
			High:  c + step,
			Low:   c - step,
			Close: c,
			Time:  t0.Add(time.Duration(i) * 24 * time.Hour),
		}
	}
	return out
}

func TestSMA(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5, 6}

	sma, err := SMA(values, 5)
	require.NoError(t, err)
	// Last 5 values: 2,3,4,5,6 => 20/5 = 4
	assert.InDelta(t, 4.0, sma, 1e-9)

	_, err = SMA(values, 7)
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestEMASeedsWithSMA(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5}

	// With len == period the EMA is just the SMA seed.
	ema, err := EMA(values, 5)
	require.NoError(t, err)
	assert.InDelta(t, 3.0, ema, 1e-9)

	// One more value applies the recurrence once: k = 2/6.
	ema, err = EMA(append(values, 6), 5)
	require.NoError(t, err)
	k := 2.0 / 6.0
	assert.InDelta(t, 6*k+3*(1-k), ema, 1e-9)
}

func TestRSIMonotonicRiseIs100(t *testing.T) {
	// 20 daily closes rising from 1.1000 to 1.1190 in 0.0010 steps: no
	// losing bars, so average loss is zero and RSI pins at 100.
	closes := make([]float64, 20)
	for i := range closes {
		closes[i] = 1.1000 + float64(i)*0.0010
	}

	rsi, err := RSI(closes, 14)
	require.NoError(t, err)
	assert.Equal(t, 100.0, rsi)
}

func TestRSIBounds(t *testing.T) {
	tests := []struct {
		name   string
		closes func() []float64
	}{
		{"falling", func() []float64 {
			out := make([]float64, 40)
			for i := range out {
				out[i] = 2.0 - float64(i)*0.01
			}
			return out
		}},
		{"sawtooth", func() []float64 {
			out := make([]float64, 40)
			for i := range out {
				out[i] = 1.0 + 0.05*float64(i%2)
			}
			return out
		}},
		{"flat", func() []float64 {
			out := make([]float64, 40)
			for i := range out {
				out[i] = 1.2345
			}
			return out
		}},
		{"oscillating", func() []float64 {
			out := make([]float64, 60)
			for i := range out {
				out[i] = 1.0 + 0.1*math.Sin(float64(i)/3)
			}
			return out
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rsi, err := RSI(tt.closes(), 14)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, rsi, 0.0)
			assert.LessOrEqual(t, rsi, 100.0)
		})
	}
}

func TestBollingerOrdering(t *testing.T) {
	cases := [][]float64{
		market.Closes(risingCandles(30, 1.1, 0.001)),
		{1.1, 1.1, 1.1, 1.1, 1.1, 1.1, 1.1, 1.1, 1.1, 1.1, 1.1, 1.1, 1.1, 1.1, 1.1, 1.1, 1.1, 1.1, 1.1, 1.1},
		market.Closes(risingCandles(40, 2.0, -0.004)),
	}
	for _, closes := range cases {
		boll, err := BollingerBands(closes, 20, 2.0)
		require.NoError(t, err)
		assert.LessOrEqual(t, boll.Lower, boll.Middle)
		assert.LessOrEqual(t, boll.Middle, boll.Upper)
	}
}

func TestBollingerFlatSeriesCollapses(t *testing.T) {
	closes := make([]float64, 20)
	for i := range closes {
		closes[i] = 1.5
	}
	boll, err := BollingerBands(closes, 20, 2.0)
	require.NoError(t, err)
	assert.InDelta(t, 1.5, boll.Upper, 1e-12)
	assert.InDelta(t, 1.5, boll.Middle, 1e-12)
	assert.InDelta(t, 1.5, boll.Lower, 1e-12)
}

func TestATRWilder(t *testing.T) {
	candles := []market.Candle{
		{High: 10, Low: 8, Close: 9},
		{High: 11, Low: 9, Close: 10},
		{High: 12, Low: 10, Close: 11},
		{High: 11, Low: 9, Close: 10},
		{High: 12, Low: 10, Close: 11},
		{High: 13, Low: 11, Close: 12},
	}
	atr, err := ATR(candles, 3)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, atr, 1e-9)

	_, err = ATR(candles[:3], 3)
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestCalculateRisingTrend(t *testing.T) {
	set, err := Calculate(risingCandles(30, 1.1000, 0.0010))
	require.NoError(t, err)

	// No losing bars: RSI pins at 100 and the fast EMA leads the slow one.
	assert.Equal(t, 100.0, set.RSI)
	assert.Greater(t, set.EMA12, set.EMA26)
	assert.Greater(t, set.MACD.Line, 0.0)
	assert.LessOrEqual(t, set.Bollinger.Lower, set.Bollinger.Middle)
	assert.LessOrEqual(t, set.Bollinger.Middle, set.Bollinger.Upper)
	assert.Greater(t, set.ATR, 0.0)
}

func TestCalculateInsufficientData(t *testing.T) {
	_, err := Calculate(risingCandles(MinBars-1, 1.1, 0.001))
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestCalculateDeterministic(t *testing.T) {
	candles := risingCandles(60, 1.0850, 0.0004)
	for i := range candles {
		// Perturb the series so it is not trivially monotonic.
		candles[i].Close += 0.002 * math.Sin(float64(i)/2)
		candles[i].High = candles[i].Close + 0.001
		candles[i].Low = candles[i].Close - 0.001
	}

	first, err := Calculate(candles)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		again, err := Calculate(candles)
		require.NoError(t, err)
		assert.Equal(t, first, again, "identical input must produce bit-identical output")
	}
}

func TestMACDSignalLagsOnTrend(t *testing.T) {
	closes := market.Closes(risingCandles(60, 1.1, 0.001))
	macd, err := MACDOf(closes)
	require.NoError(t, err)

	// In a steady uptrend the line leads its own EMA.
	assert.Greater(t, macd.Line, macd.Signal)
	assert.InDelta(t, macd.Line-macd.Signal, macd.Histogram, 1e-12)
}
