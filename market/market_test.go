package market

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeriesAppendRejectsStaleTimestamps(t *testing.T) {
	s := NewSeries("EUR/USD")
	t0 := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, s.Append(Candle{Close: 1.08, Time: t0}))
	require.NoError(t, s.Append(Candle{Close: 1.09, Time: t0.Add(24 * time.Hour)}))

	// Duplicate timestamp
	assert.Error(t, s.Append(Candle{Close: 1.10, Time: t0.Add(24 * time.Hour)}))
	// Earlier timestamp
	assert.Error(t, s.Append(Candle{Close: 1.10, Time: t0}))

	assert.Equal(t, 2, s.Len())
	last, ok := s.Last()
	require.True(t, ok)
	assert.Equal(t, 1.09, last.Close)
}

func TestSeriesWindow(t *testing.T) {
	s := NewSeries("EUR/USD")
	t0 := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 10; i++ {
		require.NoError(t, s.Append(Candle{Close: float64(i), Time: t0.Add(time.Duration(i) * time.Hour)}))
	}

	w := s.Window(3)
	require.Len(t, w, 3)
	assert.Equal(t, []float64{7, 8, 9}, Closes(w))

	// Window larger than the series returns everything.
	assert.Len(t, s.Window(100), 10)
}

func TestSeriesCandlesReturnsCopy(t *testing.T) {
	s := NewSeries("EUR/USD")
	require.NoError(t, s.Append(Candle{Close: 1.08, Time: time.Now()}))

	cs := s.Candles()
	cs[0].Close = 9.99

	last, _ := s.Last()
	assert.Equal(t, 1.08, last.Close)
}

func TestSpreadPips(t *testing.T) {
	tests := []struct {
		name string
		q    Quote
		want float64
	}{
		{"non-JPY pair", Quote{Pair: "EUR/USD", Bid: 1.0854, Ask: 1.0858}, 0.4},
		{"JPY pair", Quote{Pair: "USD/JPY", Bid: 150.00, Ask: 150.04}, 0.4},
		{"unknown pair falls back to suffix", Quote{Pair: "NZD/USD", Bid: 0.6100, Ask: 0.6104}, 0.4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.q.SpreadPips(), 1e-9)
		})
	}
}

func TestPipSize(t *testing.T) {
	assert.Equal(t, 0.0001, PipSize("EUR/USD"))
	assert.Equal(t, 0.01, PipSize("USD/JPY"))
	assert.Equal(t, 0.01, PipSize("GBP/JPY"))
}

func TestSplitPair(t *testing.T) {
	base, quote, err := SplitPair("EUR/USD")
	require.NoError(t, err)
	assert.Equal(t, "EUR", base)
	assert.Equal(t, "USD", quote)

	_, _, err = SplitPair("EURUSD")
	assert.Error(t, err)
}

func TestQuoteStore(t *testing.T) {
	qs := NewQuoteStore()

	_, err := qs.Get("EUR/USD")
	assert.Error(t, err)

	q := Quote{Pair: "EUR/USD", Bid: 1.0854, Ask: 1.0858, Time: time.Now()}
	qs.Set(q)

	got, err := qs.Get("EUR/USD")
	require.NoError(t, err)
	assert.Equal(t, q, got)
	assert.InDelta(t, 1.0856, got.Mid(), 1e-9)
}
