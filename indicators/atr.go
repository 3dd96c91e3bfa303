package indicators

import (
	"math"

	"github.com/Aditya-Mallik-M/AutoAgents/market"
)

// ATR calculates the Average True Range for the given period using Wilder's
// smoothing. It needs period+1 candles because the true range references the
// previous close.
func ATR(candles []market.Candle, period int) (float64, error) {
	if len(candles) < period+1 {
		return 0, insufficient(period+1, len(candles))
	}

	trueRanges := make([]float64, 0, len(candles)-1)
	for i := 1; i < len(candles); i++ {
		trueRanges = append(trueRanges, trueRange(candles[i], candles[i-1]))
	}

	// Initial ATR is the mean of the first `period` true ranges.
	sum := 0.0
	for i := 0; i < period; i++ {
		sum += trueRanges[i]
	}
	atr := sum / float64(period)

	for i := period; i < len(trueRanges); i++ {
		atr = (atr*float64(period-1) + trueRanges[i]) / float64(period)
	}

	return atr, nil
}

func trueRange(current, previous market.Candle) float64 {
	highLow := current.High - current.Low
	highClose := math.Abs(current.High - previous.Close)
	lowClose := math.Abs(current.Low - previous.Close)

	return math.Max(highLow, math.Max(highClose, lowClose))
}
