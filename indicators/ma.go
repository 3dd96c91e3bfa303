package indicators

import "fmt"

// SMA calculates the Simple Moving Average of the trailing `period` values.
func SMA(values []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, fmt.Errorf("period must be positive, got %d", period)
	}
	if len(values) < period {
		return 0, insufficient(period, len(values))
	}

	sum := 0.0
	for i := len(values) - period; i < len(values); i++ {
		sum += values[i]
	}
	return sum / float64(period), nil
}

// EMA calculates the Exponential Moving Average for the given period.
//
// The EMA is seeded with the SMA of the first `period` values, then follows
// the recurrence ema = close*k + ema*(1-k) with k = 2/(period+1).
func EMA(values []float64, period int) (float64, error) {
	series, err := EMASeries(values, period)
	if err != nil {
		return 0, err
	}
	return series[len(series)-1], nil
}

// EMASeries returns the EMA at every bar from the seed onward. The result has
// len(values)-period+1 entries; the last one is the current EMA.
func EMASeries(values []float64, period int) ([]float64, error) {
	if period <= 0 {
		return nil, fmt.Errorf("period must be positive, got %d", period)
	}
	if len(values) < period {
		return nil, insufficient(period, len(values))
	}

	k := 2.0 / float64(period+1)

	// Seed with SMA of the first period values.
	seed := 0.0
	for i := 0; i < period; i++ {
		seed += values[i]
	}
	ema := seed / float64(period)

	series := make([]float64, 0, len(values)-period+1)
	series = append(series, ema)
	for i := period; i < len(values); i++ {
		ema = values[i]*k + ema*(1-k)
		series = append(series, ema)
	}
	return series, nil
}
