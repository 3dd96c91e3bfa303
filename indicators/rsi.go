package indicators

// RSI calculates the Relative Strength Index over the trailing `period`
// closes using Wilder smoothing. The result is bounded to [0,100]; a window
// with no losses yields exactly 100.
func RSI(values []float64, period int) (float64, error) {
	if len(values) < period+1 {
		return 0, insufficient(period+1, len(values))
	}

	var avgGain, avgLoss float64

	// Initial averages over the first `period` changes.
	for i := 1; i <= period; i++ {
		change := values[i] - values[i-1]
		if change > 0 {
			avgGain += change
		} else {
			avgLoss -= change
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)

	// Wilder smoothing over the remaining changes.
	for i := period + 1; i < len(values); i++ {
		change := values[i] - values[i-1]
		gain, loss := 0.0, 0.0
		if change > 0 {
			gain = change
		} else {
			loss = -change
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
	}

	if avgLoss == 0 {
		return 100, nil
	}

	rs := avgGain / avgLoss
	return 100 - 100/(1+rs), nil
}
