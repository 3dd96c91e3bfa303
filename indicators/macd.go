package indicators

// MACDOf computes the MACD triple from a close series using the standard
// 12/26/9 periods: line = EMA12 - EMA26, signal = EMA(line, 9),
// histogram = line - signal.
//
// The signal line needs 9 MACD points to seed its EMA; on shorter windows
// (26..33 closes) it degrades to the mean of the available MACD points.
func MACDOf(values []float64) (MACD, error) {
	if len(values) < SlowEMAPeriod {
		return MACD{}, insufficient(SlowEMAPeriod, len(values))
	}

	fast, err := EMASeries(values, FastEMAPeriod)
	if err != nil {
		return MACD{}, err
	}
	slow, err := EMASeries(values, SlowEMAPeriod)
	if err != nil {
		return MACD{}, err
	}

	// Both series end at the last bar; align the fast series to the slow one.
	offset := len(fast) - len(slow)
	line := make([]float64, len(slow))
	for i := range slow {
		line[i] = fast[i+offset] - slow[i]
	}

	var signal float64
	if len(line) >= SignalEMAPeriod {
		signal, err = EMA(line, SignalEMAPeriod)
		if err != nil {
			return MACD{}, err
		}
	} else {
		sum := 0.0
		for _, v := range line {
			sum += v
		}
		signal = sum / float64(len(line))
	}

	current := line[len(line)-1]
	return MACD{
		Line:      current,
		Signal:    signal,
		Histogram: current - signal,
	}, nil
}
