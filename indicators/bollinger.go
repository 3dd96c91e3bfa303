package indicators

import "math"

// BollingerBands computes the Bollinger Bands over the trailing `period`
// closes: middle = SMA(period), upper/lower = middle +/- width standard
// deviations. The standard deviation is the population deviation of the same
// window, so lower <= middle <= upper always holds.
func BollingerBands(values []float64, period int, width float64) (Bollinger, error) {
	middle, err := SMA(values, period)
	if err != nil {
		return Bollinger{}, err
	}

	variance := 0.0
	for i := len(values) - period; i < len(values); i++ {
		d := values[i] - middle
		variance += d * d
	}
	variance /= float64(period)
	dev := math.Sqrt(variance)

	return Bollinger{
		Upper:  middle + width*dev,
		Middle: middle,
		Lower:  middle - width*dev,
	}, nil
}
