package market

import "fmt"

// Series holds the time-ordered candles for a single currency pair.
// Candles are append-only: once accepted they are never edited, and the
// series rejects bars that do not advance the clock.
type Series struct {
	Pair    string
	candles []Candle
}

func NewSeries(pair string) *Series {
	return &Series{Pair: pair}
}

// Append adds a candle to the end of the series. The candle's timestamp must
// be strictly after the current last bar.
func (s *Series) Append(c Candle) error {
	if n := len(s.candles); n > 0 && !c.Time.After(s.candles[n-1].Time) {
		return fmt.Errorf("candle at %s does not advance series (last %s)",
			c.Time.Format("2006-01-02T15:04:05Z"), s.candles[n-1].Time.Format("2006-01-02T15:04:05Z"))
	}
	s.candles = append(s.candles, c)
	return nil
}

// Replace swaps the whole series for a freshly fetched one. Bars must already
// be sorted ascending with unique timestamps.
func (s *Series) Replace(candles []Candle) error {
	for i := 1; i < len(candles); i++ {
		if !candles[i].Time.After(candles[i-1].Time) {
			return fmt.Errorf("candles out of order at index %d", i)
		}
	}
	s.candles = append(s.candles[:0], candles...)
	return nil
}

func (s *Series) Len() int { return len(s.candles) }

// Candles returns a copy of the bars so callers cannot mutate the series.
func (s *Series) Candles() []Candle {
	out := make([]Candle, len(s.candles))
	copy(out, s.candles)
	return out
}

func (s *Series) Last() (Candle, bool) {
	if len(s.candles) == 0 {
		return Candle{}, false
	}
	return s.candles[len(s.candles)-1], true
}

// Window returns the trailing n candles (all of them if n exceeds the length).
func (s *Series) Window(n int) []Candle {
	if n > len(s.candles) {
		n = len(s.candles)
	}
	out := make([]Candle, n)
	copy(out, s.candles[len(s.candles)-n:])
	return out
}

// Closes extracts the close prices of the given candles in order.
func Closes(candles []Candle) []float64 {
	out := make([]float64, len(candles))
	for i, c := range candles {
		out[i] = c.Close
	}
	return out
}
