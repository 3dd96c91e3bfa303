package market

import (
	"fmt"
	"strings"
)

// PairMeta describes a currency pair in FROM/TO notation.
type PairMeta struct {
	Name          string
	BaseCurrency  string
	QuoteCurrency string
	PipLocation   int
}

// Pairs is the registry of known currency pairs.
var Pairs = map[string]PairMeta{
	"EUR/USD": {Name: "EUR/USD", BaseCurrency: "EUR", QuoteCurrency: "USD", PipLocation: -4},
	"GBP/USD": {Name: "GBP/USD", BaseCurrency: "GBP", QuoteCurrency: "USD", PipLocation: -4},
	"AUD/USD": {Name: "AUD/USD", BaseCurrency: "AUD", QuoteCurrency: "USD", PipLocation: -4},
	"USD/EUR": {Name: "USD/EUR", BaseCurrency: "USD", QuoteCurrency: "EUR", PipLocation: -4},
	"USD/GBP": {Name: "USD/GBP", BaseCurrency: "USD", QuoteCurrency: "GBP", PipLocation: -4},
	"USD/CHF": {Name: "USD/CHF", BaseCurrency: "USD", QuoteCurrency: "CHF", PipLocation: -4},
	"USD/CAD": {Name: "USD/CAD", BaseCurrency: "USD", QuoteCurrency: "CAD", PipLocation: -4},
	"USD/JPY": {Name: "USD/JPY", BaseCurrency: "USD", QuoteCurrency: "JPY", PipLocation: -2},
	"EUR/GBP": {Name: "EUR/GBP", BaseCurrency: "EUR", QuoteCurrency: "GBP", PipLocation: -4},
	"EUR/JPY": {Name: "EUR/JPY", BaseCurrency: "EUR", QuoteCurrency: "JPY", PipLocation: -2},
	"GBP/JPY": {Name: "GBP/JPY", BaseCurrency: "GBP", QuoteCurrency: "JPY", PipLocation: -2},
}

// SplitPair breaks "EUR/USD" into its base and quote currency codes.
func SplitPair(pair string) (base, quote string, err error) {
	base, quote, ok := strings.Cut(pair, "/")
	if !ok || base == "" || quote == "" {
		return "", "", fmt.Errorf("invalid pair %q: want FROM/TO", pair)
	}
	return base, quote, nil
}

// PipLocation returns the pip exponent for a pair: -4 for most pairs, -2 for
// JPY-quoted pairs. Unknown pairs fall back on the quote currency suffix.
func PipLocation(pair string) int {
	if meta, ok := Pairs[pair]; ok {
		return meta.PipLocation
	}
	if strings.HasSuffix(pair, "/JPY") {
		return -2
	}
	return -4
}

// PipSize returns the price increment of one pip for the pair
// (0.0001 for most pairs, 0.01 for JPY-quoted pairs).
func PipSize(pair string) float64 {
	if PipLocation(pair) == -2 {
		return 0.01
	}
	return 0.0001
}
