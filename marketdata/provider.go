// Package marketdata fetches quotes and candle history from external feeds.
package marketdata

import (
	"context"
	"errors"

	"github.com/Aditya-Mallik-M/AutoAgents/market"
)

// Sentinel errors callers branch on. Wrapped errors carry provider detail.
var (
	// ErrRateLimited means the provider throttled us; back off and retry.
	ErrRateLimited = errors.New("rate limited by provider")

	// ErrAuthFailed means the API key was rejected. Not retryable.
	ErrAuthFailed = errors.New("authentication failed")

	// ErrNotFound means the pair or function is unknown to the provider.
	ErrNotFound = errors.New("instrument not found")

	// ErrNetwork covers transport failures: DNS, timeouts, connection resets.
	ErrNetwork = errors.New("network error")

	// ErrMalformed means the provider answered with something we could not
	// parse into prices.
	ErrMalformed = errors.New("malformed provider response")
)

// Interval selects the candle granularity for intraday series.
type Interval string

const (
	Min1  Interval = "1min"
	Min5  Interval = "5min"
	Min15 Interval = "15min"
	Min30 Interval = "30min"
	Min60 Interval = "60min"
)

// Provider is a source of live quotes and candle history.
type Provider interface {
	// GetQuote returns the current bid/ask for the pair.
	GetQuote(ctx context.Context, pair string) (market.Quote, error)

	// GetDailySeries returns up to limit daily candles, oldest first.
	GetDailySeries(ctx context.Context, pair string, limit int) ([]market.Candle, error)

	// GetIntradaySeries returns up to limit intraday candles at the given
	// interval, oldest first.
	GetIntradaySeries(ctx context.Context, pair string, interval Interval, limit int) ([]market.Candle, error)
}
