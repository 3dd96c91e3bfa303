package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/Aditya-Mallik-M/AutoAgents/market"
)

// DefaultBaseURL is Alpha Vantage's public endpoint.
const DefaultBaseURL = "https://www.alphavantage.co"

// AlphaVantage is a client for the Alpha Vantage forex API.
type AlphaVantage struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

var _ Provider = (*AlphaVantage)(nil)

// NewAlphaVantage creates a client against the public endpoint.
func NewAlphaVantage(apiKey string) *AlphaVantage {
	return NewAlphaVantageWithBaseURL(apiKey, DefaultBaseURL)
}

// NewAlphaVantageWithBaseURL creates a client against a custom endpoint.
// Tests point this at an httptest server.
func NewAlphaVantageWithBaseURL(apiKey, baseURL string) *AlphaVantage {
	return &AlphaVantage{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// exchangeRateResponse is the CURRENCY_EXCHANGE_RATE payload. Alpha Vantage
// numbers its keys and quotes its prices.
type exchangeRateResponse struct {
	Rate struct {
		FromCurrency  string `json:"1. From_Currency Code"`
		ToCurrency    string `json:"3. To_Currency Code"`
		ExchangeRate  string `json:"5. Exchange Rate"`
		LastRefreshed string `json:"6. Last Refreshed"`
		BidPrice      string `json:"8. Bid Price"`
		AskPrice      string `json:"9. Ask Price"`
	} `json:"Realtime Currency Exchange Rate"`
}

// candleBar is one bar in an FX_DAILY or FX_INTRADAY time series.
type candleBar struct {
	Open  string `json:"1. open"`
	High  string `json:"2. high"`
	Low   string `json:"3. low"`
	Close string `json:"4. close"`
}

// apiEnvelope holds the error-ish fields every Alpha Vantage response may
// carry alongside (or instead of) data.
type apiEnvelope struct {
	ErrorMessage string `json:"Error Message"`
	Note         string `json:"Note"`
	Information  string `json:"Information"`
}

// GetQuote fetches the live exchange rate for the pair. When the provider
// omits bid/ask it falls back to the mid rate for both sides.
func (c *AlphaVantage) GetQuote(ctx context.Context, pair string) (market.Quote, error) {
	base, quote, err := market.SplitPair(pair)
	if err != nil {
		return market.Quote{}, err
	}

	params := url.Values{}
	params.Set("function", "CURRENCY_EXCHANGE_RATE")
	params.Set("from_currency", base)
	params.Set("to_currency", quote)

	body, err := c.get(ctx, params)
	if err != nil {
		return market.Quote{}, err
	}

	var resp exchangeRateResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return market.Quote{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if resp.Rate.ExchangeRate == "" {
		return market.Quote{}, fmt.Errorf("%w: no exchange rate for %s", ErrMalformed, pair)
	}

	mid, err := parsePrice(resp.Rate.ExchangeRate)
	if err != nil {
		return market.Quote{}, fmt.Errorf("%w: exchange rate: %v", ErrMalformed, err)
	}

	bid, ask := mid, mid
	if resp.Rate.BidPrice != "" && resp.Rate.AskPrice != "" {
		if bid, err = parsePrice(resp.Rate.BidPrice); err != nil {
			return market.Quote{}, fmt.Errorf("%w: bid price: %v", ErrMalformed, err)
		}
		if ask, err = parsePrice(resp.Rate.AskPrice); err != nil {
			return market.Quote{}, fmt.Errorf("%w: ask price: %v", ErrMalformed, err)
		}
	}

	ts := time.Now().UTC()
	if resp.Rate.LastRefreshed != "" {
		if parsed, err := time.Parse("2006-01-02 15:04:05", resp.Rate.LastRefreshed); err == nil {
			ts = parsed.UTC()
		}
	}

	return market.Quote{Pair: pair, Bid: bid, Ask: ask, Time: ts}, nil
}

// GetDailySeries fetches daily candles for the pair, oldest first.
func (c *AlphaVantage) GetDailySeries(ctx context.Context, pair string, limit int) ([]market.Candle, error) {
	base, quote, err := market.SplitPair(pair)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("function", "FX_DAILY")
	params.Set("from_symbol", base)
	params.Set("to_symbol", quote)
	params.Set("outputsize", "compact")

	return c.getSeries(ctx, params, "Time Series FX (Daily)", "2006-01-02", limit)
}

// GetIntradaySeries fetches intraday candles at the given interval, oldest
// first.
func (c *AlphaVantage) GetIntradaySeries(ctx context.Context, pair string, interval Interval, limit int) ([]market.Candle, error) {
	base, quote, err := market.SplitPair(pair)
	if err != nil {
		return nil, err
	}
	if interval == "" {
		interval = Min5
	}

	params := url.Values{}
	params.Set("function", "FX_INTRADAY")
	params.Set("from_symbol", base)
	params.Set("to_symbol", quote)
	params.Set("interval", string(interval))
	params.Set("outputsize", "compact")

	seriesKey := fmt.Sprintf("Time Series FX (%s)", interval)
	return c.getSeries(ctx, params, seriesKey, "2006-01-02 15:04:05", limit)
}

func (c *AlphaVantage) getSeries(ctx context.Context, params url.Values, seriesKey, timeLayout string, limit int) ([]market.Candle, error) {
	body, err := c.get(ctx, params)
	if err != nil {
		return nil, err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	seriesRaw, ok := raw[seriesKey]
	if !ok {
		return nil, fmt.Errorf("%w: missing %q", ErrMalformed, seriesKey)
	}

	var bars map[string]candleBar
	if err := json.Unmarshal(seriesRaw, &bars); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	candles := make([]market.Candle, 0, len(bars))
	for stamp, bar := range bars {
		ts, err := time.Parse(timeLayout, stamp)
		if err != nil {
			return nil, fmt.Errorf("%w: bar time %q: %v", ErrMalformed, stamp, err)
		}
		open, err := parsePrice(bar.Open)
		if err != nil {
			return nil, fmt.Errorf("%w: open at %s: %v", ErrMalformed, stamp, err)
		}
		high, err := parsePrice(bar.High)
		if err != nil {
			return nil, fmt.Errorf("%w: high at %s: %v", ErrMalformed, stamp, err)
		}
		low, err := parsePrice(bar.Low)
		if err != nil {
			return nil, fmt.Errorf("%w: low at %s: %v", ErrMalformed, stamp, err)
		}
		closeP, err := parsePrice(bar.Close)
		if err != nil {
			return nil, fmt.Errorf("%w: close at %s: %v", ErrMalformed, stamp, err)
		}
		candles = append(candles, market.Candle{
			Open:  open,
			High:  high,
			Low:   low,
			Close: closeP,
			Time:  ts.UTC(),
		})
	}

	sort.Slice(candles, func(i, j int) bool {
		return candles[i].Time.Before(candles[j].Time)
	})

	if limit > 0 && len(candles) > limit {
		candles = candles[len(candles)-limit:]
	}
	return candles, nil
}

// get performs one API call and maps failure modes onto the package
// sentinels.
func (c *AlphaVantage) get(ctx context.Context, params url.Values) ([]byte, error) {
	params.Set("apikey", c.apiKey)
	apiURL := fmt.Sprintf("%s/query?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrNetwork, err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("%w: status %d", ErrAuthFailed, resp.StatusCode)
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, fmt.Errorf("%w: status %d", ErrRateLimited, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%w: status %d: %s", ErrNetwork, resp.StatusCode, truncate(body))
	}

	// Alpha Vantage reports most failures inside a 200 body.
	var env apiEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if err := env.classify(); err != nil {
		return nil, err
	}
	return body, nil
}

// classify maps the in-body error fields onto sentinels. Throttle notes
// mention call frequency or premium limits; "Error Message" covers bad keys
// and unknown symbols.
func (e apiEnvelope) classify() error {
	if note := firstNonEmpty(e.Note, e.Information); note != "" {
		lower := strings.ToLower(note)
		if strings.Contains(lower, "call frequency") || strings.Contains(lower, "rate limit") ||
			strings.Contains(lower, "premium") || strings.Contains(lower, "per day") {
			return fmt.Errorf("%w: %s", ErrRateLimited, note)
		}
		return fmt.Errorf("%w: %s", ErrMalformed, note)
	}
	if e.ErrorMessage != "" {
		lower := strings.ToLower(e.ErrorMessage)
		if strings.Contains(lower, "apikey") || strings.Contains(lower, "api key") {
			return fmt.Errorf("%w: %s", ErrAuthFailed, e.ErrorMessage)
		}
		return fmt.Errorf("%w: %s", ErrNotFound, e.ErrorMessage)
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func parsePrice(s string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if f <= 0 {
		return 0, fmt.Errorf("price must be positive, got %v", f)
	}
	return f, nil
}

func truncate(body []byte) string {
	const max = 200
	if len(body) > max {
		return string(body[:max]) + "..."
	}
	return string(body)
}
