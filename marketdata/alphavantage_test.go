package marketdata

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *AlphaVantage {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewAlphaVantageWithBaseURL("test-key", server.URL)
}

func TestGetQuoteParsesExchangeRate(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "CURRENCY_EXCHANGE_RATE", r.URL.Query().Get("function"))
		assert.Equal(t, "EUR", r.URL.Query().Get("from_currency"))
		assert.Equal(t, "USD", r.URL.Query().Get("to_currency"))
		assert.Equal(t, "test-key", r.URL.Query().Get("apikey"))

		fmt.Fprint(w, `{
			"Realtime Currency Exchange Rate": {
				"1. From_Currency Code": "EUR",
				"3. To_Currency Code": "USD",
				"5. Exchange Rate": "1.08560000",
				"6. Last Refreshed": "2024-03-01 12:00:00",
				"8. Bid Price": "1.08540000",
				"9. Ask Price": "1.08580000"
			}
		}`)
	})

	q, err := client.GetQuote(context.Background(), "EUR/USD")
	require.NoError(t, err)
	assert.Equal(t, "EUR/USD", q.Pair)
	assert.InDelta(t, 1.0854, q.Bid, 1e-9)
	assert.InDelta(t, 1.0858, q.Ask, 1e-9)
	assert.Equal(t, 2024, q.Time.Year())
}

func TestGetQuoteFallsBackToMidRate(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"Realtime Currency Exchange Rate": {
				"5. Exchange Rate": "1.08560000"
			}
		}`)
	})

	q, err := client.GetQuote(context.Background(), "EUR/USD")
	require.NoError(t, err)
	assert.InDelta(t, 1.0856, q.Bid, 1e-9)
	assert.InDelta(t, 1.0856, q.Ask, 1e-9)
}

func TestGetQuoteErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{
			name:    "http 401",
			status:  http.StatusUnauthorized,
			body:    `{}`,
			wantErr: ErrAuthFailed,
		},
		{
			name:    "http 429",
			status:  http.StatusTooManyRequests,
			body:    `{}`,
			wantErr: ErrRateLimited,
		},
		{
			name:    "frequency note",
			status:  http.StatusOK,
			body:    `{"Note": "Thank you for using Alpha Vantage! Our standard API call frequency is 25 requests per day."}`,
			wantErr: ErrRateLimited,
		},
		{
			name:    "information throttle",
			status:  http.StatusOK,
			body:    `{"Information": "You have exceeded the rate limit for your free plan."}`,
			wantErr: ErrRateLimited,
		},
		{
			name:    "bad api key",
			status:  http.StatusOK,
			body:    `{"Error Message": "the parameter apikey is invalid or missing"}`,
			wantErr: ErrAuthFailed,
		},
		{
			name:    "unknown symbol",
			status:  http.StatusOK,
			body:    `{"Error Message": "Invalid API call. Please retry or visit the documentation."}`,
			wantErr: ErrNotFound,
		},
		{
			name:    "empty payload",
			status:  http.StatusOK,
			body:    `{}`,
			wantErr: ErrMalformed,
		},
		{
			name:    "not json",
			status:  http.StatusOK,
			body:    `<html>downtime</html>`,
			wantErr: ErrMalformed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			})

			_, err := client.GetQuote(context.Background(), "EUR/USD")
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestGetQuoteNetworkError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close() // connection refused from here on
	client := NewAlphaVantageWithBaseURL("test-key", server.URL)

	_, err := client.GetQuote(context.Background(), "EUR/USD")
	assert.ErrorIs(t, err, ErrNetwork)
}

func TestGetQuoteRejectsBadPair(t *testing.T) {
	client := NewAlphaVantage("test-key")
	_, err := client.GetQuote(context.Background(), "EURUSD")
	assert.Error(t, err)
}

func TestGetDailySeriesSortedAscending(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "FX_DAILY", r.URL.Query().Get("function"))
		assert.Equal(t, "EUR", r.URL.Query().Get("from_symbol"))
		assert.Equal(t, "USD", r.URL.Query().Get("to_symbol"))

		// Newest first, the way the API serves it.
		fmt.Fprint(w, `{
			"Time Series FX (Daily)": {
				"2024-03-04": {"1. open": "1.0850", "2. high": "1.0880", "3. low": "1.0840", "4. close": "1.0870"},
				"2024-03-01": {"1. open": "1.0800", "2. high": "1.0830", "3. low": "1.0790", "4. close": "1.0820"},
				"2024-03-02": {"1. open": "1.0820", "2. high": "1.0860", "3. low": "1.0810", "4. close": "1.0850"}
			}
		}`)
	})

	candles, err := client.GetDailySeries(context.Background(), "EUR/USD", 0)
	require.NoError(t, err)
	require.Len(t, candles, 3)
	assert.Equal(t, 1, candles[0].Time.Day())
	assert.Equal(t, 2, candles[1].Time.Day())
	assert.Equal(t, 4, candles[2].Time.Day())
	assert.InDelta(t, 1.0820, candles[0].Close, 1e-9)
}

func TestGetDailySeriesLimitKeepsNewest(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"Time Series FX (Daily)": {
				"2024-03-01": {"1. open": "1.08", "2. high": "1.09", "3. low": "1.07", "4. close": "1.082"},
				"2024-03-02": {"1. open": "1.08", "2. high": "1.09", "3. low": "1.07", "4. close": "1.085"},
				"2024-03-03": {"1. open": "1.08", "2. high": "1.09", "3. low": "1.07", "4. close": "1.087"}
			}
		}`)
	})

	candles, err := client.GetDailySeries(context.Background(), "EUR/USD", 2)
	require.NoError(t, err)
	require.Len(t, candles, 2)
	assert.Equal(t, 2, candles[0].Time.Day())
	assert.Equal(t, 3, candles[1].Time.Day())
}

func TestGetIntradaySeries(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "FX_INTRADAY", r.URL.Query().Get("function"))
		assert.Equal(t, "5min", r.URL.Query().Get("interval"))

		fmt.Fprint(w, `{
			"Time Series FX (5min)": {
				"2024-03-01 12:05:00": {"1. open": "1.0850", "2. high": "1.0852", "3. low": "1.0848", "4. close": "1.0851"},
				"2024-03-01 12:00:00": {"1. open": "1.0848", "2. high": "1.0851", "3. low": "1.0847", "4. close": "1.0850"}
			}
		}`)
	})

	candles, err := client.GetIntradaySeries(context.Background(), "EUR/USD", Min5, 0)
	require.NoError(t, err)
	require.Len(t, candles, 2)
	assert.True(t, candles[0].Time.Before(candles[1].Time))
}

func TestGetDailySeriesMalformedBar(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"Time Series FX (Daily)": {
				"2024-03-01": {"1. open": "not-a-price", "2. high": "1.09", "3. low": "1.07", "4. close": "1.08"}
			}
		}`)
	})

	_, err := client.GetDailySeries(context.Background(), "EUR/USD", 0)
	assert.ErrorIs(t, err, ErrMalformed)
}
