package marketdata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aditya-Mallik-M/AutoAgents/market"
)

func TestStreamFillsQuoteStore(t *testing.T) {
	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if !assert.NoError(t, err) {
			return
		}
		defer conn.Close()

		// Drain the subscribe frame, then push ticks.
		var sub map[string]any
		if !assert.NoError(t, conn.ReadJSON(&sub)) {
			return
		}
		assert.Equal(t, "subscribe", sub["op"])

		ticks := []string{
			`{"pair":"EUR/USD","bid":"1.0854","ask":"1.0858","time":"2024-03-01T12:00:00Z"}`,
			`{"pair":"GBP/USD","bid":"1.2650","ask":"1.2654","time":"2024-03-01T12:00:01Z"}`,
			`{"malformed`,
			`{"pair":"EUR/USD","bid":"1.0860","ask":"1.0864","time":"2024-03-01T12:00:02Z"}`,
		}
		for _, tick := range ticks {
			if !assert.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(tick))) {
				return
			}
		}
		// Hold the connection open until the client goes away.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	store := market.NewQuoteStore()
	stream := NewStream(wsURL, []string{"EUR/USD", "GBP/USD"}, store, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- stream.Run(ctx) }()

	// The last EUR/USD tick wins.
	require.Eventually(t, func() bool {
		q, err := store.Get("EUR/USD")
		return err == nil && q.Bid == 1.0860
	}, 2*time.Second, 10*time.Millisecond)

	q, err := store.Get("GBP/USD")
	require.NoError(t, err)
	assert.InDelta(t, 1.2650, q.Bid, 1e-9)
	assert.InDelta(t, 1.2654, q.Ask, 1e-9)

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("stream did not stop on context cancel")
	}
}

func TestStoreProviderPrefersStreamedQuote(t *testing.T) {
	store := market.NewQuoteStore()
	store.Set(market.Quote{Pair: "EUR/USD", Bid: 1.0854, Ask: 1.0858, Time: time.Now()})

	rest := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("streamed pairs must not hit the REST provider")
	})
	provider := NewStoreProvider(store, rest)

	q, err := provider.GetQuote(context.Background(), "EUR/USD")
	require.NoError(t, err)
	assert.InDelta(t, 1.0854, q.Bid, 1e-9)
}

func TestStoreProviderFallsBackForUnknownPair(t *testing.T) {
	rest := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"Realtime Currency Exchange Rate": {
				"5. Exchange Rate": "151.25",
				"8. Bid Price": "151.24",
				"9. Ask Price": "151.26"
			}
		}`))
	})
	provider := NewStoreProvider(market.NewQuoteStore(), rest)

	q, err := provider.GetQuote(context.Background(), "USD/JPY")
	require.NoError(t, err)
	assert.InDelta(t, 151.24, q.Bid, 1e-9)
}
