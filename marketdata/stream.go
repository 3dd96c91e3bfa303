package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/Aditya-Mallik-M/AutoAgents/market"
)

// streamTick is one quote frame on the websocket feed. Prices arrive as
// strings, like the REST API.
type streamTick struct {
	Pair string `json:"pair"`
	Bid  string `json:"bid"`
	Ask  string `json:"ask"`
	Time string `json:"time"` // RFC 3339
}

// Stream maintains a websocket subscription and writes every tick into a
// QuoteStore. It redials with a fixed delay until the context is cancelled.
type Stream struct {
	url       string
	pairs     []string
	store     *market.QuoteStore
	log       *zap.Logger
	redialGap time.Duration
}

func NewStream(url string, pairs []string, store *market.QuoteStore, log *zap.Logger) *Stream {
	if log == nil {
		log = zap.NewNop()
	}
	return &Stream{
		url:       url,
		pairs:     pairs,
		store:     store,
		log:       log,
		redialGap: 5 * time.Second,
	}
}

// Run dials, subscribes, and pumps ticks into the store until ctx is done.
// Connection errors are logged and followed by a redial.
func (s *Stream) Run(ctx context.Context) error {
	for {
		if err := s.connectAndPump(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			s.log.Warn("stream disconnected, redialing",
				zap.String("url", s.url), zap.Error(err))
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(s.redialGap):
		}
	}
}

func (s *Stream) connectAndPump(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, s.url, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", s.url, err)
	}
	defer conn.Close()

	sub := map[string]any{"op": "subscribe", "pairs": s.pairs}
	if err := conn.WriteJSON(sub); err != nil {
		return fmt.Errorf("subscribe: %w", err)
	}
	s.log.Info("quote stream subscribed",
		zap.String("url", s.url), zap.Strings("pairs", s.pairs))

	// Unblock ReadMessage when the context is cancelled.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("read: %w", err)
		}

		var tick streamTick
		if err := json.Unmarshal(message, &tick); err != nil {
			s.log.Debug("skipping unparseable frame", zap.Error(err))
			continue
		}
		if tick.Pair == "" || tick.Bid == "" || tick.Ask == "" {
			continue
		}

		bid, err := parsePrice(tick.Bid)
		if err != nil {
			s.log.Debug("skipping tick with bad bid",
				zap.String("pair", tick.Pair), zap.Error(err))
			continue
		}
		ask, err := parsePrice(tick.Ask)
		if err != nil {
			s.log.Debug("skipping tick with bad ask",
				zap.String("pair", tick.Pair), zap.Error(err))
			continue
		}

		ts := time.Now().UTC()
		if parsed, err := time.Parse(time.RFC3339, tick.Time); err == nil {
			ts = parsed.UTC()
		}

		s.store.Set(market.Quote{Pair: tick.Pair, Bid: bid, Ask: ask, Time: ts})
	}
}
