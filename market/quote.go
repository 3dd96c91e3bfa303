package market

import (
	"context"
	"errors"
	"math"
	"sync"
	"time"
)

// Quote is the latest bid/ask for a currency pair.
type Quote struct {
	Pair string
	Bid  float64
	Ask  float64
	Time time.Time
}

func (q Quote) Mid() float64 {
	return (q.Bid + q.Ask) / 2
}

func (q Quote) Spread() float64 {
	return q.Ask - q.Bid
}

// SpreadPips reports the bid/ask spread scaled by the pair's pip size, e.g.
// bid 1.0854 / ask 1.0858 gives 0.4 for a non-JPY pair.
func (q Quote) SpreadPips() float64 {
	return q.Spread() * math.Pow(10, float64(-PipLocation(q.Pair)-1))
}

// QuoteSource supplies the latest quote for a pair.
type QuoteSource interface {
	GetQuote(ctx context.Context, pair string) (Quote, error)
}

// QuoteStore caches the latest quote per pair. Safe for concurrent use.
type QuoteStore struct {
	mu     sync.RWMutex
	quotes map[string]Quote
}

func NewQuoteStore() *QuoteStore {
	return &QuoteStore{quotes: make(map[string]Quote)}
}

func (qs *QuoteStore) Set(q Quote) {
	qs.mu.Lock()
	defer qs.mu.Unlock()
	qs.quotes[q.Pair] = q
}

func (qs *QuoteStore) Get(pair string) (Quote, error) {
	qs.mu.RLock()
	defer qs.mu.RUnlock()
	q, ok := qs.quotes[pair]
	if !ok {
		return Quote{}, errors.New("quote not found")
	}
	return q, nil
}

func (qs *QuoteStore) Pairs() []string {
	qs.mu.RLock()
	defer qs.mu.RUnlock()
	out := make([]string, 0, len(qs.quotes))
	for p := range qs.quotes {
		out = append(out, p)
	}
	return out
}
