package marketdata

import (
	"context"
	"fmt"

	"github.com/Aditya-Mallik-M/AutoAgents/market"
)

// StoreProvider answers quote lookups from a local QuoteStore (fed by a
// stream) and falls back to the wrapped provider when the store has no
// quote for the pair. Series requests always go to the wrapped provider.
type StoreProvider struct {
	store    *market.QuoteStore
	fallback Provider
}

var _ Provider = (*StoreProvider)(nil)

func NewStoreProvider(store *market.QuoteStore, fallback Provider) *StoreProvider {
	return &StoreProvider{store: store, fallback: fallback}
}

func (p *StoreProvider) GetQuote(ctx context.Context, pair string) (market.Quote, error) {
	if q, err := p.store.Get(pair); err == nil {
		return q, nil
	}
	if p.fallback == nil {
		return market.Quote{}, fmt.Errorf("%w: no streamed quote for %s", ErrNotFound, pair)
	}
	return p.fallback.GetQuote(ctx, pair)
}

func (p *StoreProvider) GetDailySeries(ctx context.Context, pair string, limit int) ([]market.Candle, error) {
	if p.fallback == nil {
		return nil, fmt.Errorf("%w: no series source configured", ErrNotFound)
	}
	return p.fallback.GetDailySeries(ctx, pair, limit)
}

func (p *StoreProvider) GetIntradaySeries(ctx context.Context, pair string, interval Interval, limit int) ([]market.Candle, error) {
	if p.fallback == nil {
		return nil, fmt.Errorf("%w: no series source configured", ErrNotFound)
	}
	return p.fallback.GetIntradaySeries(ctx, pair, interval, limit)
}
