// Package portfolio is the in-memory accounting ledger: cash, per-pair
// positions, and an append-only transaction log that can replay to the same
// state.
package portfolio

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/Aditya-Mallik-M/AutoAgents/internal/id"
	"github.com/Aditya-Mallik-M/AutoAgents/market"
)

var (
	ErrInsufficientFunds    = errors.New("insufficient funds")
	ErrInsufficientHoldings = errors.New("insufficient holdings")
)

// positionEpsilon absorbs float residue when a position is fully offset.
const positionEpsilon = 1e-9

// Position is an open holding in a pair's base currency. Owned exclusively by
// the ledger.
type Position struct {
	Pair          string
	Units         float64 // base currency amount
	Cost          float64 // quote/account currency spent, at average entry
	AvgEntryPrice float64
}

// Ledger tracks cash, positions, and the transaction log. Mutations go
// through Apply; reads take consistent snapshots under the lock.
type Ledger struct {
	mu           sync.RWMutex
	cash         float64
	currency     string
	initialValue float64
	createdAt    time.Time
	positions    map[string]*Position
	transactions []Transaction
	marks        map[string]float64 // pair -> last mark price (bid)
}

// NewLedger creates a ledger holding the initial amount of cash.
func NewLedger(initialAmount float64, currency string) (*Ledger, error) {
	if initialAmount <= 0 {
		return nil, fmt.Errorf("initial amount must be positive, got %v", initialAmount)
	}
	if currency == "" {
		return nil, errors.New("initial currency is required")
	}
	return &Ledger{
		cash:         initialAmount,
		currency:     currency,
		initialValue: initialAmount,
		createdAt:    time.Now().UTC(),
		positions:    make(map[string]*Position),
		marks:        make(map[string]float64),
	}, nil
}

// Replay rebuilds a ledger by applying the full transaction log to a fresh
// one. The result must match the live ledger's cash and positions exactly.
func Replay(initialAmount float64, currency string, txs []Transaction) (*Ledger, error) {
	l, err := NewLedger(initialAmount, currency)
	if err != nil {
		return nil, err
	}
	for _, tx := range txs {
		if _, err := l.Apply(tx); err != nil {
			return nil, fmt.Errorf("replay transaction %s: %w", tx.ID, err)
		}
	}
	return l, nil
}

// Apply validates and executes one transaction: it debits/credits cash,
// updates the pair's position (weighted-average entry on same-direction adds,
// realized P&L on offsets), and appends to the log. The returned transaction
// carries the assigned ID and any realized P&L.
func (l *Ledger) Apply(tx Transaction) (Transaction, error) {
	if tx.Amount <= 0 {
		return Transaction{}, fmt.Errorf("transaction amount must be positive, got %v", tx.Amount)
	}
	if tx.Price <= 0 {
		return Transaction{}, fmt.Errorf("transaction price must be positive, got %v", tx.Price)
	}
	if tx.Side != Buy && tx.Side != Sell {
		return Transaction{}, fmt.Errorf("unknown transaction side %q", tx.Side)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if tx.ID == "" {
		tx.ID = id.New()
	}
	if tx.Time.IsZero() {
		tx.Time = time.Now().UTC()
	}

	switch tx.Side {
	case Buy:
		cost := tx.Amount * tx.Price
		if cost > l.cash+positionEpsilon {
			return Transaction{}, fmt.Errorf("%w: need %.2f %s, have %.2f",
				ErrInsufficientFunds, cost, l.currency, l.cash)
		}
		l.cash -= cost

		pos, ok := l.positions[tx.Pair]
		if !ok {
			pos = &Position{Pair: tx.Pair}
			l.positions[tx.Pair] = pos
		}
		pos.Units += tx.Amount
		pos.Cost += cost
		pos.AvgEntryPrice = pos.Cost / pos.Units
		tx.RealizedPnL = nil

	case Sell:
		pos, ok := l.positions[tx.Pair]
		if !ok || pos.Units+positionEpsilon < tx.Amount {
			held := 0.0
			if ok {
				held = pos.Units
			}
			return Transaction{}, fmt.Errorf("%w: selling %.4f %s units, holding %.4f",
				ErrInsufficientHoldings, tx.Amount, tx.Pair, held)
		}

		proceeds := tx.Amount * tx.Price
		realized := tx.Amount * (tx.Price - pos.AvgEntryPrice)
		l.cash += proceeds

		pos.Units -= tx.Amount
		pos.Cost = pos.Units * pos.AvgEntryPrice
		if pos.Units <= positionEpsilon {
			delete(l.positions, tx.Pair)
		}
		tx.RealizedPnL = &realized
	}

	l.transactions = append(l.transactions, tx)
	return tx, nil
}

// MarkToMarket revalues the pair's open position at the quote's bid (the
// side a long would close on) and returns the unrealized P&L. Realized
// figures are untouched. Marking a pair with no open position is a no-op.
func (l *Ledger) MarkToMarket(pair string, q market.Quote) (float64, error) {
	if q.Bid <= 0 {
		return 0, fmt.Errorf("mark price for %s must be positive, got %v", pair, q.Bid)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.marks[pair] = q.Bid
	pos, ok := l.positions[pair]
	if !ok {
		return 0, nil
	}
	return pos.Units * (q.Bid - pos.AvgEntryPrice), nil
}

// PositionView is the valued form of a position inside a snapshot.
type PositionView struct {
	Pair          string
	Units         float64
	AvgEntryPrice float64
	MarkPrice     float64
	MarketValue   float64
	UnrealizedPnL float64
}

// Snapshot is a consistent read of the whole portfolio.
type Snapshot struct {
	Time          time.Time
	Currency      string
	Cash          float64
	InitialValue  float64
	TotalValue    float64
	RealizedPnL   float64
	UnrealizedPnL float64
	Positions     []PositionView
	Transactions  int
}

// Snapshot returns the portfolio totals and per-pair breakdown. Pure read.
// Positions that have never been marked are valued at their entry price.
func (l *Ledger) Snapshot() Snapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()

	snap := Snapshot{
		Time:         time.Now().UTC(),
		Currency:     l.currency,
		Cash:         l.cash,
		InitialValue: l.initialValue,
		TotalValue:   l.cash,
		Transactions: len(l.transactions),
	}

	for _, tx := range l.transactions {
		if tx.RealizedPnL != nil {
			snap.RealizedPnL += *tx.RealizedPnL
		}
	}

	pairs := make([]string, 0, len(l.positions))
	for pair := range l.positions {
		pairs = append(pairs, pair)
	}
	sort.Strings(pairs)

	for _, pair := range pairs {
		pos := l.positions[pair]
		mark, ok := l.marks[pair]
		if !ok || mark <= 0 {
			mark = pos.AvgEntryPrice
		}
		view := PositionView{
			Pair:          pair,
			Units:         pos.Units,
			AvgEntryPrice: pos.AvgEntryPrice,
			MarkPrice:     mark,
			MarketValue:   pos.Units * mark,
			UnrealizedPnL: pos.Units * (mark - pos.AvgEntryPrice),
		}
		snap.TotalValue += view.MarketValue
		snap.UnrealizedPnL += view.UnrealizedPnL
		snap.Positions = append(snap.Positions, view)
	}

	return snap
}

// Cash returns the current cash balance.
func (l *Ledger) Cash() float64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.cash
}

// Currency returns the account currency.
func (l *Ledger) Currency() string {
	return l.currency
}

// InitialValue returns the starting portfolio value.
func (l *Ledger) InitialValue() float64 {
	return l.initialValue
}

// Position returns a copy of the open position for the pair, if any.
func (l *Ledger) Position(pair string) (Position, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	pos, ok := l.positions[pair]
	if !ok {
		return Position{}, false
	}
	return *pos, true
}

// Transactions returns a copy of the append-only transaction log.
func (l *Ledger) Transactions() []Transaction {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Transaction, len(l.transactions))
	copy(out, l.transactions)
	return out
}

// Equal reports whether two ledgers have the same cash and positions, within
// float tolerance. Used to verify the replay audit property.
func (l *Ledger) Equal(other *Ledger) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	other.mu.RLock()
	defer other.mu.RUnlock()

	if math.Abs(l.cash-other.cash) > 1e-6 || l.currency != other.currency {
		return false
	}
	if len(l.positions) != len(other.positions) {
		return false
	}
	for pair, pos := range l.positions {
		op, ok := other.positions[pair]
		if !ok {
			return false
		}
		if math.Abs(pos.Units-op.Units) > 1e-6 || math.Abs(pos.AvgEntryPrice-op.AvgEntryPrice) > 1e-6 {
			return false
		}
	}
	return true
}
