// Package journal persists executed transactions and equity snapshots.
package journal

import (
	"time"

	"github.com/Aditya-Mallik-M/AutoAgents/portfolio"
)

// TransactionRecord is one executed trade as written to storage.
type TransactionRecord struct {
	ID          string
	Pair        string
	Side        string
	Amount      float64
	Price       float64
	Time        time.Time
	RealizedPnL float64 // 0 for buys
	Reason      string  // signal reasoning or exit trigger
}

// RecordOf flattens a ledger transaction for storage.
func RecordOf(tx portfolio.Transaction, reason string) TransactionRecord {
	rec := TransactionRecord{
		ID:     tx.ID,
		Pair:   tx.Pair,
		Side:   string(tx.Side),
		Amount: tx.Amount,
		Price:  tx.Price,
		Time:   tx.Time,
		Reason: reason,
	}
	if tx.RealizedPnL != nil {
		rec.RealizedPnL = *tx.RealizedPnL
	}
	return rec
}

// EquitySnapshot is one monitoring-cycle valuation of the portfolio.
type EquitySnapshot struct {
	Time          time.Time
	Cash          float64
	TotalValue    float64
	RealizedPnL   float64
	UnrealizedPnL float64
	Positions     int
}

// SnapshotOf flattens a portfolio snapshot for storage.
func SnapshotOf(s portfolio.Snapshot) EquitySnapshot {
	return EquitySnapshot{
		Time:          s.Time,
		Cash:          s.Cash,
		TotalValue:    s.TotalValue,
		RealizedPnL:   s.RealizedPnL,
		UnrealizedPnL: s.UnrealizedPnL,
		Positions:     len(s.Positions),
	}
}

type Journal interface {
	RecordTransaction(TransactionRecord) error
	RecordEquity(EquitySnapshot) error
	Close() error
}

// Nop discards everything. Used when journaling is disabled.
type Nop struct{}

func (Nop) RecordTransaction(TransactionRecord) error { return nil }
func (Nop) RecordEquity(EquitySnapshot) error         { return nil }
func (Nop) Close() error                              { return nil }
