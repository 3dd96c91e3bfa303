package portfolio

import "time"

// Side is the direction of a transaction.
type Side string

const (
	Buy  Side = "BUY"
	Sell Side = "SELL"
)

// Transaction is one executed trade. Once applied to a ledger it is
// append-only: transactions are never edited or deleted.
type Transaction struct {
	ID     string
	Pair   string
	Side   Side
	Amount float64 // base currency units
	Price  float64 // account currency per base unit
	Time   time.Time

	// RealizedPnL is set by the ledger when a Sell offsets an open
	// position; nil otherwise.
	RealizedPnL *float64
}

// BuyWithCash builds a Buy transaction that spends `spend` units of account
// cash at conversion rate `rate` (base units received per unit of cash).
// Spending 500 USD at rate 0.9200 yields a 460-unit position.
func BuyWithCash(pair string, spend, rate float64, ts time.Time) Transaction {
	return Transaction{
		Pair:   pair,
		Side:   Buy,
		Amount: spend * rate,
		Price:  1 / rate,
		Time:   ts,
	}
}
