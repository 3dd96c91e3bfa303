package journal

import (
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

type SQLiteJournal struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteJournal{db: db}, nil
}

func (j *SQLiteJournal) RecordTransaction(t TransactionRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO transactions
		(id, pair, side, amount, price, time, realized_pnl, reason)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Pair, t.Side, t.Amount, t.Price, t.Time, t.RealizedPnL, t.Reason,
	)
	return err
}

func (j *SQLiteJournal) RecordEquity(e EquitySnapshot) error {
	_, err := j.db.Exec(`
		INSERT INTO equity
		(time, cash, total_value, realized_pnl, unrealized_pnl, positions)
		VALUES (?, ?, ?, ?, ?, ?)`,
		e.Time, e.Cash, e.TotalValue, e.RealizedPnL, e.UnrealizedPnL, e.Positions,
	)
	return err
}

// ListTransactions returns the journaled transactions ordered by id. ULID
// ids sort in creation order.
func (j *SQLiteJournal) ListTransactions() ([]TransactionRecord, error) {
	rows, err := j.db.Query(`
		SELECT id, pair, side, amount, price, time, realized_pnl, reason
		FROM transactions ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []TransactionRecord
	for rows.Next() {
		var rec TransactionRecord
		var ts time.Time
		if err := rows.Scan(&rec.ID, &rec.Pair, &rec.Side, &rec.Amount,
			&rec.Price, &ts, &rec.RealizedPnL, &rec.Reason); err != nil {
			return nil, err
		}
		rec.Time = ts
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}
