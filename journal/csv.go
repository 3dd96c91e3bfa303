package journal

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"
)

type CSVJournal struct {
	transactions *csv.Writer
	equity       *csv.Writer
	tf, ef       *os.File
}

func NewCSV(transactionsPath, equityPath string) (*CSVJournal, error) {
	tf, err := os.Create(transactionsPath)
	if err != nil {
		return nil, err
	}
	ef, err := os.Create(equityPath)
	if err != nil {
		tf.Close()
		return nil, err
	}

	tw := csv.NewWriter(tf)
	ew := csv.NewWriter(ef)

	if err := writeHeaders(tw, ew); err != nil {
		tf.Close()
		ef.Close()
		return nil, err
	}

	return &CSVJournal{tw, ew, tf, ef}, nil
}

func writeHeaders(tw, ew *csv.Writer) error {
	if err := tw.Write([]string{"id", "pair", "side", "amount", "price", "time", "realized_pnl", "reason"}); err != nil {
		return err
	}
	if err := ew.Write([]string{"time", "cash", "total_value", "realized_pnl", "unrealized_pnl", "positions"}); err != nil {
		return err
	}

	tw.Flush()
	if err := tw.Error(); err != nil {
		return err
	}
	ew.Flush()
	return ew.Error()
}

func (j *CSVJournal) RecordTransaction(t TransactionRecord) error {
	err := j.transactions.Write([]string{
		t.ID,
		t.Pair,
		t.Side,
		f(t.Amount),
		f(t.Price),
		t.Time.Format(time.RFC3339),
		f(t.RealizedPnL),
		t.Reason,
	})
	if err != nil {
		return err
	}
	j.transactions.Flush()
	return j.transactions.Error()
}

func (j *CSVJournal) RecordEquity(e EquitySnapshot) error {
	err := j.equity.Write([]string{
		e.Time.Format(time.RFC3339),
		f(e.Cash),
		f(e.TotalValue),
		f(e.RealizedPnL),
		f(e.UnrealizedPnL),
		strconv.Itoa(e.Positions),
	})
	if err != nil {
		return err
	}
	j.equity.Flush()
	return j.equity.Error()
}

func (j *CSVJournal) Close() error {
	j.transactions.Flush()
	if err := j.transactions.Error(); err != nil {
		return err
	}
	j.equity.Flush()
	if err := j.equity.Error(); err != nil {
		return err
	}

	if err := j.tf.Close(); err != nil {
		return err
	}
	return j.ef.Close()
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
