package monitor

import "time"

// Kind classifies an alert.
type Kind string

const (
	RateChange      Kind = "RATE_CHANGE"
	SignalTriggered Kind = "SIGNAL_TRIGGERED"
	StopLossHit     Kind = "STOP_LOSS_HIT"
	TakeProfitHit   Kind = "TAKE_PROFIT_HIT"
	DataError       Kind = "DATA_ERROR"
	Degraded        Kind = "DEGRADED"
)

type Severity string

const (
	Info     Severity = "INFO"
	Warning  Severity = "WARNING"
	Critical Severity = "CRITICAL"
)

// Alert is one structured notification from the loop. Alerts are ephemeral:
// they are consumed from the channel, not persisted.
type Alert struct {
	Kind     Kind
	Pair     string
	Message  string
	Severity Severity
	Time     time.Time
}
