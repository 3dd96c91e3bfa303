package monitor

// State is the monitoring loop's position in its cycle. Idle is entered only
// before the first tick and after a stop request.
type State int

const (
	Idle State = iota
	Polling
	Analyzing
	Deciding
	Executing
	Alerting
	Sleeping
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Polling:
		return "polling"
	case Analyzing:
		return "analyzing"
	case Deciding:
		return "deciding"
	case Executing:
		return "executing"
	case Alerting:
		return "alerting"
	case Sleeping:
		return "sleeping"
	default:
		return "unknown"
	}
}
