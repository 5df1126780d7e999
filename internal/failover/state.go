package failover

// State is the failover state machine position for one endpoint.
type State int

const (
	StateHealthy    State = iota // passing checks
	StateUnhealthy               // failure threshold reached
	StateRecovering              // first success after unhealthy, not yet confirmed
)

func (s State) String() string {
	switch s {
	case StateHealthy:
		return "HEALTHY"
	case StateUnhealthy:
		return "UNHEALTHY"
	case StateRecovering:
		return "RECOVERING"
	default:
		return "UNKNOWN"
	}
}
