package event

import "time"

// Type identifies the kind of health event.
type Type string

const (
	TypeHealthCheckSuccess Type = "HEALTH_CHECK_SUCCESS"
	TypeHealthCheckFailure Type = "HEALTH_CHECK_FAILURE"
	TypeEndpointFailover   Type = "ENDPOINT_FAILOVER"
	TypeEndpointRecovery   Type = "ENDPOINT_RECOVERY"
	TypeMonitoringStarted  Type = "MONITORING_STARTED"
	TypeMonitoringStopped  Type = "MONITORING_STOPPED"
)

// Metadata keys used across event types.
const (
	MetaError          = "error"
	MetaPreviousActive = "previous_active"
	MetaNewActive      = "new_active"
	MetaReason         = "reason"
)

// Event is an immutable record of something the monitor observed or decided.
type Event struct {
	Type      Type              `json:"type"`
	Endpoint  string            `json:"endpoint,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// New builds an event stamped with the current time.
func New(t Type, endpointURL string, metadata map[string]string) Event {
	return Event{
		Type:      t,
		Endpoint:  endpointURL,
		Timestamp: time.Now(),
		Metadata:  metadata,
	}
}
