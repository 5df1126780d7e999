package metrics

import (
	"github.com/avramidis/endpoint-monitor/internal/endpoint"
)

// EndpointMetrics is the externally visible view of one endpoint.
type EndpointMetrics struct {
	URL      string               `json:"url"`
	Priority int                  `json:"priority"`
	Active   bool                 `json:"is_active"`
	Level    string               `json:"level"`
	State    endpoint.HealthState `json:"state"`
}

// HealthMetrics is an aggregate snapshot across all endpoints.
type HealthMetrics struct {
	Endpoints     map[string]EndpointMetrics `json:"endpoints"`
	OverallStatus string                     `json:"overall_status"`
}

// Snapshot builds a HealthMetrics view over the given endpoints.
// OverallStatus is derived from the proportion of healthy endpoints and
// whether the active endpoint is healthy.
func (a *Aggregator) Snapshot(endpoints []*endpoint.Endpoint) HealthMetrics {
	snap := HealthMetrics{
		Endpoints: make(map[string]EndpointMetrics, len(endpoints)),
	}

	healthyCount := 0
	activeHealthy := false
	activeSeen := false

	for _, ep := range endpoints {
		state := ep.Health()
		level := a.Classify(state)

		if level == LevelHealthy {
			healthyCount++
		}
		if ep.IsActive() {
			activeSeen = true
			activeHealthy = level != LevelUnhealthy
		}

		snap.Endpoints[ep.URL().String()] = EndpointMetrics{
			URL:      ep.URL().String(),
			Priority: ep.Priority(),
			Active:   ep.IsActive(),
			Level:    level.String(),
			State:    state,
		}
	}

	snap.OverallStatus = overallStatus(len(endpoints), healthyCount, activeSeen, activeHealthy)
	return snap
}

func overallStatus(total, healthy int, activeSeen, activeHealthy bool) string {
	if total == 0 {
		return LevelUnhealthy.String()
	}

	if healthy == 0 || (activeSeen && !activeHealthy) {
		return LevelUnhealthy.String()
	}

	if healthy < total {
		return LevelDegraded.String()
	}

	return LevelHealthy.String()
}
