package healthcheck

// Report is the JSON body returned by an endpoint's /api/health route.
// Status is mandatory; everything else is reported best effort by the
// backend.
type Report struct {
	Status         string                   `json:"status"`
	Timestamp      string                   `json:"timestamp"`
	ResponseTimeMs float64                  `json:"response_time_ms"`
	Services       map[string]ServiceReport `json:"services"`
	Summary        *ReportSummary           `json:"summary"`
}

// ServiceReport describes one upstream dependency of the endpoint
// (database, redis, ai_providers, system_resources).
type ServiceReport struct {
	Status         string  `json:"status"`
	ResponseTimeMs float64 `json:"response_time_ms"`
	LastCheck      string  `json:"last_check"`
	Error          string  `json:"error,omitempty"`
}

// ReportSummary aggregates the per-service statuses.
type ReportSummary struct {
	HealthyServices   int `json:"healthy_services"`
	DegradedServices  int `json:"degraded_services"`
	UnhealthyServices int `json:"unhealthy_services"`
	TotalServices     int `json:"total_services"`
}

// DegradedServiceCount returns how many upstream services the endpoint itself
// reports as not healthy. Returns 0 when the report carries no summary.
func (r *Report) DegradedServiceCount() int {
	if r == nil || r.Summary == nil {
		return 0
	}
	return r.Summary.DegradedServices + r.Summary.UnhealthyServices
}
