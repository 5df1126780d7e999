package endpoint

import (
	"net/url"
	"sync"
	"time"
)

// EWMA smoothing factors for response time and uptime tracking.
const (
	ewmaAlpha   = 0.2
	uptimeAlpha = 0.1
)

// HealthState is a point-in-time snapshot of an endpoint's rolling health
// statistics.
type HealthState struct {
	Healthy              bool          `json:"is_healthy"`
	ConsecutiveFailures  int           `json:"consecutive_failures"`
	ConsecutiveSuccesses int           `json:"consecutive_successes"`
	Uptime               float64       `json:"uptime"`
	AverageResponseTime  time.Duration `json:"average_response_time"`
	LastChecked          time.Time     `json:"last_checked"`
	LastError            string        `json:"last_error,omitempty"`
}

// Endpoint represents one candidate backend with its priority, active flag,
// and rolling health statistics.
type Endpoint struct {
	url      *url.URL
	priority int

	mutex   sync.Mutex
	active  bool
	health  HealthState
	hasEWMA bool
}

// New creates an Endpoint for the given URL and priority.
// Lower priority values are preferred. Endpoints start healthy with full uptime.
func New(u *url.URL, priority int) *Endpoint {
	return &Endpoint{
		url:      u,
		priority: priority,
		health: HealthState{
			Healthy: true,
			Uptime:  100,
		},
	}
}

// URL returns the endpoint base URL.
func (e *Endpoint) URL() *url.URL {
	return e.url
}

// Priority returns the endpoint's configured priority (lower = more preferred).
func (e *Endpoint) Priority() int {
	return e.priority
}

// IsActive reports whether this endpoint is currently selected for live traffic.
func (e *Endpoint) IsActive() bool {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	return e.active
}

func (e *Endpoint) setActive(active bool) {
	e.mutex.Lock()
	e.active = active
	e.mutex.Unlock()
}

// IsHealthy returns true if the endpoint is currently considered healthy.
func (e *Endpoint) IsHealthy() bool {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	return e.health.Healthy
}

// SetHealthy updates the endpoint's health flag.
// Returns true if the flag changed, false if it was already in that state.
func (e *Endpoint) SetHealthy(healthy bool) (changed bool) {
	e.mutex.Lock()
	defer e.mutex.Unlock()

	if e.health.Healthy == healthy {
		return false
	}

	e.health.Healthy = healthy
	return true
}

// RecordSuccess records a successful health check: increments the success
// counter, resets failures, folds the response time into the EWMA, and nudges
// uptime upward (capped at 100).
func (e *Endpoint) RecordSuccess(responseTime time.Duration) {
	e.mutex.Lock()
	defer e.mutex.Unlock()

	e.health.ConsecutiveSuccesses++
	e.health.ConsecutiveFailures = 0
	e.health.LastChecked = time.Now()
	e.health.LastError = ""

	if !e.hasEWMA {
		e.health.AverageResponseTime = responseTime
		e.hasEWMA = true
	} else {
		// ewma = (1 - α) * ewma + α * latest
		e.health.AverageResponseTime = time.Duration(
			(1-ewmaAlpha)*float64(e.health.AverageResponseTime) + ewmaAlpha*float64(responseTime))
	}

	e.health.Uptime = clampPercent(e.health.Uptime*(1-uptimeAlpha) + 100*uptimeAlpha)
}

// RecordFailure records a failed health check: increments the failure counter,
// resets successes, stores the error text, and nudges uptime downward
// (floored at 0).
func (e *Endpoint) RecordFailure(errText string) {
	e.mutex.Lock()
	defer e.mutex.Unlock()

	e.health.ConsecutiveFailures++
	e.health.ConsecutiveSuccesses = 0
	e.health.LastChecked = time.Now()
	e.health.LastError = errText

	e.health.Uptime = clampPercent(e.health.Uptime * (1 - uptimeAlpha))
}

// Health returns a copy of the endpoint's current health state.
func (e *Endpoint) Health() HealthState {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	return e.health
}

// AverageResponseTime returns the EWMA response time.
// Returns 0 if no successful checks have been recorded yet.
func (e *Endpoint) AverageResponseTime() time.Duration {
	e.mutex.Lock()
	defer e.mutex.Unlock()

	if !e.hasEWMA {
		return 0
	}

	return e.health.AverageResponseTime
}

func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
