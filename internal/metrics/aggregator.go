package metrics

import (
	"log/slog"
	"time"

	"github.com/avramidis/endpoint-monitor/internal/endpoint"
	"github.com/avramidis/endpoint-monitor/internal/healthcheck"
)

// Level classifies an endpoint's health.
type Level int

const (
	LevelHealthy Level = iota
	LevelDegraded
	LevelUnhealthy
)

func (l Level) String() string {
	switch l {
	case LevelHealthy:
		return "healthy"
	case LevelDegraded:
		return "degraded"
	case LevelUnhealthy:
		return "unhealthy"
	default:
		return "unknown"
	}
}

// Thresholds configures health classification.
type Thresholds struct {
	FailureThreshold int
	SuccessThreshold int
	DegradedLatency  time.Duration
}

// DefaultThresholds mirror the documented configuration defaults.
func DefaultThresholds() Thresholds {
	return Thresholds{
		FailureThreshold: 3,
		SuccessThreshold: 2,
		DegradedLatency:  time.Second,
	}
}

// Aggregator folds health check outcomes into per-endpoint rolling
// statistics and classifies endpoints against the configured thresholds.
type Aggregator struct {
	thresholds Thresholds
	collectors *Collectors
	logger     *slog.Logger
}

// NewAggregator creates an Aggregator. collectors may be nil when operational
// metrics export is not wanted (tests, embedded use).
func NewAggregator(thresholds Thresholds, collectors *Collectors, logger *slog.Logger) *Aggregator {
	return &Aggregator{
		thresholds: thresholds,
		collectors: collectors,
		logger:     logger,
	}
}

// Thresholds returns the configured classification thresholds.
func (a *Aggregator) Thresholds() Thresholds {
	return a.thresholds
}

// Record updates the endpoint's health state from a check result and exports
// the observation.
func (a *Aggregator) Record(ep *endpoint.Endpoint, res healthcheck.Result) {
	url := ep.URL().String()

	if res.Success {
		ep.RecordSuccess(res.ResponseTime)

		if res.Report != nil && res.Report.DegradedServiceCount() > 0 {
			a.logger.Debug("endpoint reports degraded upstream services",
				slog.String("endpoint", url),
				slog.Int("degraded", res.Report.DegradedServiceCount()))
		}
	} else {
		errText := res.Failure.String()
		if res.Err != nil {
			errText = res.Err.Error()
		}
		ep.RecordFailure(errText)
	}

	a.collectors.ObserveCheck(url, res.Success, res.ResponseTime)
}

// Classify maps a health state onto a Level: Unhealthy once the failure
// threshold is reached, Degraded when healthy but slower than the latency
// threshold, Healthy otherwise.
func (a *Aggregator) Classify(state endpoint.HealthState) Level {
	if state.ConsecutiveFailures >= a.thresholds.FailureThreshold {
		return LevelUnhealthy
	}

	if !state.Healthy {
		return LevelUnhealthy
	}

	if a.thresholds.DegradedLatency > 0 && state.AverageResponseTime > a.thresholds.DegradedLatency {
		return LevelDegraded
	}

	return LevelHealthy
}
