package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collectors holds the Prometheus instrumentation for the monitor.
// All collectors are registered on a private registry so embedding the
// monitor never collides with a host application's default registry.
type Collectors struct {
	checksTotal    *prometheus.CounterVec
	healthStatus   *prometheus.GaugeVec
	checkDuration  *prometheus.HistogramVec
	failoverEvents *prometheus.CounterVec
	registry       *prometheus.Registry
}

// NewCollectors creates and registers the monitor's Prometheus collectors.
func NewCollectors() *Collectors {
	registry := prometheus.NewRegistry()

	c := &Collectors{
		checksTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "endpoint_health_checks_total",
				Help: "Total health checks performed per endpoint and outcome",
			},
			[]string{"endpoint", "status"},
		),
		healthStatus: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "endpoint_health_status",
				Help: "Current endpoint health (1=healthy, 0=unhealthy)",
			},
			[]string{"endpoint"},
		),
		checkDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "endpoint_health_check_duration_seconds",
				Help:    "Duration of health checks per endpoint",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"endpoint"},
		),
		failoverEvents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "endpoint_failover_events_total",
				Help: "Total failover events",
			},
			[]string{"from", "to", "reason"},
		),
		registry: registry,
	}

	registry.MustRegister(c.checksTotal)
	registry.MustRegister(c.healthStatus)
	registry.MustRegister(c.checkDuration)
	registry.MustRegister(c.failoverEvents)

	return c
}

// ObserveCheck records one health check outcome. Safe on a nil receiver so
// callers without metrics export can skip construction.
func (c *Collectors) ObserveCheck(endpointURL string, success bool, duration time.Duration) {
	if c == nil {
		return
	}

	status := "failure"
	if success {
		status = "success"
	}

	c.checksTotal.WithLabelValues(endpointURL, status).Inc()
	c.checkDuration.WithLabelValues(endpointURL).Observe(duration.Seconds())
}

// SetHealth records the current health flag for an endpoint.
func (c *Collectors) SetHealth(endpointURL string, healthy bool) {
	if c == nil {
		return
	}

	v := 0.0
	if healthy {
		v = 1.0
	}
	c.healthStatus.WithLabelValues(endpointURL).Set(v)
}

// RecordFailover counts one failover decision.
func (c *Collectors) RecordFailover(from, to, reason string) {
	if c == nil {
		return
	}

	c.failoverEvents.WithLabelValues(from, to, reason).Inc()
}

// Handler exposes the collectors in Prometheus text format.
func (c *Collectors) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
