// Package metrics maintains rolling per-endpoint health statistics and
// classifies endpoints as healthy, degraded, or unhealthy against
// configurable thresholds. It also exports operational metrics
// (check counts, durations, health gauges, failover counts) through a
// private Prometheus registry.
package metrics
