// Package monitor provides the health monitoring facade. It schedules
// periodic concurrent health checks across all registered endpoints, feeds
// the results to the metrics aggregator and failover engine, and publishes
// health events through the event bus.
package monitor
