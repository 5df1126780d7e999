// Package endpoint models candidate backend endpoints and the registry that
// tracks them. Each endpoint carries rolling health statistics (uptime,
// EWMA response time, consecutive failure/success counters) and a priority
// used for failover candidate selection. The registry guarantees unique URLs
// and that at most one endpoint holds the active flag.
package endpoint
