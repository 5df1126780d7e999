// Package failover implements the per-endpoint health state machine and the
// global failover decision rule.
//
// Each endpoint moves through three states:
//
//   - HEALTHY: passing checks
//   - UNHEALTHY: the consecutive failure threshold was reached
//   - RECOVERING: first success after unhealthy, awaiting confirmation
//
// After every check cycle the engine evaluates whether the active endpoint
// must change: an unhealthy active endpoint is replaced by the healthy
// candidate with the lowest priority value, ties broken by response time.
// A recovered endpoint never reclaims active status automatically; failback
// requires an explicit ForceFailover call.
package failover
