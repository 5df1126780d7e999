// Package healthcheck issues single health probes against candidate endpoints.
// Each probe is a GET to the endpoint's /api/health route bounded by a
// per-check timeout. Outcomes are classified into network, timeout, HTTP, and
// parse failures and returned as typed results, never as errors across the
// component boundary.
package healthcheck
