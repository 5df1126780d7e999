package healthcheck

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/avramidis/endpoint-monitor/internal/endpoint"
)

// healthPath is the probe path appended to every endpoint base URL.
const healthPath = "/api/health"

// maxBodySize bounds how much of a probe response body is read.
const maxBodySize = 1 << 20

// FailureKind classifies why a health check failed.
type FailureKind int

const (
	FailureNone    FailureKind = iota // check succeeded
	FailureNetwork                    // connection refused, DNS, reset
	FailureTimeout                    // per-check timeout exceeded
	FailureHTTP                       // non-2xx status
	FailureParse                      // malformed JSON body
)

func (k FailureKind) String() string {
	switch k {
	case FailureNone:
		return "none"
	case FailureNetwork:
		return "network"
	case FailureTimeout:
		return "timeout"
	case FailureHTTP:
		return "http"
	case FailureParse:
		return "parse"
	default:
		return "unknown"
	}
}

// Result is the outcome of a single health probe. Failures are carried in
// the result; Check never returns an error to the caller.
type Result struct {
	Success      bool
	ResponseTime time.Duration
	HTTPStatus   int
	Failure      FailureKind
	Err          error
	Report       *Report
}

// Checker issues health probes against endpoints. A single Checker is safe
// for concurrent use.
type Checker struct {
	client *http.Client
	logger *slog.Logger
}

// NewChecker creates a Checker. Per-check timeouts are enforced through the
// request context, not the client, so one slow endpoint cannot hold a
// shared deadline.
func NewChecker(logger *slog.Logger) *Checker {
	return &Checker{
		client: &http.Client{},
		logger: logger,
	}
}

// Check performs a GET against {endpoint}/api/health bounded by timeout and
// classifies the outcome. All failures are non-fatal and returned as a typed
// result.
func (c *Checker) Check(ctx context.Context, ep *endpoint.Endpoint, timeout time.Duration) Result {
	checkCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	healthURL := ep.URL().ResolveReference(&url.URL{Path: healthPath})

	start := time.Now()

	req, err := http.NewRequestWithContext(checkCtx, http.MethodGet, healthURL.String(), nil)
	if err != nil {
		return c.failed(ep, Result{
			Failure: FailureNetwork,
			Err:     fmt.Errorf("building probe request: %w", err),
		})
	}

	res, err := c.client.Do(req)
	elapsed := time.Since(start)

	if err != nil {
		return c.failed(ep, Result{
			ResponseTime: elapsed,
			Failure:      classifyTransportError(err),
			Err:          err,
		})
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, maxBodySize))
	elapsed = time.Since(start)

	if err != nil {
		return c.failed(ep, Result{
			ResponseTime: elapsed,
			HTTPStatus:   res.StatusCode,
			Failure:      classifyTransportError(err),
			Err:          fmt.Errorf("reading probe body: %w", err),
		})
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return c.failed(ep, Result{
			ResponseTime: elapsed,
			HTTPStatus:   res.StatusCode,
			Failure:      FailureHTTP,
			Err:          fmt.Errorf("health endpoint returned status %d", res.StatusCode),
		})
	}

	// A body is optional; when present it must be a well formed report.
	var report *Report
	if len(body) > 0 {
		report, err = decodeReport(body)
		if err != nil {
			return c.failed(ep, Result{
				ResponseTime: elapsed,
				HTTPStatus:   res.StatusCode,
				Failure:      FailureParse,
				Err:          err,
			})
		}
	}

	return Result{
		Success:      true,
		ResponseTime: elapsed,
		HTTPStatus:   res.StatusCode,
		Report:       report,
	}
}

func (c *Checker) failed(ep *endpoint.Endpoint, res Result) Result {
	c.logger.Debug("health check failed",
		slog.String("endpoint", ep.URL().String()),
		slog.String("failure", res.Failure.String()),
		slog.Any("err", res.Err))
	return res
}

func classifyTransportError(err error) FailureKind {
	if errors.Is(err, context.DeadlineExceeded) {
		return FailureTimeout
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return FailureTimeout
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return FailureTimeout
	}

	return FailureNetwork
}

func decodeReport(body []byte) (*Report, error) {
	var report Report
	if err := json.Unmarshal(body, &report); err != nil {
		return nil, fmt.Errorf("malformed health report: %w", err)
	}

	if report.Status == "" {
		return nil, errors.New("malformed health report: missing status field")
	}

	return &report, nil
}
