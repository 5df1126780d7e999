package failover

import (
	"log/slog"
	"sync"

	"github.com/avramidis/endpoint-monitor/internal/endpoint"
	"github.com/avramidis/endpoint-monitor/internal/healthcheck"
	"github.com/avramidis/endpoint-monitor/internal/metrics"
)

// Transition describes a state machine move for one endpoint.
type Transition struct {
	Endpoint string
	From     State
	To       State
}

// Decision describes a change of the active endpoint.
type Decision struct {
	From   string
	To     string
	Reason string
}

const (
	ReasonActiveUnhealthy = "active_unhealthy"
	ReasonForced          = "forced"
)

// Engine runs the per-endpoint failover state machine and decides when the
// active endpoint must change. It never emits events itself; transitions and
// decisions are returned to the caller, which controls emission ordering.
type Engine struct {
	mutex      sync.Mutex
	states     map[string]State
	registry   *endpoint.Registry
	aggregator *metrics.Aggregator
	collectors *metrics.Collectors
	selector   Selector
	logger     *slog.Logger
}

func NewEngine(
	registry *endpoint.Registry,
	aggregator *metrics.Aggregator,
	collectors *metrics.Collectors,
	selector Selector,
	logger *slog.Logger,
) *Engine {
	return &Engine{
		states:     make(map[string]State),
		registry:   registry,
		aggregator: aggregator,
		collectors: collectors,
		selector:   selector,
		logger:     logger,
	}
}

// StateOf returns the state machine position for the given endpoint URL.
// Unknown endpoints report StateHealthy, matching their initial position.
func (e *Engine) StateOf(url string) State {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	return e.states[url]
}

// Observe advances the endpoint's state machine with the latest check result.
// It must be called after the aggregator has recorded the result, so the
// consecutive counters reflect it. Returns the transition when the state
// changed.
func (e *Engine) Observe(ep *endpoint.Endpoint, res healthcheck.Result) (Transition, bool) {
	e.mutex.Lock()
	defer e.mutex.Unlock()

	url := ep.URL().String()
	state := ep.Health()
	thresholds := e.aggregator.Thresholds()

	current := e.states[url]
	next := current

	switch current {
	case StateHealthy:
		if !res.Success && state.ConsecutiveFailures >= thresholds.FailureThreshold {
			next = StateUnhealthy
		}

	case StateUnhealthy:
		if res.Success {
			next = StateRecovering
			if state.ConsecutiveSuccesses >= thresholds.SuccessThreshold {
				next = StateHealthy
			}
		}

	case StateRecovering:
		if !res.Success {
			next = StateUnhealthy
		} else if state.ConsecutiveSuccesses >= thresholds.SuccessThreshold {
			next = StateHealthy
		}
	}

	if next == current {
		return Transition{}, false
	}

	e.states[url] = next
	ep.SetHealthy(next == StateHealthy)
	e.collectors.SetHealth(url, next == StateHealthy)

	e.logger.Info("endpoint state changed",
		slog.String("endpoint", url),
		slog.String("from", current.String()),
		slog.String("to", next.String()))

	return Transition{Endpoint: url, From: current, To: next}, true
}

// Decide evaluates the global failover rule after a check cycle: when the
// active endpoint is unhealthy and another endpoint is healthy, the healthy
// endpoint with the lowest priority value is promoted. When no healthy
// candidate exists the active pointer stays where it was.
func (e *Engine) Decide() (Decision, bool) {
	e.mutex.Lock()
	defer e.mutex.Unlock()

	active, ok := e.registry.Active()
	if !ok {
		return Decision{}, false
	}

	activeURL := active.URL().String()
	if e.states[activeURL] != StateUnhealthy {
		return Decision{}, false
	}

	var candidates []*endpoint.Endpoint
	for _, ep := range e.registry.All() {
		if ep == active {
			continue
		}
		if e.states[ep.URL().String()] == StateHealthy {
			candidates = append(candidates, ep)
		}
	}

	chosen := e.selector.Select(candidates)
	if chosen == nil {
		return Decision{}, false
	}

	chosenURL := chosen.URL().String()
	if err := e.registry.SetActive(chosenURL); err != nil {
		e.logger.Error("failed to promote endpoint",
			slog.String("endpoint", chosenURL),
			slog.Any("err", err))
		return Decision{}, false
	}

	e.collectors.RecordFailover(activeURL, chosenURL, ReasonActiveUnhealthy)

	e.logger.Warn("failover",
		slog.String("from", activeURL),
		slog.String("to", chosenURL))

	return Decision{From: activeURL, To: chosenURL, Reason: ReasonActiveUnhealthy}, true
}

// ForceFailover promotes the target endpoint if its current classification is
// Healthy or Degraded. Returns false and performs no mutation otherwise.
func (e *Engine) ForceFailover(url string) (Decision, bool) {
	e.mutex.Lock()
	defer e.mutex.Unlock()

	target, exists := e.registry.Get(url)
	if !exists {
		return Decision{}, false
	}

	if e.aggregator.Classify(target.Health()) == metrics.LevelUnhealthy {
		return Decision{}, false
	}

	var from string
	if active, ok := e.registry.Active(); ok {
		from = active.URL().String()
	}

	if err := e.registry.SetActive(url); err != nil {
		return Decision{}, false
	}

	e.collectors.RecordFailover(from, url, ReasonForced)

	e.logger.Info("forced failover",
		slog.String("from", from),
		slog.String("to", url))

	return Decision{From: from, To: url, Reason: ReasonForced}, true
}
