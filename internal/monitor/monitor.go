package monitor

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/avramidis/endpoint-monitor/internal/endpoint"
	"github.com/avramidis/endpoint-monitor/internal/event"
	"github.com/avramidis/endpoint-monitor/internal/failover"
	"github.com/avramidis/endpoint-monitor/internal/healthcheck"
	"github.com/avramidis/endpoint-monitor/internal/metrics"
)

// Monitor coordinates the periodic health check cycle across all registered
// endpoints and exposes the public API consumed by dashboards and other
// collaborators. A Monitor is constructed explicitly and owns its start/stop
// lifecycle; there is no package-level instance.
type Monitor struct {
	registry     *endpoint.Registry
	checker      *healthcheck.Checker
	aggregator   *metrics.Aggregator
	engine       *failover.Engine
	bus          *event.Bus
	logger       *slog.Logger
	checkTimeout time.Duration

	// mutex serializes state application (check results, failover) against
	// ForceFailover and snapshot reads.
	mutex   sync.Mutex
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

func New(
	registry *endpoint.Registry,
	checker *healthcheck.Checker,
	aggregator *metrics.Aggregator,
	engine *failover.Engine,
	bus *event.Bus,
	checkTimeout time.Duration,
	logger *slog.Logger,
) *Monitor {
	return &Monitor{
		registry:     registry,
		checker:      checker,
		aggregator:   aggregator,
		engine:       engine,
		bus:          bus,
		checkTimeout: checkTimeout,
		logger:       logger,
	}
}

// Start begins the periodic check cycle. The first cycle runs immediately
// rather than waiting a full interval. Calling Start while running is a no-op.
func (m *Monitor) Start(interval time.Duration) {
	m.mutex.Lock()
	if m.running {
		m.mutex.Unlock()
		return
	}
	m.running = true

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel

	// Seed the active pointer with the most preferred endpoint when nothing
	// was active before.
	if _, ok := m.registry.Active(); !ok {
		if all := m.registry.All(); len(all) > 0 {
			if err := m.registry.SetActive(all[0].URL().String()); err != nil {
				m.logger.Error("failed to seed active endpoint", slog.Any("err", err))
			}
		}
	}
	m.mutex.Unlock()

	m.logger.Info("monitoring started", slog.Duration("interval", interval))
	m.bus.Emit(event.New(event.TypeMonitoringStarted, "", nil))

	m.wg.Add(1)
	go m.run(ctx, interval)
}

// Stop cancels the scheduler and any in-flight checks, waits for the cycle
// goroutine to exit, and emits MONITORING_STOPPED. Results of a cancelled
// cycle never mutate state.
func (m *Monitor) Stop() {
	m.mutex.Lock()
	if !m.running {
		m.mutex.Unlock()
		return
	}
	m.running = false
	cancel := m.cancel
	m.cancel = nil
	m.mutex.Unlock()

	cancel()
	m.wg.Wait()

	m.logger.Info("monitoring stopped")
	m.bus.Emit(event.New(event.TypeMonitoringStopped, "", nil))
}

// IsRunning reports whether the periodic cycle is active.
func (m *Monitor) IsRunning() bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.running
}

// ActiveEndpoint returns the URL of the currently active endpoint. The last
// known active endpoint is reported even when every endpoint is failing.
func (m *Monitor) ActiveEndpoint() (string, bool) {
	active, ok := m.registry.Active()
	if !ok {
		return "", false
	}
	return active.URL().String(), true
}

// Endpoints returns all registered endpoints sorted by priority.
func (m *Monitor) Endpoints() []*endpoint.Endpoint {
	return m.registry.All()
}

// Metrics returns an aggregate snapshot of per-endpoint health.
func (m *Monitor) Metrics() metrics.HealthMetrics {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.aggregator.Snapshot(m.registry.All())
}

// ForceFailover promotes the target endpoint if it is currently Healthy or
// Degraded. Returns false and performs no mutation otherwise. The decision
// is atomic relative to a concurrently running check cycle.
func (m *Monitor) ForceFailover(url string) bool {
	m.mutex.Lock()
	dec, ok := m.engine.ForceFailover(url)
	m.mutex.Unlock()

	if !ok {
		return false
	}

	m.bus.Emit(failoverEvent(dec))
	return true
}

// On registers a listener for the given event type.
func (m *Monitor) On(t event.Type, fn event.Listener) event.ListenerID {
	return m.bus.Subscribe(t, fn)
}

// Off removes a previously registered listener.
func (m *Monitor) Off(t event.Type, id event.ListenerID) bool {
	return m.bus.Unsubscribe(t, id)
}

func (m *Monitor) run(ctx context.Context, interval time.Duration) {
	defer m.wg.Done()

	m.cycle(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.cycle(ctx)
		}
	}
}

// cycle probes every endpoint concurrently, then applies all results under
// the monitor mutex in registry priority order so event emission reflects
// the order transitions are decided, not the order checks resolved.
func (m *Monitor) cycle(ctx context.Context) {
	endpoints := m.registry.All()
	if len(endpoints) == 0 {
		return
	}

	results := make([]healthcheck.Result, len(endpoints))

	var checks sync.WaitGroup
	for i, ep := range endpoints {
		checks.Add(1)
		go func(i int, ep *endpoint.Endpoint) {
			defer checks.Done()
			results[i] = m.checker.Check(ctx, ep, m.checkTimeout)
		}(i, ep)
	}
	checks.Wait()

	// Stop raced the cycle; discard everything.
	if ctx.Err() != nil {
		return
	}

	m.mutex.Lock()
	if !m.running {
		m.mutex.Unlock()
		return
	}

	var events []event.Event

	for i, ep := range endpoints {
		res := results[i]
		url := ep.URL().String()

		m.aggregator.Record(ep, res)

		if res.Success {
			events = append(events, event.New(event.TypeHealthCheckSuccess, url, nil))
		} else {
			meta := map[string]string{event.MetaReason: res.Failure.String()}
			if res.Err != nil {
				meta[event.MetaError] = res.Err.Error()
			}
			events = append(events, event.New(event.TypeHealthCheckFailure, url, meta))
		}

		if tr, ok := m.engine.Observe(ep, res); ok {
			if tr.To == failover.StateHealthy && tr.From != failover.StateHealthy {
				events = append(events, event.New(event.TypeEndpointRecovery, url, nil))
			}
		}
	}

	if dec, ok := m.engine.Decide(); ok {
		events = append(events, failoverEvent(dec))
	}
	m.mutex.Unlock()

	// Dispatch outside the lock so listeners can safely call back into the
	// monitor's read API.
	for _, ev := range events {
		m.bus.Emit(ev)
	}
}

func failoverEvent(dec failover.Decision) event.Event {
	return event.New(event.TypeEndpointFailover, dec.To, map[string]string{
		event.MetaPreviousActive: dec.From,
		event.MetaNewActive:      dec.To,
		event.MetaReason:         dec.Reason,
	})
}
