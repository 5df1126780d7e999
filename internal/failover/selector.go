package failover

import (
	"github.com/avramidis/endpoint-monitor/internal/endpoint"
)

// Selector picks the failover target out of a set of candidate endpoints.
type Selector interface {
	Select(candidates []*endpoint.Endpoint) *endpoint.Endpoint
}

type prioritySelector struct{}

// NewPrioritySelector returns the default selector: lowest priority value
// wins, ties broken by lowest average response time.
func NewPrioritySelector() Selector {
	return &prioritySelector{}
}

func (s *prioritySelector) Select(candidates []*endpoint.Endpoint) *endpoint.Endpoint {
	if len(candidates) == 0 {
		return nil
	}

	var chosen *endpoint.Endpoint

	for _, ep := range candidates {
		if ep == nil {
			continue
		}

		if chosen == nil {
			chosen = ep
			continue
		}

		if ep.Priority() < chosen.Priority() {
			chosen = ep
			continue
		}

		if ep.Priority() == chosen.Priority() &&
			ep.AverageResponseTime() < chosen.AverageResponseTime() {
			chosen = ep
		}
	}

	return chosen
}
