package endpoint

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

var (
	// ErrNotFound is returned for operations on URLs not present in the registry.
	ErrNotFound = errors.New("endpoint not found")
	// ErrDuplicate is returned when adding a URL that is already registered.
	ErrDuplicate = errors.New("endpoint already registered")
)

// Registry holds the ordered, priority-ranked set of candidate endpoints.
// At most one endpoint is active at any time; SetActive swaps the flag
// atomically.
type Registry struct {
	mutex     sync.RWMutex
	endpoints map[string]*Endpoint
}

func NewRegistry() *Registry {
	return &Registry{
		endpoints: make(map[string]*Endpoint),
	}
}

// Add registers an endpoint. URLs must be unique.
func (r *Registry) Add(ep *Endpoint) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	key := ep.URL().String()
	if _, exists := r.endpoints[key]; exists {
		return fmt.Errorf("%q: %w", key, ErrDuplicate)
	}

	r.endpoints[key] = ep
	return nil
}

// Remove unregisters the endpoint with the given URL.
func (r *Registry) Remove(url string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.endpoints[url]; !exists {
		return fmt.Errorf("%q: %w", url, ErrNotFound)
	}

	delete(r.endpoints, url)
	return nil
}

// Get returns the endpoint for the given URL, or false if unknown.
func (r *Registry) Get(url string) (*Endpoint, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	ep, exists := r.endpoints[url]
	return ep, exists
}

// All returns every registered endpoint sorted by priority ascending.
// Ties are broken by URL so the ordering is deterministic.
func (r *Registry) All() []*Endpoint {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	all := make([]*Endpoint, 0, len(r.endpoints))
	for _, ep := range r.endpoints {
		all = append(all, ep)
	}

	sort.Slice(all, func(i, j int) bool {
		if all[i].Priority() != all[j].Priority() {
			return all[i].Priority() < all[j].Priority()
		}
		return all[i].URL().String() < all[j].URL().String()
	})

	return all
}

// Active returns the currently active endpoint, or false if none is active.
func (r *Registry) Active() (*Endpoint, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	for _, ep := range r.endpoints {
		if ep.IsActive() {
			return ep, true
		}
	}

	return nil, false
}

// SetActive promotes the endpoint with the given URL, clearing the previous
// active flag in the same operation.
func (r *Registry) SetActive(url string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	target, exists := r.endpoints[url]
	if !exists {
		return fmt.Errorf("%q: %w", url, ErrNotFound)
	}

	for _, ep := range r.endpoints {
		if ep != target {
			ep.setActive(false)
		}
	}
	target.setActive(true)

	return nil
}

// Len returns the number of registered endpoints.
func (r *Registry) Len() int {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	return len(r.endpoints)
}
