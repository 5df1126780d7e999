package main

import (
	"encoding/json"
	"net/http"

	"github.com/avramidis/endpoint-monitor/internal/metrics"
	"github.com/avramidis/endpoint-monitor/internal/monitor"
)

func setupRouter(mon *monitor.Monitor, collectors *metrics.Collectors) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/status", statusHandler(mon))
	mux.HandleFunc("/endpoints", endpointsHandler(mon))
	mux.HandleFunc("/failover", failoverHandler(mon))
	mux.Handle("/metrics", collectors.Handler())

	return mux
}

func statusHandler(mon *monitor.Monitor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, mon.Metrics())
	}
}

func endpointsHandler(mon *monitor.Monitor) http.HandlerFunc {
	type endpointView struct {
		URL      string `json:"url"`
		Priority int    `json:"priority"`
		Active   bool   `json:"is_active"`
		Healthy  bool   `json:"is_healthy"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var views []endpointView
		for _, ep := range mon.Endpoints() {
			views = append(views, endpointView{
				URL:      ep.URL().String(),
				Priority: ep.Priority(),
				Active:   ep.IsActive(),
				Healthy:  ep.IsHealthy(),
			})
		}
		writeJSON(w, views)
	}
}

func failoverHandler(mon *monitor.Monitor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		target := r.URL.Query().Get("url")
		if target == "" {
			http.Error(w, "missing url parameter", http.StatusBadRequest)
			return
		}

		if !mon.ForceFailover(target) {
			http.Error(w, "failover rejected", http.StatusConflict)
			return
		}

		writeJSON(w, map[string]string{"active": target})
	}
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
