// Fakeendpoint is a test HTTP server used for exercising the monitor by hand.
// It serves /api/health and lets you flip the endpoint between healthy,
// failing, and slow modes at runtime.
//
// Usage:
//
//	go run fakeendpoint.go -port 8081
//	curl -X POST localhost:8081/mode?set=failing
//
// Modes: healthy (200 + report), failing (500), slow (200 after delay),
// garbage (200 + invalid JSON).
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"sync/atomic"
	"time"
)

type healthReport struct {
	Status         string                  `json:"status"`
	Timestamp      string                  `json:"timestamp"`
	ResponseTimeMs float64                 `json:"response_time_ms"`
	Services       map[string]serviceEntry `json:"services"`
	Summary        map[string]int          `json:"summary"`
}

type serviceEntry struct {
	Status         string  `json:"status"`
	ResponseTimeMs float64 `json:"response_time_ms"`
	LastCheck      string  `json:"last_check"`
}

func main() {
	port := flag.Int("port", 8081, "port to listen on")
	delay := flag.Duration("delay", 3*time.Second, "response delay in slow mode")
	flag.Parse()

	var mode atomic.Value
	mode.Store("healthy")

	mux := http.NewServeMux()

	mux.HandleFunc("/mode", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		m := r.URL.Query().Get("set")
		switch m {
		case "healthy", "failing", "slow", "garbage":
			mode.Store(m)
			log.Printf("mode set to %s", m)
			fmt.Fprintln(w, m)
		default:
			http.Error(w, "unknown mode", http.StatusBadRequest)
		}
	})

	mux.HandleFunc("/api/health", func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		m := mode.Load().(string)
		log.Printf("health probe from %s (mode=%s)", r.RemoteAddr, m)

		switch m {
		case "failing":
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		case "slow":
			time.Sleep(*delay)
		case "garbage":
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{"status": `)
			return
		}

		now := time.Now().UTC().Format(time.RFC3339)
		report := healthReport{
			Status:         "healthy",
			Timestamp:      now,
			ResponseTimeMs: float64(time.Since(start).Milliseconds()),
			Services: map[string]serviceEntry{
				"database":         {Status: "healthy", ResponseTimeMs: 2, LastCheck: now},
				"redis":            {Status: "healthy", ResponseTimeMs: 1, LastCheck: now},
				"ai_providers":     {Status: "healthy", ResponseTimeMs: 40, LastCheck: now},
				"system_resources": {Status: "healthy", ResponseTimeMs: 1, LastCheck: now},
			},
			Summary: map[string]int{
				"healthy_services":   4,
				"degraded_services":  0,
				"unhealthy_services": 0,
				"total_services":     4,
			},
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(report)
	})

	addr := fmt.Sprintf(":%d", *port)
	log.Printf("fake endpoint listening on %s", addr)
	log.Fatal(http.ListenAndServe(addr, mux))
}
