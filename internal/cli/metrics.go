package cli

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// simMetrics is the set of counters/gauges the admin endpoint exposes.
// It is purely observational: nothing on the /metrics or /health path can
// mutate the simulation.
type simMetrics struct {
	segmentsCreated prometheus.Counter
	trainsPlaced    prometheus.Counter
	stepsRun        prometheus.Counter
	collisions      prometheus.Counter
	activeTrains    prometheus.Gauge

	startTime time.Time
	healthy   atomic.Bool
}

func newSimMetrics() *simMetrics {
	m := &simMetrics{
		segmentsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "railsim_segments_created_total",
			Help: "Total number of track segments created.",
		}),
		trainsPlaced: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "railsim_trains_placed_total",
			Help: "Total number of trains placed onto the track.",
		}),
		stepsRun: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "railsim_steps_total",
			Help: "Total number of simulation ticks executed.",
		}),
		collisions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "railsim_collisions_total",
			Help: "Total number of train-train collisions detected.",
		}),
		activeTrains: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "railsim_active_trains",
			Help: "Number of trains currently on the track.",
		}),
		startTime: time.Now(),
	}
	m.healthy.Store(true)
	return m
}

func (m *simMetrics) registry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(m.segmentsCreated, m.trainsPlaced, m.stepsRun, m.collisions, m.activeTrains)
	return reg
}

type healthStatus struct {
	Status string `json:"status"`
	Uptime string `json:"uptime"`
}

func (m *simMetrics) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	if !m.healthy.Load() {
		status = "unhealthy"
	}
	w.Header().Set("Content-Type", "application/json")
	if status != "healthy" {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	json.NewEncoder(w).Encode(healthStatus{
		Status: status,
		Uptime: time.Since(m.startTime).String(),
	})
}

// startMetricsServer starts the optional admin endpoint in the background.
// Call the returned shutdown func on exit; it is a no-op if addr is empty.
func startMetricsServer(addr string, m *simMetrics) func(context.Context) error {
	if addr == "" {
		return func(context.Context) error { return nil }
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(m.registry(), promhttp.HandlerOpts{}))
	mux.Handle("/health", m)

	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		_ = srv.ListenAndServe()
	}()
	return srv.Shutdown
}
