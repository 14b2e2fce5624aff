// Package metrics provides Prometheus metrics and HTTP middleware for the
// API workers and the process supervisor.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "internbook"

// Gate decision outcomes used as label values.
const (
	OutcomeAllow  = "allow"
	OutcomeReject = "reject"
)

// Metrics holds every collector of one process, registered on a private
// registry. Workers and the supervisor each create their own.
type Metrics struct {
	Registry *prometheus.Registry

	// RequestsTotal counts HTTP requests by method and status class.
	RequestsTotal *prometheus.CounterVec

	// RequestDuration records HTTP request duration in seconds by method.
	RequestDuration *prometheus.HistogramVec

	// GateDecisionsTotal counts request gate decisions by outcome and reason.
	GateDecisionsTotal *prometheus.CounterVec

	// WorkersLive is the number of running worker processes.
	WorkersLive prometheus.Gauge

	// WorkerSpawnsTotal counts started worker processes, replacements included.
	WorkerSpawnsTotal prometheus.Counter

	// WorkerExitsTotal counts worker exits by how the process ended.
	WorkerExitsTotal *prometheus.CounterVec

	// WorkerSpawnFailuresTotal counts spawn attempts that returned an error.
	WorkerSpawnFailuresTotal prometheus.Counter
}

// New creates a Metrics with all collectors registered, plus the Go runtime
// and process collectors.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "requests_total",
				Help:      "Total HTTP requests",
			},
			[]string{"method", "status"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "request_duration_seconds",
				Help:      "HTTP request duration",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method"},
		),
		GateDecisionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "gate_decisions_total",
				Help:      "Request gate decisions",
			},
			[]string{"outcome", "reason"},
		),
		WorkersLive: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "supervisor_workers_live",
				Help:      "Running worker processes",
			},
		),
		WorkerSpawnsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "supervisor_worker_spawns_total",
				Help:      "Worker processes started",
			},
		),
		WorkerExitsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "supervisor_worker_exits_total",
				Help:      "Worker process exits",
			},
			[]string{"kind"},
		),
		WorkerSpawnFailuresTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "supervisor_worker_spawn_failures_total",
				Help:      "Failed worker spawn attempts",
			},
		),
	}

	m.Registry.MustRegister(
		m.RequestsTotal,
		m.RequestDuration,
		m.GateDecisionsTotal,
		m.WorkersLive,
		m.WorkerSpawnsTotal,
		m.WorkerExitsTotal,
		m.WorkerSpawnFailuresTotal,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}

// RecordGateDecision counts one request gate decision.
func (m *Metrics) RecordGateDecision(outcome, reason string) {
	m.GateDecisionsTotal.WithLabelValues(outcome, reason).Inc()
}

// WorkerStarted records a successful spawn.
func (m *Metrics) WorkerStarted() {
	m.WorkerSpawnsTotal.Inc()
	m.WorkersLive.Inc()
}

// WorkerExited records a worker exit. kind is "exit" or "signal".
func (m *Metrics) WorkerExited(kind string) {
	m.WorkerExitsTotal.WithLabelValues(kind).Inc()
	m.WorkersLive.Dec()
}

// WorkerSpawnFailed records a failed spawn attempt.
func (m *Metrics) WorkerSpawnFailed() {
	m.WorkerSpawnFailuresTotal.Inc()
}
