package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cantrip-core/server/internal/agent/model"
)

const namespace = "cantrip"

// Metrics holds the service's Prometheus collectors on a private registry.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	RequestCount    *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	Runs           *prometheus.CounterVec
	RunDuration    *prometheus.HistogramVec
	RunCost        prometheus.Counter
	Escalations    prometheus.Counter
	DegradedStages *prometheus.CounterVec

	CollaboratorCalls   *prometheus.CounterVec
	CollaboratorLatency *prometheus.HistogramVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,

		RequestCount: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		RequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),

		Runs: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "graph_runs_total",
				Help:      "Orchestration runs by task, branch and outcome",
			},
			[]string{"task", "branch", "outcome"},
		),
		RunDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "graph_run_duration_seconds",
				Help:      "Orchestration run latency in seconds",
				Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 40},
			},
			[]string{"branch"},
		),
		RunCost: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "llm_cost_usd_total",
			Help:      "Accumulated model usage cost in USD",
		}),
		Escalations: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "router_escalations_total",
			Help:      "Runs routed to the highest model profile",
		}),
		DegradedStages: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "degraded_stages_total",
				Help:      "Stages that fell back to their degraded output",
			},
			[]string{"stage"},
		),

		CollaboratorCalls: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "collaborator_calls_total",
				Help:      "Collaborator calls by outcome",
			},
			[]string{"collaborator", "outcome"},
		),
		CollaboratorLatency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "collaborator_latency_seconds",
				Help:      "Collaborator call latency in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"collaborator"},
		),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) ObserveRequest(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.RequestCount.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.RequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func (m *Metrics) ObserveCollaborator(name model.Collaborator, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.CollaboratorCalls.WithLabelValues(string(name), outcome).Inc()
	m.CollaboratorLatency.WithLabelValues(string(name)).Observe(d.Seconds())
}

// Record counts a finished run. It satisfies graph.RunRecorder.
func (m *Metrics) Record(_ context.Context, rec model.RunRecord) {
	if m == nil {
		return
	}
	outcome := "ok"
	switch {
	case rec.Error != "":
		outcome = "error"
	case len(rec.StageErrors) > 0:
		outcome = "degraded"
	}
	branch := string(rec.Branch)
	if branch == "" {
		branch = "none"
	}

	m.Runs.WithLabelValues(string(rec.Task), branch, outcome).Inc()
	m.RunDuration.WithLabelValues(branch).Observe(rec.Latency.Seconds())
	if rec.TotalCostUSD > 0 {
		m.RunCost.Add(rec.TotalCostUSD)
	}
	if rec.Escalated {
		m.Escalations.Inc()
	}
	for stage := range rec.StageErrors {
		m.DegradedStages.WithLabelValues(stage).Inc()
	}
}
