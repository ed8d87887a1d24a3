// Package metrics exposes Prometheus metrics for deadline computation, the
// catalog store and the HTTP API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/RakeemAI/Rakeem/internal/deadlines"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "rakeem"

// Metrics owns a private registry so that tests and multiple servers in one
// process do not collide on the global one.
type Metrics struct {
	registry *prometheus.Registry

	runs            *prometheus.CounterVec
	records         *prometheus.CounterVec
	runDuration     *prometheus.HistogramVec
	catalogReloads  *prometheus.CounterVec
	catalogRecords  prometheus.Gauge
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// New creates and registers all collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "deadlines",
			Name:      "runs_total",
			Help:      "Number of deadline computations by view.",
		}, []string{"view"}),
		records: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "deadlines",
			Name:      "records_total",
			Help:      "Catalog records processed by outcome.",
		}, []string{"view", "outcome"}),
		runDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "deadlines",
			Name:      "run_duration_seconds",
			Help:      "Time spent computing deadlines.",
			Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1},
		}, []string{"view"}),
		catalogReloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "catalog",
			Name:      "reloads_total",
			Help:      "Catalog reloads by result.",
		}, []string{"result"}),
		catalogRecords: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "catalog",
			Name:      "records",
			Help:      "Records in the last successfully loaded catalog.",
		}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by path and status code.",
		}, []string{"path", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by path.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"path"}),
	}

	m.registry.MustRegister(
		m.runs,
		m.records,
		m.runDuration,
		m.catalogReloads,
		m.catalogRecords,
		m.requests,
		m.requestDuration,
	)
	return m
}

// ObserveRun implements deadlines.Recorder.
func (m *Metrics) ObserveRun(view string, stats deadlines.Stats, elapsed time.Duration) {
	m.runs.WithLabelValues(view).Inc()
	m.records.WithLabelValues(view, "selected").Add(float64(stats.Selected))
	m.records.WithLabelValues(view, "not_computable").Add(float64(stats.NotComputable))
	m.records.WithLabelValues(view, "not_applicable").Add(float64(stats.NotApplicable))
	m.runDuration.WithLabelValues(view).Observe(elapsed.Seconds())
}

// ObserveCatalogReload matches the catalog store reload hook.
func (m *Metrics) ObserveCatalogReload(records int, err error) {
	if err != nil {
		m.catalogReloads.WithLabelValues("error").Inc()
		return
	}
	m.catalogReloads.WithLabelValues("ok").Inc()
	m.catalogRecords.Set(float64(records))
}

// ObserveRequest records one served HTTP request.
func (m *Metrics) ObserveRequest(path string, status int, elapsed time.Duration) {
	m.requests.WithLabelValues(path, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(path).Observe(elapsed.Seconds())
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

var _ deadlines.Recorder = (*Metrics)(nil)
