// Package metrics exposes scan pipeline counters to Prometheus.
//
//	#stealthradar_sessions_fetched_total
//	#stealthradar_sessions_skipped_total{reason}
//	#stealthradar_scans_total{outcome}
//	#stealthradar_scan_duration_seconds
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Skip reasons.
const (
	ReasonNoData       = "no_data"
	ReasonEmptyArchive = "empty_archive"
	ReasonParse        = "parse"
	ReasonEmpty        = "empty_session"
)

// Scan outcomes.
const (
	OutcomeOK         = "ok"
	OutcomeNoSessions = "no_sessions"
	OutcomeError      = "error"
)

// Metrics holds the pipeline's collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry        *prometheus.Registry
	sessionsFetched prometheus.Counter
	sessionsSkipped *prometheus.CounterVec
	scans           *prometheus.CounterVec
	scanDuration    prometheus.Histogram
}

// New creates a Metrics backed by its own registry, including Go and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		sessionsFetched: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "stealthradar_sessions_fetched_total",
			Help: "Trading sessions retrieved and parsed with data",
		}),
		sessionsSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stealthradar_sessions_skipped_total",
			Help: "Candidate dates skipped during session lookup",
		}, []string{"reason"}),
		scans: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stealthradar_scans_total",
			Help: "Pipeline runs by outcome",
		}, []string{"outcome"}),
		scanDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "stealthradar_scan_duration_seconds",
			Help:    "Wall-clock duration of pipeline runs",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 40, 80},
		}),
	}
	reg.MustRegister(
		m.sessionsFetched,
		m.sessionsSkipped,
		m.scans,
		m.scanDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// SessionFetched records one retrieved session.
func (m *Metrics) SessionFetched() {
	if m == nil {
		return
	}
	m.sessionsFetched.Inc()
}

// SessionSkipped records one skipped candidate date.
func (m *Metrics) SessionSkipped(reason string) {
	if m == nil {
		return
	}
	m.sessionsSkipped.WithLabelValues(reason).Inc()
}

// ScanFinished records a completed run.
func (m *Metrics) ScanFinished(outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.scans.WithLabelValues(outcome).Inc()
	m.scanDuration.Observe(d.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }
