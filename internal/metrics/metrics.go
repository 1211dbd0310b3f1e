// Package metrics exposes Prometheus instrumentation for the API, the
// status model and the importer.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stwalsh4118/dirtboard/internal/models"
)

const namespace = "dirtboard"

// Import row outcomes.
const (
	ImportImported      = "imported"
	ImportSkipped       = "skipped"
	ImportContactFailed = "contact_failed"
)

// Metrics holds every collector. A nil *Metrics is valid and records nothing.
type Metrics struct {
	requests     *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	transitions  *prometheus.CounterVec
	importRows   *prometheus.CounterVec
	leadsByState *prometheus.GaugeVec
}

// New registers the collectors with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total HTTP requests by method, route and status code",
			},
			[]string{"method", "route", "status"},
		),
		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request latency in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		transitions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "pipeline",
				Name:      "status_transitions_total",
				Help:      "Property status changes by origin and destination status",
			},
			[]string{"from", "to"},
		),
		importRows: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "import",
				Name:      "rows_total",
				Help:      "Lead import rows by outcome (imported, skipped, contact_failed)",
			},
			[]string{"result"},
		),
		leadsByState: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "pipeline",
				Name:      "properties",
				Help:      "Properties currently in each status, as of the last stats computation",
			},
			[]string{"status"},
		),
	}
}

// ObserveRequest records one completed HTTP request.
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.duration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// RecordTransition counts a status change.
func (m *Metrics) RecordTransition(from, to models.PropertyStatus) {
	if m == nil || from == to {
		return
	}
	m.transitions.WithLabelValues(string(from), string(to)).Inc()
}

// RecordImportRow counts an import row outcome.
func (m *Metrics) RecordImportRow(result string) {
	if m == nil {
		return
	}
	m.importRows.WithLabelValues(result).Inc()
}

// SetPipeline publishes per-status counts. Every known status is set so
// that emptied states drop to zero.
func (m *Metrics) SetPipeline(byStatus map[models.PropertyStatus]int) {
	if m == nil {
		return
	}
	for _, s := range models.PropertyStatuses {
		m.leadsByState.WithLabelValues(string(s)).Set(float64(byStatus[s]))
	}
}

// Handler serves the metrics gathered by g in the Prometheus text format.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
