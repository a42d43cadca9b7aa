package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides process-wide observability for the catalog service.
// Handlers and services may receive a nil *Metrics; every method is nil-safe
// so unit tests do not need a registry.
type Metrics struct {
	RequestDuration    *prometheus.HistogramVec
	ProductMutations   *prometheus.CounterVec
	AuditAppendFailure prometheus.Counter
}

// New registers all catalog metrics against the default registry.
// Call at most once per process.
func New() *Metrics {
	return &Metrics{
		RequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "catalog_http_request_duration_seconds",
			Help:    "Duration of HTTP requests by route and status",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"method", "route", "status"}),
		ProductMutations: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "catalog_product_mutations_total",
			Help: "Successful product mutations by operation",
		}, []string{"operation"}),
		AuditAppendFailure: promauto.NewCounter(prometheus.CounterOpts{
			Name: "catalog_audit_append_failures_total",
			Help: "Audit ledger appends that failed after a committed mutation",
		}),
	}
}

// ObserveRequest records one handled HTTP request.
func (m *Metrics) ObserveRequest(method, route, status string, start time.Time) {
	if m == nil {
		return
	}
	m.RequestDuration.WithLabelValues(method, route, status).Observe(time.Since(start).Seconds())
}

// IncrementMutation records a successful product mutation.
func (m *Metrics) IncrementMutation(operation string) {
	if m == nil {
		return
	}
	m.ProductMutations.WithLabelValues(operation).Inc()
}

// IncrementAuditFailure records a failed audit append.
func (m *Metrics) IncrementAuditFailure() {
	if m == nil {
		return
	}
	m.AuditAppendFailure.Inc()
}
