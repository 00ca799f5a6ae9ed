package prometheus

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request metrics
	HttpRequestsTotal   prometheus.CounterVec
	HttpRequestDuration prometheus.HistogramVec

	// Offer synchronization metrics
	RefreshTicksTotal    prometheus.Counter
	ProductRefreshTotal  prometheus.CounterVec
	RemoteCallsTotal     prometheus.CounterVec
	RegistrationsTotal   prometheus.CounterVec
	OffersReplacedTotal  prometheus.Counter
	ReconcileErrorsTotal prometheus.Counter

	initOnce sync.Once
)

// InitMetrics registers all Prometheus metrics under the given prefix.
// Registration happens once per process; later calls are no-ops.
func InitMetrics(prefix string) {
	initOnce.Do(func() {
		HttpRequestsTotal = *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		)

		HttpRequestDuration = *promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    prefix + "_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		)

		RefreshTicksTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: prefix + "_refresh_ticks_total",
				Help: "Total number of offer refresh scheduler ticks",
			},
		)

		ProductRefreshTotal = *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_product_refresh_total",
				Help: "Per-product refresh outcomes",
			},
			[]string{"outcome"},
		)

		RemoteCallsTotal = *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_remote_calls_total",
				Help: "Calls to the remote offers source by operation and outcome",
			},
			[]string{"operation", "outcome"},
		)

		RegistrationsTotal = *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_registrations_total",
				Help: "Product registrations against the remote offers source",
			},
			[]string{"outcome"},
		)

		OffersReplacedTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: prefix + "_offers_replaced_total",
				Help: "Total number of successful offer reconciliations",
			},
		)

		ReconcileErrorsTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: prefix + "_reconcile_errors_total",
				Help: "Total number of failed offer reconciliations",
			},
		)
	})
}

// RecordRemoteCall increments the counter for a remote offers source call.
func RecordRemoteCall(operation string, ok bool) {
	outcome := "ok"
	if !ok {
		outcome = "error"
	}
	RemoteCallsTotal.WithLabelValues(operation, outcome).Inc()
}

// RecordRegistration increments the counter for a registration attempt.
func RecordRegistration(ok bool) {
	outcome := "ok"
	if !ok {
		outcome = "error"
	}
	RegistrationsTotal.WithLabelValues(outcome).Inc()
}

// RecordProductRefresh increments the per-product refresh outcome counter.
func RecordProductRefresh(outcome string) {
	ProductRefreshTotal.WithLabelValues(outcome).Inc()
}
