// Package metrics defines and registers all custom Prometheus metrics for the
// loan tracker API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default Prometheus registry at package
// initialisation and exposed on GET /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "loans"

// ── Loan lifecycle metrics ───────────────────────────────────────────────────

// LoansCreatedTotal counts newly created loans.
// Label:
//   - status: the initial status of the loan (usually "PENDING")
var LoansCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "created_total",
		Help:      "Total number of loans created, by initial status.",
	},
	[]string{"status"},
)

// LoanStatusChangesTotal counts status changes applied through updates.
// Labels:
//   - from: the stored status before the update
//   - to:   the status after the update
var LoanStatusChangesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "status_changes_total",
		Help:      "Total number of loan status changes.",
	},
	[]string{"from", "to"},
)

// LoansDeletedTotal counts deleted loans.
var LoansDeletedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "deleted_total",
		Help:      "Total number of loans deleted.",
	},
)

// LoanValidationFailuresTotal counts loans rejected by field validation.
// Label:
//   - operation: "create" or "update"
var LoanValidationFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "validation_failures_total",
		Help:      "Total number of loan requests rejected by field validation.",
	},
	[]string{"operation"},
)

// ── HTTP metrics ─────────────────────────────────────────────────────────────

// HTTPRequestsTotal counts served requests.
var HTTPRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests.",
	},
	[]string{"method", "route", "status_code"},
)

// HTTPRequestDuration measures request latency.
var HTTPRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests in seconds.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method", "route", "status_code"},
)

// LoanRecorder implements ports.LoanMetrics on the counters above.
type LoanRecorder struct{}

func (LoanRecorder) LoanCreated(status string) {
	LoansCreatedTotal.WithLabelValues(status).Inc()
}

func (LoanRecorder) StatusChanged(from, to string) {
	LoanStatusChangesTotal.WithLabelValues(from, to).Inc()
}

func (LoanRecorder) LoanDeleted() {
	LoansDeletedTotal.Inc()
}

func (LoanRecorder) ValidationFailed(operation string) {
	LoanValidationFailuresTotal.WithLabelValues(operation).Inc()
}
