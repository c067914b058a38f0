// Package metrics holds the Prometheus collectors of the data-access gateway.
// HTTP metrics live next to the HTTP middleware.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Namespace prefixes every metric exported by the service.
const Namespace = "jobportal"

// Outcome label values.
const (
	OutcomeSuccess  = "success"
	OutcomeFailure  = "failure"
	OutcomeNotFound = "not_found"
)

// Action metrics
var (
	ActionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "action",
			Name:      "executions_total",
			Help:      "Gateway actions by outcome",
		},
		[]string{"action", "kind", "outcome"},
	)

	ActionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Subsystem: "action",
			Name:      "duration_seconds",
			Help:      "Gateway action latency in seconds, connection acquisition included",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"action"},
	)
)

// Connection metrics
var (
	ConnectionAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "db",
			Name:      "connection_attempts_total",
			Help:      "Attempts to establish the shared database connection",
		},
		[]string{"result"},
	)

	ConnectionEstablished = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Subsystem: "db",
			Name:      "connection_established",
			Help:      "1 while the shared database connection is established",
		},
	)
)

// Side-effect metrics
var (
	InvalidationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "cache",
			Name:      "invalidations_total",
			Help:      "Cache invalidation signals by sink and result",
		},
		[]string{"sink", "result"},
	)

	PaymentRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "payment",
			Name:      "requests_total",
			Help:      "Requests sent to the payment provider",
		},
		[]string{"operation", "result"},
	)
)

// RecordAction records one finished gateway action.
func RecordAction(action, kind, outcome string, d time.Duration) {
	ActionsTotal.WithLabelValues(action, kind, outcome).Inc()
	ActionDuration.WithLabelValues(action).Observe(d.Seconds())
}

// RecordConnectionAttempt records the result of a dial.
func RecordConnectionAttempt(err error) {
	if err != nil {
		ConnectionAttemptsTotal.WithLabelValues(OutcomeFailure).Inc()
		ConnectionEstablished.Set(0)
		return
	}
	ConnectionAttemptsTotal.WithLabelValues(OutcomeSuccess).Inc()
	ConnectionEstablished.Set(1)
}

// RecordInvalidation records one delivery attempt of an invalidation signal.
func RecordInvalidation(sink string, err error) {
	InvalidationsTotal.WithLabelValues(sink, result(err)).Inc()
}

// RecordPayment records one payment provider call.
func RecordPayment(operation string, err error) {
	PaymentRequestsTotal.WithLabelValues(operation, result(err)).Inc()
}

func result(err error) string {
	if err != nil {
		return OutcomeFailure
	}
	return OutcomeSuccess
}
