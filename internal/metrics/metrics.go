package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// VerificationsTotal counts verification runs by network and resulting status
	VerificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_verifications_total",
			Help: "Total number of payment verification runs",
		},
		[]string{"network", "status"},
	)

	// VerificationDuration tracks verification run time
	VerificationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "payment_verification_duration_seconds",
			Help:    "Payment verification duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"network"},
	)

	// RPCFailoversTotal counts endpoint failures that moved a call to the next endpoint
	RPCFailoversTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rpc_failovers_total",
			Help: "Total number of RPC endpoint failovers",
		},
		[]string{"network"},
	)

	// RPCCallsTotal counts individual endpoint attempts
	RPCCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rpc_calls_total",
			Help: "Total number of RPC endpoint attempts",
		},
		[]string{"network", "method", "result"},
	)

	// SchedulerTicks counts scheduler iterations
	SchedulerTicks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "scheduler_ticks_total",
			Help: "Total number of verification scheduler iterations",
		},
	)

	// SchedulerPaymentsProcessed counts payments handled by the scheduler
	SchedulerPaymentsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scheduler_payments_processed_total",
			Help: "Total number of payments processed by the scheduler",
		},
		[]string{"result"},
	)

	// ErrorsTotal counts errors by component and type
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "errors_total",
			Help: "Total number of errors",
		},
		[]string{"component", "error_type"},
	)
)
