// Package metrics provides Prometheus metrics instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestDuration tracks HTTP request duration.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	// RequestsTotal tracks total HTTP requests.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// TurnsTotal tracks engagement turns processed, by outcome.
	TurnsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "honeypot_turns_total",
			Help: "Engagement turns processed",
		},
		[]string{"outcome"},
	)

	// TerminationsTotal tracks session terminations by reason.
	TerminationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "honeypot_terminations_total",
			Help: "Session terminations by reason",
		},
		[]string{"reason"},
	)

	// EntitiesExtracted tracks extracted entities by type.
	EntitiesExtracted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "honeypot_entities_extracted_total",
			Help: "Distinct intelligence entities extracted",
		},
		[]string{"type"},
	)

	// SessionsActive tracks sessions currently in the ACTIVE state.
	SessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "honeypot_sessions_active",
			Help: "Sessions currently active",
		},
	)

	// LLMDuration tracks external model call duration.
	LLMDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "llm_call_duration_seconds",
			Help:    "External model call duration",
			Buckets: []float64{.1, .25, .5, 1, 2, 5, 10, 20, 30},
		},
		[]string{"operation", "status"},
	)

	// DegradedTurns tracks turns completed under dependency fallback.
	DegradedTurns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "honeypot_degraded_turns_total",
			Help: "Turns completed with a degraded external dependency",
		},
		[]string{"dependency"},
	)

	// StoreDegradations tracks primary-store failures absorbed by the
	// fallback tier.
	StoreDegradations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "session_store_degradations_total",
			Help: "Primary store failures degraded to the fallback tier",
		},
		[]string{"operation"},
	)
)

// RecordRequest records metrics for an HTTP request.
func RecordRequest(method, path, status string, duration float64) {
	RequestDuration.WithLabelValues(method, path, status).Observe(duration)
	RequestsTotal.WithLabelValues(method, path, status).Inc()
}

// RecordLLMCall records one external model call.
func RecordLLMCall(operation, status string, seconds float64) {
	LLMDuration.WithLabelValues(operation, status).Observe(seconds)
}
