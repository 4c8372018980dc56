package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for access requests.
type Metrics struct {
	// Collaborator latencies by dependency
	LookupLatency *prometheus.HistogramVec

	// Request outcomes by result code
	Outcome *prometheus.CounterVec

	// Overall request latency, including the transaction
	RequestLatency prometheus.Histogram
}

// New creates a new Metrics instance with all access metrics registered.
func New() *Metrics {
	return &Metrics{
		LookupLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "consentgate_access_lookup_duration_seconds",
			Help:    "Duration of collaborator lookups during access requests",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"dependency"}), // dependency: "data_registry", "consent"

		Outcome: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "consentgate_access_requests_total",
			Help: "Total access requests by outcome",
		}, []string{"outcome"}),

		RequestLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "consentgate_access_request_duration_seconds",
			Help:    "Duration of a full access request",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
	}
}

// ObserveLookupLatency records the duration of a collaborator call.
func (m *Metrics) ObserveLookupLatency(dependency string, d time.Duration) {
	if m != nil {
		m.LookupLatency.WithLabelValues(dependency).Observe(d.Seconds())
	}
}

// IncrementOutcome records a request outcome ("granted" or an error code).
func (m *Metrics) IncrementOutcome(outcome string) {
	if m != nil {
		m.Outcome.WithLabelValues(outcome).Inc()
	}
}

// ObserveRequestLatency records the total request duration.
func (m *Metrics) ObserveRequestLatency(d time.Duration) {
	if m != nil {
		m.RequestLatency.Observe(d.Seconds())
	}
}
