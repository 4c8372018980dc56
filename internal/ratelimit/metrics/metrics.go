package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics for the per-researcher access limiter. Nil-safe.
type Metrics struct {
	Admissions *prometheus.CounterVec
	Rollovers  prometheus.Counter
	Cycle      prometheus.Gauge
}

func New() *Metrics {
	return &Metrics{
		Admissions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "consentgate_ratelimit_admissions_total",
			Help: "Rate limit decisions, by result",
		}, []string{"result"}),
		Rollovers: promauto.NewCounter(prometheus.CounterOpts{
			Name: "consentgate_ratelimit_cycle_restamps_total",
			Help: "Total number of committed cycle start re-stamps",
		}),
		Cycle: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "consentgate_ratelimit_current_cycle",
			Help: "Cycle index observed by the last admission",
		}),
	}
}

func (m *Metrics) ObserveAdmission(allowed bool, cycle uint64) {
	if m == nil {
		return
	}
	result := "denied"
	if allowed {
		result = "allowed"
	}
	m.Admissions.WithLabelValues(result).Inc()
	m.Cycle.Set(float64(cycle))
}

func (m *Metrics) IncrementRollovers() {
	if m != nil {
		m.Rollovers.Inc()
	}
}
