package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the consent ledger.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	ConsentsSet     prometheus.Counter
	ConsentsRevoked prometheus.Counter
	Rejections      *prometheus.CounterVec
	ConsentChecks   *prometheus.CounterVec
}

// New creates a new Metrics instance with all consent metrics registered.
func New() *Metrics {
	return &Metrics{
		ConsentsSet: promauto.NewCounter(prometheus.CounterOpts{
			Name: "consentgate_consents_set_total",
			Help: "Total number of consents granted or re-granted",
		}),
		ConsentsRevoked: promauto.NewCounter(prometheus.CounterOpts{
			Name: "consentgate_consents_revoked_total",
			Help: "Total number of consents revoked",
		}),
		Rejections: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "consentgate_consent_rejections_total",
			Help: "Consent ledger calls rejected, by operation and error code",
		}, []string{"operation", "code"}),
		ConsentChecks: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "consentgate_consent_checks_total",
			Help: "Consent validity checks, by result",
		}, []string{"result"}),
	}
}

func (m *Metrics) IncConsentsSet() {
	if m != nil {
		m.ConsentsSet.Inc()
	}
}

func (m *Metrics) IncConsentsRevoked() {
	if m != nil {
		m.ConsentsRevoked.Inc()
	}
}

func (m *Metrics) IncRejection(operation, code string) {
	if m != nil {
		m.Rejections.WithLabelValues(operation, code).Inc()
	}
}

func (m *Metrics) IncConsentCheck(valid bool) {
	if m == nil {
		return
	}
	result := "denied"
	if valid {
		result = "valid"
	}
	m.ConsentChecks.WithLabelValues(result).Inc()
}
