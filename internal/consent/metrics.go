package consent

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for consent checks.
type Metrics struct {
	ChecksTotal *prometheus.CounterVec
}

// NewMetrics registers consent metrics on the default registry.
func NewMetrics() *Metrics {
	return &Metrics{
		ChecksTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "finshare_consent_checks_total",
			Help: "Consent check outcomes (granted, denied, error)",
		}, []string{"result"}),
	}
}

// ObserveCheck records one consent check outcome. Safe on a nil receiver so
// services can run without metrics in tests.
func (m *Metrics) ObserveCheck(result string) {
	if m == nil {
		return
	}
	m.ChecksTotal.WithLabelValues(result).Inc()
}
