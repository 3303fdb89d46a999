package profile

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for record sync and integrity checks.
type Metrics struct {
	SyncsTotal      *prometheus.CounterVec
	SyncDuration    prometheus.Histogram
	IntegrityChecks *prometheus.CounterVec
}

// NewMetrics registers profile metrics on the default registry.
func NewMetrics() *Metrics {
	return &Metrics{
		SyncsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "finshare_record_syncs_total",
			Help: "Record save-and-sync outcomes (synced, profile_deferred, profile_failed, failed)",
		}, []string{"outcome"}),
		SyncDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "finshare_record_sync_duration_seconds",
			Help:    "Duration of save-and-sync operations including the ledger anchor",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		IntegrityChecks: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "finshare_integrity_checks_total",
			Help: "Integrity verification results (match, mismatch, unverifiable)",
		}, []string{"result"}),
	}
}

// ObserveSync records one sync outcome and its duration. Safe on nil.
func (m *Metrics) ObserveSync(outcome string, start time.Time) {
	if m == nil {
		return
	}
	m.SyncsTotal.WithLabelValues(outcome).Inc()
	m.SyncDuration.Observe(time.Since(start).Seconds())
}

// ObserveIntegrity records one integrity check result. Safe on nil.
func (m *Metrics) ObserveIntegrity(result string) {
	if m == nil {
		return
	}
	m.IntegrityChecks.WithLabelValues(result).Inc()
}
