package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Decisions      *prometheus.CounterVec
	DegradedChecks prometheus.Counter
	StoreErrors    prometheus.Counter
}

func New() *Metrics {
	return &Metrics{
		Decisions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "cosmonumero_ratelimit_decisions_total",
			Help: "Rate limit decisions by endpoint class and outcome",
		}, []string{"class", "outcome"}),
		DegradedChecks: promauto.NewCounter(prometheus.CounterOpts{
			Name: "cosmonumero_ratelimit_degraded_checks_total",
			Help: "Checks answered by the in-memory fallback while the shared store is unavailable",
		}),
		StoreErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "cosmonumero_ratelimit_store_errors_total",
			Help: "Bucket store errors",
		}),
	}
}

func (m *Metrics) RecordDecision(class, outcome string) {
	if m != nil {
		m.Decisions.WithLabelValues(class, outcome).Inc()
	}
}

func (m *Metrics) IncrementDegraded() {
	if m != nil {
		m.DegradedChecks.Inc()
	}
}

func (m *Metrics) IncrementStoreErrors() {
	if m != nil {
		m.StoreErrors.Inc()
	}
}
