package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	CheckoutsCreated prometheus.Counter
	CheckoutFailures prometheus.Counter
	Verifications    *prometheus.CounterVec
	Notifications    *prometheus.CounterVec
	PaymentsApproved prometheus.Counter
	GatewayLatency   *prometheus.HistogramVec
}

func New() *Metrics {
	return &Metrics{
		CheckoutsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "cosmonumero_checkouts_created_total",
			Help: "Total number of checkout sessions opened",
		}),
		CheckoutFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "cosmonumero_checkout_failures_total",
			Help: "Total number of checkout sessions the gateway refused or failed to open",
		}),
		Verifications: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "cosmonumero_payment_verifications_total",
			Help: "Payment verifications by source and resulting status",
		}, []string{"source", "status"}),
		Notifications: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "cosmonumero_payment_notifications_total",
			Help: "Gateway notifications by kind and outcome",
		}, []string{"kind", "outcome"}),
		PaymentsApproved: promauto.NewCounter(prometheus.CounterOpts{
			Name: "cosmonumero_payments_approved_total",
			Help: "Transactions transitioned to approved",
		}),
		GatewayLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "cosmonumero_payment_gateway_duration_seconds",
			Help:    "Latency of payment gateway calls",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"operation"}),
	}
}

func (m *Metrics) IncrementCheckoutsCreated() {
	if m != nil {
		m.CheckoutsCreated.Inc()
	}
}

func (m *Metrics) IncrementCheckoutFailures() {
	if m != nil {
		m.CheckoutFailures.Inc()
	}
}

func (m *Metrics) RecordVerification(source, status string) {
	if m != nil {
		m.Verifications.WithLabelValues(source, status).Inc()
	}
}

func (m *Metrics) RecordNotification(kind, outcome string) {
	if m != nil {
		m.Notifications.WithLabelValues(kind, outcome).Inc()
	}
}

func (m *Metrics) IncrementPaymentsApproved() {
	if m != nil {
		m.PaymentsApproved.Inc()
	}
}

func (m *Metrics) ObserveGatewayLatency(operation string, seconds float64) {
	if m != nil {
		m.GatewayLatency.WithLabelValues(operation).Observe(seconds)
	}
}
