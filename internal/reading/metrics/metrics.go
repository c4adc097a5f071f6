package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	ReadingsGenerated *prometheus.CounterVec
	Previews          prometheus.Counter
	Deliveries        *prometheus.CounterVec
	ReportsRendered   prometheus.Counter
	RenderLatency     prometheus.Histogram
}

func New() *Metrics {
	return &Metrics{
		ReadingsGenerated: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "cosmonumero_readings_generated_total",
			Help: "Readings stored, by narrative source",
		}, []string{"source"}),
		Previews: promauto.NewCounter(prometheus.CounterOpts{
			Name: "cosmonumero_reading_previews_total",
			Help: "Unpaid preview readings served",
		}),
		Deliveries: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "cosmonumero_reading_deliveries_total",
			Help: "Report e-mail deliveries by outcome",
		}, []string{"outcome"}),
		ReportsRendered: promauto.NewCounter(prometheus.CounterOpts{
			Name: "cosmonumero_reports_rendered_total",
			Help: "Report PDFs rendered",
		}),
		RenderLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "cosmonumero_report_render_duration_seconds",
			Help:    "Time spent rendering report PDFs",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

func (m *Metrics) IncrementReadingsGenerated(source string) {
	if m != nil {
		m.ReadingsGenerated.WithLabelValues(source).Inc()
	}
}

func (m *Metrics) IncrementPreviews() {
	if m != nil {
		m.Previews.Inc()
	}
}

func (m *Metrics) RecordDelivery(outcome string) {
	if m != nil {
		m.Deliveries.WithLabelValues(outcome).Inc()
	}
}

func (m *Metrics) ObserveRender(seconds float64) {
	if m != nil {
		m.ReportsRendered.Inc()
		m.RenderLatency.Observe(seconds)
	}
}
