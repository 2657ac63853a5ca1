// Package metrics публикует счётчики конвейера проверки в Prometheus.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"fabric-inspector/internal/domain/port"
)

// Metrics коллекторы конвейера
type Metrics struct {
	inspections *prometheus.CounterVec
	errors      *prometheus.CounterVec
	duration    prometheus.Histogram
}

// New создаёт коллекторы и регистрирует их в reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		inspections: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fabric_inspections_total",
				Help: "Completed fabric inspections by verdict",
			}, []string{"verdict"},
		),
		errors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fabric_inspection_errors_total",
				Help: "Failed fabric inspections by error kind",
			}, []string{"kind"},
		),
		duration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "fabric_inspection_duration_seconds",
				Help:    "Duration of the extract-scale-classify-enhance pipeline",
				Buckets: prometheus.DefBuckets,
			},
		),
	}
	reg.MustRegister(m.inspections, m.errors, m.duration)
	return m
}

// ObserveInspection учитывает успешную проверку
func (m *Metrics) ObserveInspection(passed bool, elapsed time.Duration) {
	verdict := "fail"
	if passed {
		verdict = "pass"
	}
	m.inspections.WithLabelValues(verdict).Inc()
	m.duration.Observe(elapsed.Seconds())
}

// ObserveError учитывает неудачную проверку
func (m *Metrics) ObserveError(kind string) {
	m.errors.WithLabelValues(kind).Inc()
}

var _ port.InspectionMetrics = (*Metrics)(nil)
