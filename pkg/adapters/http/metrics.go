package http

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	validations *prometheus.CounterVec
	duration    *prometheus.HistogramVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		validations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "conform_validations_total",
				Help: "Validations performed, by schema and result.",
			},
			[]string{"schema", "result"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "conform_validation_duration_seconds",
				Help:    "Time spent validating a value.",
				Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
			},
			[]string{"schema"},
		),
	}
	reg.MustRegister(m.validations, m.duration)
	return m
}

func (m *metrics) observe(schemaName string, valid bool, elapsed time.Duration) {
	result := "valid"
	if !valid {
		result = "invalid"
	}
	m.validations.WithLabelValues(schemaName, result).Inc()
	m.duration.WithLabelValues(schemaName).Observe(elapsed.Seconds())
}
