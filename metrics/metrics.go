// Package metrics provides Prometheus metrics for the caseflow pipeline.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the caseflow Prometheus collectors. A nil *Metrics is valid
// and records nothing, so instrumentation stays optional.
type Metrics struct {
	// Summary generation metrics
	GenerationsTotal   *prometheus.CounterVec
	GenerationDuration *prometheus.HistogramVec

	// Classification metrics
	ClassificationsTotal *prometheus.CounterVec

	// Prompt resolution metrics
	PromptResolutionsTotal *prometheus.CounterVec
}

// New creates and registers the caseflow metrics. A nil registerer uses the
// default Prometheus registry.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	m := &Metrics{}

	m.GenerationsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "caseflow_generations_total",
			Help: "Total number of summary generation calls",
		},
		[]string{"category", "outcome"},
	)

	m.GenerationDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "caseflow_generation_duration_seconds",
			Help:    "Duration of summary generation calls in seconds",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"category"},
	)

	m.ClassificationsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "caseflow_classifications_total",
			Help: "Total number of single-label classification calls",
		},
		[]string{"kind", "outcome"},
	)

	m.PromptResolutionsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "caseflow_prompt_resolutions_total",
			Help: "Total number of prompt resolutions by source",
		},
		[]string{"category", "source"},
	)

	return m
}

// RecordGeneration records one generation call with its outcome.
func (m *Metrics) RecordGeneration(cat, outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.GenerationsTotal.WithLabelValues(cat, outcome).Inc()
	m.GenerationDuration.WithLabelValues(cat).Observe(duration.Seconds())
}

// RecordClassification records one classification call. outcome is "valid",
// "defaulted" or "failed".
func (m *Metrics) RecordClassification(kind, outcome string) {
	if m == nil {
		return
	}
	m.ClassificationsTotal.WithLabelValues(kind, outcome).Inc()
}

// RecordPromptResolution records one prompt resolution by source ("store",
// "artifact" or "default").
func (m *Metrics) RecordPromptResolution(cat, source string) {
	if m == nil {
		return
	}
	m.PromptResolutionsTotal.WithLabelValues(cat, source).Inc()
}
