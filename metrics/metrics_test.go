package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNilMetricsRecordNothing(t *testing.T) {
	var m *Metrics

	// Must not panic.
	m.RecordGeneration("ls-ilmoitus", "structured", time.Second)
	m.RecordClassification("urgency", "valid")
	m.RecordPromptResolution("paatos", "store")
}

func TestRecordGeneration(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.RecordGeneration("ls-ilmoitus", "structured", 500*time.Millisecond)
	m.RecordGeneration("ls-ilmoitus", "structured", time.Second)
	m.RecordGeneration("paatos", "failure", time.Second)

	assert.Equal(t, float64(2),
		testutil.ToFloat64(m.GenerationsTotal.WithLabelValues("ls-ilmoitus", "structured")))
	assert.Equal(t, float64(1),
		testutil.ToFloat64(m.GenerationsTotal.WithLabelValues("paatos", "failure")))
}

func TestRecordClassification(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.RecordClassification("urgency", "valid")
	m.RecordClassification("urgency", "defaulted")
	m.RecordClassification("decision_type", "failed")

	assert.Equal(t, float64(1),
		testutil.ToFloat64(m.ClassificationsTotal.WithLabelValues("urgency", "valid")))
	assert.Equal(t, float64(1),
		testutil.ToFloat64(m.ClassificationsTotal.WithLabelValues("decision_type", "failed")))
}

func TestSeparateRegistries(t *testing.T) {
	// Two instances over distinct registries must not collide.
	a := New(prometheus.NewRegistry())
	b := New(prometheus.NewRegistry())

	a.RecordPromptResolution("paatos", "store")
	assert.Equal(t, float64(1), testutil.ToFloat64(a.PromptResolutionsTotal.WithLabelValues("paatos", "store")))
	assert.Equal(t, float64(0), testutil.ToFloat64(b.PromptResolutionsTotal.WithLabelValues("paatos", "store")))
}
