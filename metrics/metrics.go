// Package metrics holds the Prometheus collectors for the scoring pipeline.
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "plantool"

type Metrics struct {
	registry        *prometheus.Registry
	clamps          *prometheus.CounterVec
	plansScored     prometheus.Counter
	overallScore    prometheus.Histogram
	recommendations prometheus.Counter
	skippedRows     prometheus.Counter
}

// New creates the collectors on a private registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		clamps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "score_clamps_total",
			Help:      "Weighted sums that fell outside [0,1] and were clamped.",
		}, []string{"component"}),
		plansScored: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "plans_scored_total",
			Help:      "Plans scored by the orchestrator.",
		}),
		overallScore: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "overall_score",
			Help:      "Distribution of overall plan scores.",
			Buckets:   prometheus.LinearBuckets(0.1, 0.1, 10),
		}),
		recommendations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recommendations_total",
			Help:      "Recommendations returned to callers.",
		}),
		skippedRows: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ingest_skipped_rows_total",
			Help:      "Benefit rows dropped because they could not be parsed.",
		}),
	}
	m.registry.MustRegister(m.clamps, m.plansScored, m.overallScore, m.recommendations, m.skippedRows)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) ClampObserved(component string) {
	if m == nil {
		return
	}
	m.clamps.WithLabelValues(component).Inc()
}

// ClampCounter exposes the clamp counter of one component, mainly for tests.
func (m *Metrics) ClampCounter(component string) prometheus.Counter {
	return m.clamps.WithLabelValues(component)
}

func (m *Metrics) PlanScored(overall float64) {
	if m == nil {
		return
	}
	m.plansScored.Inc()
	m.overallScore.Observe(overall)
}

func (m *Metrics) PlansScored() prometheus.Counter { return m.plansScored }

func (m *Metrics) Recommended(n int) {
	if m == nil {
		return
	}
	m.recommendations.Add(float64(n))
}

func (m *Metrics) RowSkipped() {
	if m == nil {
		return
	}
	m.skippedRows.Inc()
}

func (m *Metrics) SkippedRows() prometheus.Counter { return m.skippedRows }

// WriteFile writes the registry in the text exposition format, for node_exporter's
// textfile collector.
func (m *Metrics) WriteFile(path string) error {
	if m == nil {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.registry)
}
