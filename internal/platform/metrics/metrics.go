// Package metrics exposes Prometheus instrumentation for the daily pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values.
const (
	OutcomeSucceeded = "succeeded"
	OutcomeFailed    = "failed"
)

// Pipeline holds counters and histograms for pipeline runs and delivery
// fan-out. Operators observe failures through these and the logs; there is
// no end-user-facing retry surface.
type Pipeline struct {
	RunsTotal             *prometheus.CounterVec
	RunDuration           prometheus.Histogram
	DeliveriesTotal       *prometheus.CounterVec
	ValidationIssuesTotal prometheus.Counter
	PrunedEntriesTotal    prometheus.Counter
}

// NewPipeline creates and registers pipeline metrics on the given registerer.
func NewPipeline(reg prometheus.Registerer) *Pipeline {
	factory := promauto.With(reg)

	return &Pipeline{
		RunsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "reflections",
			Subsystem: "pipeline",
			Name:      "runs_total",
			Help:      "Pipeline invocations by outcome.",
		}, []string{"outcome"}),

		RunDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "reflections",
			Subsystem: "pipeline",
			Name:      "run_duration_seconds",
			Help:      "Wall-clock duration of one pipeline invocation.",
			Buckets:   prometheus.ExponentialBuckets(0.5, 2, 10),
		}),

		DeliveriesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "reflections",
			Subsystem: "delivery",
			Name:      "sends_total",
			Help:      "Per-recipient send attempts by outcome.",
		}, []string{"outcome"}),

		ValidationIssuesTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "reflections",
			Subsystem: "generator",
			Name:      "validation_issues_total",
			Help:      "Warn-only validation issues recorded on generated reflections.",
		}),

		PrunedEntriesTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "reflections",
			Subsystem: "history",
			Name:      "pruned_entries_total",
			Help:      "History entries removed by the retention prune.",
		}),
	}
}
