package engine

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hyalite/mediacopy/internal/model"
)

// engineNone labels copies rejected before an engine was chosen.
const engineNone = "none"

var (
	copiesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mcpy_copies_total",
			Help: "Total number of copy invocations by engine and outcome.",
		},
		[]string{"engine", "status"},
	)

	dispatchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mcpy_dispatch_seconds",
			Help:    "Time spent in the decompression pre-step and engine submission, in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"engine"},
	)

	decompressionsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "mcpy_decompressions_total",
			Help: "Total number of blitter decompression pre-steps invoked.",
		},
	)
)

func init() {
	prometheus.MustRegister(copiesTotal)
	prometheus.MustRegister(dispatchDuration)
	prometheus.MustRegister(decompressionsTotal)

	// Pre-initialize label combinations so they appear in /metrics with value
	// 0 from startup, rather than only after first observation.
	for _, eng := range model.Engines {
		copiesTotal.WithLabelValues(string(eng), model.StatusCompleted)
		copiesTotal.WithLabelValues(string(eng), model.StatusFailed)
		dispatchDuration.WithLabelValues(string(eng))
	}
	copiesTotal.WithLabelValues(engineNone, model.StatusRejected)
}

// observeCopy records the outcome of one copy invocation.
func observeCopy(engine model.Engine, status string) {
	label := engineNone
	if engine != "" {
		label = string(engine)
	}
	copiesTotal.WithLabelValues(label, status).Inc()
}
