package engine

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// buildsTotal counts cabinet builds.
	// Labels: style (resolved construction style), status (ok, invalid, error)
	buildsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "carcass",
		Subsystem: "engine",
		Name:      "builds_total",
		Help:      "Total cabinet builds by style and outcome",
	}, []string{"style", "status"})

	// styleFallbacks counts specs whose style resolved to the default.
	// Labels: reason (missing, unrecognized)
	styleFallbacks = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "carcass",
		Subsystem: "engine",
		Name:      "style_fallbacks_total",
		Help:      "Total specs built with the default style in place of the requested one",
	}, []string{"reason"})

	buildDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "carcass",
		Subsystem: "engine",
		Name:      "build_duration_seconds",
		Help:      "Time to derive parts and assemble the scene for one cabinet",
		Buckets:   []float64{0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.05},
	})

	// abandonedEvals tracks evaluations that timed out or were canceled
	// but whose sandbox goroutine is still running.
	abandonedEvals = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "carcass",
		Subsystem: "engine",
		Name:      "abandoned_evaluations",
		Help:      "Evaluations given up on whose sandbox is still running",
	})

	partsPerBuild = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "carcass",
		Subsystem: "engine",
		Name:      "parts_per_build",
		Help:      "Number of part nodes in each built scene",
		Buckets:   []float64{4, 6, 8, 10, 12, 16, 24, 32},
	})
)

// Build outcomes for buildsTotal.
const (
	statusOK      = "ok"
	statusInvalid = "invalid"
	statusError   = "error"
)
