package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all metrics for the application
type Registry struct {
	// Weighting Metrics
	BuildsTotal          *prometheus.CounterVec
	BuildDuration        prometheus.Histogram
	TransitionNonZero    prometheus.Gauge
	IsolatedColumns      prometheus.Gauge
	SimilarityCacheItems *prometheus.GaugeVec

	// Diffusion Metrics
	DiffusionDuration    prometheus.Histogram
	RowIterations        prometheus.Histogram
	UnconvergedRowsTotal prometheus.Counter

	// Pipeline Metrics
	RunsTotal        *prometheus.CounterVec
	RunDuration      prometheus.Histogram
	GraphNodes       prometheus.Gauge
	GraphEdges       prometheus.Gauge
	RankedCandidates prometheus.Gauge

	registry *prometheus.Registry
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		registry: reg,
	}

	r.initWeightingMetrics()
	r.initDiffusionMetrics()
	r.initPipelineMetrics()

	return r
}
