package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var durationBuckets = []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0, 30.0, 120.0}

func (r *Registry) initWeightingMetrics() {
	r.BuildsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "wppi_weighted_builds_total",
			Help: "Total number of weighted adjacency builds",
		},
		[]string{"status"},
	)

	r.BuildDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "wppi_weighted_build_duration_seconds",
			Help:    "Weighted adjacency build duration in seconds",
			Buckets: durationBuckets,
		},
	)

	r.TransitionNonZero = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "wppi_transition_nonzero_entries",
			Help: "Non-zero entries of the last transition matrix",
		},
	)

	r.IsolatedColumns = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "wppi_transition_isolated_columns",
			Help: "Zero columns of the last transition matrix",
		},
	)

	r.SimilarityCacheItems = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "wppi_similarity_cache_items",
			Help: "Gene pairs held in the similarity cache after the last build",
		},
		[]string{"ontology"},
	)
}

func (r *Registry) initDiffusionMetrics() {
	r.DiffusionDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "wppi_rwr_duration_seconds",
			Help:    "Random walk with restart duration in seconds",
			Buckets: durationBuckets,
		},
	)

	r.RowIterations = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "wppi_rwr_row_iterations",
			Help:    "Iterations needed per restart node",
			Buckets: []float64{5, 10, 20, 50, 100, 500, 1000, 10000},
		},
	)

	r.UnconvergedRowsTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "wppi_rwr_unconverged_rows_total",
			Help: "Rows that hit the iteration cap before converging",
		},
	)
}

func (r *Registry) initPipelineMetrics() {
	r.RunsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "wppi_runs_total",
			Help: "Total number of prioritization runs",
		},
		[]string{"status"},
	)

	r.RunDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "wppi_run_duration_seconds",
			Help:    "End-to-end prioritization duration in seconds",
			Buckets: durationBuckets,
		},
	)

	r.GraphNodes = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "wppi_graph_nodes",
			Help: "Nodes of the graph used by the last run",
		},
	)

	r.GraphEdges = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "wppi_graph_edges",
			Help: "Edges of the graph used by the last run",
		},
	)

	r.RankedCandidates = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "wppi_ranked_candidates",
			Help: "Candidate genes returned by the last run",
		},
	)
}
