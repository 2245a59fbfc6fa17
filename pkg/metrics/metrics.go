package metrics

import (
	"time"
)

// Run status label values
const (
	StatusSuccess = "success"
	StatusWarning = "warning"
	StatusError   = "error"
)

// RecordBuild records a weighted adjacency build
func (r *Registry) RecordBuild(status string, duration time.Duration, nonZero, isolated int) {
	r.BuildsTotal.WithLabelValues(status).Inc()
	r.BuildDuration.Observe(duration.Seconds())
	if status != StatusError {
		r.TransitionNonZero.Set(float64(nonZero))
		r.IsolatedColumns.Set(float64(isolated))
	}
}

// RecordSimilarityCache records the size of an ontology's similarity cache
func (r *Registry) RecordSimilarityCache(ontology string, items int) {
	r.SimilarityCacheItems.WithLabelValues(ontology).Set(float64(items))
}

// RecordDiffusion records one RWR call and the iterations spent per row
func (r *Registry) RecordDiffusion(duration time.Duration, iterations []int, unconverged int) {
	r.DiffusionDuration.Observe(duration.Seconds())
	for _, it := range iterations {
		r.RowIterations.Observe(float64(it))
	}
	if unconverged > 0 {
		r.UnconvergedRowsTotal.Add(float64(unconverged))
	}
}

// RecordRun records a full prioritization run
func (r *Registry) RecordRun(status string, duration time.Duration, nodes, edges, ranked int) {
	r.RunsTotal.WithLabelValues(status).Inc()
	r.RunDuration.Observe(duration.Seconds())
	if status != StatusError {
		r.GraphNodes.Set(float64(nodes))
		r.GraphEdges.Set(float64(edges))
		r.RankedCandidates.Set(float64(ranked))
	}
}
