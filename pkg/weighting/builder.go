// Package weighting turns an interaction graph and its ontology annotations
// into the column-stochastic transition matrix used by the random walk.
package weighting

import (
	"context"
	"fmt"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/bioc/wppi/pkg/logging"
	"github.com/bioc/wppi/pkg/metrics"
	"github.com/bioc/wppi/pkg/network"
	"github.com/bioc/wppi/pkg/ontology"
	"github.com/bioc/wppi/pkg/parallel"
	"github.com/bioc/wppi/pkg/validation"
)

// Options configures the weighted adjacency build
type Options struct {
	Symmetric bool // Treat every edge as undirected
	Workers   int  // Row workers for pair scoring (0 = GOMAXPROCS)
	CacheSize int  // Similarity cache entries per ontology (0 = default)
}

// DefaultOptions returns the directed, cached configuration
func DefaultOptions() Options {
	return Options{
		Symmetric: false,
		Workers:   0,
		CacheSize: ontology.DefaultCacheSize,
	}
}

// Builder computes weighted adjacency matrices
type Builder struct {
	opts    Options
	logger  logging.Logger
	metrics *metrics.Registry
}

// NewBuilder creates a builder. A nil logger or registry disables that concern.
func NewBuilder(opts Options, logger logging.Logger, reg *metrics.Registry) *Builder {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Builder{
		opts:    opts,
		logger:  logger.With(logging.Component("weighting")),
		metrics: reg,
	}
}

// Result is a built transition matrix and its diagnostics
type Result struct {
	W               *mat.Dense // Column-stochastic transition matrix, graph node order
	AdjacentPairs   int        // Non-zero entries of the binary adjacency
	OverlapPairs    int        // Adjacent pairs with at least one shared neighbour
	IsolatedColumns int        // Columns left at zero
}

// Build combines neighbour overlap and GO/HPO similarity on every adjacent
// pair and column-normalizes the sum. goIndex and hpoIndex may be nil, in
// which case that contribution is zero.
func (b *Builder) Build(ctx context.Context, g *network.Graph, goIndex, hpoIndex *ontology.AnnotationIndex) (*Result, error) {
	start := time.Now()
	res, err := b.build(ctx, g, goIndex, hpoIndex)
	elapsed := time.Since(start)

	if err != nil {
		b.logger.Error("weighted adjacency build failed", logging.Latency(elapsed), logging.Error(err))
		if b.metrics != nil {
			b.metrics.RecordBuild(metrics.StatusError, elapsed, 0, 0)
		}
		return nil, err
	}

	nonZero := 0
	raw := res.W.RawMatrix()
	for _, v := range raw.Data {
		if v != 0 {
			nonZero++
		}
	}
	b.logger.Info("weighted adjacency built",
		logging.Nodes(g.Order()),
		logging.Bool("symmetric", b.opts.Symmetric),
		logging.Int("adjacent_pairs", res.AdjacentPairs),
		logging.Int("overlap_pairs", res.OverlapPairs),
		logging.Int("isolated_columns", res.IsolatedColumns),
		logging.Latency(elapsed),
	)
	if b.metrics != nil {
		b.metrics.RecordBuild(metrics.StatusSuccess, elapsed, nonZero, res.IsolatedColumns)
	}
	return res, nil
}

func (b *Builder) build(ctx context.Context, g *network.Graph, goIndex, hpoIndex *ontology.AnnotationIndex) (*Result, error) {
	if g == nil || g.Order() == 0 {
		return nil, validation.NewInputError("graph", "graph has no nodes")
	}
	n := g.Order()

	adj := network.BinaryAdjacency(g, b.opts.Symmetric)
	overlap := network.NeighborOverlap(adj, network.NeighborSets(g))

	raw := mat.NewDense(n, n, nil)
	for _, p := range overlap {
		raw.Set(p.I, p.J, float64(p.Count))
	}

	scorers, err := b.scorers(goIndex, hpoIndex)
	if err != nil {
		return nil, err
	}

	if len(scorers) > 0 {
		// Row i is only written by task i
		err := parallel.ForEach(ctx, b.opts.Workers, n, func(i int) error {
			si := g.Node(i).GeneSymbol
			for _, j := range adj.Out[i] {
				sj := g.Node(j).GeneSymbol
				sum := 0.0
				for _, s := range scorers {
					sum += s.scorer.Score(si, sj)
				}
				if sum != 0 {
					raw.Set(i, j, raw.At(i, j)+sum)
				}
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("score annotation similarity: %w", err)
		}
		for _, s := range scorers {
			if c, ok := s.scorer.(*ontology.CachedScorer); ok && b.metrics != nil {
				b.metrics.RecordSimilarityCache(s.name, c.Len())
			}
		}
	}

	isolated := NormalizeColumns(raw)

	return &Result{
		W:               raw,
		AdjacentPairs:   adj.Pairs(),
		OverlapPairs:    len(overlap),
		IsolatedColumns: isolated,
	}, nil
}

type namedScorer struct {
	name   string
	scorer ontology.Scorer
}

func (b *Builder) scorers(goIndex, hpoIndex *ontology.AnnotationIndex) ([]namedScorer, error) {
	var out []namedScorer
	for _, src := range []struct {
		name string
		idx  *ontology.AnnotationIndex
	}{{"go", goIndex}, {"hpo", hpoIndex}} {
		if src.idx == nil {
			continue
		}
		cached, err := ontology.NewCachedScorer(src.idx, b.opts.CacheSize)
		if err != nil {
			return nil, err
		}
		out = append(out, namedScorer{name: src.name, scorer: cached})
	}
	return out, nil
}

// NormalizeColumns divides every column of m by its sum in place. Columns
// summing to zero (isolated nodes) are set to exactly zero and never
// divided. Returns the number of zero columns.
func NormalizeColumns(m *mat.Dense) int {
	rows, cols := m.Dims()
	isolated := 0
	for j := 0; j < cols; j++ {
		sum := 0.0
		for i := 0; i < rows; i++ {
			sum += m.At(i, j)
		}
		if sum <= 0 {
			for i := 0; i < rows; i++ {
				m.Set(i, j, 0)
			}
			isolated++
			continue
		}
		for i := 0; i < rows; i++ {
			if v := m.At(i, j); v != 0 {
				m.Set(i, j, v/sum)
			}
		}
	}
	return isolated
}
