// Package pipeline runs a complete prioritization: seed validation,
// optional neighbourhood extraction, annotation indexing, transition
// matrix construction, random walk and ranking.
package pipeline

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/mat"

	"github.com/bioc/wppi/pkg/config"
	"github.com/bioc/wppi/pkg/logging"
	"github.com/bioc/wppi/pkg/metrics"
	"github.com/bioc/wppi/pkg/network"
	"github.com/bioc/wppi/pkg/ontology"
	"github.com/bioc/wppi/pkg/prioritize"
	"github.com/bioc/wppi/pkg/rwr"
	"github.com/bioc/wppi/pkg/validation"
	"github.com/bioc/wppi/pkg/weighting"
)

// Input is the data of a run
type Input struct {
	Graph *network.Graph
	GO    []ontology.Annotation // Gene Ontology rows, may be empty
	HPO   []ontology.Annotation // Human Phenotype Ontology rows, may be empty
	Seeds []string              // Known disease gene symbols
}

// Diagnostics summarises what a run did
type Diagnostics struct {
	Nodes           int   `json:"nodes"`
	Edges           int   `json:"edges"`
	Subgraph        bool  `json:"subgraph"`
	GOGenes         int   `json:"go_genes"`
	HPOGenes        int   `json:"hpo_genes"`
	AdjacentPairs   int   `json:"adjacent_pairs"`
	OverlapPairs    int   `json:"overlap_pairs"`
	IsolatedColumns int   `json:"isolated_columns"`
	SeedNodes       int   `json:"seed_nodes"`
	Iterations      []int `json:"-"`
	MaxIterations   int   `json:"max_iterations"`
	Unconverged     []int `json:"unconverged_rows,omitempty"`

	BuildDuration     time.Duration `json:"build_duration"`
	DiffusionDuration time.Duration `json:"diffusion_duration"`
	Duration          time.Duration `json:"duration"`
}

// Result is everything a run produced
type Result struct {
	RunID       string
	Graph       *network.Graph // The graph that was scored, possibly a neighbourhood
	Index       *network.NodeIndex
	W           *mat.Dense // Transition matrix
	P           *mat.Dense // Probability matrix, row = restart node
	Table       *prioritize.Table
	Diagnostics Diagnostics
	// Warning is rwr.ErrNotConverged (wrapped) when some rows hit the
	// iteration cap, nil otherwise.
	Warning error
}

// Runner executes runs with a shared logger and metrics registry
type Runner struct {
	logger  logging.Logger
	metrics *metrics.Registry
}

// NewRunner creates a runner. A nil logger or registry disables that concern.
func NewRunner(logger logging.Logger, reg *metrics.Registry) *Runner {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Runner{
		logger:  logger.With(logging.Component("pipeline")),
		metrics: reg,
	}
}

// Run executes a run with the default logger and no metrics.
func Run(ctx context.Context, in Input, cfg config.Config) (*Result, error) {
	return NewRunner(logging.DefaultLogger(), nil).Run(ctx, in, cfg)
}

// Run executes every stage in order. A non-converged random walk is not an
// error: the table is still produced and Result.Warning is set.
func (r *Runner) Run(ctx context.Context, in Input, cfg config.Config) (*Result, error) {
	start := time.Now()
	res := &Result{RunID: uuid.NewString()}
	logger := r.logger.With(logging.RunID(res.RunID))

	err := r.run(ctx, logger, in, cfg, res)
	res.Diagnostics.Duration = time.Since(start)

	status := metrics.StatusSuccess
	switch {
	case err != nil:
		status = metrics.StatusError
		logger.Error("run failed", logging.Latency(res.Diagnostics.Duration), logging.Error(err))
	case res.Warning != nil:
		status = metrics.StatusWarning
	}
	if r.metrics != nil {
		ranked := 0
		if res.Table != nil {
			ranked = res.Table.Len()
		}
		r.metrics.RecordRun(status, res.Diagnostics.Duration, res.Diagnostics.Nodes, res.Diagnostics.Edges, ranked)
	}
	if err != nil {
		return nil, err
	}

	logger.Info("run complete",
		logging.String("status", status),
		logging.Count(res.Table.Len()),
		logging.Latency(res.Diagnostics.Duration),
	)
	return res, nil
}

func (r *Runner) run(ctx context.Context, logger logging.Logger, in Input, cfg config.Config, res *Result) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if in.Graph == nil || in.Graph.Order() == 0 {
		return validation.NewInputError("graph", "graph has no nodes")
	}
	if err := validation.ValidateSeeds(in.Seeds); err != nil {
		return err
	}
	seeds := make([]string, len(in.Seeds))
	for i, s := range in.Seeds {
		seeds[i] = strings.TrimSpace(s)
	}

	g := in.Graph
	if cfg.Order > 0 {
		sub, err := network.Neighborhood(g, seeds, cfg.Order)
		if err != nil {
			return err
		}
		logger.Info("neighbourhood extracted",
			logging.Int("order", cfg.Order),
			logging.Nodes(sub.Order()),
			logging.Int("parent_nodes", g.Order()),
		)
		g = sub
		res.Diagnostics.Subgraph = true
	}
	res.Graph = g
	res.Index = g.Index()
	res.Diagnostics.Nodes = g.Order()
	res.Diagnostics.Edges = g.Size()
	res.Diagnostics.SeedNodes = len(g.NodesWithSymbols(seeds))
	if res.Diagnostics.SeedNodes == 0 {
		logger.Warn("no seed gene is present in the network", logging.Count(len(seeds)))
	}

	symbols := g.Symbols()
	for _, s := range seeds {
		if _, ok := symbols[s]; !ok {
			logger.Debug("seed gene not in network", logging.Gene(s))
		}
	}
	goIndex := r.index(logger, "go", cfg.UseGO, cfg.FilterAnnotations, in.GO, symbols)
	hpoIndex := r.index(logger, "hpo", cfg.UseHPO, cfg.FilterAnnotations, in.HPO, symbols)
	if goIndex != nil {
		res.Diagnostics.GOGenes = goIndex.TotalGenes
	}
	if hpoIndex != nil {
		res.Diagnostics.HPOGenes = hpoIndex.TotalGenes
	}

	builder := weighting.NewBuilder(cfg.Weighting(), logger, r.metrics)
	timer := time.Now()
	built, err := builder.Build(ctx, g, goIndex, hpoIndex)
	if err != nil {
		return err
	}
	res.Diagnostics.BuildDuration = time.Since(timer)
	res.W = built.W
	res.Diagnostics.AdjacentPairs = built.AdjacentPairs
	res.Diagnostics.OverlapPairs = built.OverlapPairs
	res.Diagnostics.IsolatedColumns = built.IsolatedColumns

	engine, err := rwr.NewEngine(cfg.RWR(), logger, r.metrics)
	if err != nil {
		return err
	}
	timer = time.Now()
	walked, err := engine.Diffuse(ctx, built.W)
	switch {
	case errors.Is(err, rwr.ErrNotConverged):
		res.Warning = err
	case err != nil:
		return err
	}
	res.Diagnostics.DiffusionDuration = time.Since(timer)
	res.P = walked.P
	res.Diagnostics.Iterations = walked.Iterations
	res.Diagnostics.Unconverged = walked.Unconverged
	for _, it := range walked.Iterations {
		if it > res.Diagnostics.MaxIterations {
			res.Diagnostics.MaxIterations = it
		}
	}

	table, err := prioritize.Rank(g, walked.P, seeds, cfg.TopPercentage)
	if err != nil {
		return err
	}
	res.Table = table
	return nil
}

// index filters and indexes one ontology's rows. It returns nil when the
// ontology is disabled or has no usable rows.
func (r *Runner) index(logger logging.Logger, name string, enabled, filter bool, rows []ontology.Annotation, symbols map[string]struct{}) *ontology.AnnotationIndex {
	if !enabled || len(rows) == 0 {
		return nil
	}
	if filter {
		rows = ontology.FilterToSymbols(rows, symbols)
	}
	if len(rows) == 0 {
		logger.Warn("no annotation matches a network gene", logging.String("ontology", name))
		return nil
	}
	idx := ontology.NewAnnotationIndex(rows)
	logger.Info("annotations indexed",
		logging.String("ontology", name),
		logging.Count(len(rows)),
		logging.Int("genes", idx.TotalGenes),
		logging.Int("terms", len(idx.TermSize)),
	)
	return idx
}
