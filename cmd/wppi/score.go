package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/bioc/wppi/pkg/config"
	"github.com/bioc/wppi/pkg/logging"
	"github.com/bioc/wppi/pkg/matrixio"
	"github.com/bioc/wppi/pkg/metrics"
	"github.com/bioc/wppi/pkg/ontology"
	"github.com/bioc/wppi/pkg/pipeline"
	"github.com/bioc/wppi/pkg/tabular"
)

// Snapshot file names written by score --snapshot-dir
const (
	TransitionSnapshot  = "W" + matrixio.Extension
	ProbabilitySnapshot = "P" + matrixio.Extension
)

type scoreOptions struct {
	edges       string
	goPath      string
	hpoPath     string
	seeds       []string
	seedsFile   string
	configPath  string
	output      string
	snapshotDir string
	pushgateway string

	// Overrides, applied only when set on the command line
	order     int
	top       float64
	format    string
	restart   float64
	threshold float64
	symmetric bool
	workers   int
}

func newScoreCmd(a *app) *cobra.Command {
	o := &scoreOptions{}

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Build the weighted network, run the random walk and rank candidates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScore(cmd, a, o)
		},
	}

	f := cmd.Flags()
	f.StringVar(&o.edges, "edges", "", "interaction table (source, target, source_genesymbol, target_genesymbol)")
	f.StringVar(&o.goPath, "go", "", "Gene Ontology annotation table")
	f.StringVar(&o.hpoPath, "hpo", "", "Human Phenotype Ontology annotation table")
	f.StringSliceVar(&o.seeds, "seeds", nil, "seed gene symbols, comma separated")
	f.StringVar(&o.seedsFile, "seeds-file", "", "file of seed gene symbols")
	f.StringVar(&o.configPath, "config", "", "YAML configuration file")
	f.StringVarP(&o.output, "output", "o", "", "write the ranked table here instead of stdout")
	f.StringVar(&o.snapshotDir, "snapshot-dir", "", "write W and P matrix snapshots to this directory")
	f.StringVar(&o.pushgateway, "pushgateway", "", "push run metrics to this Prometheus Pushgateway URL")

	def := config.Default()
	f.IntVar(&o.order, "order", def.Order, "restrict to the neighbourhood of this many hops around the seeds (0 = whole network)")
	f.Float64Var(&o.top, "top", def.TopPercentage, "percentage of candidates to report, in (0, 100]")
	f.StringVar(&o.format, "format", def.Format, "output format: tsv, json or table")
	f.Float64Var(&o.restart, "restart", def.RestartProb, "restart probability, in (0, 1)")
	f.Float64Var(&o.threshold, "threshold", def.Threshold, "convergence threshold")
	f.BoolVar(&o.symmetric, "symmetric", def.Symmetric, "treat interactions as undirected")
	f.IntVar(&o.workers, "workers", def.Workers, "worker goroutines (0 = GOMAXPROCS)")

	_ = cmd.MarkFlagRequired("edges")
	cmd.MarkFlagsOneRequired("seeds", "seeds-file")
	return cmd
}

// loadConfig reads --config, if any, and applies the flags that were set.
func (o *scoreOptions) loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()
	if o.configPath != "" {
		var err error
		if cfg, err = config.Load(o.configPath); err != nil {
			return cfg, err
		}
	}

	f := cmd.Flags()
	if f.Changed("order") {
		cfg.Order = o.order
	}
	if f.Changed("top") {
		cfg.TopPercentage = o.top
	}
	if f.Changed("format") {
		cfg.Format = o.format
	}
	if f.Changed("restart") {
		cfg.RestartProb = o.restart
	}
	if f.Changed("threshold") {
		cfg.Threshold = o.threshold
	}
	if f.Changed("symmetric") {
		cfg.Symmetric = o.symmetric
	}
	if f.Changed("workers") {
		cfg.Workers = o.workers
	}
	return cfg, cfg.Validate()
}

func runScore(cmd *cobra.Command, a *app, o *scoreOptions) error {
	ctx := cmd.Context()

	cfg, err := o.loadConfig(cmd)
	if err != nil {
		return err
	}
	a.applyConfigLevel(cfg.LogLevel)

	seeds, err := collectSeeds(o.seeds, o.seedsFile)
	if err != nil {
		return err
	}

	timer := logging.StartTimer(a.logger, "inputs loaded", logging.Path(o.edges))
	graph, err := tabular.ReadEdgeListFile(o.edges)
	if err != nil {
		timer.EndError(err)
		return err
	}
	goRows, err := readAnnotations(o.goPath)
	if err != nil {
		timer.EndError(err)
		return err
	}
	hpoRows, err := readAnnotations(o.hpoPath)
	if err != nil {
		timer.EndError(err)
		return err
	}
	timer.End(logging.Nodes(graph.Order()), logging.Edges(graph.Size()))

	reg := metrics.NewRegistry()
	res, err := pipeline.NewRunner(a.logger, reg).Run(ctx, pipeline.Input{
		Graph: graph,
		GO:    goRows,
		HPO:   hpoRows,
		Seeds: seeds,
	}, cfg)
	if err != nil {
		return err
	}

	if o.snapshotDir != "" {
		if err := writeSnapshots(o.snapshotDir, res); err != nil {
			return err
		}
		a.logger.Info("snapshots written", logging.Path(o.snapshotDir), logging.RunID(res.RunID))
	}

	if err := writeTable(cmd, o.output, res.Table, cfg.Format); err != nil {
		return err
	}

	if o.pushgateway != "" {
		if err := reg.Push(ctx, o.pushgateway, metrics.DefaultJobName, res.RunID); err != nil {
			// Metrics delivery does not invalidate the ranking
			a.logger.Warn("metrics push failed", logging.String("gateway", o.pushgateway), logging.Error(err))
		}
	}
	return nil
}

func readAnnotations(path string) ([]ontology.Annotation, error) {
	if path == "" {
		return nil, nil
	}
	return tabular.ReadAnnotationsFile(path)
}

func writeSnapshots(dir string, res *pipeline.Result) error {
	if err := matrixio.WriteFile(filepath.Join(dir, TransitionSnapshot), res.W, res.Index); err != nil {
		return fmt.Errorf("write transition snapshot: %w", err)
	}
	if err := matrixio.WriteFile(filepath.Join(dir, ProbabilitySnapshot), res.P, res.Index); err != nil {
		return fmt.Errorf("write probability snapshot: %w", err)
	}
	return nil
}
