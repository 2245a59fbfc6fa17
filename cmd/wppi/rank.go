package main

import (
	"github.com/spf13/cobra"

	"github.com/bioc/wppi/pkg/logging"
	"github.com/bioc/wppi/pkg/matrixio"
	"github.com/bioc/wppi/pkg/network"
	"github.com/bioc/wppi/pkg/prioritize"
	"github.com/bioc/wppi/pkg/tabular"
	"github.com/bioc/wppi/pkg/validation"
)

type rankOptions struct {
	edges         string
	probabilities string
	seeds         []string
	seedsFile     string
	top           float64
	format        string
	output        string
}

func newRankCmd(a *app) *cobra.Command {
	o := &rankOptions{}

	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Rank candidates from a saved probability matrix",
		Long: `Rank re-scores candidates against a probability matrix written by
"score --snapshot-dir", without rebuilding the network or repeating the walk.
Gene symbols are taken from the interaction table.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRank(cmd, a, o)
		},
	}

	f := cmd.Flags()
	f.StringVar(&o.edges, "edges", "", "interaction table used for the snapshot")
	f.StringVar(&o.probabilities, "probabilities", "", "probability matrix snapshot")
	f.StringSliceVar(&o.seeds, "seeds", nil, "seed gene symbols, comma separated")
	f.StringVar(&o.seedsFile, "seeds-file", "", "file of seed gene symbols")
	f.Float64Var(&o.top, "top", 100, "percentage of candidates to report, in (0, 100]")
	f.StringVar(&o.format, "format", prioritize.FormatTSV, "output format: tsv, json or table")
	f.StringVarP(&o.output, "output", "o", "", "write the ranked table here instead of stdout")

	_ = cmd.MarkFlagRequired("edges")
	_ = cmd.MarkFlagRequired("probabilities")
	cmd.MarkFlagsOneRequired("seeds", "seeds-file")
	return cmd
}

func runRank(cmd *cobra.Command, a *app, o *rankOptions) error {
	if err := validation.NewConfigValidator("rank").
		LeftOpenRangeFloat("top", o.top, 0, 100).
		OneOf("format", o.format, prioritize.Formats).
		Validate(); err != nil {
		return err
	}

	seeds, err := collectSeeds(o.seeds, o.seedsFile)
	if err != nil {
		return err
	}
	if err := validation.ValidateSeeds(seeds); err != nil {
		return err
	}

	full, err := tabular.ReadEdgeListFile(o.edges)
	if err != nil {
		return err
	}

	snap, err := matrixio.Open(o.probabilities)
	if err != nil {
		return err
	}
	defer snap.Close()

	g, err := snapshotGraph(full, snap.NodeIDs())
	if err != nil {
		return err
	}
	p, err := snap.Dense()
	if err != nil {
		return err
	}

	table, err := prioritize.Rank(g, p, seeds, o.top)
	if err != nil {
		return err
	}
	a.logger.Info("ranked from snapshot",
		logging.Path(o.probabilities),
		logging.Nodes(g.Order()),
		logging.Count(table.Len()),
	)
	return writeTable(cmd, o.output, table, o.format)
}

// snapshotGraph returns the nodes of a snapshot, in snapshot order, with the
// gene symbols of full. The snapshot may cover a neighbourhood of full.
func snapshotGraph(full *network.Graph, ids []string) (*network.Graph, error) {
	nodes := make([]network.Node, len(ids))
	for i, id := range ids {
		pos, ok := full.Index().Position(id)
		if !ok {
			return nil, validation.NewInputError("probabilities", "snapshot node %q is not in the interaction table", id)
		}
		nodes[i] = full.Node(pos)
	}
	return network.NewGraph(nodes, nil)
}
