package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bioc/wppi/pkg/config"
	"github.com/bioc/wppi/pkg/metrics"
	"github.com/bioc/wppi/pkg/network"
	"github.com/bioc/wppi/pkg/ontology"
	"github.com/bioc/wppi/pkg/rwr"
	"github.com/bioc/wppi/pkg/validation"
)

// p53Graph is a small p53 interaction network: a 5-cycle with two chords.
func p53Graph(t *testing.T) *network.Graph {
	t.Helper()
	nodes := []network.Node{
		{ProteinID: "P04637", GeneSymbol: "TP53"},
		{ProteinID: "Q00987", GeneSymbol: "MDM2"},
		{ProteinID: "P38936", GeneSymbol: "CDKN1A"},
		{ProteinID: "Q13315", GeneSymbol: "ATM"},
		{ProteinID: "O96017", GeneSymbol: "CHEK2"},
	}
	edges := []network.Edge{
		{Source: 0, Target: 1}, {Source: 1, Target: 2}, {Source: 2, Target: 3},
		{Source: 3, Target: 4}, {Source: 4, Target: 0},
		{Source: 0, Target: 2}, {Source: 3, Target: 0},
	}
	g, err := network.NewGraph(nodes, edges)
	require.NoError(t, err)
	return g
}

func p53Input(t *testing.T) Input {
	return Input{
		Graph: p53Graph(t),
		GO: []ontology.Annotation{
			{TermID: "GO:0006977", GeneSymbol: "TP53"},
			{TermID: "GO:0006977", GeneSymbol: "CDKN1A"},
			{TermID: "GO:0000077", GeneSymbol: "ATM"},
			{TermID: "GO:0000077", GeneSymbol: "CHEK2"},
			{TermID: "GO:0000077", GeneSymbol: "TP53"},
			{TermID: "GO:0042981", GeneSymbol: "BCL2"},
		},
		HPO: []ontology.Annotation{
			{TermID: "HP:0002664", GeneSymbol: "TP53"},
			{TermID: "HP:0002664", GeneSymbol: "CHEK2"},
		},
		Seeds: []string{"TP53"},
	}
}

func TestRun_RanksAllCandidates(t *testing.T) {
	reg := metrics.NewRegistry()
	res, err := NewRunner(nil, reg).Run(context.Background(), p53Input(t), config.Default())
	require.NoError(t, err)
	require.Nil(t, res.Warning)

	_, err = uuid.Parse(res.RunID)
	assert.NoError(t, err)

	assert.Equal(t, 5, res.Diagnostics.Nodes)
	assert.Equal(t, 7, res.Diagnostics.Edges)
	assert.Equal(t, 1, res.Diagnostics.SeedNodes)
	assert.Equal(t, 4, res.Diagnostics.GOGenes, "BCL2 is filtered out")
	assert.Equal(t, 2, res.Diagnostics.HPOGenes)
	assert.False(t, res.Diagnostics.Subgraph)

	require.NotNil(t, res.Table)
	require.Equal(t, 4, res.Table.Len())
	for i, g := range res.Table.Genes {
		assert.NotEqual(t, "TP53", g.GeneSymbol)
		assert.GreaterOrEqual(t, g.Score, 0.0)
		if i > 0 {
			assert.GreaterOrEqual(t, res.Table.Genes[i-1].Score, g.Score)
		}
	}

	r, c := res.P.Dims()
	assert.Equal(t, 5, r)
	assert.Equal(t, 5, c)
	assert.Equal(t, res.Graph.Index().IDs(), res.Index.IDs())

	assert.Equal(t, 1.0, testutil.ToFloat64(reg.RunsTotal.WithLabelValues(metrics.StatusSuccess)))
	assert.Equal(t, 4.0, testutil.ToFloat64(reg.RankedCandidates))
}

func TestRun_Deterministic(t *testing.T) {
	cfg := config.Default()
	cfg.Workers = 4

	a, err := NewRunner(nil, nil).Run(context.Background(), p53Input(t), cfg)
	require.NoError(t, err)
	b, err := NewRunner(nil, nil).Run(context.Background(), p53Input(t), cfg)
	require.NoError(t, err)

	assert.Equal(t, a.Table.Genes, b.Table.Genes)
	assert.NotEqual(t, a.RunID, b.RunID)
}

func TestRun_TopPercentage(t *testing.T) {
	cfg := config.Default()
	cfg.TopPercentage = 25

	res, err := NewRunner(nil, nil).Run(context.Background(), p53Input(t), cfg)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Table.Len())
	assert.Equal(t, 4, res.Table.Candidates)
}

func TestRun_Neighbourhood(t *testing.T) {
	nodes := []network.Node{
		{ProteinID: "PA", GeneSymbol: "A"},
		{ProteinID: "PB", GeneSymbol: "B"},
		{ProteinID: "PC", GeneSymbol: "C"},
		{ProteinID: "PD", GeneSymbol: "D"},
	}
	edges := []network.Edge{{Source: 0, Target: 1}, {Source: 1, Target: 2}, {Source: 2, Target: 3}}
	g, err := network.NewGraph(nodes, edges)
	require.NoError(t, err)

	cfg := config.Default()
	cfg.Order = 1

	res, err := NewRunner(nil, nil).Run(context.Background(), Input{Graph: g, Seeds: []string{"A"}}, cfg)
	require.NoError(t, err)
	assert.True(t, res.Diagnostics.Subgraph)
	assert.Equal(t, []string{"PA", "PB"}, res.Index.IDs())
	require.Equal(t, 1, res.Table.Len())
	assert.Equal(t, "B", res.Table.Genes[0].GeneSymbol)
}

func TestRun_NotConvergedIsWarning(t *testing.T) {
	reg := metrics.NewRegistry()
	cfg := config.Default()
	cfg.MaxIterations = 1

	res, err := NewRunner(nil, reg).Run(context.Background(), p53Input(t), cfg)
	require.NoError(t, err)
	require.Error(t, res.Warning)
	assert.True(t, errors.Is(res.Warning, rwr.ErrNotConverged))
	assert.NotEmpty(t, res.Diagnostics.Unconverged)
	assert.Equal(t, 4, res.Table.Len())
	assert.Equal(t, 1.0, testutil.ToFloat64(reg.RunsTotal.WithLabelValues(metrics.StatusWarning)))
}

func TestRun_InputErrors(t *testing.T) {
	reg := metrics.NewRegistry()
	runner := NewRunner(nil, reg)

	badCfg := config.Default()
	badCfg.RestartProb = 1.5

	noSeedCfg := config.Default()
	noSeedCfg.Order = 2

	tests := []struct {
		name string
		in   Input
		cfg  config.Config
	}{
		{"no seeds", Input{Graph: p53Graph(t)}, config.Default()},
		{"blank seed", Input{Graph: p53Graph(t), Seeds: []string{"TP53", " "}}, config.Default()},
		{"no graph", Input{Seeds: []string{"TP53"}}, config.Default()},
		{"bad config", Input{Graph: p53Graph(t), Seeds: []string{"TP53"}}, badCfg},
		{"seed outside network with order", Input{Graph: p53Graph(t), Seeds: []string{"BRCA1"}}, noSeedCfg},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := runner.Run(context.Background(), tt.in, tt.cfg)
			assert.Nil(t, res)
			assert.True(t, validation.IsInputError(err), "got %v", err)
		})
	}
	assert.Equal(t, float64(len(tests)), testutil.ToFloat64(reg.RunsTotal.WithLabelValues(metrics.StatusError)))
}

func TestRun_AnnotationsDisabled(t *testing.T) {
	cfg := config.Default()
	cfg.UseGO = false
	cfg.UseHPO = false

	res, err := NewRunner(nil, nil).Run(context.Background(), p53Input(t), cfg)
	require.NoError(t, err)
	assert.Zero(t, res.Diagnostics.GOGenes)
	assert.Zero(t, res.Diagnostics.HPOGenes)
	assert.Equal(t, 4, res.Table.Len())
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewRunner(nil, nil).Run(ctx, p53Input(t), config.Default())
	assert.ErrorIs(t, err, context.Canceled)
}
