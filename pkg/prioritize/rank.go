// Package prioritize turns a random-walk probability matrix into a ranked
// table of candidate genes.
package prioritize

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/bioc/wppi/pkg/network"
	"github.com/bioc/wppi/pkg/validation"
)

// RankedGene is one row of the ranked table.
type RankedGene struct {
	GeneSymbol string  `json:"gene_symbol"`
	ProteinID  string  `json:"protein_id"`
	Score      float64 `json:"score"`
	Node       int     `json:"-"`
}

// Table is the ranked candidate list, best first.
type Table struct {
	Genes         []RankedGene `json:"genes"`
	Candidates    int          `json:"candidates"`
	SeedNodes     int          `json:"seed_nodes"`
	TopPercentage float64      `json:"top_percentage"`
}

// Len returns the number of ranked rows.
func (t *Table) Len() int { return len(t.Genes) }

// Rank scores every non-seed node c by Σ_s P[c][s] over the seed nodes s
// and keeps the best ceil(candidates·topPct/100). Nodes are seeds when
// their gene symbol is in seeds; unknown seed symbols are ignored. Ties keep
// graph node order.
func Rank(g *network.Graph, p mat.Matrix, seeds []string, topPct float64) (*Table, error) {
	if g == nil || p == nil {
		return nil, validation.NewInputError("rank", "graph and probability matrix are required")
	}
	if err := validation.NewConfigValidator("rank").
		LeftOpenRangeFloat("top_percentage", topPct, 0, 100).
		Validate(); err != nil {
		return nil, err
	}
	n := g.Order()
	if r, c := p.Dims(); r != n || c != n {
		return nil, validation.NewInputError("probabilities", "matrix is %dx%d, graph has %d nodes", r, c, n)
	}

	seedNodes := g.NodesWithSymbols(seeds)
	isSeed := make([]bool, n)
	for _, s := range seedNodes {
		isSeed[s] = true
	}

	genes := make([]RankedGene, 0, n-len(seedNodes))
	for c := 0; c < n; c++ {
		if isSeed[c] {
			continue
		}
		score := 0.0
		for _, s := range seedNodes {
			score += p.At(c, s)
		}
		node := g.Node(c)
		genes = append(genes, RankedGene{
			GeneSymbol: node.GeneSymbol,
			ProteinID:  node.ProteinID,
			Score:      score,
			Node:       c,
		})
	}

	sort.SliceStable(genes, func(a, b int) bool {
		return genes[a].Score > genes[b].Score
	})

	candidates := len(genes)
	k := TopCount(candidates, topPct)
	return &Table{
		Genes:         genes[:k:k],
		Candidates:    candidates,
		SeedNodes:     len(seedNodes),
		TopPercentage: topPct,
	}, nil
}

// TopCount returns ceil(candidates·pct/100), clamped to [1, candidates] when
// there is at least one candidate.
func TopCount(candidates int, pct float64) int {
	if candidates <= 0 {
		return 0
	}
	// Shave rounding noise so e.g. 1.0000000000000002 does not become 2.
	v := float64(candidates) * pct / 100
	k := int(math.Ceil(v * (1 - 1e-12)))
	if k < 1 {
		k = 1
	}
	if k > candidates {
		k = candidates
	}
	return k
}
