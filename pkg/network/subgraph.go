package network

import (
	"github.com/bioc/wppi/pkg/validation"
)

// Neighborhood returns the subgraph induced by every node within order
// undirected hops of a node whose gene symbol is in seeds.
// A non-positive order, or a neighbourhood with no nodes, is an input error.
func Neighborhood(g *Graph, seeds []string, order int) (*Graph, error) {
	if order <= 0 {
		return nil, validation.NewInputError("order", "neighbourhood order must be positive, got %d", order)
	}

	neighbors := NeighborSets(g)
	keep := make([]bool, g.Order())
	frontier := g.NodesWithSymbols(seeds)
	for _, i := range frontier {
		keep[i] = true
	}

	// Breadth-first expansion, one hop per round
	for hop := 0; hop < order && len(frontier) > 0; hop++ {
		var next []int
		for _, i := range frontier {
			for _, j := range neighbors[i] {
				if !keep[j] {
					keep[j] = true
					next = append(next, j)
				}
			}
		}
		frontier = next
	}

	sub := g.Induced(keep)
	if sub.Order() == 0 {
		return nil, validation.NewInputError("graph", "no node within %d hops of the seed genes", order)
	}
	return sub, nil
}
