package network

import (
	"sort"
)

// Adjacency is the binary (0/1) adjacency of a Graph in sparse form.
// Out[i] lists, ascending and without duplicates, every j with A[i,j] = 1.
// Self loops never set a diagonal entry.
type Adjacency struct {
	Out [][]int
}

// BinaryAdjacency collapses parallel edges and drops self loops.
// A[i,j] = 1 iff an edge i -> j exists; with symmetric set, an edge in
// either direction sets both A[i,j] and A[j,i].
func BinaryAdjacency(g *Graph, symmetric bool) *Adjacency {
	n := g.Order()
	sets := make([]map[int]struct{}, n)
	add := func(i, j int) {
		if sets[i] == nil {
			sets[i] = make(map[int]struct{})
		}
		sets[i][j] = struct{}{}
	}

	for _, e := range g.edges {
		if e.Source == e.Target {
			continue
		}
		add(e.Source, e.Target)
		if symmetric {
			add(e.Target, e.Source)
		}
	}

	return &Adjacency{Out: sortedSets(sets)}
}

// Has reports whether A[i,j] = 1.
func (a *Adjacency) Has(i, j int) bool {
	row := a.Out[i]
	k := sort.SearchInts(row, j)
	return k < len(row) && row[k] == j
}

// Pairs returns the number of non-zero entries.
func (a *Adjacency) Pairs() int {
	total := 0
	for _, row := range a.Out {
		total += len(row)
	}
	return total
}

// NeighborSets returns the undirected neighbour set of every node: the union
// of in- and out-neighbours, excluding the node itself, sorted ascending.
func NeighborSets(g *Graph) [][]int {
	n := g.Order()
	sets := make([]map[int]struct{}, n)
	add := func(i, j int) {
		if sets[i] == nil {
			sets[i] = make(map[int]struct{})
		}
		sets[i][j] = struct{}{}
	}

	for _, e := range g.edges {
		if e.Source == e.Target {
			continue
		}
		add(e.Source, e.Target)
		add(e.Target, e.Source)
	}

	return sortedSets(sets)
}

func sortedSets(sets []map[int]struct{}) [][]int {
	out := make([][]int, len(sets))
	for i, set := range sets {
		if len(set) == 0 {
			continue
		}
		row := make([]int, 0, len(set))
		for j := range set {
			row = append(row, j)
		}
		sort.Ints(row)
		out[i] = row
	}
	return out
}
