// Package network holds the protein interaction graph consumed by the
// weighting, diffusion and ranking stages, together with the adjacency
// and neighbourhood helpers derived from it.
package network

import (
	"github.com/bioc/wppi/pkg/validation"
)

// Node is a protein in the interaction graph.
type Node struct {
	ProteinID  string // Unique accession (e.g. UniProt)
	GeneSymbol string // Not unique: isoforms share a symbol
}

// Edge is a directed interaction between two node positions.
type Edge struct {
	Source int
	Target int
}

// Graph is a directed multigraph with a fixed node order.
// Node positions index every matrix derived from the graph.
type Graph struct {
	nodes []Node
	edges []Edge
	index *NodeIndex
}

// NewGraph validates nodes and edges and freezes the node order.
// Protein IDs must be non-empty and unique; edge endpoints must be valid
// node positions. Self loops and parallel edges are accepted.
func NewGraph(nodes []Node, edges []Edge) (*Graph, error) {
	ids := make([]string, len(nodes))
	for i, n := range nodes {
		if n.ProteinID == "" {
			return nil, validation.NewInputError("nodes", "node %d has an empty protein identifier", i)
		}
		ids[i] = n.ProteinID
	}

	index, err := NewNodeIndex(ids)
	if err != nil {
		return nil, err
	}

	for k, e := range edges {
		if e.Source < 0 || e.Source >= len(nodes) || e.Target < 0 || e.Target >= len(nodes) {
			return nil, validation.NewInputError("edges", "edge %d (%d -> %d) references a node outside [0, %d)", k, e.Source, e.Target, len(nodes))
		}
	}

	g := &Graph{
		nodes: append([]Node(nil), nodes...),
		edges: append([]Edge(nil), edges...),
		index: index,
	}
	return g, nil
}

// Order returns the number of nodes.
func (g *Graph) Order() int { return len(g.nodes) }

// Size returns the number of edges, counting parallel edges.
func (g *Graph) Size() int { return len(g.edges) }

// Node returns the node at position i.
func (g *Graph) Node(i int) Node { return g.nodes[i] }

// Nodes returns a copy of the ordered node list.
func (g *Graph) Nodes() []Node { return append([]Node(nil), g.nodes...) }

// Edges returns a copy of the edge list.
func (g *Graph) Edges() []Edge { return append([]Edge(nil), g.edges...) }

// Index returns the immutable protein ID to position assignment.
func (g *Graph) Index() *NodeIndex { return g.index }

// Symbols returns the set of gene symbols present in the graph.
func (g *Graph) Symbols() map[string]struct{} {
	set := make(map[string]struct{}, len(g.nodes))
	for _, n := range g.nodes {
		set[n.GeneSymbol] = struct{}{}
	}
	return set
}

// NodesWithSymbols returns, in node order, the positions whose gene symbol
// is in symbols. Symbols that match no node are ignored.
func (g *Graph) NodesWithSymbols(symbols []string) []int {
	want := make(map[string]struct{}, len(symbols))
	for _, s := range symbols {
		want[s] = struct{}{}
	}
	var out []int
	for i, n := range g.nodes {
		if _, ok := want[n.GeneSymbol]; ok {
			out = append(out, i)
		}
	}
	return out
}

// Induced returns the subgraph induced by keep (node positions).
// Kept nodes retain their relative order; edges are renumbered.
func (g *Graph) Induced(keep []bool) *Graph {
	remap := make([]int, len(g.nodes))
	var nodes []Node
	for i, n := range g.nodes {
		if keep[i] {
			remap[i] = len(nodes)
			nodes = append(nodes, n)
		} else {
			remap[i] = -1
		}
	}

	var edges []Edge
	for _, e := range g.edges {
		if keep[e.Source] && keep[e.Target] {
			edges = append(edges, Edge{Source: remap[e.Source], Target: remap[e.Target]})
		}
	}

	ids := make([]string, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ProteinID
	}
	// IDs were unique in the parent graph, so the index cannot fail.
	index, _ := NewNodeIndex(ids)
	return &Graph{nodes: nodes, edges: edges, index: index}
}
