package tabular

import (
	"io"

	"github.com/bioc/wppi/pkg/network"
	"github.com/bioc/wppi/pkg/validation"
)

// Edge list column names, following OmniPath interaction tables.
const (
	ColumnSource       = "source"
	ColumnTarget       = "target"
	ColumnSourceSymbol = "source_genesymbol"
	ColumnTargetSymbol = "target_genesymbol"
)

// ReadEdgeList builds a Graph from an interaction table. Nodes are numbered
// in first-seen order over (source, target) of each row. When a protein
// carries different symbols on different rows the first one wins; a missing
// symbol column or an empty value falls back to the protein ID.
func ReadEdgeList(r io.Reader) (*network.Graph, error) {
	header, records, err := readTable(r)
	if err != nil {
		return nil, err
	}

	srcCol := columnIndex(header, ColumnSource)
	if srcCol < 0 {
		return nil, validation.NewInputError(ColumnSource, "required column is absent (header %v)", header)
	}
	tgtCol := columnIndex(header, ColumnTarget)
	if tgtCol < 0 {
		return nil, validation.NewInputError(ColumnTarget, "required column is absent (header %v)", header)
	}
	srcSymCol := columnIndex(header, ColumnSourceSymbol)
	tgtSymCol := columnIndex(header, ColumnTargetSymbol)

	var (
		nodes []network.Node
		edges []network.Edge
		pos   = make(map[string]int)
	)
	node := func(id, symbol string) int {
		if i, ok := pos[id]; ok {
			if nodes[i].GeneSymbol == id && symbol != "" {
				nodes[i].GeneSymbol = symbol
			}
			return i
		}
		if symbol == "" {
			symbol = id
		}
		pos[id] = len(nodes)
		nodes = append(nodes, network.Node{ProteinID: id, GeneSymbol: symbol})
		return len(nodes) - 1
	}

	for i, rec := range records {
		src, tgt := field(rec, srcCol), field(rec, tgtCol)
		if src == "" || tgt == "" {
			return nil, validation.NewInputError("row", "record %d has an empty source or target", i+1)
		}
		s := node(src, field(rec, srcSymCol))
		t := node(tgt, field(rec, tgtSymCol))
		edges = append(edges, network.Edge{Source: s, Target: t})
	}

	if len(nodes) == 0 {
		return nil, validation.NewInputError("edges", "interaction table has no rows")
	}
	return network.NewGraph(nodes, edges)
}

// ReadEdgeListFile is ReadEdgeList on the file at path.
func ReadEdgeListFile(path string) (*network.Graph, error) {
	var g *network.Graph
	err := openFile(path, func(r io.Reader) error {
		var err error
		g, err = ReadEdgeList(r)
		return err
	})
	return g, err
}
