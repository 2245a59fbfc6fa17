package network

import (
	"fmt"

	"github.com/bioc/wppi/pkg/validation"
)

// NodeIndex is the explicit protein ID to matrix position assignment.
// It is computed once per Graph and never mutated.
type NodeIndex struct {
	ids []string
	pos map[string]int
}

// NewNodeIndex assigns position i to ids[i]. Duplicate IDs are rejected.
func NewNodeIndex(ids []string) (*NodeIndex, error) {
	pos := make(map[string]int, len(ids))
	for i, id := range ids {
		if prev, dup := pos[id]; dup {
			return nil, validation.NewInputError("nodes", "protein %q appears at positions %d and %d", id, prev, i)
		}
		pos[id] = i
	}
	return &NodeIndex{ids: append([]string(nil), ids...), pos: pos}, nil
}

// Len returns the matrix dimension.
func (x *NodeIndex) Len() int { return len(x.ids) }

// ID returns the protein ID at position i.
func (x *NodeIndex) ID(i int) string { return x.ids[i] }

// IDs returns a copy of the ordered protein IDs.
func (x *NodeIndex) IDs() []string { return append([]string(nil), x.ids...) }

// Position returns the matrix position of id.
func (x *NodeIndex) Position(id string) (int, bool) {
	i, ok := x.pos[id]
	return i, ok
}

// Matches returns an error unless ids lists the same proteins in the same order.
func (x *NodeIndex) Matches(ids []string) error {
	if len(ids) != len(x.ids) {
		return validation.NewInputError("nodes", "expected %d nodes, got %d", len(x.ids), len(ids))
	}
	for i, id := range ids {
		if x.ids[i] != id {
			return &validation.InputError{
				Field:  "nodes",
				Reason: "node order differs",
				Cause:  fmt.Errorf("position %d: want %q, got %q", i, x.ids[i], id),
			}
		}
	}
	return nil
}
