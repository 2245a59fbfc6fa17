// Package ontology indexes GO/HPO annotation tables and scores the
// functional similarity of two genes from their shared terms.
package ontology

// Annotation is one (term, gene) row of an ontology annotation table.
type Annotation struct {
	TermID     string
	GeneSymbol string
}

// AnnotationIndex is the read-only lookup structure built from one
// annotation table.
//
// TermSize[t] equals the number of distinct genes whose GeneTerms set
// contains t, and TotalGenes is the number of distinct gene symbols.
type AnnotationIndex struct {
	TermSize   map[string]int
	GeneTerms  map[string]map[string]struct{}
	TotalGenes int
}

// NewAnnotationIndex builds an index in a single pass. Repeated
// (term, gene) rows count once; row order does not affect the result.
func NewAnnotationIndex(rows []Annotation) *AnnotationIndex {
	idx := &AnnotationIndex{
		TermSize:  make(map[string]int),
		GeneTerms: make(map[string]map[string]struct{}),
	}

	for _, r := range rows {
		terms, ok := idx.GeneTerms[r.GeneSymbol]
		if !ok {
			terms = make(map[string]struct{})
			idx.GeneTerms[r.GeneSymbol] = terms
		}
		if _, seen := terms[r.TermID]; seen {
			continue
		}
		terms[r.TermID] = struct{}{}
		idx.TermSize[r.TermID]++
	}
	idx.TotalGenes = len(idx.GeneTerms)

	return idx
}

// Terms returns the number of distinct terms.
func (idx *AnnotationIndex) Terms() int {
	return len(idx.TermSize)
}

// Has reports whether gene carries at least one annotation.
func (idx *AnnotationIndex) Has(gene string) bool {
	_, ok := idx.GeneTerms[gene]
	return ok
}
