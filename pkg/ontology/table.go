package ontology

import (
	"strings"

	"github.com/bioc/wppi/pkg/validation"
)

// Canonical column names of an annotation table.
const (
	ColumnTermID     = "term_id"
	ColumnGeneSymbol = "gene_symbol"
)

var (
	termAliases = []string{ColumnTermID, "id", "go_id", "hpo_id", "term"}
	geneAliases = []string{ColumnGeneSymbol, "genesymbol", "gene", "symbol"}
)

// findColumn matches header names case-insensitively against aliases, in
// alias priority order.
func findColumn(header []string, aliases []string) int {
	for _, alias := range aliases {
		for i, h := range header {
			if strings.EqualFold(strings.TrimSpace(h), alias) {
				return i
			}
		}
	}
	return -1
}

// RowsFromTable resolves the term and gene columns of a generic table and
// returns its rows. A missing column or an empty mandatory value is an
// input error.
func RowsFromTable(header []string, records [][]string) ([]Annotation, error) {
	termCol := findColumn(header, termAliases)
	if termCol < 0 {
		return nil, validation.NewInputError(ColumnTermID, "required column is absent (header %v)", header)
	}
	geneCol := findColumn(header, geneAliases)
	if geneCol < 0 {
		return nil, validation.NewInputError(ColumnGeneSymbol, "required column is absent (header %v)", header)
	}

	rows := make([]Annotation, 0, len(records))
	for i, rec := range records {
		if termCol >= len(rec) || geneCol >= len(rec) {
			return nil, validation.NewInputError("row", "record %d has %d fields, need columns %d and %d", i+1, len(rec), termCol+1, geneCol+1)
		}
		term := strings.TrimSpace(rec[termCol])
		gene := strings.TrimSpace(rec[geneCol])
		if term == "" {
			return nil, validation.NewInputError(ColumnTermID, "record %d has an empty value", i+1)
		}
		if gene == "" {
			return nil, validation.NewInputError(ColumnGeneSymbol, "record %d has an empty value", i+1)
		}
		rows = append(rows, Annotation{TermID: term, GeneSymbol: gene})
	}
	return rows, nil
}

// IndexFromTable is RowsFromTable followed by NewAnnotationIndex.
func IndexFromTable(header []string, records [][]string) (*AnnotationIndex, error) {
	rows, err := RowsFromTable(header, records)
	if err != nil {
		return nil, err
	}
	return NewAnnotationIndex(rows), nil
}
