package ontology

import (
	"errors"
	"testing"

	"github.com/bioc/wppi/pkg/validation"
)

func TestNewAnnotationIndex(t *testing.T) {
	rows := []Annotation{
		{"GO:1", "TP53"},
		{"GO:1", "MDM2"},
		{"GO:2", "TP53"},
		{"GO:1", "TP53"}, // duplicate row counts once
	}
	idx := NewAnnotationIndex(rows)

	if idx.TotalGenes != 2 {
		t.Errorf("TotalGenes = %d, want 2", idx.TotalGenes)
	}
	if idx.TermSize["GO:1"] != 2 || idx.TermSize["GO:2"] != 1 {
		t.Errorf("TermSize = %v", idx.TermSize)
	}
	if len(idx.GeneTerms["TP53"]) != 2 {
		t.Errorf("GeneTerms[TP53] = %v, want 2 terms", idx.GeneTerms["TP53"])
	}
	if idx.Terms() != 2 {
		t.Errorf("Terms() = %d, want 2", idx.Terms())
	}
	if !idx.Has("MDM2") || idx.Has("BRCA1") {
		t.Error("Has() mismatch")
	}
}

func TestNewAnnotationIndex_OrderIndependent(t *testing.T) {
	rows := []Annotation{{"A", "g1"}, {"B", "g2"}, {"A", "g3"}, {"C", "g1"}}
	reversed := make([]Annotation, len(rows))
	for i := range rows {
		reversed[len(rows)-1-i] = rows[i]
	}

	a, b := NewAnnotationIndex(rows), NewAnnotationIndex(reversed)
	if a.TotalGenes != b.TotalGenes || len(a.TermSize) != len(b.TermSize) {
		t.Fatal("index content depends on row order")
	}
	for term, size := range a.TermSize {
		if b.TermSize[term] != size {
			t.Errorf("TermSize[%s] = %d vs %d", term, size, b.TermSize[term])
		}
	}
}

func TestFilterToSymbols(t *testing.T) {
	rows := []Annotation{{"A", "g1"}, {"B", "g2"}, {"C", "g3"}}
	got := FilterToSymbols(rows, map[string]struct{}{"g1": {}, "g3": {}})

	if len(got) != 2 || got[0].GeneSymbol != "g1" || got[1].GeneSymbol != "g3" {
		t.Errorf("FilterToSymbols = %v", got)
	}
}

func TestRowsFromTable(t *testing.T) {
	header := []string{"Gene_Symbol", "ID", "aspect"}
	records := [][]string{
		{"TP53", "GO:0006915", "P"},
		{" MDM2 ", "GO:0006915", "P"},
	}

	rows, err := RowsFromTable(header, records)
	if err != nil {
		t.Fatalf("RowsFromTable failed: %v", err)
	}
	if len(rows) != 2 || rows[1] != (Annotation{TermID: "GO:0006915", GeneSymbol: "MDM2"}) {
		t.Errorf("rows = %v", rows)
	}
}

func TestRowsFromTable_Errors(t *testing.T) {
	tests := []struct {
		name      string
		header    []string
		records   [][]string
		wantField string
	}{
		{"missing term column", []string{"gene_symbol"}, nil, ColumnTermID},
		{"missing gene column", []string{"term_id", "evidence"}, nil, ColumnGeneSymbol},
		{"empty term", []string{"term_id", "gene_symbol"}, [][]string{{"", "TP53"}}, ColumnTermID},
		{"empty gene", []string{"term_id", "gene_symbol"}, [][]string{{"HP:1", " "}}, ColumnGeneSymbol},
		{"short record", []string{"term_id", "gene_symbol"}, [][]string{{"HP:1"}}, "row"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := IndexFromTable(tt.header, tt.records)
			var inputErr *validation.InputError
			if !errors.As(err, &inputErr) {
				t.Fatalf("Expected InputError, got %v", err)
			}
			if inputErr.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", inputErr.Field, tt.wantField)
			}
		})
	}
}
