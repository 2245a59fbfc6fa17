package ontology

// FilterToSymbols keeps the rows whose gene symbol is in symbols, preserving
// row order. Used to restrict an annotation table to the genes of a network
// before indexing, so TotalGenes counts network genes only.
func FilterToSymbols(rows []Annotation, symbols map[string]struct{}) []Annotation {
	out := make([]Annotation, 0, len(rows))
	for _, r := range rows {
		if _, ok := symbols[r.GeneSymbol]; ok {
			out = append(out, r)
		}
	}
	return out
}
