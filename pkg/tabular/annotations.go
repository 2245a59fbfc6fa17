package tabular

import (
	"bufio"
	"io"
	"strings"

	"github.com/bioc/wppi/pkg/ontology"
)

// ReadAnnotations reads an annotation table. Column resolution and value
// checks follow ontology.RowsFromTable.
func ReadAnnotations(r io.Reader) ([]ontology.Annotation, error) {
	header, records, err := readTable(r)
	if err != nil {
		return nil, err
	}
	return ontology.RowsFromTable(header, records)
}

// ReadAnnotationsFile is ReadAnnotations on the file at path.
func ReadAnnotationsFile(path string) ([]ontology.Annotation, error) {
	var rows []ontology.Annotation
	err := openFile(path, func(r io.Reader) error {
		var err error
		rows, err = ReadAnnotations(r)
		return err
	})
	return rows, err
}

// ReadSeeds reads gene symbols separated by newlines, commas or whitespace.
// Blank lines and lines starting with '#' are ignored.
func ReadSeeds(r io.Reader) ([]string, error) {
	var seeds []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		seeds = append(seeds, SplitSeeds(line)...)
	}
	return seeds, sc.Err()
}

// ReadSeedsFile is ReadSeeds on the file at path.
func ReadSeedsFile(path string) ([]string, error) {
	var seeds []string
	err := openFile(path, func(r io.Reader) error {
		var err error
		seeds, err = ReadSeeds(r)
		return err
	})
	return seeds, err
}

// SplitSeeds splits a comma or whitespace separated symbol list.
func SplitSeeds(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ';' || r == ' ' || r == '\t'
	})
}
