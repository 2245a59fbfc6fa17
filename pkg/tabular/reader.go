// Package tabular loads interaction networks, annotation tables and seed
// lists from delimited text files.
package tabular

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bioc/wppi/pkg/validation"
)

// readTable reads a header and the remaining records. The delimiter is a tab
// if the header line contains one, otherwise a comma. Lines starting with
// '#' are skipped.
func readTable(r io.Reader) ([]string, [][]string, error) {
	br := bufio.NewReader(r)

	var first string
	for {
		line, err := br.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, nil, err
		}
		trimmed := strings.TrimSpace(line)
		if trimmed != "" && !strings.HasPrefix(trimmed, "#") {
			first = line
			break
		}
		if errors.Is(err, io.EOF) {
			return nil, nil, validation.NewInputError("header", "table is empty")
		}
	}

	cr := csv.NewReader(io.MultiReader(strings.NewReader(first), br))
	cr.Comma = ','
	if strings.Contains(first, "\t") {
		cr.Comma = '\t'
	}
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, nil, validation.NewInputError("table", "malformed record: %v", err)
	}

	header := records[0]
	for i := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff"))
	}
	return header, records[1:], nil
}

// columnIndex returns the position of name in header, case-insensitively.
func columnIndex(header []string, name string) int {
	for i, h := range header {
		if strings.EqualFold(h, name) {
			return i
		}
	}
	return -1
}

func field(rec []string, col int) string {
	if col < 0 || col >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[col])
}

func openFile(path string, read func(io.Reader) error) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := read(f); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}
