package prioritize

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Output formats
const (
	FormatTSV   = "tsv"
	FormatJSON  = "json"
	FormatTable = "table"
)

// Formats lists the accepted output formats.
var Formats = []string{FormatTSV, FormatJSON, FormatTable}

var header = []string{"gene_symbol", "protein_id", "score"}

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00FFFF")).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().Padding(0, 1)

	scoreStyle = cellStyle.
			Foreground(lipgloss.Color("#00FF00")).
			Align(lipgloss.Right)
)

// Write renders t to w in the named format.
func Write(w io.Writer, t *Table, format string) error {
	switch format {
	case FormatTSV, "":
		return WriteTSV(w, t)
	case FormatJSON:
		return WriteJSON(w, t)
	case FormatTable:
		_, err := fmt.Fprintln(w, Render(t))
		return err
	default:
		return fmt.Errorf("unknown output format %q (want one of %v)", format, Formats)
	}
}

// WriteTSV writes a header line and one tab-separated row per gene.
func WriteTSV(w io.Writer, t *Table) error {
	cw := csv.NewWriter(w)
	cw.Comma = '\t'
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, g := range t.Genes {
		if err := cw.Write(row(g)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteJSON writes the table, including its summary fields, as indented JSON.
func WriteJSON(w io.Writer, t *Table) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(t)
}

// Render returns the table drawn for a terminal.
func Render(t *Table) string {
	rows := make([][]string, len(t.Genes))
	for i, g := range t.Genes {
		rows[i] = row(g)
	}

	tbl := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))).
		Headers(header...).
		Rows(rows...).
		StyleFunc(func(r, c int) lipgloss.Style {
			switch {
			case r == table.HeaderRow:
				return headerStyle
			case c == 2:
				return scoreStyle
			default:
				return cellStyle
			}
		})

	summary := fmt.Sprintf("%d of %d candidates (top %g%%), %d seed nodes",
		len(t.Genes), t.Candidates, t.TopPercentage, t.SeedNodes)
	return lipgloss.JoinVertical(lipgloss.Left, tbl.String(), summary)
}

func row(g RankedGene) []string {
	return []string{g.GeneSymbol, g.ProteinID, strconv.FormatFloat(g.Score, 'g', -1, 64)}
}
