package formatter

import (
	"strconv"
	"strings"

	"pesertagen/pkg/utils"
)

var helper = utils.NewStringHelper()

// TableOptions controls Table rendering.
type TableOptions struct {
	// MaxCellWidth truncates longer cells. Zero keeps cells whole.
	MaxCellWidth int
	// MaxRows limits the body rows shown. Zero shows all rows.
	MaxRows int
}

// Table renders headers and rows as an aligned pipe table. Pipes inside
// cells are escaped as \| so they cannot break the layout.
func Table(headers []string, rows [][]string, opts TableOptions) string {
	shown := rows
	if opts.MaxRows > 0 && len(shown) > opts.MaxRows {
		shown = shown[:opts.MaxRows]
	}

	cells := make([][]string, 0, len(shown)+2)
	cells = append(cells, cleanRow(headers, opts), nil)

	for _, row := range shown {
		cells = append(cells, cleanRow(row, opts))
	}

	lines := alignRows(cells, 1)

	if hidden := len(rows) - len(shown); hidden > 0 {
		lines = append(lines, "… "+strconv.Itoa(hidden)+" more rows")
	}

	return strings.Join(lines, "\n")
}

// CountRow is one line of a count summary.
type CountRow struct {
	Label string
	Count int
}

// Counts renders a two-column summary such as rows per test type.
func Counts(labelHeader, countHeader string, counts []CountRow) string {
	rows := make([][]string, len(counts))
	for i, c := range counts {
		rows[i] = []string{c.Label, strconv.Itoa(c.Count)}
	}

	return Table([]string{labelHeader, countHeader}, rows, TableOptions{})
}

func cleanRow(row []string, opts TableOptions) []string {
	out := make([]string, len(row))
	for i, cell := range row {
		cell = helper.TruncateString(helper.NormalizeWhitespace(cell), opts.MaxCellWidth)
		out[i] = strings.ReplaceAll(cell, "|", `\|`)
	}

	return out
}
