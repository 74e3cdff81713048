// Package formatter renders participant previews and run reports as aligned text tables.
package formatter

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

const minColumnWidth = 3

// FormatMarkdown realigns every pipe table in content by display width.
// Other lines are left untouched.
func FormatMarkdown(content string) string {
	lines := strings.Split(content, "\n")
	out := make([]string, 0, len(lines))

	var tableBuffer []string

	flush := func() {
		if len(tableBuffer) > 0 {
			out = append(out, processTable(tableBuffer)...)
			tableBuffer = nil
		}
	}

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "|") && strings.HasSuffix(trimmed, "|") {
			tableBuffer = append(tableBuffer, line)
			continue
		}

		flush()

		out = append(out, line)
	}

	flush()

	return strings.Join(out, "\n")
}

// processTable realigns one block of pipe-delimited lines.
func processTable(lines []string) []string {
	// A header needs at least a separator line below it.
	if len(lines) < 2 {
		return lines
	}

	cells := make([][]string, len(lines))
	for i, line := range lines {
		cells[i] = splitRow(line)
	}

	separator := -1
	if isSeparatorRow(cells[1]) {
		separator = 1
	}

	return alignRows(cells, separator)
}

// splitRow splits a table line on unescaped pipes. An escaped \| stays in
// its cell.
func splitRow(line string) []string {
	var (
		parts []string
		cell  strings.Builder
	)

	for i := 0; i < len(line); i++ {
		switch {
		case line[i] == '\\' && i+1 < len(line) && line[i+1] == '|':
			cell.WriteString(`\|`)
			i++
		case line[i] == '|':
			parts = append(parts, cell.String())
			cell.Reset()
		default:
			cell.WriteByte(line[i])
		}
	}

	parts = append(parts, cell.String())

	if len(parts) > 0 && strings.TrimSpace(parts[0]) == "" {
		parts = parts[1:]
	}

	if len(parts) > 0 && strings.TrimSpace(parts[len(parts)-1]) == "" {
		parts = parts[:len(parts)-1]
	}

	cells := make([]string, len(parts))
	for i, p := range parts {
		cells[i] = strings.TrimSpace(p)
	}

	return cells
}

func isSeparatorRow(cells []string) bool {
	for _, cell := range cells {
		if strings.Trim(cell, "-: ") != "" {
			return false
		}
	}

	return true
}

// alignRows pads every cell to its column's display width. The row at index
// separator, if any, is redrawn as dashes.
func alignRows(rows [][]string, separator int) []string {
	colCount := 0
	for _, row := range rows {
		colCount = max(colCount, len(row))
	}

	widths := make([]int, colCount)
	for i := range widths {
		widths[i] = minColumnWidth
	}

	for r, row := range rows {
		if r == separator {
			continue
		}

		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}

	out := make([]string, len(rows))

	for r, row := range rows {
		var sb strings.Builder

		sb.WriteString("|")

		for c := 0; c < colCount; c++ {
			sb.WriteString(" ")

			if r == separator {
				sb.WriteString(strings.Repeat("-", widths[c]))
			} else {
				cell := ""
				if c < len(row) {
					cell = row[c]
				}

				sb.WriteString(runewidth.FillRight(cell, widths[c]))
			}

			sb.WriteString(" |")
		}

		out[r] = sb.String()
	}

	return out
}
