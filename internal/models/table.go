package models

import (
	"strconv"
	"strings"
)

// Table is a schema-less sheet of text cells addressed by column name.
type Table struct {
	Headers []string
	Columns map[string][]string
	rows    int
}

// NewTable builds a table from a header row and data records.
//
// Header names are trimmed. Blank headers become "Unnamed: <index>" and
// repeated headers get a ".1", ".2" suffix so every column name is unique.
// Short records are padded and fully blank records are dropped.
func NewTable(header []string, records [][]string) *Table {
	t := &Table{
		Headers: uniqueHeaders(header),
		Columns: make(map[string][]string, len(header)),
	}

	for _, name := range t.Headers {
		t.Columns[name] = make([]string, 0, len(records))
	}

	for _, record := range records {
		if isBlankRecord(record) {
			continue
		}

		for i, name := range t.Headers {
			value := ""
			if i < len(record) {
				value = record[i]
			}

			t.Columns[name] = append(t.Columns[name], value)
		}

		t.rows++
	}

	return t
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return t.rows
}

// HasColumn reports whether the table has a column with exactly this name.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.Columns[name]
	return ok
}

// Column returns the values of a column, or nil when it does not exist.
func (t *Table) Column(name string) []string {
	return t.Columns[name]
}

// Value returns the cell at row for column, or "" when either is out of range.
func (t *Table) Value(row int, column string) string {
	values, ok := t.Columns[column]
	if !ok || row < 0 || row >= len(values) {
		return ""
	}

	return values[row]
}

// Records returns the data rows in header order.
func (t *Table) Records() [][]string {
	out := make([][]string, t.rows)
	for r := 0; r < t.rows; r++ {
		row := make([]string, len(t.Headers))
		for c, name := range t.Headers {
			row[c] = t.Columns[name][r]
		}

		out[r] = row
	}

	return out
}

func uniqueHeaders(header []string) []string {
	out := make([]string, len(header))
	seen := make(map[string]bool, len(header))

	for i, raw := range header {
		name := strings.TrimSpace(raw)
		if name == "" {
			name = "Unnamed: " + strconv.Itoa(i)
		}

		candidate := name
		for n := 1; seen[candidate]; n++ {
			candidate = name + "." + strconv.Itoa(n)
		}

		seen[candidate] = true
		out[i] = candidate
	}

	return out
}

func isBlankRecord(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}

	return true
}
