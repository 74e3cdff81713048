package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTable(t *testing.T) {
	table := NewTable(
		[]string{" NAMA ", "NO", ""},
		[][]string{
			{"Budi", "007", "x"},
			{"", " ", ""},
			{"Sari"},
		},
	)

	assert.Equal(t, []string{"NAMA", "NO", "Unnamed: 2"}, table.Headers)
	assert.Equal(t, 2, table.Len())
	assert.Equal(t, []string{"Budi", "Sari"}, table.Column("NAMA"))
	assert.Equal(t, []string{"007", ""}, table.Column("NO"))
	assert.Equal(t, "x", table.Value(0, "Unnamed: 2"))
}

func TestNewTable_DuplicateHeaders(t *testing.T) {
	table := NewTable([]string{"NAMA", "NAMA", "NAMA.1", "NAMA"}, nil)

	assert.Equal(t, []string{"NAMA", "NAMA.1", "NAMA.1.1", "NAMA.2"}, table.Headers)
	assert.Equal(t, 0, table.Len())
}

func TestTable_Value_OutOfRange(t *testing.T) {
	table := NewTable([]string{"A"}, [][]string{{"1"}})

	tests := []struct {
		name   string
		row    int
		column string
	}{
		{"negative row", -1, "A"},
		{"row past end", 1, "A"},
		{"unknown column", 0, "B"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Empty(t, table.Value(tt.row, tt.column))
		})
	}
}

func TestTable_Records(t *testing.T) {
	table := NewTable([]string{"A", "B"}, [][]string{{"1", "2"}, {"3"}})

	require.True(t, table.HasColumn("B"))
	assert.False(t, table.HasColumn("C"))
	assert.Equal(t, [][]string{{"1", "2"}, {"3", ""}}, table.Records())
}
