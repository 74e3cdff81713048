package normalizer

import (
	"reflect"
	"testing"

	"github.com/cockroachdb/errors"

	"pesertagen/internal/mapping"
	"pesertagen/internal/models"
)

func TestNewProcessor(t *testing.T) {
	p := NewProcessor()
	if p == nil {
		t.Fatal("NewProcessor returned nil")
	}
}

func TestProcessor_Process(t *testing.T) {
	p := NewProcessor()

	table := testTable([]string{"007", "Budi", "Jakarta", "07/08/1990", "CAT"})

	result, err := p.Process(table, testMapping(), testInstitution, models.DefaultValues())
	if err != nil {
		t.Fatalf("Process returned unexpected error: %v", err)
	}

	if result.Degenerate {
		t.Error("Degenerate = true, want false")
	}

	if len(result.Groups) != 1 || result.Groups[0].Key != "CAT" {
		t.Fatalf("Groups = %+v, want one CAT group", result.Groups)
	}

	want := []string{"007", "Budi", "Jakarta", "1990-08-07", "Dinas X", "Dinas X", "12", "45", "10932", "4"}
	if got := result.Groups[0].Rows[0].Values(); !reflect.DeepEqual(got, want) {
		t.Errorf("row = %v, want %v", got, want)
	}
}

func TestProcessor_Process_Degenerate(t *testing.T) {
	p := NewProcessor()

	tests := []struct {
		name       string
		table      *models.Table
		wantGroups int
	}{
		{
			name:       "all blank test types",
			table:      testTable([]string{"1", "A", "X", "", ""}, []string{"2", "B", "Y", "", "  "}),
			wantGroups: 1,
		},
		{
			name:       "no rows",
			table:      testTable(),
			wantGroups: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := p.Process(tt.table, testMapping(), testInstitution, models.DefaultValues())
			if err != nil {
				t.Fatalf("Process returned unexpected error: %v", err)
			}

			if !result.Degenerate {
				t.Error("Degenerate = false, want true")
			}

			if len(result.Groups) != tt.wantGroups {
				t.Errorf("len(Groups) = %d, want %d", len(result.Groups), tt.wantGroups)
			}
		})
	}
}

func TestProcessor_Process_ValidationError(t *testing.T) {
	p := NewProcessor()

	result, err := p.Process(testTable(), mapping.ColumnMapping{}, testInstitution, models.DefaultValues())
	if err == nil {
		t.Error("Process expected error for invalid input")
	}

	if !errors.Is(err, mapping.ErrUnresolvedFieldMapping) {
		t.Errorf("Process error = %v, want ErrUnresolvedFieldMapping", err)
	}

	if result != nil {
		t.Error("Process expected nil result for invalid input")
	}
}

func TestResult_Counts(t *testing.T) {
	p := NewProcessor()

	table := testTable(
		[]string{"1", "A", "X", "", "CAT"},
		[]string{"2", "B", "Y", "", "SKB"},
		[]string{"3", "C", "Z", "", "CAT"},
	)

	result, err := p.Process(table, testMapping(), testInstitution, models.DefaultValues())
	if err != nil {
		t.Fatalf("Process returned unexpected error: %v", err)
	}

	want := []GroupCount{{Key: "CAT", Rows: 2}, {Key: "SKB", Rows: 1}}
	if got := result.Counts(); !reflect.DeepEqual(got, want) {
		t.Errorf("Counts() = %+v, want %+v", got, want)
	}
}
