package reference

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pesertagen/internal/models"
)

func TestDetectColumns(t *testing.T) {
	tests := []struct {
		name     string
		headers  []string
		wantID   string
		wantName string
		wantErr  string
	}{
		{
			name:     "exact",
			headers:  []string{"ID", "NAMA"},
			wantID:   "ID",
			wantName: "NAMA",
		},
		{
			name:     "case-insensitive",
			headers:  []string{"id", "Nama", "ALAMAT"},
			wantID:   "id",
			wantName: "Nama",
		},
		{
			name:     "last match wins",
			headers:  []string{"ID", "nama", "Id"},
			wantID:   "Id",
			wantName: "nama",
		},
		{
			name:    "missing nama",
			headers: []string{"ID", "NAME"},
			wantErr: "missing NAMA",
		},
		{
			name:    "missing both",
			headers: []string{"KODE"},
			wantErr: "missing ID, NAMA",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, name, err := DetectColumns(tt.headers)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrMissingRequiredColumn))
				assert.Contains(t, err.Error(), tt.wantErr)
				assert.Contains(t, errors.FlattenHints(err), "File referensi harus memiliki kolom 'ID' dan 'NAMA'")

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantID, id)
			assert.Equal(t, tt.wantName, name)
		})
	}
}

func TestBuildInstitutions(t *testing.T) {
	table := models.NewTable(
		[]string{"Id", "Nama", "Alamat"},
		[][]string{
			{" 12 ", " Dinas X ", "Jl. A"},
			{"", "", "orphan address"},
			{"13", "", ""},
			{"14", "Badan Y", ""},
		},
	)

	got, err := BuildInstitutions(table)
	require.NoError(t, err)

	assert.Equal(t, []models.Institution{
		{ID: "12", Name: "Dinas X"},
		{ID: "13", Name: ""},
		{ID: "14", Name: "Badan Y"},
	}, got)
}

func TestBuildInstitutions_MissingColumn(t *testing.T) {
	_, err := BuildInstitutions(models.NewTable([]string{"KODE", "NAMA"}, nil))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingRequiredColumn))

	_, err = BuildInstitutions(nil)
	assert.True(t, errors.Is(err, ErrMissingRequiredColumn))
}

func testDirectory() *Directory {
	return NewDirectory([]models.Institution{
		{ID: "12", Name: "Dinas Pendidikan"},
		{ID: "13", Name: "Dinas Kesehatan"},
		{ID: "14", Name: "Badan Kepegawaian Daerah"},
		{ID: "12", Name: "Dinas Pendidikan"},
		{ID: "15", Name: "Dinas Kesehatan"},
	})
}

func TestDirectory_Find(t *testing.T) {
	d := testDirectory()

	tests := []struct {
		name    string
		query   string
		wantID  string
		wantErr error
	}{
		{name: "label", query: "13 — Dinas Kesehatan", wantID: "13"},
		{name: "id", query: " 14 ", wantID: "14"},
		{name: "duplicate row with same id", query: "12", wantID: "12"},
		{name: "name case-insensitive", query: "badan kepegawaian daerah", wantID: "14"},
		{name: "ambiguous name", query: "Dinas Kesehatan", wantErr: ErrAmbiguousInstitution},
		{name: "not found", query: "Kantor Z", wantErr: ErrInstitutionNotFound},
		{name: "empty", query: "  ", wantErr: ErrInstitutionNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inst, err := d.Find(tt.query)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), err)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantID, inst.ID)
		})
	}
}

func TestDirectory_Find_Suggestions(t *testing.T) {
	_, err := testDirectory().Find("pendidikn")
	require.Error(t, err)
	assert.Contains(t, errors.FlattenHints(err), "12 — Dinas Pendidikan")
}

func TestDirectory_Search(t *testing.T) {
	d := testDirectory()

	got := d.Search("kesehatan", 0)
	require.Len(t, got, 2)
	assert.Equal(t, "13", got[0].ID)
	assert.Equal(t, "15", got[1].ID)

	assert.Len(t, d.Search("", 2), 2)
	assert.Len(t, d.Search("", 0), d.Len())
	assert.Empty(t, d.Search("zzz", 0))
}

func TestDirectory_Labels(t *testing.T) {
	d := testDirectory()

	labels := d.Labels()
	require.Len(t, labels, 5)
	assert.Equal(t, "14 — Badan Kepegawaian Daerah", labels[2])
}
