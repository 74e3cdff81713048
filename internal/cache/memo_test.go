package cache

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pesertagen/internal/models"
	"pesertagen/internal/normalizer"
	"pesertagen/internal/reference"
)

func TestKey(t *testing.T) {
	assert.Equal(t, Key("a", "b"), Key("a", "b"))
	assert.NotEqual(t, Key("ab", "c"), Key("a", "bc"))
	assert.Len(t, Key(), 64)
}

func TestMemo(t *testing.T) {
	m, err := NewMemo(2)
	require.NoError(t, err)

	m.Add("a", 1)
	m.Add("b", 2)
	m.Add("c", 3)

	_, ok := m.Get("a")
	assert.False(t, ok, "oldest entry should be evicted")

	v, ok := m.Get("c")
	require.True(t, ok)
	assert.Equal(t, 3, v)

	assert.Equal(t, Stats{Size: 2, Hits: 1, Misses: 1}, m.Stats())
}

func TestMemo_Disabled(t *testing.T) {
	m, err := NewMemo(0)
	require.NoError(t, err)

	m.Add("a", 1)
	_, ok := m.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 0, m.Stats().Size)
}

func TestDateNormalizer(t *testing.T) {
	d, err := NewDateNormalizer(16)
	require.NoError(t, err)

	inputs := []any{"31/12/2024", "31/12/2024", "not a date", 1, nil, "45292"}
	for _, in := range inputs {
		assert.Equal(t, normalizer.NormalizeDate(in), d.Normalize(in), "%#v", in)
	}

	stats := d.Stats()
	assert.Equal(t, uint64(1), stats.Hits)
	assert.Equal(t, 3, stats.Size)
}

func TestDateNormalizer_Func(t *testing.T) {
	d, err := NewDateNormalizer(4)
	require.NoError(t, err)

	tr := normalizer.NewTransformerWithDates(d.Func())
	assert.NotNil(t, tr)
	assert.Equal(t, "2024-12-31", d.Func()("2024-12-31"))
}

func TestReferenceParser(t *testing.T) {
	p, err := NewReferenceParser(4)
	require.NoError(t, err)

	table := models.NewTable([]string{"ID", "NAMA"}, [][]string{{"12", "Dinas X"}})

	first, err := p.Institutions(table)
	require.NoError(t, err)

	first[0].Name = "mutated"

	second, err := p.Institutions(models.NewTable([]string{"ID", "NAMA"}, [][]string{{"12", "Dinas X"}}))
	require.NoError(t, err)
	assert.Equal(t, []models.Institution{{ID: "12", Name: "Dinas X"}}, second)
	assert.Equal(t, uint64(1), p.Stats().Hits)

	_, err = p.Institutions(models.NewTable([]string{"KODE"}, nil))
	assert.True(t, errors.Is(err, reference.ErrMissingRequiredColumn))
	assert.Equal(t, 1, p.Stats().Size)
}

func TestTableKey(t *testing.T) {
	a := models.NewTable([]string{"ID", "NAMA"}, [][]string{{"1", "A"}})
	b := models.NewTable([]string{"ID", "NAMA"}, [][]string{{"1", "B"}})

	assert.Equal(t, TableKey(a), TableKey(models.NewTable([]string{"ID", "NAMA"}, [][]string{{"1", "A"}})))
	assert.NotEqual(t, TableKey(a), TableKey(b))
}
