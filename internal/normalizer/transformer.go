package normalizer

import (
	"strings"

	"pesertagen/internal/mapping"
	"pesertagen/internal/models"
)

// Transformer turns participant table rows into output records.
type Transformer struct {
	normalizeDate DateFunc
}

// NewTransformer creates a new transformer instance.
func NewTransformer() *Transformer {
	return &Transformer{normalizeDate: NormalizeDate}
}

// NewTransformerWithDates creates a transformer with a custom date function (useful for memoization).
func NewTransformerWithDates(fn DateFunc) *Transformer {
	if fn == nil {
		fn = NormalizeDate
	}

	return &Transformer{normalizeDate: fn}
}

// Transform builds one OutputRecord per table row, in table order.
// The mapping is assumed valid; see Validator.
func (t *Transformer) Transform(table *models.Table, m mapping.ColumnMapping, inst models.Institution, defaults models.Defaults) []models.OutputRecord {
	pendidikan, jabatan, jenisJabatan := defaults.Strings()

	records := make([]models.OutputRecord, table.Len())
	for i := range records {
		records[i] = models.OutputRecord{
			ParticipantRow: models.ParticipantRow{
				NIP:            CleanNIP(table.Value(i, m[models.FieldNoPeserta])),
				Nama:           strings.TrimSpace(table.Value(i, m[models.FieldNama])),
				TmptLahir:      strings.TrimSpace(table.Value(i, m[models.FieldTmptLahir])),
				TglLahir:       t.normalizeDate(table.Value(i, m[models.FieldTglLahir])),
				UnitKerja:      inst.Name,
				UnitKerjaInduk: inst.Name,
				IDInstansi:     inst.ID,
				IDPendidikan:   pendidikan,
				IDJabatan:      jabatan,
				IDJenisJabatan: jenisJabatan,
			},
			JenisTes: strings.TrimSpace(table.Value(i, m[models.FieldJenisTes])),
		}
	}

	return records
}

// CleanNIP trims a participant id and drops one trailing ".0" left by
// numeric cell rendering. Leading zeros are kept.
func CleanNIP(s string) string {
	return strings.TrimSuffix(strings.TrimSpace(s), ".0")
}
