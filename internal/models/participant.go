package models

import "strconv"

// Field is one of the logical input fields a participant table must provide.
type Field string

// Logical input fields.
const (
	FieldNoPeserta Field = "NO_PESERTA"
	FieldNama      Field = "NAMA"
	FieldTmptLahir Field = "TMPT_LAHIR"
	FieldTglLahir  Field = "TGL_LAHIR"
	FieldJenisTes  Field = "JENIS_TES"
)

// Fields lists the logical fields in resolution and reporting order.
var Fields = []Field{
	FieldNoPeserta,
	FieldNama,
	FieldTmptLahir,
	FieldTglLahir,
	FieldJenisTes,
}

// Valid reports whether f is one of the known logical fields.
func (f Field) Valid() bool {
	for _, known := range Fields {
		if f == known {
			return true
		}
	}

	return false
}

// Output column names.
const (
	ColNIP            = "NIP"
	ColNama           = "NAMA"
	ColTmptLahir      = "TMPT_LAHIR"
	ColTglLahir       = "TGL_LAHIR"
	ColUnitKerja      = "UNIT_KERJA"
	ColUnitKerjaInduk = "UNIT_KERJA_INDUK"
	ColIDInstansi     = "ID_INSTANSI"
	ColIDPendidikan   = "ID_PENDIDIKAN"
	ColIDJabatan      = "ID_JABATAN"
	ColIDJenisJabatan = "ID_JENIS_JABATAN"
	ColJenisTes       = "JENIS_TES"
)

// OutputColumns is the column order of every exported group.
var OutputColumns = []string{
	ColNIP,
	ColNama,
	ColTmptLahir,
	ColTglLahir,
	ColUnitKerja,
	ColUnitKerjaInduk,
	ColIDInstansi,
	ColIDPendidikan,
	ColIDJabatan,
	ColIDJenisJabatan,
}

// Institution is one entry of the reference table.
type Institution struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// Label is the display form used to pick an institution.
func (i Institution) Label() string {
	return i.ID + " — " + i.Name
}

// Defaults holds the administrative ids stamped onto every output row.
type Defaults struct {
	IDPendidikan   int `yaml:"id_pendidikan"`
	IDJabatan      int `yaml:"id_jabatan"`
	IDJenisJabatan int `yaml:"id_jenis_jabatan"`
}

// DefaultValues returns the stock administrative ids.
func DefaultValues() Defaults {
	return Defaults{
		IDPendidikan:   45,
		IDJabatan:      10932,
		IDJenisJabatan: 4,
	}
}

// Strings renders the defaults as text in output column order.
func (d Defaults) Strings() (pendidikan, jabatan, jenisJabatan string) {
	return strconv.Itoa(d.IDPendidikan), strconv.Itoa(d.IDJabatan), strconv.Itoa(d.IDJenisJabatan)
}

// ParticipantRow is one exported row. Field order matches OutputColumns.
type ParticipantRow struct {
	NIP            string `json:"nip"`
	Nama           string `json:"nama"`
	TmptLahir      string `json:"tmpt_lahir"`
	TglLahir       string `json:"tgl_lahir"`
	UnitKerja      string `json:"unit_kerja"`
	UnitKerjaInduk string `json:"unit_kerja_induk"`
	IDInstansi     string `json:"id_instansi"`
	IDPendidikan   string `json:"id_pendidikan"`
	IDJabatan      string `json:"id_jabatan"`
	IDJenisJabatan string `json:"id_jenis_jabatan"`
}

// Values returns the row cells in OutputColumns order.
func (r ParticipantRow) Values() []string {
	return []string{
		r.NIP,
		r.Nama,
		r.TmptLahir,
		r.TglLahir,
		r.UnitKerja,
		r.UnitKerjaInduk,
		r.IDInstansi,
		r.IDPendidikan,
		r.IDJabatan,
		r.IDJenisJabatan,
	}
}

// OutputRecord is a transformed participant row before grouping.
type OutputRecord struct {
	ParticipantRow
	JenisTes string `json:"jenis_tes"`
}

// OutputGroup holds the rows sharing one JENIS_TES value.
type OutputGroup struct {
	Key  string           `json:"key"`
	Rows []ParticipantRow `json:"rows"`
}

// Len returns the number of rows in the group.
func (g OutputGroup) Len() int {
	return len(g.Rows)
}

// Values returns every row as cells in OutputColumns order.
func (g OutputGroup) Values() [][]string {
	out := make([][]string, len(g.Rows))
	for i, row := range g.Rows {
		out[i] = row.Values()
	}

	return out
}
