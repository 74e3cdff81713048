// Package mapping reconciles participant table columns with the logical input fields.
package mapping

import (
	"strings"

	"github.com/cockroachdb/errors"

	"pesertagen/internal/models"
)

// Mapping errors.
var (
	ErrUnresolvedFieldMapping = errors.New("unresolved field mapping")
	ErrUnknownField           = errors.New("unknown field")
	ErrUnknownColumn          = errors.New("column not found in table")
	ErrInvalidOverride        = errors.New("invalid column override")
)

// Aliases lists the accepted column names per field, most preferred first.
type Aliases map[models.Field][]string

// DefaultAliases returns the stock alias lists.
func DefaultAliases() Aliases {
	return Aliases{
		models.FieldNoPeserta: {"NO_PESERTA", "NO PESERTA", "NIP", "NO"},
		models.FieldNama:      {"NAMA", "NAMA PESERTA"},
		models.FieldTmptLahir: {"TMP_LAHIR", "TMPT_LAHIR", "TEMPAT LAHIR", "TMP LAHIR", "TEMPAT_LAHIR"},
		models.FieldTglLahir:  {"TGL_LAHIR", "TANGGAL LAHIR", "TGL LAHIR", "TANGGAL_LAHIR"},
		models.FieldJenisTes:  {"JENIS TES", "JENIS_TES"},
	}
}

// Merge returns a copy of a where fields present in override replace the defaults.
func (a Aliases) Merge(override map[string][]string) Aliases {
	out := make(Aliases, len(a))
	for f, names := range a {
		out[f] = append([]string(nil), names...)
	}

	for name, names := range override {
		f := models.Field(strings.ToUpper(strings.TrimSpace(name)))
		if len(names) > 0 {
			out[f] = append([]string(nil), names...)
		}
	}

	return out
}

// ColumnMapping maps every logical field to a source column name.
type ColumnMapping map[models.Field]string

// UnresolvedFieldsError lists the fields that have no source column.
type UnresolvedFieldsError struct {
	Fields []models.Field
}

func (e *UnresolvedFieldsError) Error() string {
	names := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		names[i] = string(f)
	}

	return "required fields are not mapped: " + strings.Join(names, ", ")
}

// Is makes the error match ErrUnresolvedFieldMapping.
func (e *UnresolvedFieldsError) Is(target error) bool {
	return target == ErrUnresolvedFieldMapping
}

// Missing returns the fields of m without a column, in field order.
func (m ColumnMapping) Missing() []models.Field {
	var missing []models.Field
	for _, f := range models.Fields {
		if m[f] == "" {
			missing = append(missing, f)
		}
	}

	return missing
}

// Resolution is the outcome of matching a table's headers against aliases.
type Resolution struct {
	headers []string
	present map[string]bool
	columns ColumnMapping
	auto    map[models.Field]bool
}

// Resolve matches headers against aliases. For each field the first alias
// present in headers wins; matching is exact and case-sensitive.
func Resolve(headers []string, aliases Aliases) *Resolution {
	r := &Resolution{
		headers: append([]string(nil), headers...),
		present: make(map[string]bool, len(headers)),
		columns: make(ColumnMapping, len(models.Fields)),
		auto:    make(map[models.Field]bool, len(models.Fields)),
	}

	for _, h := range headers {
		r.present[h] = true
	}

	for _, f := range models.Fields {
		for _, alias := range aliases[f] {
			if r.present[alias] {
				r.columns[f] = alias
				r.auto[f] = true

				break
			}
		}
	}

	return r
}

// Headers returns the table headers the resolution was built from.
func (r *Resolution) Headers() []string {
	return append([]string(nil), r.headers...)
}

// Column returns the column chosen for f.
func (r *Resolution) Column(f models.Field) (string, bool) {
	c, ok := r.columns[f]
	return c, ok
}

// Automatic reports whether f was resolved by alias rather than override.
func (r *Resolution) Automatic(f models.Field) bool {
	return r.auto[f]
}

// Unresolved returns the fields still lacking a column, in field order.
func (r *Resolution) Unresolved() []models.Field {
	return r.columns.Missing()
}

// Override sets the column for f. The column must exist in the table.
func (r *Resolution) Override(f models.Field, column string) error {
	if !f.Valid() {
		return errors.Wrapf(ErrUnknownField, "%q", f)
	}

	if !r.present[column] {
		return errors.WithHintf(
			errors.Wrapf(ErrUnknownColumn, "%s -> %q", f, column),
			"available columns: %s", strings.Join(r.headers, ", "),
		)
	}

	r.columns[f] = column
	r.auto[f] = false

	return nil
}

// Mapping returns the complete mapping, or an *UnresolvedFieldsError.
func (r *Resolution) Mapping() (ColumnMapping, error) {
	if missing := r.Unresolved(); len(missing) > 0 {
		return nil, &UnresolvedFieldsError{Fields: missing}
	}

	out := make(ColumnMapping, len(r.columns))
	for f, c := range r.columns {
		out[f] = c
	}

	return out, nil
}

// ParseOverride parses a "FIELD=COLUMN" flag value. The field name is
// case-insensitive; the column name is kept as written apart from trimming.
func ParseOverride(s string) (models.Field, string, error) {
	name, column, ok := strings.Cut(s, "=")
	if !ok {
		return "", "", errors.Wrapf(ErrInvalidOverride, "%q: expected FIELD=COLUMN", s)
	}

	f := models.Field(strings.ToUpper(strings.TrimSpace(name)))
	if !f.Valid() {
		return "", "", errors.Wrapf(ErrUnknownField, "%q", name)
	}

	column = strings.TrimSpace(column)
	if column == "" {
		return "", "", errors.Wrapf(ErrInvalidOverride, "%q: empty column", s)
	}

	return f, column, nil
}

// ParseOverrides parses several "FIELD=COLUMN" values. A later value for the
// same field wins.
func ParseOverrides(values []string) (map[models.Field]string, error) {
	out := make(map[models.Field]string, len(values))
	for _, v := range values {
		f, c, err := ParseOverride(v)
		if err != nil {
			return nil, err
		}

		out[f] = c
	}

	return out, nil
}

// Apply applies overrides in field order so errors are reported deterministically.
func (r *Resolution) Apply(overrides map[models.Field]string) error {
	for f := range overrides {
		if !f.Valid() {
			return errors.Wrapf(ErrUnknownField, "%q", f)
		}
	}

	for _, f := range models.Fields {
		column, ok := overrides[f]
		if !ok {
			continue
		}

		if err := r.Override(f, column); err != nil {
			return err
		}
	}

	return nil
}
