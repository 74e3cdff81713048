package normalizer

import (
	"github.com/cockroachdb/errors"

	"pesertagen/internal/mapping"
	"pesertagen/internal/models"
)

// Validation errors.
var (
	ErrNilTable         = errors.New("participant table is nil")
	ErrMappedColumnGone = errors.New("mapped column not found in table")
	ErrEmptyInstitution = errors.New("institution id and name are both empty")
	ErrNegativeDefault  = errors.New("default id must not be negative")
)

// Validator checks that a transform can run before any output is produced.
type Validator struct{}

// NewValidator creates a new validator instance.
func NewValidator() *Validator {
	return &Validator{}
}

// Validate checks the table against the mapping, the institution and the defaults.
// Unmapped fields are reported together as a *mapping.UnresolvedFieldsError.
func (v *Validator) Validate(table *models.Table, m mapping.ColumnMapping, inst models.Institution, defaults models.Defaults) error {
	if table == nil {
		return ErrNilTable
	}

	if missing := m.Missing(); len(missing) > 0 {
		return &mapping.UnresolvedFieldsError{Fields: missing}
	}

	for _, f := range models.Fields {
		if !table.HasColumn(m[f]) {
			return errors.Wrapf(ErrMappedColumnGone, "%s -> %q", f, m[f])
		}
	}

	if inst.ID == "" && inst.Name == "" {
		return ErrEmptyInstitution
	}

	if defaults.IDPendidikan < 0 || defaults.IDJabatan < 0 || defaults.IDJenisJabatan < 0 {
		return errors.Wrapf(ErrNegativeDefault, "%+v", defaults)
	}

	return nil
}
