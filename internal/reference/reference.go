// Package reference parses the institution reference table and looks up entries.
package reference

import (
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/lithammer/fuzzysearch/fuzzy"

	"pesertagen/internal/models"
)

// Required reference columns, matched case-insensitively.
const (
	ColumnID   = "ID"
	ColumnNama = "NAMA"
)

// Reference errors.
var (
	ErrMissingRequiredColumn = errors.New("reference table is missing a required column")
	ErrInstitutionNotFound   = errors.New("institution not found")
	ErrAmbiguousInstitution  = errors.New("institution query matches more than one entry")
	ErrEmptyDirectory        = errors.New("reference table has no institutions")
)

// DetectColumns finds the ID and NAMA columns. When several headers match
// the same name the last one wins.
func DetectColumns(headers []string) (idColumn, nameColumn string, err error) {
	for _, h := range headers {
		switch strings.ToUpper(strings.TrimSpace(h)) {
		case ColumnID:
			idColumn = h
		case ColumnNama:
			nameColumn = h
		}
	}

	var missing []string
	if idColumn == "" {
		missing = append(missing, ColumnID)
	}

	if nameColumn == "" {
		missing = append(missing, ColumnNama)
	}

	if len(missing) > 0 {
		return "", "", errors.WithHint(
			errors.Wrapf(ErrMissingRequiredColumn, "missing %s", strings.Join(missing, ", ")),
			"File referensi harus memiliki kolom 'ID' dan 'NAMA'",
		)
	}

	return idColumn, nameColumn, nil
}

// BuildInstitutions reads every institution from a reference table. Values
// are trimmed and rows where both are blank are skipped.
func BuildInstitutions(table *models.Table) ([]models.Institution, error) {
	if table == nil {
		return nil, errors.Wrap(ErrMissingRequiredColumn, "reference table is nil")
	}

	idColumn, nameColumn, err := DetectColumns(table.Headers)
	if err != nil {
		return nil, err
	}

	out := make([]models.Institution, 0, table.Len())
	for i := 0; i < table.Len(); i++ {
		inst := models.Institution{
			ID:   strings.TrimSpace(table.Value(i, idColumn)),
			Name: strings.TrimSpace(table.Value(i, nameColumn)),
		}

		if inst.ID == "" && inst.Name == "" {
			continue
		}

		out = append(out, inst)
	}

	return out, nil
}

// Directory indexes institutions for selection.
type Directory struct {
	institutions []models.Institution
	labels       []string
	byLabel      map[string]int
}

// NewDirectory builds a directory. Later duplicates of a label are unreachable
// by label; the first entry wins.
func NewDirectory(institutions []models.Institution) *Directory {
	d := &Directory{
		institutions: append([]models.Institution(nil), institutions...),
		labels:       make([]string, len(institutions)),
		byLabel:      make(map[string]int, len(institutions)),
	}

	for i, inst := range d.institutions {
		label := inst.Label()
		d.labels[i] = label

		if _, ok := d.byLabel[label]; !ok {
			d.byLabel[label] = i
		}
	}

	return d
}

// Len returns the number of institutions.
func (d *Directory) Len() int {
	return len(d.institutions)
}

// All returns every institution in table order.
func (d *Directory) All() []models.Institution {
	return append([]models.Institution(nil), d.institutions...)
}

// Labels returns the display labels in table order.
func (d *Directory) Labels() []string {
	return append([]string(nil), d.labels...)
}

// Find resolves an operator query: an exact label, then an exact id, then an
// exact name (case-insensitive).
func (d *Directory) Find(query string) (models.Institution, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return models.Institution{}, errors.Wrap(ErrInstitutionNotFound, "empty query")
	}

	if i, ok := d.byLabel[q]; ok {
		return d.institutions[i], nil
	}

	if inst, ok, err := d.unique(q, func(inst models.Institution) bool { return inst.ID == q }); ok || err != nil {
		return inst, err
	}

	if inst, ok, err := d.unique(q, func(inst models.Institution) bool { return strings.EqualFold(inst.Name, q) }); ok || err != nil {
		return inst, err
	}

	err := errors.Wrapf(ErrInstitutionNotFound, "%q", q)
	if suggestions := d.Search(q, 3); len(suggestions) > 0 {
		labels := make([]string, len(suggestions))
		for i, s := range suggestions {
			labels[i] = s.Label()
		}

		err = errors.WithHintf(err, "did you mean: %s", strings.Join(labels, "; "))
	}

	return models.Institution{}, err
}

func (d *Directory) unique(q string, match func(models.Institution) bool) (models.Institution, bool, error) {
	var (
		found models.Institution
		count int
	)

	for _, inst := range d.institutions {
		if !match(inst) {
			continue
		}

		if count > 0 && inst == found {
			continue
		}

		if count == 0 {
			found = inst
		}

		count++
	}

	switch count {
	case 0:
		return models.Institution{}, false, nil
	case 1:
		return found, true, nil
	default:
		return models.Institution{}, false, errors.WithHint(
			errors.Wrapf(ErrAmbiguousInstitution, "%q matches %d entries", q, count),
			"pass the full label instead",
		)
	}
}

// Search ranks institutions whose label fuzzily contains query, best first.
// An empty query returns the first limit entries. limit <= 0 means no limit.
func (d *Directory) Search(query string, limit int) []models.Institution {
	q := strings.TrimSpace(query)

	var out []models.Institution

	if q == "" {
		out = d.All()
	} else {
		ranks := fuzzy.RankFindNormalizedFold(q, d.labels)
		sort.SliceStable(ranks, func(i, j int) bool {
			if ranks[i].Distance != ranks[j].Distance {
				return ranks[i].Distance < ranks[j].Distance
			}

			return ranks[i].OriginalIndex < ranks[j].OriginalIndex
		})

		out = make([]models.Institution, len(ranks))
		for i, r := range ranks {
			out[i] = d.institutions[r.OriginalIndex]
		}
	}

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}

	return out
}
