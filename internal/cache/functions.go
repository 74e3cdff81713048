package cache

import (
	"pesertagen/internal/models"
	"pesertagen/internal/normalizer"
	"pesertagen/internal/reference"
)

// DateNormalizer memoizes normalizer.NormalizeDate for text cells.
type DateNormalizer struct {
	memo *Memo
}

// NewDateNormalizer wraps NormalizeDate with a memo of the given size.
func NewDateNormalizer(size int) (*DateNormalizer, error) {
	memo, err := NewMemo(size)
	if err != nil {
		return nil, err
	}

	return &DateNormalizer{memo: memo}, nil
}

// Normalize returns the same result as normalizer.NormalizeDate.
func (d *DateNormalizer) Normalize(cell any) string {
	s, ok := cell.(string)
	if !ok {
		return normalizer.NormalizeDate(cell)
	}

	key := Key("date", s)
	if v, hit := d.memo.Get(key); hit {
		return v.(string)
	}

	out := normalizer.NormalizeDate(s)
	d.memo.Add(key, out)

	return out
}

// Func exposes Normalize as a normalizer.DateFunc.
func (d *DateNormalizer) Func() normalizer.DateFunc {
	return d.Normalize
}

// Stats returns the memo counters.
func (d *DateNormalizer) Stats() Stats {
	return d.memo.Stats()
}

// ReferenceParser memoizes reference.BuildInstitutions by table content.
type ReferenceParser struct {
	memo *Memo
}

// NewReferenceParser wraps BuildInstitutions with a memo of the given size.
func NewReferenceParser(size int) (*ReferenceParser, error) {
	memo, err := NewMemo(size)
	if err != nil {
		return nil, err
	}

	return &ReferenceParser{memo: memo}, nil
}

// Institutions returns the same result as reference.BuildInstitutions.
// Failures are not cached.
func (p *ReferenceParser) Institutions(table *models.Table) ([]models.Institution, error) {
	if table == nil {
		return reference.BuildInstitutions(nil)
	}

	key := TableKey(table)
	if v, hit := p.memo.Get(key); hit {
		return append([]models.Institution(nil), v.([]models.Institution)...), nil
	}

	out, err := reference.BuildInstitutions(table)
	if err != nil {
		return nil, err
	}

	p.memo.Add(key, append([]models.Institution(nil), out...))

	return out, nil
}

// Stats returns the memo counters.
func (p *ReferenceParser) Stats() Stats {
	return p.memo.Stats()
}

// TableKey hashes a table's headers and cells.
func TableKey(t *models.Table) string {
	parts := make([]string, 0, 2+len(t.Headers)*(t.Len()+1))
	parts = append(parts, "table")
	parts = append(parts, t.Headers...)

	for _, row := range t.Records() {
		parts = append(parts, "\n")
		parts = append(parts, row...)
	}

	return Key(parts...)
}
