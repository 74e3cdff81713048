// Package normalizer converts participant tables into grouped output rows.
package normalizer

import (
	"github.com/cockroachdb/errors"

	"pesertagen/internal/mapping"
	"pesertagen/internal/models"
)

// Result is the outcome of one Process call.
type Result struct {
	Records []models.OutputRecord
	Groups  []models.OutputGroup

	// Degenerate is set when no row has a JENIS_TES value, so the grouping
	// is a single blank-key group (or nothing at all).
	Degenerate bool
}

// Counts returns the row count per group key, in group order.
func (r *Result) Counts() []GroupCount {
	out := make([]GroupCount, len(r.Groups))
	for i, g := range r.Groups {
		out[i] = GroupCount{Key: g.Key, Rows: g.Len()}
	}

	return out
}

// GroupCount is one line of the per-group summary.
type GroupCount struct {
	Key  string
	Rows int
}

// Processor validates, transforms and groups a participant table.
type Processor struct {
	validator   *Validator
	transformer *Transformer
}

// NewProcessor creates a new processor instance.
func NewProcessor() *Processor {
	return &Processor{
		validator:   NewValidator(),
		transformer: NewTransformer(),
	}
}

// NewProcessorWithDates creates a processor whose transformer uses fn for birth dates.
func NewProcessorWithDates(fn DateFunc) *Processor {
	return &Processor{
		validator:   NewValidator(),
		transformer: NewTransformerWithDates(fn),
	}
}

// Process runs the transform. A degenerate grouping is reported in the
// result, not as an error.
func (p *Processor) Process(table *models.Table, m mapping.ColumnMapping, inst models.Institution, defaults models.Defaults) (*Result, error) {
	// 1. Validate the input
	if err := p.validator.Validate(table, m, inst, defaults); err != nil {
		return nil, errors.Wrap(err, "validation failed")
	}

	// 2. Transform rows
	records := p.transformer.Transform(table, m, inst, defaults)

	// 3. Partition by test type
	return &Result{
		Records:    records,
		Groups:     Group(records),
		Degenerate: IsDegenerate(records),
	}, nil
}
