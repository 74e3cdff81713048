// Package generator runs a whole participant export: read both tables,
// resolve columns, select the institution, transform, group and export.
package generator

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"

	"pesertagen/internal/cache"
	"pesertagen/internal/export"
	"pesertagen/internal/logger"
	"pesertagen/internal/mapping"
	"pesertagen/internal/models"
	"pesertagen/internal/normalizer"
	"pesertagen/internal/reference"
	"pesertagen/internal/sheet"
)

// Generator errors.
var (
	// ErrDegenerateGrouping is informational: no row has a JENIS_TES value
	// and the operator did not confirm a single unnamed group.
	ErrDegenerateGrouping = errors.New("no participant has a JENIS_TES value")
	ErrNoInstitution      = errors.New("no institution selected")
	ErrMissingInput       = errors.New("input and reference files are required")
)

// Chooser answers the questions the generator cannot settle on its own.
type Chooser interface {
	ChooseInstitution(ctx context.Context, options []models.Institution) (models.Institution, error)
	ChooseColumn(ctx context.Context, field models.Field, headers []string) (string, error)
	ConfirmDegenerate(ctx context.Context, rows int) (bool, error)
}

// Options configures a Service.
type Options struct {
	Aliases mapping.Aliases

	// OutputBase is the parent of per-run directories.
	OutputBase string
	RunDirs    bool

	PreviewRows  int
	MaxCellWidth int
	CacheSize    int
}

// Request describes one run.
type Request struct {
	InputPath      string
	InputSheet     string
	ReferencePath  string
	ReferenceSheet string

	// Institution is a label, id or name passed to reference.Directory.Find.
	Institution string
	Overrides   map[models.Field]string
	Defaults    models.Defaults

	// OutputDir, when set, receives the files directly.
	OutputDir string

	DryRun          bool
	AllowDegenerate bool

	// Chooser may be nil for non-interactive runs.
	Chooser Chooser
}

// Service wires the sheet reader, the memoized pure functions, the processor
// and the exporter.
type Service struct {
	opts      Options
	logger    *logger.Logger
	reader    *sheet.Reader
	dates     *cache.DateNormalizer
	refs      *cache.ReferenceParser
	processor *normalizer.Processor
	exporter  *export.Exporter
	outputs   *export.OutputManager
}

// NewService creates a new generator service.
func NewService(opts Options, log *logger.Logger) (*Service, error) {
	if log == nil {
		log = logger.NewNop()
	}

	if opts.Aliases == nil {
		opts.Aliases = mapping.DefaultAliases()
	}

	if opts.OutputBase == "" {
		opts.OutputBase = "./output"
	}

	dates, err := cache.NewDateNormalizer(opts.CacheSize)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create date cache")
	}

	refs, err := cache.NewReferenceParser(opts.CacheSize)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create reference cache")
	}

	return &Service{
		opts:      opts,
		logger:    log,
		reader:    sheet.NewReader(log),
		dates:     dates,
		refs:      refs,
		processor: normalizer.NewProcessorWithDates(dates.Func()),
		exporter:  export.NewExporter(log),
		outputs:   export.NewOutputManager(opts.OutputBase),
	}, nil
}

// Sheets lists the sheets of a spreadsheet file.
func (s *Service) Sheets(path string) ([]string, error) {
	return s.reader.ListSheets(path)
}

// Columns reads a participant sheet and resolves its columns by alias.
func (s *Service) Columns(path, sheetName string) (*mapping.Resolution, error) {
	table, err := s.reader.Read(path, sheetName)
	if err != nil {
		return nil, err
	}

	return mapping.Resolve(table.Headers, s.opts.Aliases), nil
}

// Institutions reads a reference sheet into a directory.
func (s *Service) Institutions(path, sheetName string) (*reference.Directory, error) {
	table, err := s.reader.Read(path, sheetName)
	if err != nil {
		return nil, err
	}

	institutions, err := s.refs.Institutions(table)
	if err != nil {
		return nil, err
	}

	if len(institutions) == 0 {
		return nil, errors.WithHint(
			errors.Wrapf(reference.ErrEmptyDirectory, "%s", path),
			"File referensi harus memiliki kolom 'ID' dan 'NAMA'",
		)
	}

	return reference.NewDirectory(institutions), nil
}

// Run executes one export. When the grouping is degenerate and not
// confirmed, the report is returned together with ErrDegenerateGrouping and
// nothing is written.
func (s *Service) Run(ctx context.Context, req Request) (*Report, error) {
	if req.InputPath == "" || req.ReferencePath == "" {
		return nil, ErrMissingInput
	}

	start := time.Now()
	report := &Report{RunID: s.outputs.NewRunID(), DryRun: req.DryRun}
	log := s.logger.With("run", report.RunID)

	// 1. Reference table and institution
	dir, err := s.Institutions(req.ReferencePath, req.ReferenceSheet)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load reference table")
	}

	log.Debug("reference loaded", "institutions", dir.Len())

	inst, err := s.selectInstitution(ctx, dir, req)
	if err != nil {
		return nil, err
	}

	report.Institution = inst

	if err := checkpoint(ctx, "institution selection"); err != nil {
		return nil, err
	}

	// 2. Participant table and column mapping
	table, err := s.reader.Read(req.InputPath, req.InputSheet)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load participant table")
	}

	m, resolution, err := s.resolveMapping(ctx, table, req)
	if err != nil {
		return nil, err
	}

	report.Mapping = m
	report.Automatic = make(map[models.Field]bool, len(models.Fields))

	for _, f := range models.Fields {
		report.Automatic[f] = resolution.Automatic(f)
	}

	if err := checkpoint(ctx, "column mapping"); err != nil {
		return nil, err
	}

	// 3. Transform and group
	result, err := s.processor.Process(table, m, inst, req.Defaults)
	if err != nil {
		return nil, err
	}

	report.fill(result, s.opts.PreviewRows, s.opts.MaxCellWidth)

	log.Info("participants transformed",
		"institution", inst.Label(),
		"rows", report.Total,
		"groups", len(report.Counts),
	)

	if result.Degenerate && !req.AllowDegenerate {
		confirmed := false

		if req.Chooser != nil {
			confirmed, err = req.Chooser.ConfirmDegenerate(ctx, report.Total)
			if err != nil {
				return nil, errors.Wrap(err, "confirmation failed")
			}
		}

		if !confirmed {
			log.Warn("grouping is degenerate, nothing written", "rows", report.Total)
			return report, ErrDegenerateGrouping
		}
	}

	if err := checkpoint(ctx, "transform"); err != nil {
		return nil, err
	}

	// 4. Export
	if req.DryRun {
		log.Info("dry run, nothing written", "elapsed", time.Since(start))
		return report, nil
	}

	outDir, err := s.outputDir(req.OutputDir, report.RunID)
	if err != nil {
		return nil, err
	}

	manifest, err := s.exporter.Export(ctx, outDir, inst, result.Groups)
	if err != nil {
		return nil, errors.Wrap(err, "export failed")
	}

	report.Manifest = manifest

	dateStats := s.dates.Stats()
	log.Debug("run complete",
		"elapsed", time.Since(start),
		"date_cache_hits", dateStats.Hits,
		"date_cache_misses", dateStats.Misses,
	)

	return report, nil
}

func (s *Service) selectInstitution(ctx context.Context, dir *reference.Directory, req Request) (models.Institution, error) {
	if req.Institution != "" {
		inst, err := dir.Find(req.Institution)
		if err != nil {
			return models.Institution{}, errors.Wrap(err, "failed to select institution")
		}

		return inst, nil
	}

	if req.Chooser == nil {
		return models.Institution{}, errors.WithHint(ErrNoInstitution, "pass --institution or run with --interactive")
	}

	inst, err := req.Chooser.ChooseInstitution(ctx, dir.All())
	if err != nil {
		return models.Institution{}, errors.Wrap(err, "failed to select institution")
	}

	return inst, nil
}

func (s *Service) resolveMapping(ctx context.Context, table *models.Table, req Request) (mapping.ColumnMapping, *mapping.Resolution, error) {
	resolution := mapping.Resolve(table.Headers, s.opts.Aliases)

	if err := resolution.Apply(req.Overrides); err != nil {
		return nil, nil, err
	}

	if req.Chooser != nil {
		for _, f := range resolution.Unresolved() {
			column, err := req.Chooser.ChooseColumn(ctx, f, resolution.Headers())
			if err != nil {
				return nil, nil, errors.Wrapf(err, "failed to choose column for %s", f)
			}

			if err := resolution.Override(f, column); err != nil {
				return nil, nil, err
			}
		}
	}

	m, err := resolution.Mapping()
	if err != nil {
		return nil, nil, errors.WithHint(err, "map them with --map FIELD=COLUMN")
	}

	return m, resolution, nil
}

func (s *Service) outputDir(explicit, runID string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}

	if !s.opts.RunDirs {
		if err := s.outputs.EnsureOutputDirExists(); err != nil {
			return "", errors.Wrap(err, "failed to create output directory")
		}

		return s.outputs.BaseOutputDir, nil
	}

	return s.outputs.CreateRunDir(runID)
}

func checkpoint(ctx context.Context, stage string) error {
	if err := ctx.Err(); err != nil {
		return errors.Wrapf(err, "cancelled after %s", stage)
	}

	return nil
}
