package generator

import (
	"fmt"
	"strings"
	"time"

	"pesertagen/internal/export"
	"pesertagen/internal/formatter"
	"pesertagen/internal/mapping"
	"pesertagen/internal/models"
	"pesertagen/internal/normalizer"
	"pesertagen/pkg/metadata"
)

// Report summarizes one run.
type Report struct {
	RunID       string
	Institution models.Institution
	Mapping     mapping.ColumnMapping
	// Automatic marks fields resolved by alias rather than by override or choice.
	Automatic  map[models.Field]bool
	Counts     []normalizer.GroupCount
	Total      int
	Degenerate bool
	Previews   []Preview
	DryRun     bool
	// Manifest is nil when nothing was written.
	Manifest *export.Manifest
}

// Preview is the head of one group rendered as a table.
type Preview struct {
	Key   string
	Rows  int
	Table string
}

func (r *Report) fill(result *normalizer.Result, previewRows, maxCellWidth int) {
	r.Counts = result.Counts()
	r.Total = len(result.Records)
	r.Degenerate = result.Degenerate

	if previewRows <= 0 {
		return
	}

	r.Previews = make([]Preview, len(result.Groups))
	for i, g := range result.Groups {
		r.Previews[i] = Preview{
			Key:  g.Key,
			Rows: g.Len(),
			Table: formatter.Table(models.OutputColumns, g.Values(), formatter.TableOptions{
				MaxCellWidth: maxCellWidth,
				MaxRows:      previewRows,
			}),
		}
	}
}

// MappingTable renders the field to column mapping.
func (r *Report) MappingTable() string {
	rows := make([][]string, 0, len(models.Fields))
	for _, f := range models.Fields {
		source := "alias"
		if !r.Automatic[f] {
			source = "manual"
		}

		rows = append(rows, []string{string(f), r.Mapping[f], source})
	}

	return formatter.Table([]string{"FIELD", "KOLOM", "SUMBER"}, rows, formatter.TableOptions{})
}

// Summary renders the row count per JENIS_TES.
func (r *Report) Summary() string {
	counts := make([]formatter.CountRow, len(r.Counts))
	for i, c := range r.Counts {
		counts[i] = formatter.CountRow{Label: c.Key, Count: c.Rows}
	}

	return formatter.Counts(models.ColJenisTes, "JUMLAH", counts)
}

// FilesTable renders the written files, or "" when nothing was written.
func (r *Report) FilesTable() string {
	if r.Manifest == nil {
		return ""
	}

	files := append(append([]export.FileEntry{}, r.Manifest.Files...), r.Manifest.Archive)

	rows := make([][]string, len(files))
	for i, f := range files {
		rows[i] = []string{f.Name, f.Type, fmt.Sprint(f.Rows)}
	}

	return formatter.Table([]string{"FILE", "TYPE", "ROWS"}, rows, formatter.TableOptions{})
}

// Markdown renders the whole report as a markdown document.
func (r *Report) Markdown() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# Peserta %s\n\n", r.Institution.Label())
	fmt.Fprintf(&sb, "- Run: `%s`\n", r.RunID)
	fmt.Fprintf(&sb, "- Rows: %d\n", r.Total)

	if r.Manifest != nil {
		fmt.Fprintf(&sb, "- Output: `%s`\n", r.Manifest.Dir)
	} else {
		sb.WriteString("- Output: none\n")
	}

	sb.WriteString("\n## Mapping\n\n")
	sb.WriteString(r.MappingTable())
	sb.WriteString("\n\n## JENIS_TES\n\n")
	sb.WriteString(r.Summary())
	sb.WriteString("\n")

	if files := r.FilesTable(); files != "" {
		sb.WriteString("\n## Files\n\n")
		sb.WriteString(files)
		sb.WriteString("\n")
	}

	for _, p := range r.Previews {
		key := p.Key
		if key == "" {
			key = "(kosong)"
		}

		fmt.Fprintf(&sb, "\n## %s (%d)\n\n", key, p.Rows)
		sb.WriteString(p.Table)
		sb.WriteString("\n")
	}

	return formatter.FormatMarkdown(sb.String())
}

// SignedMarkdown is Markdown stamped with the run id and a content hash.
func (r *Report) SignedMarkdown(at time.Time) string {
	return metadata.Stamp(r.Markdown(), r.RunID, at)
}
