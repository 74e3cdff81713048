package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"pesertagen/internal/generator"
	"pesertagen/internal/mapping"
)

// ErrInvalidFormat is returned for an unknown --format value.
var ErrInvalidFormat = errors.New("format must be text or markdown")

var (
	genInput           string
	genReference       string
	genInputSheet      string
	genReferenceSheet  string
	genInstitution     string
	genMappings        []string
	genIDPendidikan    int
	genIDJabatan       int
	genIDJenisJabatan  int
	genOutput          string
	genFormat          string
	genReport          string
	genDryRun          bool
	genAllowDegenerate bool
	genInteractive     bool
)

// GenerateCmd builds the participant files for one institution.
var GenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate participant workbooks grouped by JENIS_TES",
	Long: `Read a participant roster and a reference table, stamp the selected
institution and the default ids on every row, and write one workbook per
JENIS_TES plus a zip archive holding all of them.

Examples:
  pesertagen generate --input peserta.xlsx --reference instansi.xlsx --institution 12
  pesertagen generate --input peserta.csv --reference instansi.xlsx \
      --institution "Dinas Pendidikan" --map NAMA="NAMA LENGKAP" --output ./hasil
  pesertagen generate --input peserta.xlsx --reference instansi.xlsx --interactive`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

func init() {
	f := GenerateCmd.Flags()
	f.StringVarP(&genInput, "input", "i", "", "Participant file (.xlsx or .csv)")
	f.StringVarP(&genReference, "reference", "r", "", "Reference file with ID and NAMA columns")
	f.StringVar(&genInputSheet, "input-sheet", "", "Participant sheet (default: configured, else the first)")
	f.StringVar(&genReferenceSheet, "reference-sheet", "", "Reference sheet (default: configured, else the first)")
	f.StringVar(&genInstitution, "institution", "", "Institution label, id or name")
	f.StringArrayVarP(&genMappings, "map", "m", nil, "Column override FIELD=COLUMN (repeatable)")
	f.IntVar(&genIDPendidikan, "id-pendidikan", 0, "ID_PENDIDIKAN value (default from config)")
	f.IntVar(&genIDJabatan, "id-jabatan", 0, "ID_JABATAN value (default from config)")
	f.IntVar(&genIDJenisJabatan, "id-jenis-jabatan", 0, "ID_JENIS_JABATAN value (default from config)")
	f.StringVarP(&genOutput, "output", "o", "", "Write files into this directory instead of a run directory")
	f.StringVarP(&genFormat, "format", "f", "text", "Report format (text/markdown)")
	f.StringVar(&genReport, "report", "", "Also write a signed markdown report to this file")
	f.BoolVar(&genDryRun, "dry-run", false, "Show the result without writing files")
	f.BoolVar(&genAllowDegenerate, "allow-degenerate", false, "Export even when no row has a JENIS_TES value")
	f.BoolVar(&genInteractive, "interactive", false, "Prompt for the institution, unmapped columns and confirmations")
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	if genFormat != "text" && genFormat != "markdown" {
		return errors.Wrapf(ErrInvalidFormat, "%q", genFormat)
	}

	req, err := buildRequest(cmd)
	if err != nil {
		return err
	}

	svc, err := newService()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	report, err := svc.Run(ctx, req)

	switch {
	case errors.Is(err, generator.ErrDegenerateGrouping):
		printReport(cmd.OutOrStdout(), report)
		pterm.Warning.WithWriter(cmd.ErrOrStderr()).Println(
			"Semua baris tidak memiliki JENIS_TES; tidak ada file yang ditulis. Gunakan --allow-degenerate untuk tetap mengekspor.")

		return nil
	case err != nil:
		return err
	}

	printReport(cmd.OutOrStdout(), report)

	if genReport != "" {
		if err := os.WriteFile(genReport, []byte(report.SignedMarkdown(time.Now())), 0o644); err != nil {
			return errors.Wrap(err, "failed to write report")
		}
	}

	if report.Manifest != nil {
		pterm.Success.WithWriter(cmd.ErrOrStderr()).Printfln("%d file(s) written to %s",
			len(report.Manifest.Files)+1, report.Manifest.Dir)
	}

	return nil
}

func buildRequest(cmd *cobra.Command) (generator.Request, error) {
	if genInput == "" || genReference == "" {
		return generator.Request{}, errors.WithHint(generator.ErrMissingInput, "pass --input and --reference")
	}

	overrides, err := mapping.ParseOverrides(genMappings)
	if err != nil {
		return generator.Request{}, err
	}

	defaults := appConfig.Defaults

	flags := cmd.Flags()
	if flags.Changed("id-pendidikan") {
		defaults.IDPendidikan = genIDPendidikan
	}

	if flags.Changed("id-jabatan") {
		defaults.IDJabatan = genIDJabatan
	}

	if flags.Changed("id-jenis-jabatan") {
		defaults.IDJenisJabatan = genIDJenisJabatan
	}

	if defaults.IDPendidikan < 0 || defaults.IDJabatan < 0 || defaults.IDJenisJabatan < 0 {
		return generator.Request{}, errors.New("id flags must be non-negative")
	}

	req := generator.Request{
		InputPath:       genInput,
		InputSheet:      firstNonEmpty(genInputSheet, appConfig.Input.Sheet),
		ReferencePath:   genReference,
		ReferenceSheet:  firstNonEmpty(genReferenceSheet, appConfig.Input.ReferenceSheet),
		Institution:     genInstitution,
		Overrides:       overrides,
		Defaults:        defaults,
		OutputDir:       genOutput,
		DryRun:          genDryRun,
		AllowDegenerate: genAllowDegenerate,
	}

	if genInteractive {
		req.Chooser = newPromptChooser()
	}

	return req, nil
}

func printReport(w io.Writer, report *generator.Report) {
	if report == nil {
		return
	}

	if genFormat == "markdown" {
		fmt.Fprintln(w, report.Markdown())
		return
	}

	fmt.Fprintf(w, "Instansi: %s\n", report.Institution.Label())
	fmt.Fprintf(w, "Peserta:  %d\n\n", report.Total)
	fmt.Fprintln(w, report.MappingTable())
	fmt.Fprintln(w)
	fmt.Fprintln(w, report.Summary())

	for _, p := range report.Previews {
		key := p.Key
		if key == "" {
			key = "(kosong)"
		}

		fmt.Fprintf(w, "\n%s (%d)\n%s\n", key, p.Rows, p.Table)
	}

	if files := report.FilesTable(); files != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, files)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}

	return ""
}
