package commands

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"pesertagen/internal/formatter"
	"pesertagen/internal/models"
)

var columnsSheet string

// ColumnsCmd shows how a participant sheet's columns resolve.
var ColumnsCmd = &cobra.Command{
	Use:   "columns FILE",
	Short: "Show the headers of a participant sheet and how they map",
	Long: `Print the headers of a participant sheet and the column chosen for each
output field by alias. Fields without a match must be mapped with
--map FIELD=COLUMN when generating.

Examples:
  pesertagen columns peserta.xlsx
  pesertagen columns peserta.xlsx --sheet "Gelombang 2"`,
	Args: cobra.ExactArgs(1),
	RunE: runColumns,
}

func init() {
	ColumnsCmd.Flags().StringVar(&columnsSheet, "sheet", "", "Sheet name (default: configured input sheet, else the first)")
}

func runColumns(cmd *cobra.Command, args []string) error {
	svc, err := newService()
	if err != nil {
		return err
	}

	sheetName := columnsSheet
	if sheetName == "" {
		sheetName = appConfig.Input.Sheet
	}

	resolution, err := svc.Columns(args[0], sheetName)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Headers: %s\n\n", strings.Join(resolution.Headers(), ", "))

	rows := make([][]string, len(models.Fields))
	for i, f := range models.Fields {
		column, ok := resolution.Column(f)
		if !ok {
			column = "-"
		}

		rows[i] = []string{string(f), column}
	}

	fmt.Fprintln(out, formatter.Table([]string{"FIELD", "KOLOM"}, rows, formatter.TableOptions{}))

	if missing := resolution.Unresolved(); len(missing) > 0 {
		names := make([]string, len(missing))
		for i, f := range missing {
			names[i] = string(f)
		}

		pterm.Warning.WithWriter(cmd.ErrOrStderr()).Printfln("unmapped fields: %s", strings.Join(names, ", "))
	}

	return nil
}
