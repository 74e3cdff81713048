package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// SheetsCmd lists the sheets of a spreadsheet.
var SheetsCmd = &cobra.Command{
	Use:   "sheets FILE",
	Short: "List the sheets of a spreadsheet",
	Long: `List the sheets of an .xlsx or .csv file in workbook order.

A csv file has a single sheet named after the file.

Examples:
  pesertagen sheets peserta.xlsx`,
	Args: cobra.ExactArgs(1),
	RunE: runSheets,
}

func runSheets(cmd *cobra.Command, args []string) error {
	svc, err := newService()
	if err != nil {
		return err
	}

	sheets, err := svc.Sheets(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, name := range sheets {
		fmt.Fprintln(out, name)
	}

	return nil
}
