package main

import (
	"os"

	"github.com/spf13/cobra"

	"pesertagen/cmd/pesertagen/commands"
)

var rootCmd = &cobra.Command{
	Use:   "pesertagen",
	Short: "Build participant upload files from a roster spreadsheet",
	Long: `pesertagen turns a participant roster and an institution reference table
into one upload workbook per JENIS_TES plus a combined zip archive.

Available commands:
  sheets       - List the sheets of a spreadsheet
  columns      - Show how a roster's columns map to the output fields
  institutions - List or search the reference table
  generate     - Write the grouped participant files

Examples:
  pesertagen columns peserta.xlsx
  pesertagen institutions instansi.xlsx --search dinas
  pesertagen generate -i peserta.xlsx -r instansi.xlsx --institution 12`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: commands.Setup,
	PersistentPostRun: commands.Teardown,
}

func init() {
	commands.RegisterGlobalFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(commands.SheetsCmd)
	rootCmd.AddCommand(commands.ColumnsCmd)
	rootCmd.AddCommand(commands.InstitutionsCmd)
	rootCmd.AddCommand(commands.GenerateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		commands.PrintError(os.Stderr, err)
		os.Exit(1)
	}
}
