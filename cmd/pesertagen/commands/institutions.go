package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"pesertagen/internal/formatter"
)

var (
	institutionsSheet  string
	institutionsSearch string
	institutionsLimit  int
)

// InstitutionsCmd lists or searches the reference table.
var InstitutionsCmd = &cobra.Command{
	Use:   "institutions REFFILE",
	Short: "List or search the institutions of a reference table",
	Long: `List the institutions of a reference table (columns ID and NAMA).
With --search, entries are ranked by fuzzy match on "<id> — <name>".

Examples:
  pesertagen institutions instansi.xlsx
  pesertagen institutions instansi.xlsx --search "dinas pend" --limit 5`,
	Args: cobra.ExactArgs(1),
	RunE: runInstitutions,
}

func init() {
	InstitutionsCmd.Flags().StringVar(&institutionsSheet, "sheet", "", "Sheet name (default: configured reference sheet, else the first)")
	InstitutionsCmd.Flags().StringVarP(&institutionsSearch, "search", "s", "", "Fuzzy search query")
	InstitutionsCmd.Flags().IntVarP(&institutionsLimit, "limit", "l", 20, "Maximum number of results (0 for all)")
}

func runInstitutions(cmd *cobra.Command, args []string) error {
	svc, err := newService()
	if err != nil {
		return err
	}

	sheetName := institutionsSheet
	if sheetName == "" {
		sheetName = appConfig.Input.ReferenceSheet
	}

	dir, err := svc.Institutions(args[0], sheetName)
	if err != nil {
		return err
	}

	found := dir.Search(institutionsSearch, institutionsLimit)

	rows := make([][]string, len(found))
	for i, inst := range found {
		rows[i] = []string{inst.ID, inst.Name}
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, formatter.Table([]string{"ID", "NAMA"}, rows, formatter.TableOptions{MaxCellWidth: appConfig.Preview.MaxCellWidth * 2}))
	fmt.Fprintf(out, "%d of %d institutions\n", len(found), dir.Len())

	return nil
}
