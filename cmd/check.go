package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/herbarium-atlas/internal/converter"
)

var checkCmd = &cobra.Command{
	Use:   "check <survey>...",
	Short: "Validate survey spreadsheets without writing output",
	Long: `The check command runs recognition and validation on each survey and
reports its entries, location, date and any partially correct taxon names.
It exits non-zero if any survey fails.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
	addReferenceFlags(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	conv, err := converter.New(appConfig, catalogs, logger)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	failed := 0
	for _, input := range args {
		result := conv.Check(input)
		printDiagnostics(cmd.ErrOrStderr(), result)

		name := filepath.Base(input)
		if !result.Success {
			failed++
			fmt.Fprintf(out, "✗ %s: %v\n", name, result.Error)
			continue
		}

		record := result.Record
		fmt.Fprintf(out, "✓ %s\n", name)
		fmt.Fprintf(out, "  Location:  %s\n", record.Location())
		fmt.Fprintf(out, "  Date:      %s\n", orDash(record.SightingDate()))
		fmt.Fprintf(out, "  Observer:  %s\n", orDash(record.PrimaryObserver()))
		fmt.Fprintf(out, "  Entries:   %d\n", record.EntryCount())
		fmt.Fprintf(out, "  Rows read: %d\n", result.Stats.RowsRead)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d surveys failed validation", failed, len(args))
	}
	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
