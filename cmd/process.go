// =============================================================================
// Herbarium Atlas - Process Command
// =============================================================================
//
// This file defines the 'process' command, which converts one survey file to
// one atlas CSV.
//
// COMMAND USAGE:
//   herbarium process <survey> <atlas-output> [flags]
//
// FLAGS:
//   --taxa, --observers, --locations : Reference list overrides
//   --template                       : Atlas template written before the rows
//   --sheet                          : Worksheet to read (default: first)
//   --encoding                       : Character encoding of CSV surveys
//   --parquet                        : Also write <atlas-output>.parquet
//   --dry-run                        : Validate without writing output
//
// Every partially correct taxon name is printed to stderr before the result,
// so the survey can be corrected in one pass.
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/herbarium-atlas/internal/converter"
	"github.com/ginjaninja78/herbarium-atlas/internal/validation"
)

// dryRun validates without writing output files.
var dryRun bool

var processCmd = &cobra.Command{
	Use:   "process <survey> <atlas-output>",
	Short: "Convert one survey spreadsheet to an atlas CSV",
	Long: `The process command reads a herbarium survey (.xlsx, .xlsm or .csv),
recognises its taxa, observers, date, location and manual total, validates
it and writes the atlas CSV.

The survey file name may carry the survey date (DDMMYYYY or DDMMYY) and the
location (the whole base name). Values found inside the sheet take priority.

On validation failure nothing is written and the command exits non-zero.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runProcess(cmd, args[0], args[1])
	},
}

func init() {
	rootCmd.AddCommand(processCmd)

	addReferenceFlags(processCmd)
	processCmd.Flags().String("template", "", "Atlas template written before the sighting rows")
	processCmd.Flags().Bool("parquet", false, "Also write a parquet export next to the atlas CSV")
	processCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Validate the survey without writing output")
}

// addReferenceFlags registers the flags shared by commands that read surveys.
func addReferenceFlags(cmd *cobra.Command) {
	cmd.Flags().String("taxa", "", "Taxa reference file")
	cmd.Flags().String("observers", "", "Observers reference file")
	cmd.Flags().String("locations", "", "Locations reference file")
	cmd.Flags().String("sheet", "", "Worksheet to read (default: first sheet)")
	cmd.Flags().String("encoding", "", "Character encoding of CSV surveys")
}

// runProcess converts a single survey.
func runProcess(cmd *cobra.Command, input, output string) error {
	conv, err := converter.New(appConfig, catalogs, logger)
	if err != nil {
		return err
	}

	var result converter.Result
	if dryRun {
		result = conv.Check(input)
	} else {
		result = conv.Convert(input, output)
	}

	printDiagnostics(cmd.ErrOrStderr(), result)
	if !result.Success {
		return fmt.Errorf("%s: %w", filepath.Base(input), result.Error)
	}

	out := cmd.OutOrStdout()
	if dryRun {
		fmt.Fprintf(out, "✓ %s is valid (%d entries)\n", filepath.Base(input), result.Stats.Entries)
		return nil
	}

	fmt.Fprintf(out, "✓ %s -> %s (%d entries)\n", filepath.Base(input), result.OutputFile, result.Stats.Entries)
	if result.ParquetFile != "" {
		fmt.Fprintf(out, "  parquet: %s\n", result.ParquetFile)
	}
	return nil
}

// printDiagnostics writes the partially correct taxon names of result to w.
func printDiagnostics(w io.Writer, result converter.Result) {
	if text := validation.DescribeInvalidTaxa(result.InvalidTaxa); text != "" {
		fmt.Fprintf(w, "%s: %s", filepath.Base(result.FilePath), text)
	}
}
