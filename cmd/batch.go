// =============================================================================
// Herbarium Atlas - Batch Command
// =============================================================================
//
// This file defines the 'batch' command, which converts every survey in the
// input directory.
//
// COMMAND USAGE:
//   herbarium batch [flags]
//
// PROCESSING PIPELINE:
//   1. Create the input, output and archive directories
//   2. Discover .xlsx, .xlsm and .csv surveys in input_dir
//   3. For each survey, in name order:
//      a. Convert it to <output_dir>/<output_name_format>
//      b. On success archive the survey and a copy of the atlas file
//      c. On failure leave the survey in place and record the error
//   4. Write the error log (if any) and the processing summary
//
// Surveys are processed one at a time; the catalog cache means the
// reference files are read once per run.
//
// =============================================================================

package cmd

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ginjaninja78/herbarium-atlas/internal/config"
	"github.com/ginjaninja78/herbarium-atlas/internal/converter"
	"github.com/ginjaninja78/herbarium-atlas/internal/reference"
	"github.com/ginjaninja78/herbarium-atlas/internal/sheet"
	"github.com/ginjaninja78/herbarium-atlas/internal/survey"
	"github.com/ginjaninja78/herbarium-atlas/internal/validation"
	"github.com/ginjaninja78/herbarium-atlas/pkg/utils"
)

var (
	// timestampSubdirs archives into YYYY/MM/DD subdirectories.
	timestampSubdirs bool

	// pruneArchives removes archived files older than this after the run.
	pruneArchives time.Duration
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Convert every survey in the input directory",
	Long: `The batch command scans input_dir for survey files and converts each one
into output_dir.

On success:
  - The atlas CSV is written to the output directory
  - The survey is moved to the input archive
  - A copy of the atlas CSV is placed in the output archive

On error:
  - The survey stays in the input directory
  - The error, with every partially correct taxon name, goes to an error log
  - Processing continues with the next survey`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		summary, err := runBatch(cmd.Context(), appConfig, catalogs, logger)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, pf := range summary.ProcessedFiles {
			fmt.Fprintf(out, "  ✓ %s -> %s\n", filepath.Base(pf.InputFile), pf.OutputFile)
		}
		for _, ff := range summary.FailedFilesList {
			fmt.Fprintf(out, "  ✗ %s: %s\n", filepath.Base(ff.InputFile), ff.ErrorMessage)
		}

		fmt.Fprintln(out, "\n=== Processing Complete ===")
		fmt.Fprintf(out, "Total files:     %d\n", summary.TotalFiles)
		fmt.Fprintf(out, "Successful:      %d\n", summary.SuccessfulFiles)
		fmt.Fprintf(out, "Errors:          %d\n", summary.FailedFiles)
		fmt.Fprintf(out, "Time elapsed:    %s\n", summary.EndTime.Sub(summary.StartTime))

		if summary.FailedFiles > 0 {
			return fmt.Errorf("%d of %d surveys failed", summary.FailedFiles, summary.TotalFiles)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(batchCmd)

	addReferenceFlags(batchCmd)
	batchCmd.Flags().String("template", "", "Atlas template written before the sighting rows")
	batchCmd.Flags().Bool("parquet", false, "Also write a parquet export next to each atlas CSV")
	batchCmd.Flags().String("input-dir", "", "Directory scanned for surveys")
	batchCmd.Flags().String("output-dir", "", "Directory receiving atlas files and logs")
	batchCmd.Flags().String("output-name", "", "Output name format ({original}, {date}, {timestamp}, {uuid})")
	batchCmd.Flags().Bool("archive", true, "Archive surveys and atlas files after success")
	batchCmd.Flags().BoolVar(&timestampSubdirs, "timestamp-subdirs", false, "Archive into YYYY/MM/DD subdirectories")
	batchCmd.Flags().DurationVar(&pruneArchives, "prune-archives", 0, "Remove archived files older than this duration (0 disables)")
}

// runBatch converts every survey in cfg.InputDir and writes the logs.
func runBatch(ctx context.Context, cfg *config.MainConfig, cache *reference.CatalogCache, log *zap.Logger) (utils.ProcessingSummary, error) {
	summary := utils.ProcessingSummary{StartTime: time.Now()}

	fm := utils.NewFileManager(cfg.InputDir, cfg.OutputDir, cfg.InputArchiveDir, cfg.OutputArchiveDir)
	fm.ArchiveOnSuccess = cfg.ArchiveOnSuccess
	fm.UseTimestampSubdirs = timestampSubdirs

	if err := fm.EnsureDirectories(); err != nil {
		return summary, err
	}

	conv, err := converter.New(cfg, cache, log)
	if err != nil {
		return summary, err
	}
	summary.RunID = conv.RunID()

	inputFiles, err := fm.DiscoverInputFiles(sheet.IsSupported)
	if err != nil {
		return summary, fmt.Errorf("failed to discover input files: %w", err)
	}
	summary.TotalFiles = len(inputFiles)
	log.Info("Discovered surveys", zap.Int("count", len(inputFiles)), zap.String("input_dir", cfg.InputDir))

	var errorEntries []utils.ErrorLogEntry

	for _, inputPath := range inputFiles {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		outputPath := filepath.Join(cfg.OutputDir, utils.GenerateOutputFileName(cfg.OutputNameFormat, inputPath, time.Now()))
		result := conv.Convert(inputPath, outputPath)

		summary.TotalRows += result.Stats.RowsRead
		summary.InvalidTaxa += result.Stats.InvalidTaxa

		if !result.Success {
			summary.FailedFiles++
			errorType := classifyError(result.Error)
			summary.FailedFilesList = append(summary.FailedFilesList, utils.FailedFileInfo{
				InputFile:    inputPath,
				ErrorMessage: result.Error.Error(),
				ErrorType:    errorType,
			})

			entry := utils.ErrorLogEntry{
				Timestamp:    time.Now(),
				FileName:     filepath.Base(inputPath),
				ErrorType:    errorType,
				ErrorMessage: result.Error.Error(),
			}
			for _, name := range result.InvalidTaxa {
				entry.Details = append(entry.Details, fmt.Sprintf("Genus %q, species %q", name.Genus, name.Species))
			}
			errorEntries = append(errorEntries, entry)
			continue
		}

		summary.SuccessfulFiles++
		summary.TotalEntries += result.Stats.Entries

		archivePath, err := fm.ArchiveInputFile(inputPath)
		if err != nil {
			log.Warn("Failed to archive survey", zap.String("survey", inputPath), zap.Error(err))
			archivePath = ""
		}
		for _, produced := range []string{result.OutputFile, result.ParquetFile} {
			if produced == "" {
				continue
			}
			if _, err := fm.ArchiveOutputFile(produced); err != nil {
				log.Warn("Failed to archive output", zap.String("output", produced), zap.Error(err))
			}
		}
		if !cfg.ArchiveOnSuccess {
			archivePath = ""
		}

		summary.ProcessedFiles = append(summary.ProcessedFiles, utils.ProcessedFileInfo{
			InputFile:   inputPath,
			OutputFile:  result.OutputFile,
			ArchivePath: archivePath,
			Rows:        result.Stats.RowsRead,
			Entries:     result.Stats.Entries,
			Location:    result.Record.Location(),
			ProcessTime: result.Stats.ProcessingTime,
		})
	}

	if pruneArchives > 0 {
		for _, dir := range []string{cfg.InputArchiveDir, cfg.OutputArchiveDir} {
			removed, err := utils.CleanOldArchives(dir, pruneArchives, time.Now())
			if err != nil {
				log.Warn("Failed to prune archive", zap.String("dir", dir), zap.Error(err))
				continue
			}
			log.Info("Pruned archive", zap.String("dir", dir), zap.Int("removed", removed))
		}
	}

	summary.EndTime = time.Now()

	if path, err := utils.WriteErrorLog(errorEntries, cfg.OutputDir, summary.EndTime); err != nil {
		log.Warn("Failed to write error log", zap.Error(err))
	} else if path != "" {
		log.Info("Wrote error log", zap.String("path", path))
	}

	if path, err := utils.WriteSummaryLog(summary, cfg.OutputDir); err != nil {
		log.Warn("Failed to write summary log", zap.Error(err))
	} else {
		log.Info("Wrote summary log", zap.String("path", path))
	}

	return summary, nil
}

// classifyError names the kind of failure for the error log.
func classifyError(err error) string {
	switch {
	case errors.Is(err, validation.ErrValidation):
		return "validation"
	case errors.Is(err, survey.ErrDateTooEarly), errors.Is(err, survey.ErrDateInFuture):
		return "filename_date"
	case errors.Is(err, sheet.ErrUnsupportedFormat):
		return "unsupported_format"
	case errors.Is(err, reference.ErrMalformedTaxaLine):
		return "reference_data"
	default:
		return "processing"
	}
}
