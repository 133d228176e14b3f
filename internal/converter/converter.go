// =============================================================================
// Herbarium Atlas - Converter Module
// =============================================================================
//
// This module contains the conversion pipeline for a single survey file,
// from spreadsheet reading to atlas CSV output.
//
// CONVERSION PIPELINE:
//   1. Load the reference catalog (shared across files through the cache)
//   2. Start a session, seeding date and location from the file name
//   3. Read the survey grid
//   4. Fold every row into the session state
//   5. Validate the state and build the session record
//   6. Compose the atlas CSV (template + sighting rows)
//   7. Optionally write the parquet export next to it
//
// Steps 6 and 7 are skipped by Check, which is used for dry runs.
//
// =============================================================================

package converter

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ginjaninja78/herbarium-atlas/internal/atlas"
	"github.com/ginjaninja78/herbarium-atlas/internal/config"
	"github.com/ginjaninja78/herbarium-atlas/internal/reference"
	"github.com/ginjaninja78/herbarium-atlas/internal/sheet"
	"github.com/ginjaninja78/herbarium-atlas/internal/survey"
	"github.com/ginjaninja78/herbarium-atlas/internal/validation"
)

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result represents the outcome of processing a single survey file.
type Result struct {
	// FilePath is the survey file that was processed.
	FilePath string

	// OutputFile is the generated atlas CSV. Empty on failure or dry run.
	OutputFile string

	// ParquetFile is the generated parquet export, if enabled.
	ParquetFile string

	// Success indicates whether the survey converted (or, for Check,
	// validated) without error.
	Success bool

	// Error is the first error encountered, nil on success.
	Error error

	// Record is the validated session, nil when validation failed.
	Record *validation.SessionRecord

	// InvalidTaxa lists every partially correct name found in the sheet,
	// whether or not validation went on to fail for another reason.
	InvalidTaxa []survey.TaxonName

	// Stats contains processing statistics.
	Stats ProcessingStats
}

// ProcessingStats contains statistics about the processing.
type ProcessingStats struct {
	// RowsRead is the number of sheet rows folded, empty rows included.
	RowsRead int

	// Entries is the number of recognised sightings.
	Entries int

	// Observers is the number of observer fragments seen.
	Observers int

	// InvalidTaxa is the number of partially correct names.
	InvalidTaxa int

	// ProcessingTime is the time taken to process the file.
	ProcessingTime time.Duration
}

// =============================================================================
// CONVERTER STRUCTURE
// =============================================================================

// Converter converts survey files using one configuration. It can be reused
// for many files; each call gets its own session.
type Converter struct {
	cfg      *config.MainConfig
	catalogs *reference.CatalogCache
	composer *atlas.Composer
	logger   *zap.Logger
	runID    string
	now      func() time.Time
}

// Option configures a Converter.
type Option func(*Converter)

// WithClock replaces time.Now for filename date checks.
func WithClock(now func() time.Time) Option {
	return func(c *Converter) {
		if now != nil {
			c.now = now
		}
	}
}

// WithRunID sets the run id attached to log lines and parquet rows.
func WithRunID(id string) Option {
	return func(c *Converter) {
		if id != "" {
			c.runID = id
		}
	}
}

// =============================================================================
// CONSTRUCTOR
// =============================================================================

// New creates a Converter and loads the atlas template once.
//
// PARAMETERS:
//   - cfg: The application configuration.
//   - catalogs: The shared reference catalog cache.
//   - logger: The logger to use; nil disables logging.
//
// RETURNS:
//   - A new Converter.
//   - An error if the template or layout is unusable.
func New(cfg *config.MainConfig, catalogs *reference.CatalogCache, logger *zap.Logger, opts ...Option) (*Converter, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if catalogs == nil {
		catalogs = reference.NewCatalogCache(cfg.Reference.CacheTTL)
	}

	c := &Converter{
		cfg:      cfg,
		catalogs: catalogs,
		runID:    uuid.NewString(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = logger.With(zap.String("run_id", c.runID))

	template, err := atlas.LoadTemplate(cfg.Atlas.TemplateFile, sheet.Options{
		Encoding: cfg.Survey.CSVEncoding,
	})
	if err != nil {
		return nil, err
	}

	composer, err := atlas.NewComposer(template, cfg.Atlas.Layout)
	if err != nil {
		return nil, fmt.Errorf("invalid atlas layout: %w", err)
	}
	c.composer = composer

	c.logger.Debug("Converter ready",
		zap.String("template", cfg.Atlas.TemplateFile),
		zap.Int("template_rows", len(template)))
	return c, nil
}

// RunID identifies this converter's log lines and exports.
func (c *Converter) RunID() string {
	return c.runID
}

// =============================================================================
// MAIN PROCESSING FUNCTIONS
// =============================================================================

// Convert runs the full pipeline for inputPath and writes the atlas CSV to
// outputPath.
func (c *Converter) Convert(inputPath, outputPath string) Result {
	startTime := time.Now()
	logger := c.logger.With(zap.String("survey", inputPath))

	result := c.validate(inputPath, logger)
	if !result.Success {
		result.Stats.ProcessingTime = time.Since(startTime)
		return result
	}
	result.Success = false

	// =========================================================================
	// STEP 6: COMPOSE ATLAS OUTPUT
	// =========================================================================

	if err := c.composer.WriteFile(outputPath, *result.Record); err != nil {
		result.Error = fmt.Errorf("failed to write atlas output: %w", err)
		return result
	}
	result.OutputFile = outputPath
	logger.Info("Wrote atlas output",
		zap.String("output", outputPath),
		zap.Int("entries", result.Stats.Entries))

	// =========================================================================
	// STEP 7: PARQUET EXPORT
	// =========================================================================

	if c.cfg.ParquetExport {
		parquetPath := ParquetPath(outputPath)
		rows := atlas.SightingRows(*result.Record, c.runID, filepath.Base(inputPath))
		if err := atlas.WriteParquetFile(parquetPath, rows); err != nil {
			result.Error = fmt.Errorf("failed to write parquet export: %w", err)
			return result
		}
		result.ParquetFile = parquetPath
		logger.Info("Wrote parquet export", zap.String("output", parquetPath))
	}

	result.Success = true
	result.Stats.ProcessingTime = time.Since(startTime)
	return result
}

// Check runs the pipeline up to validation without writing anything.
func (c *Converter) Check(inputPath string) Result {
	startTime := time.Now()
	result := c.validate(inputPath, c.logger.With(zap.String("survey", inputPath)))
	result.Stats.ProcessingTime = time.Since(startTime)
	return result
}

// validate runs steps 1 to 5. On success result.Record is set.
func (c *Converter) validate(inputPath string, logger *zap.Logger) Result {
	result := Result{FilePath: inputPath}

	// =========================================================================
	// STEP 1: LOAD REFERENCE CATALOG
	// =========================================================================

	catalog, err := c.catalogs.Get(c.cfg.ReferencePaths())
	if err != nil {
		result.Error = fmt.Errorf("failed to load reference data: %w", err)
		return result
	}

	// =========================================================================
	// STEP 2: START SESSION
	// =========================================================================

	session, err := survey.NewSession(inputPath, catalog,
		survey.WithLogger(logger),
		survey.WithClock(c.now))
	if err != nil {
		result.Error = err
		return result
	}

	// =========================================================================
	// STEP 3: READ SURVEY GRID
	// =========================================================================

	grid, err := sheet.ReadGrid(inputPath, sheet.Options{
		Sheet:    c.cfg.Survey.Sheet,
		Encoding: c.cfg.Survey.CSVEncoding,
	})
	if err != nil {
		result.Error = fmt.Errorf("failed to read survey: %w", err)
		return result
	}
	logger.Debug("Read survey grid", zap.Int("rows", len(grid)))

	// =========================================================================
	// STEP 4: FOLD ROWS
	// =========================================================================

	session.Fold(grid)
	state := session.State()

	result.InvalidTaxa = state.InvalidTaxa
	result.Stats.RowsRead = session.RowsRead()
	result.Stats.Entries = len(state.Entries)
	result.Stats.Observers = len(state.Observers)
	result.Stats.InvalidTaxa = len(state.InvalidTaxa)

	for _, name := range state.InvalidTaxa {
		logger.Warn("Partially correct taxon name",
			zap.String("genus", name.Genus),
			zap.String("species", name.Species))
	}

	// =========================================================================
	// STEP 5: VALIDATE
	// =========================================================================

	record, err := validation.Finalize(state, inputPath)
	if err != nil {
		result.Error = err
		logger.Warn("Survey failed validation", zap.Error(err))
		return result
	}

	result.Record = record
	result.Success = true
	logger.Info("Survey validated",
		zap.Int("entries", record.EntryCount()),
		zap.String("location", record.Location()),
		zap.String("sighting_date", record.SightingDate()))
	return result
}

// ParquetPath returns the parquet export path for an atlas CSV path.
func ParquetPath(outputPath string) string {
	return strings.TrimSuffix(outputPath, filepath.Ext(outputPath)) + ".parquet"
}
