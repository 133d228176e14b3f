package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ginjaninja78/herbarium-atlas/internal/config"
	"github.com/ginjaninja78/herbarium-atlas/internal/reference"
	"github.com/ginjaninja78/herbarium-atlas/internal/sheet"
	"github.com/ginjaninja78/herbarium-atlas/internal/survey"
	"github.com/ginjaninja78/herbarium-atlas/internal/validation"
)

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func batchConfig(t *testing.T) *config.MainConfig {
	t.Helper()
	dir := t.TempDir()

	writeTestFile(t, filepath.Join(dir, "ref", "taxa.txt"), "Mammals\nHominidae\tHomo\tsapiens\n")
	writeTestFile(t, filepath.Join(dir, "ref", "observers.txt"), "Grimm\n")
	writeTestFile(t, filepath.Join(dir, "ref", "locations.txt"), "Las Vegas\n")

	cfg := config.Default()
	cfg.Reference.TaxaFile = filepath.Join(dir, "ref", "taxa.txt")
	cfg.Reference.ObserversFile = filepath.Join(dir, "ref", "observers.txt")
	cfg.Reference.LocationsFile = filepath.Join(dir, "ref", "locations.txt")
	cfg.InputDir = filepath.Join(dir, "input")
	cfg.OutputDir = filepath.Join(dir, "output")
	cfg.InputArchiveDir = filepath.Join(dir, "input_archive")
	cfg.OutputArchiveDir = filepath.Join(dir, "output_archive")
	return cfg
}

func TestRunBatch(t *testing.T) {
	cfg := batchConfig(t)
	writeTestFile(t, filepath.Join(cfg.InputDir, "Las Vegas.csv"), "Andrew Grimm\n,Homo,sapiens\nCount = 1\n")
	writeTestFile(t, filepath.Join(cfg.InputDir, "Las Vegas typo.csv"), "Las Vegas\n,Homo,sapien\n")
	writeTestFile(t, filepath.Join(cfg.InputDir, "notes.txt"), "ignored")

	summary, err := runBatch(context.Background(), cfg, reference.NewCatalogCache(0), zap.NewNop())
	require.NoError(t, err)

	assert.NotEmpty(t, summary.RunID)
	assert.Equal(t, 2, summary.TotalFiles)
	assert.Equal(t, 1, summary.SuccessfulFiles)
	assert.Equal(t, 1, summary.FailedFiles)
	assert.Equal(t, 1, summary.TotalEntries)
	assert.Equal(t, 1, summary.InvalidTaxa)

	require.Len(t, summary.ProcessedFiles, 1)
	processed := summary.ProcessedFiles[0]
	assert.Equal(t, filepath.Join(cfg.OutputDir, "Las Vegas_atlas.csv"), processed.OutputFile)
	assert.Equal(t, filepath.Join(cfg.InputArchiveDir, "Las Vegas.csv"), processed.ArchivePath)
	assert.Equal(t, "Las Vegas", processed.Location)

	require.Len(t, summary.FailedFilesList, 1)
	assert.Equal(t, "validation", summary.FailedFilesList[0].ErrorType)

	_, err = os.Stat(processed.OutputFile)
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(cfg.OutputArchiveDir, "Las Vegas_atlas.csv"))
	assert.NoError(t, err, "atlas file copied to the output archive")
	_, err = os.Stat(filepath.Join(cfg.InputDir, "Las Vegas.csv"))
	assert.True(t, os.IsNotExist(err), "survey moved to the input archive")
	_, err = os.Stat(filepath.Join(cfg.InputDir, "Las Vegas typo.csv"))
	assert.NoError(t, err, "failed survey stays in place")

	logs, err := filepath.Glob(filepath.Join(cfg.OutputDir, "error_log_*.txt"))
	require.NoError(t, err)
	assert.Len(t, logs, 1)
}

func TestRunBatch_Cancelled(t *testing.T) {
	cfg := batchConfig(t)
	writeTestFile(t, filepath.Join(cfg.InputDir, "Las Vegas.csv"), ",Homo,sapiens\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := runBatch(ctx, cfg, reference.NewCatalogCache(0), zap.NewNop())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClassifyError(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{&validation.InconsistentTotalError{Recorded: 2, Computed: 1}, "validation"},
		{fmt.Errorf("wrapped: %w", survey.ErrDateInFuture), "filename_date"},
		{survey.ErrDateTooEarly, "filename_date"},
		{fmt.Errorf("x.xls: %w", sheet.ErrUnsupportedFormat), "unsupported_format"},
		{fmt.Errorf("line 3: %w", reference.ErrMalformedTaxaLine), "reference_data"},
		{errors.New("disk full"), "processing"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, classifyError(tt.err), tt.err.Error())
	}
}
