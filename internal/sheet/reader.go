// =============================================================================
// Herbarium Atlas - Sheet Reader
// =============================================================================
//
// This module reads a survey or template file into a flat types.Grid. It
// knows nothing about taxa or observers; it only turns cells into strings.
//
// SUPPORTED FORMATS:
//   - .xlsx / .xlsm : read with excelize, first sheet unless one is named
//   - .csv          : read with encoding/csv, optionally re-encoded to UTF-8
//
// Legacy binary .xls workbooks are rejected with ErrUnsupportedFormat; they
// have to be saved as .xlsx first.
//
// =============================================================================

package sheet

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ginjaninja78/herbarium-atlas/internal/types"
)

// ErrUnsupportedFormat is returned for file extensions no reader handles.
var ErrUnsupportedFormat = errors.New("unsupported sheet format")

// Options control how a grid is read.
type Options struct {
	// Sheet is the worksheet to read from a workbook. Empty means the first.
	Sheet string

	// Encoding is the character encoding of CSV input. Empty means UTF-8.
	Encoding string
}

// ReadGrid reads path into a grid, choosing the reader from the extension.
//
// PARAMETERS:
//   - path: The survey or template file.
//   - opts: Sheet and encoding options.
//
// RETURNS:
//   - The grid with trailing empty rows removed.
//   - ErrUnsupportedFormat (wrapped) for unknown extensions.
func ReadGrid(path string, opts Options) (types.Grid, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".xlsx", ".xlsm":
		return ReadXLSX(path, opts.Sheet)
	case ".csv":
		return ReadCSV(path, opts.Encoding)
	case ".xls":
		return nil, fmt.Errorf("%w: %s is a legacy .xls workbook, save it as .xlsx", ErrUnsupportedFormat, filepath.Base(path))
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// IsSupported reports whether ReadGrid can read path.
func IsSupported(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm", ".csv":
		return true
	}
	return false
}
