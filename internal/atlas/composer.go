// =============================================================================
// Herbarium Atlas - Atlas Composer
// =============================================================================
//
// The Composer writes the atlas CSV: the template sheet first, converted to
// CSV, then one appended row per sighting.
//
// OUTPUT:
//   - Template rows padded to the template's widest row
//   - Sighting rows laid out by Layout
//   - Lines end in "\n"; quoting follows FormatRow
//
// Files are written to a temporary name in the destination directory and
// renamed into place, so a failed run never leaves a partial atlas file.
//
// =============================================================================

package atlas

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/ginjaninja78/herbarium-atlas/internal/sheet"
	"github.com/ginjaninja78/herbarium-atlas/internal/types"
	"github.com/ginjaninja78/herbarium-atlas/internal/validation"
)

// Composer renders session records into atlas CSV.
type Composer struct {
	template types.Grid
	layout   Layout
}

// NewComposer creates a composer for template (which may be empty) and
// layout. The layout is validated here so Compose cannot index out of range.
func NewComposer(template types.Grid, layout Layout) (*Composer, error) {
	if err := layout.Validate(); err != nil {
		return nil, err
	}
	return &Composer{
		template: template.TrimTrailingEmpty(),
		layout:   layout,
	}, nil
}

// LoadTemplate reads the template sheet at path. An empty path means no
// template rows.
func LoadTemplate(path string, opts sheet.Options) (types.Grid, error) {
	if path == "" {
		return nil, nil
	}
	grid, err := sheet.ReadGrid(path, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to read atlas template %s: %w", path, err)
	}
	return grid, nil
}

// Layout returns the layout used for appended rows.
func (c *Composer) Layout() Layout {
	return c.layout
}

// Compose writes the template followed by record's rows to w.
func (c *Composer) Compose(w io.Writer, record validation.SessionRecord) error {
	bw := bufio.NewWriter(w)

	width := c.template.Width()
	for _, row := range c.template {
		padded := make([]string, width)
		copy(padded, row)
		if _, err := fmt.Fprintln(bw, FormatRow(padded)); err != nil {
			return fmt.Errorf("failed to write template row: %w", err)
		}
	}

	for _, row := range Rows(record, c.layout) {
		if _, err := fmt.Fprintln(bw, FormatRow(row)); err != nil {
			return fmt.Errorf("failed to write sighting row: %w", err)
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to flush atlas output: %w", err)
	}
	return nil
}

// WriteFile composes record into path, replacing any existing file.
func (c *Composer) WriteFile(path string, record validation.SessionRecord) error {
	return writeAtomic(path, func(w io.Writer) error {
		return c.Compose(w, record)
	})
}

// writeAtomic writes through a uniquely named temporary file next to path
// and renames it into place once fill succeeds.
func writeAtomic(path string, fill func(w io.Writer) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	tmpPath := filepath.Join(dir, "."+filepath.Base(path)+"."+uuid.NewString()+".tmp")
	tmp, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}

	if err := fill(tmp); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temporary file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to move output into place: %w", err)
	}
	return nil
}
