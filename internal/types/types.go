// =============================================================================
// Herbarium Atlas - Shared Types
// =============================================================================
//
// This package contains the grid types shared by the sheet readers, the survey
// parser and the atlas composer. Keeping them here avoids import cycles
// between:
//   - sheet
//   - survey
//   - atlas
//
// =============================================================================

package types

import "strings"

// =============================================================================
// GRID TYPES
// =============================================================================

// Row is one spreadsheet row. Absent cells are represented as "".
type Row []string

// Grid is the first (or selected) sheet of a workbook, top to bottom.
// Rows beyond the last populated row are not included.
type Grid []Row

// Cell returns the trimmed value at index, or "" if the row is too short.
func (r Row) Cell(index int) string {
	if index < 0 || index >= len(r) {
		return ""
	}
	return strings.TrimSpace(r[index])
}

// IsEmpty reports whether every cell in the row is blank.
func (r Row) IsEmpty() bool {
	for _, cell := range r {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// Width returns the number of cells in the widest row.
func (g Grid) Width() int {
	width := 0
	for _, row := range g {
		if len(row) > width {
			width = len(row)
		}
	}
	return width
}

// TrimTrailingEmpty drops rows after the last populated row.
func (g Grid) TrimTrailingEmpty() Grid {
	end := len(g)
	for end > 0 && g[end-1].IsEmpty() {
		end--
	}
	return g[:end]
}
