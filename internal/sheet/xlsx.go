package sheet

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/herbarium-atlas/internal/types"
)

// ReadXLSX reads one worksheet of a workbook.
//
// PARAMETERS:
//   - path: The workbook path.
//   - sheetName: The worksheet to read; empty selects the first sheet.
//
// RETURNS:
//   - Every row as displayed text, trailing empty rows dropped.
//   - An error if the workbook or sheet cannot be read.
func ReadXLSX(path, sheetName string) (types.Grid, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	if sheetName == "" {
		sheetName = f.GetSheetName(0)
		if sheetName == "" {
			return nil, fmt.Errorf("workbook %s has no sheets", path)
		}
	} else if idx, err := f.GetSheetIndex(sheetName); err != nil || idx < 0 {
		return nil, fmt.Errorf("workbook %s has no sheet named %q", path, sheetName)
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows from sheet %q: %w", sheetName, err)
	}

	grid := make(types.Grid, len(rows))
	for i, row := range rows {
		grid[i] = types.Row(row)
	}
	return grid.TrimTrailingEmpty(), nil
}
