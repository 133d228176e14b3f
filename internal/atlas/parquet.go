package atlas

import (
	"fmt"
	"io"

	"github.com/parquet-go/parquet-go"

	"github.com/ginjaninja78/herbarium-atlas/internal/validation"
)

// SightingRow is the columnar form of one atlas row, written alongside the
// CSV when parquet export is enabled.
type SightingRow struct {
	RunID        string `parquet:"run_id"`
	Survey       string `parquet:"survey"`
	Sequence     int32  `parquet:"sequence"`
	Binomial     string `parquet:"binomial"`
	SightingDate string `parquet:"sighting_date,optional"`
	Location     string `parquet:"location"`
	Observer     string `parquet:"observer,optional"`
}

// SightingRows converts record into parquet rows tagged with runID and the
// survey file name.
func SightingRows(record validation.SessionRecord, runID, survey string) []SightingRow {
	entries := record.Entries()
	rows := make([]SightingRow, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, SightingRow{
			RunID:        runID,
			Survey:       survey,
			Sequence:     int32(entry.Sequence),
			Binomial:     entry.Binomial,
			SightingDate: record.SightingDate(),
			Location:     record.Location(),
			Observer:     record.PrimaryObserver(),
		})
	}
	return rows
}

// WriteParquet writes rows to w as a single parquet file.
func WriteParquet(w io.Writer, rows []SightingRow) error {
	writer := parquet.NewGenericWriter[SightingRow](w)
	if len(rows) > 0 {
		if _, err := writer.Write(rows); err != nil {
			writer.Close()
			return fmt.Errorf("failed to write parquet rows: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close parquet writer: %w", err)
	}
	return nil
}

// WriteParquetFile writes rows to path, replacing any existing file.
func WriteParquetFile(path string, rows []SightingRow) error {
	return writeAtomic(path, func(w io.Writer) error {
		return WriteParquet(w, rows)
	})
}
