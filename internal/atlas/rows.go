package atlas

import (
	"strconv"
	"strings"

	"github.com/ginjaninja78/herbarium-atlas/internal/validation"
)

// Rows maps every entry of record to a row of layout.Width fields. Fields
// not named by the layout are "".
func Rows(record validation.SessionRecord, layout Layout) [][]string {
	entries := record.Entries()
	rows := make([][]string, 0, len(entries))

	for _, entry := range entries {
		row := make([]string, layout.Width)
		row[layout.Sequence] = strconv.Itoa(entry.Sequence)
		row[layout.Binomial] = entry.Binomial
		row[layout.SightingDate] = record.SightingDate()
		row[layout.Location] = record.Location()
		row[layout.Observer] = record.PrimaryObserver()
		rows = append(rows, row)
	}
	return rows
}

// FormatRow renders fields as one comma-separated line without a trailing
// newline. Non-empty fields are double-quoted with embedded quotes doubled;
// empty fields are written as nothing at all.
//
// encoding/csv only quotes when it has to, and the atlas importer expects
// every value quoted, so lines are built by hand.
func FormatRow(fields []string) string {
	var b strings.Builder
	for i, field := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		if field == "" {
			continue
		}
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(field, `"`, `""`))
		b.WriteByte('"')
	}
	return b.String()
}
