package sheet

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/ginjaninja78/herbarium-atlas/internal/types"
)

// ReadCSV reads a CSV file into a grid.
func ReadCSV(path, encodingName string) (types.Grid, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return ParseCSV(bufio.NewReader(file), encodingName)
}

// ParseCSV reads CSV records from r. Rows may have differing lengths and
// quotes are parsed leniently, matching what spreadsheet exports produce.
func ParseCSV(r io.Reader, encodingName string) (types.Grid, error) {
	decoder, err := decoderFor(encodingName)
	if err != nil {
		return nil, err
	}
	if decoder != nil {
		r = transform.NewReader(r, decoder.NewDecoder())
	}

	csvReader := csv.NewReader(r)
	configureReader(csvReader)

	records, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}

	grid := make(types.Grid, len(records))
	for i, record := range records {
		grid[i] = types.Row(record)
	}
	return grid.TrimTrailingEmpty(), nil
}

// configureReader sets the lenient options used for every survey CSV.
func configureReader(reader *csv.Reader) {
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
}

// decoderFor maps a configured encoding name to a decoder. UTF-8 needs none.
func decoderFor(name string) (encoding.Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8":
		return nil, nil
	case "windows-1252", "cp1252":
		return charmap.Windows1252, nil
	case "iso-8859-1", "latin1":
		return charmap.ISO8859_1, nil
	case "macintosh", "mac-roman":
		return charmap.Macintosh, nil
	default:
		return nil, fmt.Errorf("unsupported CSV encoding %q", name)
	}
}

// SupportedEncodings lists the canonical names accepted in configuration.
func SupportedEncodings() []string {
	return []string{"UTF-8", "windows-1252", "iso-8859-1", "macintosh"}
}
