// =============================================================================
// Herbarium Atlas - Reference List Loaders
// =============================================================================
//
// FILE FORMATS:
//   Observers: one observer name fragment per line.
//   Locations: one exact location name per line.
//   Taxa:      tab separated.
//
//   | Columns | Meaning                                          |
//   |---------|--------------------------------------------------|
//   | 1       | Larger group heading (applies to following rows) |
//   | 3       | Family, Genus, Species                           |
//   | other   | Format error                                     |
//
//   Blank lines are skipped in every file.
//
// =============================================================================

package reference

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrMalformedTaxaLine is wrapped by FormatError for taxa lines with the
// wrong number of columns.
var ErrMalformedTaxaLine = errors.New("malformed taxa line")

// FormatError describes a broken line in a reference file.
type FormatError struct {
	File    string
	Line    int
	Columns int
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%s:%d: %s: expected 1 or 3 tab-separated columns, got %d",
		e.File, e.Line, ErrMalformedTaxaLine, e.Columns)
}

func (e *FormatError) Unwrap() error {
	return ErrMalformedTaxaLine
}

// =============================================================================
// PATHS
// =============================================================================

// Paths names the three reference files for a run.
type Paths struct {
	TaxaFile      string
	ObserversFile string
	LocationsFile string
}

// key identifies a set of paths in the shared cache.
func (p Paths) key() string {
	return p.TaxaFile + "\x00" + p.ObserversFile + "\x00" + p.LocationsFile
}

// =============================================================================
// LOADERS
// =============================================================================

// Load reads all three reference files and builds a Catalog.
func Load(paths Paths) (*Catalog, error) {
	taxa, err := LoadTaxaFile(paths.TaxaFile)
	if err != nil {
		return nil, err
	}

	observers, err := LoadListFile(paths.ObserversFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load observers: %w", err)
	}

	locations, err := LoadListFile(paths.LocationsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load locations: %w", err)
	}

	return NewCatalog(taxa, observers, locations), nil
}

// LoadTaxaFile opens path and parses it with ParseTaxa.
func LoadTaxaFile(path string) ([]Taxon, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open taxa file: %w", err)
	}
	defer file.Close()

	taxa, err := ParseTaxa(file, path)
	if err != nil {
		return nil, fmt.Errorf("failed to load taxa: %w", err)
	}
	return taxa, nil
}

// ParseTaxa reads a tab-separated taxa list. name is only used in errors.
func ParseTaxa(r io.Reader, name string) ([]Taxon, error) {
	var taxa []Taxon
	largerGroup := ""

	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimRight(scanner.Text(), "\r\n")
		if strings.TrimSpace(line) == "" {
			continue
		}

		columns := strings.Split(line, "\t")
		switch len(columns) {
		case 1:
			largerGroup = strings.TrimSpace(columns[0])
		case 3:
			taxa = append(taxa, Taxon{
				LargerGroup: largerGroup,
				Family:      strings.TrimSpace(columns[0]),
				Genus:       strings.TrimSpace(columns[1]),
				Species:     strings.TrimSpace(columns[2]),
			})
		default:
			return nil, &FormatError{File: name, Line: lineNum, Columns: len(columns)}
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading %s: %w", name, err)
	}

	return taxa, nil
}

// LoadListFile opens path and parses it with ParseList.
func LoadListFile(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	return ParseList(file)
}

// ParseList reads one trimmed entry per non-blank line, in file order.
func ParseList(r io.Reader) ([]string, error) {
	var entries []string

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		entry := strings.TrimSpace(scanner.Text())
		if entry == "" {
			continue
		}
		entries = append(entries, entry)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}
