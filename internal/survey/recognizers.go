// =============================================================================
// Herbarium Atlas - Cell Recognizers
// =============================================================================
//
// Each recognizer looks at one trimmed string (or, for taxa, one row) and
// either returns a token or reports no match. A no-match is never an error:
// most cells in a survey are not dates, totals or observer names.
//
// RECOGNIZERS:
//   - Observer:     cell contains a known observer fragment
//   - Date:         "D-M-Y", strict calendar date
//   - ManualTotal:  "Count = N"
//   - Location:     exact known location name
//   - Taxon:        cells 1 and 2 of a row as genus and species
//
// =============================================================================

package survey

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/ginjaninja78/herbarium-atlas/internal/reference"
	"github.com/ginjaninja78/herbarium-atlas/internal/types"
)

// Column positions within a survey row.
const (
	LocationColumn = 0
	GenusColumn    = 1
	SpeciesColumn  = 2
)

var (
	cellDelimiter      = regexp.MustCompile(`, ?`)
	manualTotalPattern = regexp.MustCompile(`Count\s*=\s*(\d+)`)
)

// SplitCell splits a cell on "," or ", " into trimmed, non-empty fragments.
func SplitCell(cell string) []string {
	var fragments []string
	for _, part := range cellDelimiter.Split(cell, -1) {
		part = strings.TrimSpace(part)
		if part != "" {
			fragments = append(fragments, part)
		}
	}
	return fragments
}

// RecognizeObserver matches s when it contains any known observer fragment.
// The token keeps s itself, not the fragment from the list.
func RecognizeObserver(catalog *reference.Catalog, s string) (ObserverToken, bool) {
	if _, ok := catalog.MatchObserver(s); !ok {
		return ObserverToken{}, false
	}
	return ObserverToken{Text: s}, true
}

// RecognizeDate matches a hyphenated day-month-year such as "21-6-2009".
func RecognizeDate(s string) (DateToken, bool) {
	parts := strings.Split(s, "-")
	if len(parts) != 3 {
		return DateToken{}, false
	}

	var numbers [3]int
	for i, part := range parts {
		if part == "" || !isDigits(part) {
			return DateToken{}, false
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return DateToken{}, false
		}
		numbers[i] = n
	}

	day, month, year := numbers[0], numbers[1], numbers[2]
	if month < 1 || month > 12 || day < 1 {
		return DateToken{}, false
	}

	date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date normalises overflow, so a changed day means it did not exist.
	if date.Day() != day || int(date.Month()) != month || date.Year() != year {
		return DateToken{}, false
	}

	return DateToken{Date: date}, true
}

// RecognizeManualTotal matches "Count = N" (spaces around "=" optional).
func RecognizeManualTotal(s string) (ManualTotalToken, bool) {
	match := manualTotalPattern.FindStringSubmatch(s)
	if match == nil {
		return ManualTotalToken{}, false
	}
	count, err := strconv.Atoi(match[1])
	if err != nil {
		return ManualTotalToken{}, false
	}
	return ManualTotalToken{Count: count}, true
}

// RecognizeLocation matches s only when it equals a known location.
func RecognizeLocation(catalog *reference.Catalog, s string) (LocationToken, bool) {
	if !catalog.IsLocation(s) {
		return LocationToken{}, false
	}
	return LocationToken{Name: s}, true
}

// RecognizeTaxon classifies a row's genus and species cells.
//
// RETURNS:
//   - TaxonToken when the pair is in the taxa list.
//   - InvalidTaxonToken when only the genus or only the species is known.
//   - false when either cell is blank or neither name is known; such rows
//     are treated as metadata.
func RecognizeTaxon(catalog *reference.Catalog, row types.Row) (Token, bool) {
	genus := row.Cell(GenusColumn)
	species := row.Cell(SpeciesColumn)
	if genus == "" || species == "" {
		return nil, false
	}

	if taxon, ok := catalog.LookupTaxon(genus, species); ok {
		return TaxonToken{Taxon: taxon}, true
	}

	if catalog.PartiallyMatches(genus, species) {
		return InvalidTaxonToken{Name: TaxonName{Genus: genus, Species: species}}, true
	}

	return nil, false
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
