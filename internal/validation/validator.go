// =============================================================================
// Herbarium Atlas - Session Validation
// =============================================================================
//
// This module turns the folded survey State into an immutable SessionRecord,
// or reports the first consistency problem it finds.
//
// VALIDATION ORDER (first failure wins, errors are not aggregated):
//   1. Partially correct taxon names in the sheet
//   2. Manual "Count = N" total different from the number of entries
//   3. No known location from the sheet or the file name
//
// ERROR HANDLING:
//   - Every failure is a typed error that also matches ErrValidation
//   - The list of invalid taxa stays available on the State and on
//     PartiallyCorrectTaxonNamesError for diagnostics
//
// =============================================================================

package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ginjaninja78/herbarium-atlas/internal/survey"
)

// =============================================================================
// VALIDATION ERROR TYPES
// =============================================================================

// ErrValidation matches every error returned by Finalize.
var ErrValidation = errors.New("survey validation failed")

// PartiallyCorrectTaxonNamesError reports rows whose genus or species is known
// but whose pair is not.
type PartiallyCorrectTaxonNamesError struct {
	Names []survey.TaxonName
}

func (e *PartiallyCorrectTaxonNamesError) Error() string {
	return fmt.Sprintf("%d partially correct taxon names", len(e.Names))
}

func (e *PartiallyCorrectTaxonNamesError) Is(target error) bool {
	return target == ErrValidation
}

// InconsistentTotalError reports a manual total that disagrees with the
// number of recognised entries.
type InconsistentTotalError struct {
	Recorded int
	Computed int
}

func (e *InconsistentTotalError) Error() string {
	return fmt.Sprintf("Total is inconsistent: recorded as %d, should be %d", e.Recorded, e.Computed)
}

func (e *InconsistentTotalError) Is(target error) bool {
	return target == ErrValidation
}

// UnknownLocationError reports a session with no recognised location.
type UnknownLocationError struct {
	// Candidate is the file-name location that was tried, if any.
	Candidate string
}

func (e *UnknownLocationError) Error() string {
	if e.Candidate == "" {
		return "Location is unknown"
	}
	return fmt.Sprintf("Location is unknown: %q is not a known location and no location was found in the sheet", e.Candidate)
}

func (e *UnknownLocationError) Is(target error) bool {
	return target == ErrValidation
}

// =============================================================================
// FINALIZE
// =============================================================================

// Finalize checks state and assembles the session record.
//
// PARAMETERS:
//   - state: the folded session state.
//   - filename: the survey file, used only to describe a missing location.
//
// RETURNS:
//   - The assembled record, or one of the validation error types above.
func Finalize(state survey.State, filename string) (*SessionRecord, error) {
	if len(state.InvalidTaxa) > 0 {
		return nil, &PartiallyCorrectTaxonNamesError{
			Names: append([]survey.TaxonName(nil), state.InvalidTaxa...),
		}
	}

	if state.ManualTotal != nil && *state.ManualTotal != len(state.Entries) {
		return nil, &InconsistentTotalError{
			Recorded: *state.ManualTotal,
			Computed: len(state.Entries),
		}
	}

	if state.Location == nil {
		candidate := ""
		if filename != "" {
			candidate = survey.LocationCandidate(filename)
		}
		return nil, &UnknownLocationError{Candidate: candidate}
	}

	primaryObserver := ""
	if len(state.Observers) > 0 {
		primaryObserver = state.Observers[0]
	}

	sightingDate := ""
	if state.Date != nil {
		sightingDate = survey.FormatDate(*state.Date)
	}

	record := NewSessionRecord(state.Entries, primaryObserver, sightingDate, *state.Location)
	return &record, nil
}

// =============================================================================
// DIAGNOSTICS
// =============================================================================

// DescribeInvalidTaxa renders one line per partially correct name, for
// printing next to a failed run.
func DescribeInvalidTaxa(names []survey.TaxonName) string {
	if len(names) == 0 {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d partially correct taxon names:\n", len(names))
	for _, name := range names {
		fmt.Fprintf(&b, "  Genus %q, species %q\n", name.Genus, name.Species)
	}
	return b.String()
}
