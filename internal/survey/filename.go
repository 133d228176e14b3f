package survey

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// EarliestSurveyYear is the first year a survey date may fall in.
const EarliestSurveyYear = 1990

var (
	// ErrDateTooEarly is returned for filename dates before EarliestSurveyYear.
	ErrDateTooEarly = errors.New("Date is too early")

	// ErrDateInFuture is returned for filename dates after today.
	ErrDateInFuture = errors.New("Date is in the future")
)

var (
	longFilenameDate  = regexp.MustCompile(`\d{8}`) // DDMMYYYY
	shortFilenameDate = regexp.MustCompile(`\d{6}`) // DDMMYY
)

// DateFromFilename extracts a survey date from the base name of filename.
//
// An 8-digit DDMMYYYY run is tried first, then a 6-digit DDMMYY run. When
// neither is present ok is false and err is nil. The 8-digit form is built
// without range checks (out-of-range days roll over); the 6-digit form must
// be a valid calendar date. Dates before EarliestSurveyYear or after the day
// of now are fatal.
func DateFromFilename(filename string, now time.Time) (date time.Time, ok bool, err error) {
	base := filepath.Base(filename)

	if match := longFilenameDate.FindString(base); match != "" {
		day, _ := strconv.Atoi(match[0:2])
		month, _ := strconv.Atoi(match[2:4])
		year, _ := strconv.Atoi(match[4:8])
		date = time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	} else if match := shortFilenameDate.FindString(base); match != "" {
		date, err = time.Parse("020106", match)
		if err != nil {
			return time.Time{}, false, fmt.Errorf("invalid date %q in filename %q: %w", match, base, err)
		}
	} else {
		return time.Time{}, false, nil
	}

	if date.Year() < EarliestSurveyYear {
		return time.Time{}, false, fmt.Errorf("%w: %s in %q", ErrDateTooEarly, FormatDate(date), base)
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if date.After(today) {
		return time.Time{}, false, fmt.Errorf("%w: %s in %q", ErrDateInFuture, FormatDate(date), base)
	}

	return date, true, nil
}

// LocationCandidate returns the base name of filename without its extension.
func LocationCandidate(filename string) string {
	base := filepath.Base(filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// FormatDate renders a date as D/M/YYYY without zero padding.
func FormatDate(t time.Time) string {
	return fmt.Sprintf("%d/%d/%d", t.Day(), int(t.Month()), t.Year())
}
