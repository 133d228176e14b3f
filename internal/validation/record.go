package validation

import "github.com/ginjaninja78/herbarium-atlas/internal/survey"

// SessionRecord is the validated result of one survey. Fields are only
// reachable through accessors so a record cannot change after Finalize.
type SessionRecord struct {
	entries         []survey.Entry
	primaryObserver string
	sightingDate    string
	location        string
}

// NewSessionRecord builds a record from already validated values.
// sightingDate is "D/M/YYYY" or "".
func NewSessionRecord(entries []survey.Entry, primaryObserver, sightingDate, location string) SessionRecord {
	return SessionRecord{
		entries:         append([]survey.Entry(nil), entries...),
		primaryObserver: primaryObserver,
		sightingDate:    sightingDate,
		location:        location,
	}
}

// Entries returns a copy of the entries in sequence order.
func (r SessionRecord) Entries() []survey.Entry {
	return append([]survey.Entry(nil), r.entries...)
}

// EntryCount is len(Entries()) without the copy.
func (r SessionRecord) EntryCount() int {
	return len(r.entries)
}

// PrimaryObserver is the first observer fragment seen, or "".
func (r SessionRecord) PrimaryObserver() string {
	return r.primaryObserver
}

// SightingDate is the date formatted as D/M/YYYY, or "".
func (r SessionRecord) SightingDate() string {
	return r.sightingDate
}

// Location is the resolved survey location.
func (r SessionRecord) Location() string {
	return r.location
}
