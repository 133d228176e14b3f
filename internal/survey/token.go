// =============================================================================
// Herbarium Atlas - Survey Tokens
// =============================================================================
//
// A token is one classified fragment of a survey row. Tokens are produced by
// the tokenizer and folded into the session State straight away; they are
// never stored.
//
// TOKEN KINDS:
//   | Kind         | Value               | Effect on State              |
//   |--------------|---------------------|------------------------------|
//   | Taxon        | reference.Taxon     | append Entry (next sequence) |
//   | InvalidTaxon | TaxonName           | append to InvalidTaxa        |
//   | Observer     | raw cell fragment   | append to Observers          |
//   | Date         | calendar date       | overwrite Date               |
//   | ManualTotal  | integer             | overwrite ManualTotal        |
//   | Location     | location name       | overwrite Location           |
//
// The set is closed: Token has an unexported method, so only the types in
// this file implement it and each one carries its own fold.
//
// =============================================================================

package survey

import (
	"time"

	"github.com/ginjaninja78/herbarium-atlas/internal/reference"
)

// Kind identifies a token type for logging and tests.
type Kind int

const (
	KindTaxon Kind = iota
	KindInvalidTaxon
	KindObserver
	KindDate
	KindManualTotal
	KindLocation
)

func (k Kind) String() string {
	switch k {
	case KindTaxon:
		return "taxon"
	case KindInvalidTaxon:
		return "invalid_taxon"
	case KindObserver:
		return "observer"
	case KindDate:
		return "date"
	case KindManualTotal:
		return "manual_total"
	case KindLocation:
		return "location"
	}
	return "unknown"
}

// Token is a classified row fragment.
type Token interface {
	Kind() Kind
	foldInto(s *State)
}

// TaxonName is a (genus, species) pair as written in the survey.
type TaxonName struct {
	Genus   string
	Species string
}

func (n TaxonName) String() string {
	return n.Genus + " " + n.Species
}

// =============================================================================
// TOKEN TYPES
// =============================================================================

// TaxonToken is an exact match against the taxa list.
type TaxonToken struct {
	Taxon reference.Taxon
}

func (TaxonToken) Kind() Kind { return KindTaxon }

func (t TaxonToken) foldInto(s *State) {
	s.Entries = append(s.Entries, Entry{
		Binomial: t.Taxon.Binomial(),
		Sequence: len(s.Entries) + 1,
	})
}

// InvalidTaxonToken is a pair sharing a genus or a species with the taxa
// list without matching any taxon as a whole.
type InvalidTaxonToken struct {
	Name TaxonName
}

func (InvalidTaxonToken) Kind() Kind { return KindInvalidTaxon }

func (t InvalidTaxonToken) foldInto(s *State) {
	s.InvalidTaxa = append(s.InvalidTaxa, t.Name)
}

// ObserverToken holds the cell fragment that mentioned a known observer.
type ObserverToken struct {
	Text string
}

func (ObserverToken) Kind() Kind { return KindObserver }

func (t ObserverToken) foldInto(s *State) {
	s.Observers = append(s.Observers, t.Text)
}

// DateToken is an in-sheet sighting date.
type DateToken struct {
	Date time.Time
}

func (DateToken) Kind() Kind { return KindDate }

func (t DateToken) foldInto(s *State) {
	date := t.Date
	s.Date = &date
}

// ManualTotalToken is a hand-written "Count = N" total.
type ManualTotalToken struct {
	Count int
}

func (ManualTotalToken) Kind() Kind { return KindManualTotal }

func (t ManualTotalToken) foldInto(s *State) {
	count := t.Count
	s.ManualTotal = &count
}

// LocationToken is a known location name.
type LocationToken struct {
	Name string
}

func (LocationToken) Kind() Kind { return KindLocation }

func (t LocationToken) foldInto(s *State) {
	name := t.Name
	s.Location = &name
}
