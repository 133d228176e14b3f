// =============================================================================
// Herbarium Atlas - Reference Catalog
// =============================================================================
//
// This package holds the static reference lists used to classify survey
// rows:
//   - Known taxa (larger group, family, genus, species)
//   - Known observer name fragments
//   - Known location names
//
// A Catalog is built once by a loader and then shared read-only by every
// session that needs it.
//
// =============================================================================

package reference

import "strings"

// =============================================================================
// TAXON
// =============================================================================

// Taxon is one row of the taxa reference list.
type Taxon struct {
	// LargerGroup is the heading the taxon was listed under (e.g. "Ferns").
	LargerGroup string

	// Family is informational only.
	Family string

	Genus   string
	Species string
}

// Binomial returns the "Genus species" name.
func (t Taxon) Binomial() string {
	return t.Genus + " " + t.Species
}

// =============================================================================
// CATALOG
// =============================================================================

// Catalog is the immutable set of reference lists for a run.
type Catalog struct {
	taxa      []Taxon
	observers []string
	locations []string

	pairs   map[taxonKey]int
	genera  map[string]struct{}
	species map[string]struct{}
	places  map[string]struct{}
}

type taxonKey struct {
	genus   string
	species string
}

// NewCatalog builds a Catalog from already loaded lists. The slices are
// copied so later changes by the caller do not leak in.
func NewCatalog(taxa []Taxon, observers, locations []string) *Catalog {
	c := &Catalog{
		taxa:      append([]Taxon(nil), taxa...),
		observers: append([]string(nil), observers...),
		locations: append([]string(nil), locations...),
		pairs:     make(map[taxonKey]int, len(taxa)),
		genera:    make(map[string]struct{}, len(taxa)),
		species:   make(map[string]struct{}, len(taxa)),
		places:    make(map[string]struct{}, len(locations)),
	}

	for i, t := range c.taxa {
		key := taxonKey{genus: t.Genus, species: t.Species}
		// First listing wins when a pair appears under two headings.
		if _, exists := c.pairs[key]; !exists {
			c.pairs[key] = i
		}
		c.genera[t.Genus] = struct{}{}
		c.species[t.Species] = struct{}{}
	}

	for _, location := range c.locations {
		c.places[location] = struct{}{}
	}

	return c
}

// LookupTaxon returns the taxon with exactly this genus and species.
func (c *Catalog) LookupTaxon(genus, species string) (Taxon, bool) {
	i, ok := c.pairs[taxonKey{genus: genus, species: species}]
	if !ok {
		return Taxon{}, false
	}
	return c.taxa[i], true
}

// PartiallyMatches reports whether genus matches some taxon's genus or
// species matches some taxon's species. Callers check LookupTaxon first.
func (c *Catalog) PartiallyMatches(genus, species string) bool {
	if _, ok := c.genera[genus]; ok {
		return true
	}
	_, ok := c.species[species]
	return ok
}

// MatchObserver returns the first known observer fragment contained in s.
func (c *Catalog) MatchObserver(s string) (string, bool) {
	for _, fragment := range c.observers {
		if fragment != "" && strings.Contains(s, fragment) {
			return fragment, true
		}
	}
	return "", false
}

// IsLocation reports whether s is exactly a known location name.
func (c *Catalog) IsLocation(s string) bool {
	_, ok := c.places[s]
	return ok
}

// Taxa returns a copy of the taxa list in load order.
func (c *Catalog) Taxa() []Taxon {
	return append([]Taxon(nil), c.taxa...)
}

// Observers returns a copy of the observer fragments in load order.
func (c *Catalog) Observers() []string {
	return append([]string(nil), c.observers...)
}

// Locations returns a copy of the location names in load order.
func (c *Catalog) Locations() []string {
	return append([]string(nil), c.locations...)
}
