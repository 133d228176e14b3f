// =============================================================================
// Herbarium Atlas - Atlas Row Layout
// =============================================================================
//
// The wildlife atlas import sheet is a fixed-width grid. Each sighting
// becomes one row in which only five columns are populated:
//
//   | Column | Default | Value                          |
//   |--------|---------|--------------------------------|
//   | seq    | 0       | 1-based sequence number        |
//   | name   | 4       | binomial ("Genus species")     |
//   | date   | 5       | sighting date, D/M/YYYY        |
//   | site   | 17      | location                       |
//   | obs    | 25      | primary observer               |
//
// Every other column up to Width is left blank.
//
// CUSTOMIZATION:
//   Positions are configurable through atlas.layout for templates that use a
//   different column arrangement.
//
// =============================================================================

package atlas

import (
	"fmt"
	"sort"
)

// Layout gives the 0-based column of each populated field and the total
// number of columns per row.
type Layout struct {
	Width        int `yaml:"width" mapstructure:"width"`
	Sequence     int `yaml:"sequence" mapstructure:"sequence"`
	Binomial     int `yaml:"binomial" mapstructure:"binomial"`
	SightingDate int `yaml:"sighting_date" mapstructure:"sighting_date"`
	Location     int `yaml:"location" mapstructure:"location"`
	Observer     int `yaml:"observer" mapstructure:"observer"`
}

// DefaultLayout returns the standard atlas layout: sequence, 3 blanks,
// binomial, date, 11 blanks, location, 7 blanks, observer, 11 blanks.
func DefaultLayout() Layout {
	return Layout{
		Width:        37,
		Sequence:     0,
		Binomial:     4,
		SightingDate: 5,
		Location:     17,
		Observer:     25,
	}
}

// Validate checks that every position fits in Width and no two fields share
// a column.
func (l Layout) Validate() error {
	if l.Width < 1 {
		return fmt.Errorf("atlas layout width must be at least 1, got %d", l.Width)
	}

	fields := l.positions()
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	used := make(map[int]string, len(fields))
	for _, name := range names {
		pos := fields[name]
		if pos < 0 || pos >= l.Width {
			return fmt.Errorf("atlas layout %s column %d is outside 0..%d", name, pos, l.Width-1)
		}
		if other, ok := used[pos]; ok {
			return fmt.Errorf("atlas layout %s and %s both use column %d", other, name, pos)
		}
		used[pos] = name
	}
	return nil
}

func (l Layout) positions() map[string]int {
	return map[string]int{
		"sequence":      l.Sequence,
		"binomial":      l.Binomial,
		"sighting_date": l.SightingDate,
		"location":      l.Location,
		"observer":      l.Observer,
	}
}
