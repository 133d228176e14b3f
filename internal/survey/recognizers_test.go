package survey

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ginjaninja78/herbarium-atlas/internal/reference"
	"github.com/ginjaninja78/herbarium-atlas/internal/types"
)

func testCatalog() *reference.Catalog {
	return reference.NewCatalog(
		[]reference.Taxon{
			{LargerGroup: "Mammals", Family: "Hominidae", Genus: "Homo", Species: "sapiens"},
			{LargerGroup: "Ferns", Family: "Blechnaceae", Genus: "Doodia", Species: "aspera"},
			{LargerGroup: "Ferns", Family: "Blechnaceae", Genus: "Blechnum", Species: "cartilagineum"},
		},
		[]string{"Grimm", "Citizen"},
		[]string{"Las Vegas", "Berowra Creek"},
	)
}

func TestSplitCell(t *testing.T) {
	tests := []struct {
		cell string
		want []string
	}{
		{cell: "Andrew Grimm, Jane Citizen,Bob", want: []string{"Andrew Grimm", "Jane Citizen", "Bob"}},
		{cell: "  single  ", want: []string{"single"}},
		{cell: "", want: nil},
		{cell: "a,,b", want: []string{"a", "b"}},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, SplitCell(tt.cell), "SplitCell(%q)", tt.cell)
	}
}

func TestRecognizeObserver(t *testing.T) {
	catalog := testCatalog()

	token, ok := RecognizeObserver(catalog, "Andrew Grimm")
	assert.True(t, ok)
	assert.Equal(t, "Andrew Grimm", token.Text)

	_, ok = RecognizeObserver(catalog, "grimm")
	assert.False(t, ok, "matching is case sensitive")

	_, ok = RecognizeObserver(catalog, "Homo")
	assert.False(t, ok)
}

func TestRecognizeDate(t *testing.T) {
	tests := []struct {
		input  string
		want   time.Time
		wantOK bool
	}{
		{input: "21-6-2009", want: time.Date(2009, time.June, 21, 0, 0, 0, 0, time.UTC), wantOK: true},
		{input: "01-02-2010", want: time.Date(2010, time.February, 1, 0, 0, 0, 0, time.UTC), wantOK: true},
		{input: "29-2-2008", want: time.Date(2008, time.February, 29, 0, 0, 0, 0, time.UTC), wantOK: true},
		{input: "29-2-2009", wantOK: false},
		{input: "31-4-2009", wantOK: false},
		{input: "21-13-2009", wantOK: false},
		{input: "0-1-2009", wantOK: false},
		{input: "21/6/2009", wantOK: false},
		{input: "21-6", wantOK: false},
		{input: "21-6-2009-1", wantOK: false},
		{input: "21--2009", wantOK: false},
		{input: "a-b-c", wantOK: false},
		{input: "+1-6-2009", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			token, ok := RecognizeDate(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.True(t, tt.want.Equal(token.Date), "got %v", token.Date)
			}
		})
	}
}

func TestRecognizeManualTotal(t *testing.T) {
	tests := []struct {
		input  string
		want   int
		wantOK bool
	}{
		{input: "Count = 29", want: 29, wantOK: true},
		{input: "Count=3", want: 3, wantOK: true},
		{input: "Count  =  12", want: 12, wantOK: true},
		{input: "Species Count = 7", want: 7, wantOK: true},
		{input: "count = 3", wantOK: false},
		{input: "Count = ", wantOK: false},
		{input: "Total 4", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			token, ok := RecognizeManualTotal(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, token.Count)
		})
	}
}

func TestRecognizeLocation(t *testing.T) {
	catalog := testCatalog()

	token, ok := RecognizeLocation(catalog, "Las Vegas")
	assert.True(t, ok)
	assert.Equal(t, "Las Vegas", token.Name)

	_, ok = RecognizeLocation(catalog, "Las Vegas, NV")
	assert.False(t, ok, "location requires exact equality")
}

func TestRecognizeTaxon(t *testing.T) {
	catalog := testCatalog()

	tests := []struct {
		name     string
		row      types.Row
		wantKind Kind
		wantOK   bool
	}{
		{name: "exact", row: types.Row{"", "Homo", "sapiens", "x"}, wantKind: KindTaxon, wantOK: true},
		{name: "exact with padding", row: types.Row{"", " Homo ", "sapiens  "}, wantKind: KindTaxon, wantOK: true},
		{name: "genus typo keeps species", row: types.Row{"", "Dodia", "aspera"}, wantKind: KindInvalidTaxon, wantOK: true},
		{name: "species typo keeps genus", row: types.Row{"", "Homo", "sapien"}, wantKind: KindInvalidTaxon, wantOK: true},
		{name: "mixed pair", row: types.Row{"", "Homo", "aspera"}, wantKind: KindInvalidTaxon, wantOK: true},
		{name: "unrelated metadata", row: types.Row{"Observers", "Andrew", "Grimm"}, wantOK: false},
		{name: "missing species", row: types.Row{"", "Homo"}, wantOK: false},
		{name: "blank species", row: types.Row{"", "Homo", "  "}, wantOK: false},
		{name: "blank genus", row: types.Row{"", "", "sapiens"}, wantOK: false},
		{name: "empty row", row: types.Row{}, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, ok := RecognizeTaxon(catalog, tt.row)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantKind, token.Kind())
			} else {
				assert.Nil(t, token)
			}
		})
	}
}

func TestRecognizeTaxon_InvalidCarriesPair(t *testing.T) {
	token, ok := RecognizeTaxon(testCatalog(), types.Row{"", "Dodia", "aspera"})
	assert.True(t, ok)
	assert.Equal(t, InvalidTaxonToken{Name: TaxonName{Genus: "Dodia", Species: "aspera"}}, token)
}
