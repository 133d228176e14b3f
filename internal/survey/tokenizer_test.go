package survey

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/ginjaninja78/herbarium-atlas/internal/reference"
	"github.com/ginjaninja78/herbarium-atlas/internal/types"
)

func TestTokenizer_Tokenize(t *testing.T) {
	tokenizer := NewTokenizer(testCatalog())
	homo := reference.Taxon{LargerGroup: "Mammals", Family: "Hominidae", Genus: "Homo", Species: "sapiens"}

	tests := []struct {
		name string
		row  types.Row
		want []Token
	}{
		{
			name: "empty row",
			row:  types.Row{"", " ", ""},
			want: nil,
		},
		{
			name: "taxon row",
			row:  types.Row{"", "Homo", "sapiens", "x"},
			want: []Token{TaxonToken{Taxon: homo}},
		},
		{
			name: "metadata row",
			row:  types.Row{"Las Vegas", "Andrew Grimm, Jane Citizen", "21-6-2009", "Count = 2"},
			want: []Token{
				ObserverToken{Text: "Andrew Grimm"},
				ObserverToken{Text: "Jane Citizen"},
				DateToken{Date: time.Date(2009, time.June, 21, 0, 0, 0, 0, time.UTC)},
				ManualTotalToken{Count: 2},
				LocationToken{Name: "Las Vegas"},
			},
		},
		{
			name: "invalid taxon and observer on one row",
			row:  types.Row{"", "Homo", "sapien", "seen by Grimm"},
			want: []Token{
				InvalidTaxonToken{Name: TaxonName{Genus: "Homo", Species: "sapien"}},
				ObserverToken{Text: "seen by Grimm"},
			},
		},
		{
			name: "location only counts in first cell",
			row:  types.Row{"Site", "Las Vegas"},
			want: nil,
		},
		{
			name: "unrelated pair falls through to other recognizers",
			row:  types.Row{"", "Observer", "A. Grimm"},
			want: []Token{ObserverToken{Text: "A. Grimm"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tokenizer.Tokenize(tt.row)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Tokenize() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestKind_String(t *testing.T) {
	kinds := map[Kind]string{
		KindTaxon:        "taxon",
		KindInvalidTaxon: "invalid_taxon",
		KindObserver:     "observer",
		KindDate:         "date",
		KindManualTotal:  "manual_total",
		KindLocation:     "location",
		Kind(99):         "unknown",
	}
	for kind, want := range kinds {
		if got := kind.String(); got != want {
			t.Errorf("Kind(%d).String() = %q, want %q", int(kind), got, want)
		}
	}
}
