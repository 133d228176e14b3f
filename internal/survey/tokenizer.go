package survey

import (
	"github.com/ginjaninja78/herbarium-atlas/internal/reference"
	"github.com/ginjaninja78/herbarium-atlas/internal/types"
)

// Tokenizer applies every recognizer to a row.
type Tokenizer struct {
	catalog *reference.Catalog
}

// NewTokenizer creates a Tokenizer over a loaded catalog.
func NewTokenizer(catalog *reference.Catalog) *Tokenizer {
	return &Tokenizer{catalog: catalog}
}

// Tokenize returns the tokens found in row, in this order:
//  1. at most one Taxon or InvalidTaxon token for the whole row
//  2. Observer, Date and ManualTotal tokens from every comma-split fragment
//     of every cell, left to right
//  3. at most one Location token from the first cell
//
// An empty row yields nil.
func (t *Tokenizer) Tokenize(row types.Row) []Token {
	if row.IsEmpty() {
		return nil
	}

	var tokens []Token

	if token, ok := RecognizeTaxon(t.catalog, row); ok {
		tokens = append(tokens, token)
	}

	for i := range row {
		for _, fragment := range SplitCell(row.Cell(i)) {
			tokens = append(tokens, t.fragmentTokens(fragment)...)
		}
	}

	if token, ok := RecognizeLocation(t.catalog, row.Cell(LocationColumn)); ok {
		tokens = append(tokens, token)
	}

	return tokens
}

func (t *Tokenizer) fragmentTokens(fragment string) []Token {
	var tokens []Token
	if token, ok := RecognizeObserver(t.catalog, fragment); ok {
		tokens = append(tokens, token)
	}
	if token, ok := RecognizeDate(fragment); ok {
		tokens = append(tokens, token)
	}
	if token, ok := RecognizeManualTotal(fragment); ok {
		tokens = append(tokens, token)
	}
	return tokens
}
