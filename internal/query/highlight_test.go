package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveHighlightTerms_TextOnly(t *testing.T) {
	e := &And{Xs: []Expr{
		&Term{Text: "Alpha"},
		&Term{Text: "beta"},
		&Term{Text: "ALPHA"},
	}}

	assert.Equal(t, []string{"alpha", "beta"}, DeriveHighlightTerms(e))
}

func TestDeriveHighlightTerms_WildcardSplitting(t *testing.T) {
	assert.Equal(t, []string{"main", "rs"},
		DeriveHighlightTerms(&Term{Text: "main*.rs"}))
	assert.Empty(t, DeriveHighlightTerms(&Term{Text: "**??"}))
}

func TestDeriveHighlightTerms_Filters(t *testing.T) {
	e := &And{Xs: []Expr{
		&Filter{Kind: FilterExt, Value: "pdf"},
		&Filter{Kind: FilterContent, Value: "Invoice"},
		&Filter{Kind: FilterTag, Tags: []string{"Work", "urgent"}},
		&Filter{Kind: FilterInFolder, Value: "docs/reports"},
		&Filter{Kind: FilterFile, Value: "q3*summary"},
		&Filter{Kind: FilterSize, Size: SizePredicate{minBytes: 1, maxBytes: -1}},
		&Filter{Kind: FilterType, Value: "file"},
	}}

	assert.Equal(t,
		[]string{"pdf", "invoice", "work", "urgent", "reports", "q3", "summary"},
		DeriveHighlightTerms(e))
}

func TestDeriveHighlightTerms_NestedAndNegated(t *testing.T) {
	e := &Or{Xs: []Expr{
		&Not{X: &Filter{Kind: FilterExt, Value: "log"}},
		&Filter{Kind: FilterParent, Value: "a/b/c"},
	}}

	assert.Equal(t, []string{"log", "c"}, DeriveHighlightTerms(e))
}
