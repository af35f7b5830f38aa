package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptimize_FlattensNestedAnd(t *testing.T) {
	e := &And{Xs: []Expr{
		&Term{Text: "a"},
		&And{Xs: []Expr{
			&Term{Text: "b"},
			&And{Xs: []Expr{&Term{Text: "c"}}},
		}},
	}}

	opt := Optimize(e)
	and, ok := opt.(*And)
	require.True(t, ok)
	assert.Len(t, and.Xs, 3)
}

func TestOptimize_CollapsesSingleChild(t *testing.T) {
	inner := &Term{Text: "only"}

	assert.Equal(t, Expr(inner), Optimize(&And{Xs: []Expr{inner}}))
	assert.Equal(t, Expr(inner), Optimize(&Or{Xs: []Expr{inner}}))
}

func TestOptimize_ReordersAndByCost(t *testing.T) {
	tagFilter := &Filter{Kind: FilterTag, Tags: []string{"work"}}
	extFilter := &Filter{Kind: FilterExt, Value: "rs"}
	scopeFilter := &Filter{Kind: FilterInFolder, Value: "src"}
	term := &Term{Text: "main"}

	opt := Optimize(&And{Xs: []Expr{tagFilter, extFilter, term, scopeFilter}})

	and, ok := opt.(*And)
	require.True(t, ok)
	require.Len(t, and.Xs, 4)
	assert.Equal(t, Expr(scopeFilter), and.Xs[0], "scope filter runs first")
	assert.Equal(t, Expr(term), and.Xs[1], "free text runs second")
	assert.Equal(t, Expr(extFilter), and.Xs[2])
	assert.Equal(t, Expr(tagFilter), and.Xs[3], "tag filter runs last")
}

func TestOptimize_OrKeepsOrder(t *testing.T) {
	a := &Filter{Kind: FilterTag, Tags: []string{"x"}}
	b := &Filter{Kind: FilterInFolder, Value: "src"}

	opt := Optimize(&Or{Xs: []Expr{a, &Or{Xs: []Expr{b}}}})

	or, ok := opt.(*Or)
	require.True(t, ok)
	require.Len(t, or.Xs, 2)
	assert.Equal(t, Expr(a), or.Xs[0])
	assert.Equal(t, Expr(b), or.Xs[1])
}

func TestOptimize_Idempotent(t *testing.T) {
	e := &Or{Xs: []Expr{
		&And{Xs: []Expr{
			&Filter{Kind: FilterTag, Tags: []string{"t"}},
			&Filter{Kind: FilterInFolder, Value: "docs"},
			&Not{X: &And{Xs: []Expr{&Term{Text: "x"}}}},
		}},
		&Or{Xs: []Expr{&Term{Text: "y"}, &Term{Text: "z"}}},
	}}

	once := Optimize(e)
	twice := Optimize(once)
	assert.Equal(t, once, twice)
}
