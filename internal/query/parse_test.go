package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	fserrors "github.com/Aman-CERP/filescout/internal/errors"
)

func TestParse_EmptyQuery(t *testing.T) {
	e, err := Parse("   ")
	require.NoError(t, err)
	assert.Nil(t, e)
}

func TestParse_ImplicitAnd(t *testing.T) {
	e, err := Parse("report ext:pdf")
	require.NoError(t, err)

	and, ok := e.(*And)
	require.True(t, ok)
	require.Len(t, and.Xs, 2)
	assert.Equal(t, Expr(&Term{Text: "report"}), and.Xs[0])
	assert.Equal(t, Expr(&Filter{Kind: FilterExt, Value: "pdf"}), and.Xs[1])
}

func TestParse_ExplicitOperators(t *testing.T) {
	e, err := Parse("a AND b OR NOT c")
	require.NoError(t, err)

	or, ok := e.(*Or)
	require.True(t, ok)
	require.Len(t, or.Xs, 2)

	and, ok := or.Xs[0].(*And)
	require.True(t, ok)
	assert.Len(t, and.Xs, 2)

	not, ok := or.Xs[1].(*Not)
	require.True(t, ok)
	assert.Equal(t, Expr(&Term{Text: "c"}), not.X)
}

func TestParse_DashNegation(t *testing.T) {
	e, err := Parse("-ext:tmp")
	require.NoError(t, err)

	not, ok := e.(*Not)
	require.True(t, ok)
	assert.Equal(t, Expr(&Filter{Kind: FilterExt, Value: "tmp"}), not.X)
}

func TestParse_Parentheses(t *testing.T) {
	e, err := Parse("(a OR b) c")
	require.NoError(t, err)

	and, ok := e.(*And)
	require.True(t, ok)
	require.Len(t, and.Xs, 2)
	_, ok = and.Xs[0].(*Or)
	assert.True(t, ok)
}

func TestParse_Quotes(t *testing.T) {
	e, err := Parse(`"annual report" content:"needle with spaces"`)
	require.NoError(t, err)

	and, ok := e.(*And)
	require.True(t, ok)
	require.Len(t, and.Xs, 2)
	assert.Equal(t, Expr(&Term{Text: "annual report"}), and.Xs[0])
	assert.Equal(t, Expr(&Filter{Kind: FilterContent, Value: "needle with spaces"}), and.Xs[1])
}

func TestParse_QuotedOperatorIsLiteral(t *testing.T) {
	e, err := Parse(`"or"`)
	require.NoError(t, err)
	assert.Equal(t, Expr(&Term{Text: "or"}), e)
}

func TestParse_Filters(t *testing.T) {
	tests := []struct {
		input string
		want  Expr
	}{
		{"ext:.RS", &Filter{Kind: FilterExt, Value: "rs"}},
		{"type:folder", &Filter{Kind: FilterType, Value: "folder"}},
		{"type:image", &Filter{Kind: FilterTypeMacro, Macro: "image"}},
		{"image:vacation", &Filter{Kind: FilterTypeMacro, Macro: "image", Value: "vacation"}},
		{"file:readme", &Filter{Kind: FilterFile, Value: "readme"}},
		{"folder:src", &Filter{Kind: FilterFolder, Value: "src"}},
		{"parent:src/sub", &Filter{Kind: FilterParent, Value: "src/sub"}},
		{"infolder:src", &Filter{Kind: FilterInFolder, Value: "src"}},
		{"nosubfolders:src", &Filter{Kind: FilterNoSubfolders, Value: "src"}},
		{"content:fn", &Filter{Kind: FilterContent, Value: "fn"}},
		{"tag:home", &Filter{Kind: FilterTag, Tags: []string{"home"}}},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			e, err := Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, e)
		})
	}
}

func TestParse_TagList(t *testing.T) {
	e, err := Parse("tag:work,urgent")
	require.NoError(t, err)
	assert.Equal(t, Expr(&Filter{Kind: FilterTag, Tags: []string{"work", "urgent"}}), e)
}

func TestParse_SizeAndDateFilters(t *testing.T) {
	e, err := Parse("size:>5kb modified:today")
	require.NoError(t, err)

	and, ok := e.(*And)
	require.True(t, ok)
	require.Len(t, and.Xs, 2)

	sf, ok := and.Xs[0].(*Filter)
	require.True(t, ok)
	assert.Equal(t, FilterSize, sf.Kind)
	assert.True(t, sf.Size.Matches(5<<10+1))
	assert.False(t, sf.Size.Matches(5<<10))

	df, ok := and.Xs[1].(*Filter)
	require.True(t, ok)
	assert.Equal(t, FilterDateModified, df.Kind)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		input string
		code  string
	}{
		{"sizzle:10mb", fserrors.ErrCodeUnknownFilter},
		{"type:widget", fserrors.ErrCodeUnknownType},
		{"size:10xb", fserrors.ErrCodeInvalidSize},
		{"modified:whenever", fserrors.ErrCodeInvalidDate},
		{"(a OR b", fserrors.ErrCodeUnbalancedQuery},
		{"a)", fserrors.ErrCodeUnbalancedQuery},
		{`"unterminated`, fserrors.ErrCodeUnbalancedQuery},
		{"a AND", fserrors.ErrCodeUnbalancedQuery},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := Parse(tt.input)
			require.Error(t, err)
			assert.Equal(t, tt.code, fserrors.GetCode(err))
		})
	}
}
