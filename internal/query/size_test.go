package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	fserrors "github.com/Aman-CERP/filescout/internal/errors"
)

func TestParseSizePredicate_Comparisons(t *testing.T) {
	tests := []struct {
		input    string
		match    []int64
		mismatch []int64
	}{
		{">10mb", []int64{10<<20 + 1, 1 << 30}, []int64{10 << 20, 0}},
		{">=10mb", []int64{10 << 20}, []int64{10<<20 - 1}},
		{"<1kb", []int64{0, 1023}, []int64{1024}},
		{"<=1kb", []int64{1024}, []int64{1025}},
		{"=512", []int64{512}, []int64{511, 513}},
		{"512", []int64{512}, []int64{511}},
		{"!=512", []int64{511, 513}, []int64{512}},
		{"1kb..1mb", []int64{1024, 1 << 20}, []int64{1023, 1<<20 + 1}},
		{"..1kb", []int64{0, 1024}, []int64{1025}},
		{"1kb..", []int64{1024, 1 << 40}, []int64{1023}},
		{"1.5kb", []int64{1536}, []int64{1535}},
		{"<0b", nil, []int64{0, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			p, err := ParseSizePredicate(tt.input)
			require.NoError(t, err)
			for _, n := range tt.match {
				assert.True(t, p.Matches(n), "expected %d to match %s", n, tt.input)
			}
			for _, n := range tt.mismatch {
				assert.False(t, p.Matches(n), "expected %d not to match %s", n, tt.input)
			}
		})
	}
}

func TestParseSizePredicate_Keywords(t *testing.T) {
	p, err := ParseSizePredicate("empty")
	require.NoError(t, err)
	assert.True(t, p.Matches(0))
	assert.False(t, p.Matches(1))

	p, err = ParseSizePredicate("tiny")
	require.NoError(t, err)
	assert.True(t, p.Matches(1))
	assert.True(t, p.Matches(10<<10))
	assert.False(t, p.Matches(0))
	assert.False(t, p.Matches(10<<10+1))

	p, err = ParseSizePredicate("gigantic")
	require.NoError(t, err)
	assert.True(t, p.Matches(1<<30))
	assert.False(t, p.Matches(128<<20))

	// "giant" aliases "gigantic".
	alias, err := ParseSizePredicate("giant")
	require.NoError(t, err)
	assert.Equal(t, p, alias)
}

func TestParseSizePredicate_Errors(t *testing.T) {
	tests := []struct {
		input string
	}{
		{""},
		{"<=huge"},
		{">small"},
		{"1mb..1kb"},
		{"10xb"},
		{"abc"},
		{"<"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := ParseSizePredicate(tt.input)
			require.Error(t, err)
			assert.Equal(t, fserrors.ErrCodeInvalidSize, fserrors.GetCode(err))
		})
	}
}
