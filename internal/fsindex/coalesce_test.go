package fsindex

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoalesce_DropsDescendants(t *testing.T) {
	out := Coalesce([]string{
		"/root/src/main.go",
		"/root/src",
		"/root/src/sub/deep.go",
	})

	assert.Equal(t, []string{"/root/src"}, out)
}

func TestCoalesce_KeepsSiblings(t *testing.T) {
	out := Coalesce([]string{
		"/root/a/x.go",
		"/root/b/y.go",
	})

	assert.ElementsMatch(t, []string{"/root/a/x.go", "/root/b/y.go"}, out)
}

func TestCoalesce_DedupsExactPaths(t *testing.T) {
	out := Coalesce([]string{
		"/root/a.go",
		"/root/a.go",
		"/root/a.go",
	})

	assert.Equal(t, []string{"/root/a.go"}, out)
}

func TestCoalesce_EmptyAndSingle(t *testing.T) {
	assert.Empty(t, Coalesce(nil))
	assert.Equal(t, []string{"/x"}, Coalesce([]string{"/x"}))
}

func TestCoalesce_NoAncestorPairAndFullCoverage(t *testing.T) {
	in := []string{
		"/r/a",
		"/r/a/b/c",
		"/r/a/b",
		"/r/d/e",
		"/r/d/e/f/g",
		"/r/h",
		"/r/h/i",
		"/r/d/x",
	}
	out := Coalesce(in)

	// No output member is an ancestor or descendant of another.
	for i, a := range out {
		for j, b := range out {
			if i == j {
				continue
			}
			require.False(t, strings.HasPrefix(b, a+"/"), "%s covers %s", a, b)
		}
	}

	// Every input path is covered by some output path.
	for _, p := range in {
		covered := false
		for _, o := range out {
			if p == o || strings.HasPrefix(p, o+"/") {
				covered = true
				break
			}
		}
		assert.True(t, covered, "input %s not covered", p)
	}
}
