// Package ignore decides which paths are excluded from indexing and from
// watch events. Exclusions come in two shapes: absolute path prefixes
// (whole subtrees, compared at component boundaries) and glob patterns
// matched against the base name (e.g. "*.tmp", ".DS_Store").
package ignore

import (
	"path"
	"path/filepath"
	"strings"
)

// Set holds the configured exclusions for one watched root.
type Set struct {
	prefixes []string
	patterns []string
}

// New builds a Set from absolute path prefixes and base-name glob patterns.
// Prefixes are cleaned; relative prefixes are rejected by Validate at the
// config layer, not here.
func New(prefixes, patterns []string) *Set {
	s := &Set{patterns: patterns}
	for _, p := range prefixes {
		cleaned := filepath.Clean(p)
		if cleaned == "." {
			continue
		}
		s.prefixes = append(s.prefixes, cleaned)
	}
	return s
}

// Match reports whether p is excluded. A prefix match must end on a path
// component boundary: "/tmp/foo" excludes "/tmp/foo/bar" but not
// "/tmp/foobar".
func (s *Set) Match(p string) bool {
	if s == nil {
		return false
	}
	cleaned := filepath.Clean(p)
	for _, prefix := range s.prefixes {
		if cleaned == prefix {
			return true
		}
		if strings.HasPrefix(cleaned, prefix) && len(cleaned) > len(prefix) && cleaned[len(prefix)] == filepath.Separator {
			return true
		}
	}
	if len(s.patterns) > 0 {
		base := filepath.Base(cleaned)
		for _, pattern := range s.patterns {
			if ok, err := path.Match(pattern, base); err == nil && ok {
				return true
			}
		}
	}
	return false
}

// Prefixes returns the configured prefix exclusions.
func (s *Set) Prefixes() []string {
	if s == nil {
		return nil
	}
	return s.prefixes
}
