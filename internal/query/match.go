package query

import "strings"

// WildcardMatch reports whether name matches pattern, where '*' matches
// any run of characters (including none) and '?' matches exactly one.
// Standard two-pointer backtracking with a single remembered star
// position: linear amortized over the input.
func WildcardMatch(pattern, name string) bool {
	p, n := 0, 0
	star, starN := -1, 0

	for n < len(name) {
		switch {
		case p < len(pattern) && (pattern[p] == '?' || pattern[p] == name[n]):
			p++
			n++
		case p < len(pattern) && pattern[p] == '*':
			star, starN = p, n
			p++
		case star >= 0:
			// Backtrack: let the last star absorb one more character.
			starN++
			p, n = star+1, starN
		default:
			return false
		}
	}
	for p < len(pattern) && pattern[p] == '*' {
		p++
	}
	return p == len(pattern)
}

// segmentMatcher matches one concrete pattern segment against one path
// segment. Literal segments compare directly; segments containing
// wildcards go through WildcardMatch.
type segmentMatcher struct {
	literal  string
	wildcard bool
}

func newSegmentMatcher(seg string) segmentMatcher {
	if strings.ContainsAny(seg, "*?") {
		return segmentMatcher{literal: seg, wildcard: true}
	}
	return segmentMatcher{literal: seg}
}

func (m segmentMatcher) matches(s string) bool {
	if m.wildcard {
		return WildcardMatch(m.literal, s)
	}
	return m.literal == s
}

// PathPatternMatch reports whether path matches a '/'-separated pattern.
//
// A leading '/' anchors the first pattern segment to the path start; a
// trailing '/' anchors the last segment to the path end. "**" consumes
// zero or more intervening segments; a bare "*" segment consumes exactly
// one. Matching propagates an index set across path segments: start from
// all positions (unanchored) or position zero (anchored), then advance
// each survivor to direct children (or all descendants when a preceding
// "**" was consumed) filtered by the next concrete matcher. A match
// exists iff the final set is non-empty (and, when end-anchored, contains
// the path end).
//
// Comparison is case-insensitive; callers pass the path relative to the
// search root.
func PathPatternMatch(pattern, path string) bool {
	pattern = strings.ToLower(pattern)
	path = strings.ToLower(path)

	anchorStart := strings.HasPrefix(pattern, "/")
	anchorEnd := strings.HasSuffix(pattern, "/")
	pattern = strings.Trim(pattern, "/")
	path = strings.Trim(path, "/")

	if pattern == "" {
		return !anchorStart && !anchorEnd || path == ""
	}

	segs := strings.Split(path, "/")
	if path == "" {
		segs = nil
	}
	psegs := strings.Split(pattern, "/")

	// Single segment without wildcards degenerates to plain string
	// comparison on the joined path.
	if len(psegs) == 1 && !strings.ContainsAny(pattern, "*?") {
		switch {
		case anchorStart && anchorEnd:
			return path == pattern
		case anchorStart:
			return path == pattern || strings.HasPrefix(path, pattern+"/")
		case anchorEnd:
			return path == pattern || strings.HasSuffix(path, "/"+pattern)
		default:
			for _, s := range segs {
				if s == pattern {
					return true
				}
			}
			return false
		}
	}

	// states holds the set of path-segment positions where the next
	// pattern segment may begin.
	states := make(map[int]struct{})
	if anchorStart {
		states[0] = struct{}{}
	} else {
		for i := 0; i <= len(segs); i++ {
			states[i] = struct{}{}
		}
	}

	descend := false
	for _, pseg := range psegs {
		switch pseg {
		case "**":
			// Zero or more intervening segments before the next
			// concrete matcher.
			descend = true
			continue
		case "*":
			// Exactly one intervening segment.
			next := make(map[int]struct{}, len(states))
			for i := range states {
				if i < len(segs) {
					next[i+1] = struct{}{}
				}
			}
			states = next
		default:
			m := newSegmentMatcher(pseg)
			next := make(map[int]struct{})
			for i := range states {
				if descend {
					for j := i; j < len(segs); j++ {
						if m.matches(segs[j]) {
							next[j+1] = struct{}{}
						}
					}
				} else if i < len(segs) && m.matches(segs[i]) {
					next[i+1] = struct{}{}
				}
			}
			states = next
		}
		descend = false
		if len(states) == 0 {
			return false
		}
	}

	if descend {
		// Trailing "**": anything (or nothing) may follow.
		if anchorEnd {
			return true
		}
		return len(states) > 0
	}
	if anchorEnd {
		_, ok := states[len(segs)]
		return ok
	}
	return len(states) > 0
}

// isPlainText reports whether a term is eligible for plain substring
// matching: no path separators and no wildcard characters.
func isPlainText(term string) bool {
	return !strings.ContainsAny(term, `/\*?`)
}

// TermMatch reports whether a free-text term matches an entry with the
// given name and root-relative path. Plain terms match by case-insensitive
// containment on the name or the path; anything else goes through the
// path pattern matcher.
func TermMatch(term, name, relPath string) bool {
	if isPlainText(term) {
		t := strings.ToLower(term)
		return strings.Contains(strings.ToLower(name), t) ||
			strings.Contains(strings.ToLower(relPath), t)
	}
	if !strings.Contains(term, "/") {
		// Pure wildcard pattern: match against the name alone.
		return WildcardMatch(strings.ToLower(term), strings.ToLower(name))
	}
	return PathPatternMatch(term, relPath)
}
