package fsindex

import (
	"path/filepath"
	"sort"
	"strings"
)

// Coalesce reduces a batch of changed paths to the minimal set in which no
// member is an ancestor or descendant of another. Every input path stays
// covered by some output path.
//
// Paths are paired with their component depth and sorted by (depth, path),
// so any ancestor of a candidate has already been considered by the time
// the candidate is. The linear scan then only has to walk the candidate's
// own parent chain against a hash set of selected paths, short-circuiting
// on the first hit: O(n log n + Σdepth) instead of the naive O(n²)
// pairwise prefix check.
func Coalesce(paths []string) []string {
	if len(paths) <= 1 {
		return paths
	}

	type ranked struct {
		depth int
		path  string
	}
	items := make([]ranked, 0, len(paths))
	for _, p := range paths {
		cleaned := filepath.Clean(p)
		items = append(items, ranked{
			depth: strings.Count(cleaned, string(filepath.Separator)),
			path:  cleaned,
		})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].depth != items[j].depth {
			return items[i].depth < items[j].depth
		}
		return items[i].path < items[j].path
	})

	selected := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	prev := ""
	for _, item := range items {
		if item.path == prev {
			continue
		}
		prev = item.path
		if hasSelectedAncestor(item.path, selected) {
			continue
		}
		selected[item.path] = struct{}{}
		out = append(out, item.path)
	}
	return out
}

// hasSelectedAncestor walks the parent chain of path checking membership in
// the selected set.
func hasSelectedAncestor(path string, selected map[string]struct{}) bool {
	for {
		parent := filepath.Dir(path)
		if parent == path {
			return false
		}
		if _, ok := selected[parent]; ok {
			return true
		}
		path = parent
	}
}
