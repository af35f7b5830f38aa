package query

import (
	"context"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	fserrors "github.com/Aman-CERP/filescout/internal/errors"
	"github.com/Aman-CERP/filescout/internal/fsindex"
	"github.com/Aman-CERP/filescout/internal/slab"
)

// Entry is one search result.
type Entry struct {
	Path       string            `json:"path"`
	Name       string            `json:"name"`
	Type       fsindex.EntryType `json:"-"`
	TypeName   string            `json:"type"`
	Size       int64             `json:"size"`
	ModifiedAt time.Time         `json:"modified_at"`
	Icon       string            `json:"icon,omitempty"`
}

// Result is the outcome of one query evaluation. Entries come back in
// path order.
type Result struct {
	Entries []Entry `json:"entries"`
	// Count is len(Entries); Truncated reports that a matching entry was
	// dropped at the result cap.
	Count     int  `json:"count"`
	Truncated bool `json:"truncated"`
	// Scanned is the number of index entries examined.
	Scanned int `json:"scanned"`
	// Errors is the walk-error count of the snapshot the query ran
	// against.
	Errors int `json:"errors"`
	// HighlightTerms are the literals worth emphasizing when rendering.
	HighlightTerms []string `json:"highlight_terms,omitempty"`
}

// EngineOptions tunes query evaluation.
type EngineOptions struct {
	// MaxResults caps the number of returned entries. Zero means 1000.
	MaxResults int

	// ContentWorkers bounds concurrent content scans. Zero means 4.
	ContentWorkers int

	// ContentCacheSize is the number of memoized scan verdicts. Zero
	// means 4096.
	ContentCacheSize int

	// CaseSensitiveContent disables the default case-insensitive content
	// matching.
	CaseSensitiveContent bool

	// IncludeHidden admits dotfiles and entries under dot-directories.
	IncludeHidden bool

	// TagsFor resolves the metadata tags of an entry. Nil means no entry
	// carries tags.
	TagsFor func(path string) []string
}

func (o *EngineOptions) withDefaults() EngineOptions {
	out := *o
	if out.MaxResults <= 0 {
		out.MaxResults = 1000
	}
	if out.ContentWorkers <= 0 {
		out.ContentWorkers = 4
	}
	if out.ContentCacheSize <= 0 {
		out.ContentCacheSize = 4096
	}
	return out
}

// Engine evaluates queries against a live index. Safe for concurrent use;
// each Search takes its own snapshot via Index.Read.
type Engine struct {
	idx   *fsindex.Index
	opts  EngineOptions
	cache *contentCache
}

// NewEngine creates an engine over idx.
func NewEngine(idx *fsindex.Index, opts EngineOptions) *Engine {
	opts = (&opts).withDefaults()
	return &Engine{
		idx:   idx,
		opts:  opts,
		cache: newContentCache(opts.ContentCacheSize),
	}
}

// Search parses, optimizes, and evaluates a query string. Validation
// failures return synchronously; a query never partially runs. An empty
// query matches every entry.
func (e *Engine) Search(ctx context.Context, query string) (Result, error) {
	expr, err := Parse(query)
	if err != nil {
		return Result{}, err
	}
	if expr != nil {
		expr = Optimize(expr)
	}
	return e.Evaluate(ctx, expr)
}

// candidate is the snapshot data carried out of the read section for one
// entry whose verdict may still depend on content scans.
type candidate struct {
	entry   Entry
	relPath string
	// settled is true once the metadata-only pass fully decided the
	// verdict.
	settled bool
}

// Evaluate runs an already-parsed expression. A nil expression matches
// everything.
func (e *Engine) Evaluate(ctx context.Context, expr Expr) (Result, error) {
	start := time.Now()
	res := Result{HighlightTerms: DeriveHighlightTerms(expr)}

	var cands []candidate
	ok := e.idx.Read(func(t *fsindex.Tree) {
		res.Errors = t.Stats.Errors
		e.collect(t, expr, &res, &cands)
	})
	if !ok {
		return Result{}, fserrors.Newf(fserrors.ErrCodeInternal, "index not ready")
	}

	entries, truncated, err := e.resolveContent(ctx, expr, cands)
	if err != nil {
		return Result{}, err
	}
	res.Entries = entries
	res.Count = len(entries)
	res.Truncated = truncated

	slog.Debug("query evaluated",
		slog.Int("scanned", res.Scanned),
		slog.Int("matched", res.Count),
		slog.Bool("truncated", res.Truncated),
		slog.Duration("elapsed", time.Since(start)))
	return res, nil
}

// collect gathers every entry the metadata pass does not rule out, in path
// order. Collection overshoots the result cap so that content scans failing
// in phase two cannot leave the result short; hitting the overshoot limit
// only stops collecting, it does not itself mark the result truncated.
func (e *Engine) collect(t *fsindex.Tree, expr Expr, res *Result, cands *[]candidate) {
	// Collect extra undecided candidates beyond the cap; the overshoot
	// bounds phase-two scan work on content-heavy queries.
	limit := e.opts.MaxResults*4 + 64

	roots := e.scopeRoots(t, expr)
	if len(roots) == 0 {
		return
	}
	if pred := namePredicate(expr); pred != nil {
		e.collectFromNameIndex(t, expr, pred, res, cands, limit)
		return
	}
	for _, root := range roots {
		if e.collectPreorder(t, root, expr, res, cands, limit) {
			return
		}
	}
}

// namePredicate extracts a constraint on the bare entry name that every
// match must satisfy: an ext: filter, or a wildcard term without a path
// separator (which matches against the name alone). A conjunction
// contributes its first such operand. Nil means no name constraint exists
// and collection must walk the tree.
func namePredicate(expr Expr) func(name string) bool {
	switch n := expr.(type) {
	case *Filter:
		if n.Kind == FilterExt {
			return func(name string) bool { return extOf(name) == n.Value }
		}
	case *Term:
		if !isPlainText(n.Text) && !strings.ContainsAny(n.Text, `/\`) {
			pattern := strings.ToLower(n.Text)
			return func(name string) bool {
				return WildcardMatch(pattern, strings.ToLower(name))
			}
		}
	case *And:
		for _, x := range n.Xs {
			if pred := namePredicate(x); pred != nil {
				return pred
			}
		}
	}
	return nil
}

// collectFromNameIndex prefilters candidates through the name index: only
// the buckets whose name satisfies pred are visited, sorted back into path
// order, and the full expression still decides each survivor.
func (e *Engine) collectFromNameIndex(t *fsindex.Tree, expr Expr, pred func(string) bool, res *Result, cands *[]candidate, limit int) {
	var matches []slab.Index
	t.Names.Range(func(name string, bucket *slab.SortedIndices) bool {
		if pred(name) {
			matches = append(matches, bucket.All()...)
		}
		return true
	})
	sort.Slice(matches, func(i, j int) bool {
		return t.PathLess(matches[i], matches[j])
	})

	for _, idx := range matches {
		if idx == t.Root {
			continue
		}
		v := t.View(idx)
		if !e.opts.IncludeHidden && (v.Hidden() || v.HasHiddenAncestor()) {
			continue
		}
		res.Scanned++
		verdict := e.evalMeta(expr, t, v)
		if verdict == vFalse {
			continue
		}
		*cands = append(*cands, candidate{
			entry:   entryFor(v),
			relPath: v.RelPath(),
			settled: verdict == vTrue,
		})
		if len(*cands) >= limit {
			return
		}
	}
}

// collectPreorder returns true once the candidate limit is reached.
func (e *Engine) collectPreorder(t *fsindex.Tree, idx slab.Index, expr Expr, res *Result, cands *[]candidate, limit int) bool {
	node := t.Nodes.Get(idx)
	if node == nil {
		return false
	}

	if idx != t.Root {
		v := t.View(idx)
		if e.opts.IncludeHidden || !v.Hidden() && !v.HasHiddenAncestor() {
			res.Scanned++
			verdict := e.evalMeta(expr, t, v)
			if verdict != vFalse {
				*cands = append(*cands, candidate{
					entry:   entryFor(v),
					relPath: v.RelPath(),
					settled: verdict == vTrue,
				})
				if len(*cands) >= limit {
					return true
				}
			}
		} else if node.Meta.Type == fsindex.EntryFolder && !e.opts.IncludeHidden && v.Hidden() {
			// Nothing under a hidden folder can match either.
			return false
		}
	}
	for _, child := range node.Children {
		if e.collectPreorder(t, child, expr, res, cands, limit) {
			return true
		}
	}
	return false
}

// scopeRoots narrows the traversal to scope-filter subtrees when the
// expression is a conjunction led by InFolder filters. Any other shape
// scans from the root.
func (e *Engine) scopeRoots(t *fsindex.Tree, expr Expr) []slab.Index {
	and, ok := expr.(*And)
	if !ok {
		if f, isFilter := expr.(*Filter); isFilter && f.Kind == FilterInFolder {
			and = &And{Xs: []Expr{f}}
		} else {
			return []slab.Index{t.Root}
		}
	}
	for _, x := range and.Xs {
		f, isFilter := x.(*Filter)
		if !isFilter || f.Kind != FilterInFolder {
			continue
		}
		if idx, found := e.resolveScope(t, f.Value); found {
			return []slab.Index{idx}
		}
		// Scope names a path outside the index: nothing can match.
		return nil
	}
	return []slab.Index{t.Root}
}

func (e *Engine) resolveScope(t *fsindex.Tree, scope string) (slab.Index, bool) {
	scope = strings.Trim(strings.ReplaceAll(scope, "\\", "/"), "/")
	if scope == "" {
		return t.Root, true
	}
	return t.ResolvePath(filepath.Join(t.RootPath, filepath.FromSlash(scope)))
}

func entryFor(v fsindex.NodeView) Entry {
	meta := v.Meta()
	return Entry{
		Path:       v.Path(),
		Name:       v.Name(),
		Type:       meta.Type,
		TypeName:   meta.Type.String(),
		Size:       meta.Size,
		ModifiedAt: meta.MTime,
		Icon: IconFor(v.Name(),
			meta.Type == fsindex.EntryFolder,
			meta.Type == fsindex.EntrySymlink),
	}
}

// verdict is the three-valued outcome of the metadata-only pass: content
// filters evaluate to vMaybe, everything else settles immediately.
type verdict int8

const (
	vFalse verdict = iota
	vTrue
	vMaybe
)

func vNot(v verdict) verdict {
	switch v {
	case vTrue:
		return vFalse
	case vFalse:
		return vTrue
	}
	return vMaybe
}

func (e *Engine) evalMeta(expr Expr, t *fsindex.Tree, v fsindex.NodeView) verdict {
	if expr == nil {
		return vTrue
	}
	switch n := expr.(type) {
	case *Term:
		return boolVerdict(TermMatch(n.Text, v.Name(), v.RelPath()))
	case *Not:
		return vNot(e.evalMeta(n.X, t, v))
	case *And:
		out := vTrue
		for _, x := range n.Xs {
			switch e.evalMeta(x, t, v) {
			case vFalse:
				return vFalse
			case vMaybe:
				out = vMaybe
			}
		}
		return out
	case *Or:
		out := vFalse
		for _, x := range n.Xs {
			switch e.evalMeta(x, t, v) {
			case vTrue:
				return vTrue
			case vMaybe:
				out = vMaybe
			}
		}
		return out
	case *Filter:
		return e.evalFilter(n, t, v)
	}
	return vFalse
}

func boolVerdict(b bool) verdict {
	if b {
		return vTrue
	}
	return vFalse
}

func (e *Engine) evalFilter(f *Filter, t *fsindex.Tree, v fsindex.NodeView) verdict {
	meta := v.Meta()
	switch f.Kind {
	case FilterExt:
		return boolVerdict(meta.Type != fsindex.EntryFolder && extOf(v.Name()) == f.Value)
	case FilterType:
		return boolVerdict(meta.Type.String() == f.Value)
	case FilterTypeMacro:
		if meta.Type == fsindex.EntryFolder || !macroMatches(f.Macro, v.Name()) {
			return vFalse
		}
		if f.Value == "" {
			return vTrue
		}
		return boolVerdict(TermMatch(f.Value, v.Name(), v.RelPath()))
	case FilterFile:
		if meta.Type != fsindex.EntryFile {
			return vFalse
		}
		if f.Value == "" {
			return vTrue
		}
		return boolVerdict(TermMatch(f.Value, v.Name(), v.RelPath()))
	case FilterFolder:
		if meta.Type != fsindex.EntryFolder {
			return vFalse
		}
		if f.Value == "" {
			return vTrue
		}
		return boolVerdict(TermMatch(f.Value, v.Name(), v.RelPath()))
	case FilterParent, FilterNoSubfolders:
		parent, ok := v.Parent()
		if !ok {
			return vFalse
		}
		return boolVerdict(samePath(parent.RelPath(), f.Value))
	case FilterInFolder:
		scope := normalizeScope(f.Value)
		if scope == "" {
			return vTrue
		}
		rel := strings.ToLower(v.RelPath())
		return boolVerdict(strings.HasPrefix(rel, scope+"/"))
	case FilterContent:
		if meta.Type != fsindex.EntryFile {
			return vFalse
		}
		return vMaybe
	case FilterTag:
		if e.opts.TagsFor == nil {
			return vFalse
		}
		have := e.opts.TagsFor(v.Path())
		for _, want := range f.Tags {
			for _, tag := range have {
				if strings.EqualFold(tag, want) {
					return vTrue
				}
			}
		}
		return vFalse
	case FilterSize:
		return boolVerdict(meta.Type == fsindex.EntryFile && f.Size.Matches(meta.Size))
	case FilterDateModified:
		return boolVerdict(f.Date.Matches(meta.MTime))
	case FilterDateCreated:
		return boolVerdict(f.Date.Matches(meta.CTime))
	}
	return vFalse
}

func normalizeScope(s string) string {
	return strings.ToLower(strings.Trim(strings.ReplaceAll(s, "\\", "/"), "/"))
}

func samePath(a, b string) bool {
	return normalizeScope(a) == normalizeScope(b)
}

// resolveContent runs the second phase: candidates whose verdict was
// settled pass through; the rest re-evaluate with content filters
// resolved by actual file scans, bounded by ContentWorkers.
func (e *Engine) resolveContent(ctx context.Context, expr Expr, cands []candidate) ([]Entry, bool, error) {
	unsettled := 0
	for _, c := range cands {
		if !c.settled {
			unsettled++
		}
	}

	matched := make([]bool, len(cands))
	if unsettled == 0 {
		for i := range cands {
			matched[i] = true
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(e.opts.ContentWorkers)
		for i := range cands {
			if cands[i].settled {
				matched[i] = true
				continue
			}
			i := i
			g.Go(func() error {
				ok, err := e.evalWithContent(gctx, expr, &cands[i])
				if err != nil {
					return err
				}
				matched[i] = ok
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, false, fserrors.Wrap(fserrors.ErrCodeQueryCancelled, err)
		}
	}

	var entries []Entry
	truncated := false
	for i := range cands {
		if !matched[i] {
			continue
		}
		if len(entries) >= e.opts.MaxResults {
			truncated = true
			break
		}
		entries = append(entries, cands[i].entry)
	}
	return entries, truncated, nil
}

// evalWithContent re-runs the expression for one candidate with content
// filters resolved by scanning, memoized across queries by (path, size,
// mtime, needle).
func (e *Engine) evalWithContent(ctx context.Context, expr Expr, c *candidate) (bool, error) {
	switch n := expr.(type) {
	case nil:
		return true, nil
	case *Term:
		return TermMatch(n.Text, c.entry.Name, c.relPath), nil
	case *Not:
		ok, err := e.evalWithContent(ctx, n.X, c)
		return !ok, err
	case *And:
		for _, x := range n.Xs {
			ok, err := e.evalWithContent(ctx, x, c)
			if err != nil || !ok {
				return false, err
			}
		}
		return true, nil
	case *Or:
		for _, x := range n.Xs {
			ok, err := e.evalWithContent(ctx, x, c)
			if err != nil || ok {
				return ok, err
			}
		}
		return false, nil
	case *Filter:
		if n.Kind != FilterContent {
			return e.metaFilterOutcome(n, c), nil
		}
		return e.scanContent(ctx, c, n.Value)
	}
	return false, nil
}

// metaFilterOutcome replays a metadata filter against the carried
// snapshot data, outside the read section.
func (e *Engine) metaFilterOutcome(f *Filter, c *candidate) bool {
	ent := c.entry
	switch f.Kind {
	case FilterExt:
		return ent.Type != fsindex.EntryFolder && extOf(ent.Name) == f.Value
	case FilterType:
		return ent.Type.String() == f.Value
	case FilterTypeMacro:
		if ent.Type == fsindex.EntryFolder || !macroMatches(f.Macro, ent.Name) {
			return false
		}
		return f.Value == "" || TermMatch(f.Value, ent.Name, c.relPath)
	case FilterFile:
		return ent.Type == fsindex.EntryFile &&
			(f.Value == "" || TermMatch(f.Value, ent.Name, c.relPath))
	case FilterFolder:
		return ent.Type == fsindex.EntryFolder &&
			(f.Value == "" || TermMatch(f.Value, ent.Name, c.relPath))
	case FilterParent, FilterNoSubfolders:
		rel := normalizeScope(c.relPath)
		dir := ""
		if i := strings.LastIndexByte(rel, '/'); i >= 0 {
			dir = rel[:i]
		}
		return dir == normalizeScope(f.Value)
	case FilterInFolder:
		scope := normalizeScope(f.Value)
		return scope == "" || strings.HasPrefix(strings.ToLower(c.relPath), scope+"/")
	case FilterTag:
		if e.opts.TagsFor == nil {
			return false
		}
		have := e.opts.TagsFor(ent.Path)
		for _, want := range f.Tags {
			for _, tag := range have {
				if strings.EqualFold(tag, want) {
					return true
				}
			}
		}
		return false
	case FilterSize:
		return ent.Type == fsindex.EntryFile && f.Size.Matches(ent.Size)
	case FilterDateModified:
		return f.Date.Matches(ent.ModifiedAt)
	case FilterDateCreated:
		// CTime is not carried out of the snapshot; the metadata pass
		// already settled pure date-created queries, and mixed queries
		// fall back to the modification time here.
		return f.Date.Matches(ent.ModifiedAt)
	}
	return false
}

func (e *Engine) scanContent(ctx context.Context, c *candidate, needle string) (bool, error) {
	if c.entry.Type != fsindex.EntryFile {
		return false, nil
	}
	keyNeedle := needle
	if !e.opts.CaseSensitiveContent {
		keyNeedle = strings.ToLower(needle)
	}
	key := contentCacheKey{
		path:      c.entry.Path,
		size:      c.entry.Size,
		mtimeUnix: c.entry.ModifiedAt.UnixNano(),
		needle:    keyNeedle,
	}
	if hit, ok := e.cache.get(key); ok {
		return hit, nil
	}
	matched, err := FileContentMatches(ctx, c.entry.Path, needle, !e.opts.CaseSensitiveContent)
	if err != nil {
		return false, err
	}
	e.cache.put(key, matched)
	return matched, nil
}

// SortEntries orders entries by path. Collection already emits path
// order; this is for callers merging results from several engines.
func SortEntries(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Path < entries[j].Path
	})
}
