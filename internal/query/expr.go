// Package query implements the boolean query language evaluated against a
// filesystem index: a small expression AST with a cost-based optimizer, a
// text/glob matcher, size and date predicates, a boundary-safe chunked
// content searcher, and highlight-term extraction for result rendering.
package query

// Expr is a node in the query AST. Expressions are trees (no cycles),
// built per query and discarded after evaluation.
type Expr interface {
	exprNode()
}

// Term is a free-text term, matched by substring against entry name or
// full path, or as a wildcard/path pattern when it contains pattern
// characters.
type Term struct {
	Text string
}

// Not negates its child.
type Not struct {
	X Expr
}

// And is an n-ary conjunction.
type And struct {
	Xs []Expr
}

// Or is an n-ary disjunction.
type Or struct {
	Xs []Expr
}

// FilterKind discriminates typed filters.
type FilterKind int

const (
	// FilterExt matches the file extension (without dot).
	FilterExt FilterKind = iota
	// FilterType matches the entry type (file/folder/symlink).
	FilterType
	// FilterTypeMacro matches a category of extensions (image, video,
	// audio, doc, archive, code), with an optional name argument.
	FilterTypeMacro
	// FilterFile restricts to files, with an optional name argument.
	FilterFile
	// FilterFolder restricts to folders, with an optional name argument.
	FilterFolder
	// FilterParent matches entries whose direct parent is the given path.
	FilterParent
	// FilterInFolder matches entries anywhere under the given path.
	FilterInFolder
	// FilterNoSubfolders matches entries directly in the given path,
	// excluding anything nested deeper.
	FilterNoSubfolders
	// FilterContent matches entries whose file content contains the
	// needle.
	FilterContent
	// FilterTag matches entries carrying any of the given metadata tags.
	FilterTag
	// FilterSize matches the entry size against a size predicate.
	FilterSize
	// FilterDateModified matches the modification time against a date
	// predicate.
	FilterDateModified
	// FilterDateCreated matches the creation (change) time against a
	// date predicate.
	FilterDateCreated
)

// Filter is a typed predicate leaf.
type Filter struct {
	Kind FilterKind

	// Value is the filter payload: extension, type name, macro/file/
	// folder argument, content needle, or scope path depending on Kind.
	Value string

	// Macro is the extension category for FilterTypeMacro; Value then
	// holds the optional name argument.
	Macro string

	// Tags is set for FilterTag.
	Tags []string

	// Size is set for FilterSize.
	Size SizePredicate

	// Date is set for FilterDateModified and FilterDateCreated.
	Date DatePredicate
}

func (*Term) exprNode()   {}
func (*Not) exprNode()    {}
func (*And) exprNode()    {}
func (*Or) exprNode()     {}
func (*Filter) exprNode() {}
