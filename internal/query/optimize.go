package query

import "sort"

// Optimize rewrites an expression into a cheaper equivalent form. The
// rewrite is pure and idempotent: Optimize(Optimize(e)) == Optimize(e).
//
// Transformations:
//   - nested AND-of-AND and OR-of-OR flatten into one n-ary node;
//   - single-child AND/OR collapse to that child;
//   - AND operands reorder by cost rank so cheap, selective predicates run
//     first; OR children flatten but keep their order, since a union must
//     evaluate every branch anyway;
//   - Not recurses without reordering.
func Optimize(e Expr) Expr {
	switch n := e.(type) {
	case *And:
		xs := flattenAnd(n.Xs)
		if len(xs) == 1 {
			return xs[0]
		}
		sort.SliceStable(xs, func(i, j int) bool {
			return costRank(xs[i]) < costRank(xs[j])
		})
		return &And{Xs: xs}
	case *Or:
		xs := flattenOr(n.Xs)
		if len(xs) == 1 {
			return xs[0]
		}
		return &Or{Xs: xs}
	case *Not:
		return &Not{X: Optimize(n.X)}
	default:
		return e
	}
}

func flattenAnd(xs []Expr) []Expr {
	out := make([]Expr, 0, len(xs))
	for _, x := range xs {
		opt := Optimize(x)
		if inner, ok := opt.(*And); ok {
			out = append(out, inner.Xs...)
			continue
		}
		out = append(out, opt)
	}
	return out
}

func flattenOr(xs []Expr) []Expr {
	out := make([]Expr, 0, len(xs))
	for _, x := range xs {
		opt := Optimize(x)
		if inner, ok := opt.(*Or); ok {
			out = append(out, inner.Xs...)
			continue
		}
		out = append(out, opt)
	}
	return out
}

// costRank is the fixed evaluation-cost ordering for AND operands. Scope
// filters shrink the candidate set earliest; tag filters pay the most
// expensive metadata access and go last.
func costRank(e Expr) int {
	f, ok := e.(*Filter)
	if !ok {
		if _, isTerm := e.(*Term); isTerm {
			return 1 // free text after scope filters
		}
		return 2
	}
	switch f.Kind {
	case FilterInFolder, FilterParent:
		return 0
	case FilterTag:
		return 3
	default:
		return 2
	}
}
