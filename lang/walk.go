package lang

import "iter"

// Walk calls fn for n and each of its descendants, depth first, in source
// order. Children of a node are skipped when fn returns false for it.
func Walk(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}

	if p, ok := n.(Parent); ok {
		for _, c := range p.Nodes() {
			Walk(c, fn)
		}
	}
}

// All returns an iterator over every node of the tree except the root,
// depth first, in source order.
func (r *Root) All() iter.Seq[Node] {
	return func(yield func(Node) bool) {
		stop := false

		Walk(r, func(n Node) bool {
			if stop {
				return false
			}

			if n == Node(r) {
				return true
			}

			if !yield(n) {
				stop = true

				return false
			}

			return true
		})
	}
}

// Exprs returns an iterator over the condition of every conditional in
// the tree.
func (r *Root) Exprs() iter.Seq[Expr] {
	return func(yield func(Expr) bool) {
		for n := range r.All() {
			if c, ok := n.(*Conditional); ok && !yield(c.Cond) {
				return
			}
		}
	}
}

// Paths returns an iterator over every path referenced by an expression.
func Paths(e Expr) iter.Seq[Path] {
	return func(yield func(Path) bool) {
		walkPaths(e, yield)
	}
}

func walkPaths(e Expr, yield func(Path) bool) bool {
	switch e := e.(type) {
	case *Comparison:
		return yield(e.Left) && yield(e.Right)

	case *And:
		return walkPaths(e.Left, yield) && walkPaths(e.Right, yield)

	case *Or:
		return walkPaths(e.Left, yield) && walkPaths(e.Right, yield)

	case *Not:
		return walkPaths(e.Expr, yield)

	default:
		return true
	}
}
