package lang

import (
	"io"
	"strings"
)

// Format writes canonical template source for the tree to w. Parsing the
// output yields an equal tree.
func (r *Root) Format(w io.Writer) error {
	_, err := io.WriteString(w, r.String())

	return err
}

// String returns canonical template source for the tree.
func (r *Root) String() string {
	var sb strings.Builder

	writeNodes(&sb, r.Children)

	return sb.String()
}

// String returns the literal text.
func (l *Literal) String() string { return l.Text }

// String returns the interpolation as written in source.
func (i *Interpolation) String() string {
	var sb strings.Builder

	writeNode(&sb, i)

	return sb.String()
}

// String returns the conditional, including its body, as written in source.
func (c *Conditional) String() string {
	var sb strings.Builder

	writeNode(&sb, c)

	return sb.String()
}

func writeNodes(sb *strings.Builder, nodes []Node) {
	for _, n := range nodes {
		writeNode(sb, n)
	}
}

func writeNode(sb *strings.Builder, n Node) {
	switch n := n.(type) {
	case *Root:
		writeNodes(sb, n.Children)

	case *Literal:
		sb.WriteString(n.Text)

	case *Interpolation:
		sb.WriteString("%{")
		sb.WriteString(n.Path.String())

		if n.Transform != nil {
			sb.WriteByte(' ')
			sb.WriteString(n.Transform.Name())
		}

		sb.WriteByte('}')

	case *Conditional:
		sb.WriteString("<#" + TagIf + "(")
		sb.WriteString(FormatExpr(n.Cond))
		sb.WriteString(")>")
		writeNodes(sb, n.Children)
		sb.WriteString("</#" + TagIf + ">")
	}
}

// FormatExpr returns source text for e, inserting the parentheses the
// grammar needs to reproduce the same tree.
func FormatExpr(e Expr) string {
	var sb strings.Builder

	writeExpr(&sb, e, precOr)

	return sb.String()
}

// writeExpr writes e in a position that requires at least prec binding.
func writeExpr(sb *strings.Builder, e Expr, prec int) {
	if e == nil {
		return
	}

	if e.precedence() < prec {
		sb.WriteByte('(')
		writeExpr(sb, e, precOr)
		sb.WriteByte(')')

		return
	}

	switch e := e.(type) {
	case *Comparison:
		sb.WriteString(e.Left.String())
		sb.WriteByte(' ')
		sb.WriteString(e.Op.String())
		sb.WriteByte(' ')
		sb.WriteString(e.Right.String())

	case *Not:
		sb.WriteByte('!')

		if c, ok := e.Expr.(*Comparison); ok {
			sb.WriteByte('(')
			writeExpr(sb, c, precOr)
			sb.WriteByte(')')

			return
		}

		writeExpr(sb, e.Expr, precFactor)

	// Both operands of a binary operator bind tighter than the operator
	// itself since each level admits a single repetition.
	case *And:
		writeExpr(sb, e.Left, precFactor)
		sb.WriteString(" && ")
		writeExpr(sb, e.Right, precFactor)

	case *Or:
		writeExpr(sb, e.Left, precAnd)
		sb.WriteString(" || ")
		writeExpr(sb, e.Right, precAnd)
	}
}
