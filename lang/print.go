package lang

import (
	"io"
	"strconv"
	"strings"
)

// Print writes an indented representation of the tree to w.
func (r *Root) Print(w io.Writer) error {
	pw := &printer{w: w}

	pw.line(0, "Root")
	pw.nodes(1, r.Children)

	return pw.err
}

type printer struct {
	w   io.Writer
	err error
}

func (p *printer) line(indent int, item ...string) {
	if p.err != nil {
		return
	}

	_, p.err = io.WriteString(p.w,
		strings.Repeat("  ", indent)+strings.Join(item, ": ")+"\n")
}

func (p *printer) nodes(indent int, nodes []Node) {
	for _, n := range nodes {
		p.node(indent, n)
	}
}

func (p *printer) node(indent int, n Node) {
	switch n := n.(type) {
	case *Literal:
		p.line(indent, "Literal", strconv.Quote(n.Text))

	case *Interpolation:
		if n.Transform != nil {
			p.line(indent, "Interpolation", n.Path.String(), n.Transform.Name())
		} else {
			p.line(indent, "Interpolation", n.Path.String())
		}

	case *Conditional:
		p.line(indent, "Conditional")
		p.expr(indent+1, n.Cond)

		if len(n.Children) == 0 {
			p.line(indent+1, "(empty)")
		}

		p.nodes(indent+1, n.Children)
	}
}

func (p *printer) expr(indent int, e Expr) {
	switch e := e.(type) {
	case *Comparison:
		p.line(indent, "Comparison",
			e.Left.String()+" "+e.Op.String()+" "+e.Right.String())

	case *And:
		p.line(indent, "And")
		p.expr(indent+1, e.Left)
		p.expr(indent+1, e.Right)

	case *Or:
		p.line(indent, "Or")
		p.expr(indent+1, e.Left)
		p.expr(indent+1, e.Right)

	case *Not:
		p.line(indent, "Not")
		p.expr(indent+1, e.Expr)
	}
}
