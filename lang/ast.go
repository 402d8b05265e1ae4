package lang

import "strings"

// TagIf is the name of the conditional tag, as in <#if(...)>...</#if>.
const TagIf = "if"

// Node is an element of a parsed template tree.
//
// The concrete types are [*Root], [*Literal], [*Interpolation] and
// [*Conditional]. Trees returned by the parser are shared (see
// [ParseReader]) and must be treated as read-only.
type Node interface {
	node()
}

// Parent is implemented by nodes that contain an ordered list of children.
type Parent interface {
	Node
	Nodes() []Node
}

// Root is the top-level container of a parsed template.
type Root struct {
	Children []Node
}

// Literal is a verbatim run of template source.
type Literal struct {
	Text string
}

// Interpolation substitutes the value found at Path, optionally passed
// through Transform. A nil Transform means none was requested or the
// requested name was unknown to the registry.
type Interpolation struct {
	Path      Path
	Transform Transform
}

// Conditional includes Children in the output only when Cond holds.
type Conditional struct {
	Cond     Expr
	Children []Node
}

func (*Root) node()          {}
func (*Literal) node()       {}
func (*Interpolation) node() {}
func (*Conditional) node()   {}

// Nodes returns the top-level children.
func (r *Root) Nodes() []Node { return r.Children }

// Nodes returns the body of the conditional.
func (c *Conditional) Nodes() []Node { return c.Children }

// Segment is one dotted component following the head of a [Path].
type Segment struct {
	Name string
	Call bool // written as name()
}

// String returns the segment as written in source.
func (s Segment) String() string {
	if s.Call {
		return s.Name + "()"
	}

	return s.Name
}

// Path is a dotted identifier chain such as user.address.city or
// items.size(). The head is never a call.
type Path struct {
	Head     string
	Segments []Segment
}

// String returns the path as written in source.
func (p Path) String() string {
	var sb strings.Builder

	sb.WriteString(p.Head)

	for _, s := range p.Segments {
		sb.WriteByte('.')
		sb.WriteString(s.String())
	}

	return sb.String()
}

// Equal reports whether p and q name the same chain.
func (p Path) Equal(q Path) bool {
	if p.Head != q.Head || len(p.Segments) != len(q.Segments) {
		return false
	}

	for i := range p.Segments {
		if p.Segments[i] != q.Segments[i] {
			return false
		}
	}

	return true
}

// Op is a comparison operator.
type Op int

const (
	OpEqual        Op = iota // ==
	OpNotEqual               // !=
	OpGreater                // >
	OpGreaterEqual           // >=
	OpLess                   // <
	OpLessEqual              // <=
)

// String returns the operator lexeme.
func (op Op) String() string {
	switch op {
	case OpEqual:
		return "=="

	case OpNotEqual:
		return "!="

	case OpGreater:
		return ">"

	case OpGreaterEqual:
		return ">="

	case OpLess:
		return "<"

	case OpLessEqual:
		return "<="

	default:
		return "?"
	}
}

// Expr is a boolean condition. The concrete types are [*Comparison],
// [*And], [*Or] and [*Not].
type Expr interface {
	expr()
	precedence() int
}

// Comparison compares the values found at two paths.
type Comparison struct {
	Left  Path
	Op    Op
	Right Path
}

// And holds when both operands hold.
type And struct {
	Left, Right Expr
}

// Or holds when either operand holds.
type Or struct {
	Left, Right Expr
}

// Not negates its operand.
type Not struct {
	Expr Expr
}

func (*Comparison) expr() {}
func (*And) expr()        {}
func (*Or) expr()         {}
func (*Not) expr()        {}

// Binding strength, loosest first.
const (
	precOr = iota
	precAnd
	precFactor
)

func (*Comparison) precedence() int { return precFactor }
func (*And) precedence() int        { return precAnd }
func (*Or) precedence() int         { return precOr }
func (*Not) precedence() int        { return precFactor }
