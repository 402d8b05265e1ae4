package lang

// Expression grammar, loosest binding first:
//
//	EXP        = TERM ("||" TERM)?
//	TERM       = FACTOR ("&&" FACTOR)?
//	FACTOR     = "(" EXP ")" | "!" FACTOR | COMPARISON
//	COMPARISON = PATH OP PATH
//
// Each binary level admits a single operator. Longer chains must be grouped
// with parentheses, e.g. (a==b && c==d) && e==f.

// comparisonOp parses one of == != > >= < <=.
func (c cursor) comparisonOp() (cursor, Op, bool) {
	switch c.ch {
	case '=':
		if next, ok := c.acceptAll("=="); ok {
			return next, OpEqual, true
		}

	case '!':
		if next, ok := c.acceptAll("!="); ok {
			return next, OpNotEqual, true
		}

	case '>':
		next, _ := c.advance()
		if next, ok := next.accept('='); ok {
			return next, OpGreaterEqual, true
		}

		return next, OpGreater, true

	case '<':
		next, _ := c.advance()
		if next, ok := next.accept('='); ok {
			return next, OpLessEqual, true
		}

		return next, OpLess, true
	}

	return c, 0, false
}

func (c cursor) comparison() (cursor, Expr, bool) {
	next, left, ok := c.path()
	if !ok {
		return c, nil, false
	}

	next, op, ok := next.skip().comparisonOp()
	if !ok {
		return c, nil, false
	}

	next, right, ok := next.skip().path()
	if !ok {
		return c, nil, false
	}

	return next, &Comparison{Left: left, Op: op, Right: right}, true
}

// nesting bounds how deeply groups and negations may nest within one
// condition. Once the bound is hit every enclosing production fails.
type nesting struct {
	max      int
	exceeded bool
	offset   int // where the bound was hit
}

// enter reports whether a group or negation may open at c, depth levels
// below the top of the condition.
func (n *nesting) enter(c cursor, depth int) bool {
	if n.exceeded {
		return false
	}

	if depth >= n.max {
		n.exceeded, n.offset = true, c.pos

		return false
	}

	return true
}

// factor parses a group, a negation or a comparison. Groups and negations
// each cost one level of depth, except that a group directly following a
// negation shares its level, so !(a==b) and !a==b nest equally deep.
func (c cursor) factor(n *nesting, depth int) (cursor, Expr, bool) {
	switch c.ch {
	case '(':
		if !n.enter(c, depth) {
			return c, nil, false
		}

		return c.group(n, depth+1)

	case '!':
		if !n.enter(c, depth) {
			return c, nil, false
		}

		next, _ := c.advance()
		next = next.skip()

		var (
			e  Expr
			ok bool
		)

		if next.ch == '(' {
			next, e, ok = next.group(n, depth+1)
		} else {
			next, e, ok = next.factor(n, depth+1)
		}

		if !ok {
			return c, nil, false
		}

		return next, &Not{Expr: e}, true

	default:
		return c.comparison()
	}
}

// group parses "(" EXP ")" with EXP at depth.
func (c cursor) group(n *nesting, depth int) (cursor, Expr, bool) {
	next, ok := c.accept('(')
	if !ok {
		return c, nil, false
	}

	next, e, ok := next.skip().exp(n, depth)
	if !ok {
		return c, nil, false
	}

	if next, ok = next.skip().accept(')'); !ok {
		return c, nil, false
	}

	return next, e, true
}

// binary parses operand (op operand)? combining both sides with join.
func (c cursor) binary(
	op string,
	operand func(cursor) (cursor, Expr, bool),
	join func(l, r Expr) Expr,
) (cursor, Expr, bool) {
	next, left, ok := operand(c)
	if !ok {
		return c, nil, false
	}

	after, ok := next.skip().acceptAll(op)
	if !ok {
		return next, left, true
	}

	after, right, ok := operand(after.skip())
	if !ok {
		return c, nil, false
	}

	return after, join(left, right), true
}

func (c cursor) term(n *nesting, depth int) (cursor, Expr, bool) {
	factor := func(c cursor) (cursor, Expr, bool) { return c.factor(n, depth) }

	return c.binary("&&", factor, func(l, r Expr) Expr {
		return &And{Left: l, Right: r}
	})
}

func (c cursor) exp(n *nesting, depth int) (cursor, Expr, bool) {
	term := func(c cursor) (cursor, Expr, bool) { return c.term(n, depth) }

	return c.binary("||", term, func(l, r Expr) Expr {
		return &Or{Left: l, Right: r}
	})
}
