package lang

import (
	"context"
	"log/slog"

	"github.com/sahilm/fuzzy"
)

// Parse parses template source into a tree.
//
// An opened conditional tag that is never closed always fails the parse, as
// does nesting deeper than the configured maximum, whether of conditional
// tags or of groups and negations within one condition. How other
// malformed constructs are treated depends on the [Policy].
func Parse(ctx context.Context, source string, opts ...Option) (*Root, error) {
	return parse(ctx, source, makeOptions(opts...))
}

func parse(ctx context.Context, source string, opts options) (*Root, error) {
	p := &parser{ctx: ctx, opts: opts}

	children, _, err := p.scan(newCursor(source), "", 0, 0)
	if err != nil {
		return nil, err
	}

	p.opts.logger.TraceContext(ctx, "parse complete",
		slog.Int("source_bytes", len(source)),
		slog.Int("node_count", len(children)),
		slog.String("policy", opts.key.Policy.String()))

	return &Root{Children: children}, nil
}

// parser holds the per-invocation parse configuration. All scan state lives
// in cursor values.
type parser struct {
	ctx  context.Context
	opts options
}

func (p *parser) strict() bool { return p.opts.key.Policy == Strict }

// scan parses a run of literal text and embedded nodes starting at c.
//
// With closing empty, it runs to the end of input. Otherwise it stops after
// the close tag named closing and returns the cursor following it; reaching
// the end of input first is an error. open is the offset of the tag being
// closed.
func (p *parser) scan(
	c cursor,
	closing string,
	open, depth int,
) ([]Node, cursor, error) {
	var children []Node

	flush := c.pos
	literal := func(end int) {
		if end > flush {
			children = append(children, &Literal{Text: c.src[flush:end]})
		}
	}

	for !c.done() {
		if next, name, ok := c.closeTag(); ok {
			if closing != "" && name == closing {
				literal(c.pos)

				return children, next, nil
			}

			if p.strict() {
				return nil, c, ErrUnexpectedCloseTag.With(
					slog.String("tag", name),
					slog.String("open", closing),
					slog.Int("offset", c.pos))
			}
		}

		node, next, err := p.node(c, depth)
		if err != nil {
			return nil, c, err
		}

		if node == nil {
			// Nothing starts here; the rune joins the pending literal.
			c, _ = c.advance()

			continue
		}

		literal(c.pos)
		children = append(children, node)
		flush = next.pos
		c = next
	}

	if closing != "" {
		return nil, c, ErrUnterminatedTag.With(
			slog.String("tag", closing),
			slog.Int("offset", open))
	}

	literal(c.pos)

	return children, c, nil
}

// node attempts each production that may begin at c, in order. A nil node
// with a nil error means none matched.
func (p *parser) node(c cursor, depth int) (Node, cursor, error) {
	switch c.ch {
	case '<':
		return p.conditional(c, depth)

	case '%':
		return p.interpolation(c)

	default:
		return nil, c, nil
	}
}

// conditional parses <#if(EXP)> BODY </#if>.
func (p *parser) conditional(c cursor, depth int) (Node, cursor, error) {
	limit := &nesting{max: p.opts.key.MaxDepth}

	next, cond, ok := c.ifOpen(limit)
	if !ok {
		if limit.exceeded {
			return nil, c, ErrMaxDepthExceeded.With(
				slog.String("construct", "condition"),
				slog.Int("max_depth", limit.max),
				slog.Int("offset", limit.offset))
		}

		if _, ok := c.tagStart(); ok {
			if p.strict() {
				return nil, c, ErrMalformedTag.With(slog.Int("offset", c.pos))
			}

			p.fallback("tag", c)
		}

		return nil, c, nil
	}

	if depth >= p.opts.key.MaxDepth {
		return nil, c, ErrMaxDepthExceeded.With(
			slog.String("construct", "tag"),
			slog.Int("depth", depth+1),
			slog.Int("max_depth", p.opts.key.MaxDepth),
			slog.Int("offset", c.pos))
	}

	children, end, err := p.scan(next, TagIf, c.pos, depth+1)
	if err != nil {
		return nil, c, err
	}

	return &Conditional{Cond: cond, Children: children}, end, nil
}

// interpolation parses %{PATH [TRANSFORM]}.
func (p *parser) interpolation(c cursor) (Node, cursor, error) {
	next, path, name, ok := c.interpolation()
	if !ok {
		if _, ok := c.acceptAll("%{"); ok {
			if p.strict() {
				return nil, c, ErrMalformedInterpolation.With(
					slog.Int("offset", c.pos))
			}

			p.fallback("interpolation", c)
		}

		return nil, c, nil
	}

	node := &Interpolation{Path: path}
	if name == "" {
		return node, next, nil
	}

	t, ok := p.opts.registry.Resolve(name)
	if !ok {
		if p.strict() {
			return nil, c, p.unknownTransform(name, c.pos)
		}

		p.opts.logger.TraceContext(p.ctx, "unknown transform ignored",
			slog.String("transform", name),
			slog.Int("offset", c.pos))

		return node, next, nil
	}

	node.Transform = t

	return node, next, nil
}

func (p *parser) fallback(kind string, c cursor) {
	p.opts.logger.TraceContext(p.ctx, "literal fallback",
		slog.String("construct", kind),
		slog.Int("offset", c.pos))
}

// unknownTransform builds an error naming the registered transforms that
// most resemble name.
func (p *parser) unknownTransform(name string, offset int) error {
	err := ErrUnknownTransform.With(
		slog.String("transform", name),
		slog.Int("offset", offset))

	lister, ok := p.opts.registry.(Lister)
	if !ok {
		return err
	}

	names := lister.Names()

	var similar []string
	for _, m := range fuzzy.Find(name, names) {
		similar = append(similar, m.Str)
	}

	if len(similar) == 0 {
		return err
	}

	const maxSuggestions = 3

	return err.With(slog.Any("suggest",
		similar[:min(len(similar), maxSuggestions)]))
}

// Delimiter productions.

// tagStart parses '<' WS? '#'.
func (c cursor) tagStart() (cursor, bool) {
	next, ok := c.accept('<')
	if !ok {
		return c, false
	}

	if next, ok = next.skip().accept('#'); !ok {
		return c, false
	}

	return next, true
}

// ifOpen parses TAG_START "if" WS? '(' WS? EXP WS? ')' WS? '>'. Groups and
// negations within EXP may nest no deeper than limit allows.
func (c cursor) ifOpen(limit *nesting) (cursor, Expr, bool) {
	next, ok := c.tagStart()
	if !ok {
		return c, nil, false
	}

	next, name, ok := next.lowercase()
	if !ok || name != TagIf {
		return c, nil, false
	}

	if next, ok = next.skip().accept('('); !ok {
		return c, nil, false
	}

	next, cond, ok := next.skip().exp(limit, 0)
	if !ok {
		return c, nil, false
	}

	if next, ok = next.skip().accept(')'); !ok {
		return c, nil, false
	}

	if next, ok = next.skip().accept('>'); !ok {
		return c, nil, false
	}

	return next, cond, true
}

// closeTag parses '<' WS? '/' WS? '#' NAME WS? '>' and returns NAME.
func (c cursor) closeTag() (cursor, string, bool) {
	next, ok := c.accept('<')
	if !ok {
		return c, "", false
	}

	if next, ok = next.skip().accept('/'); !ok {
		return c, "", false
	}

	if next, ok = next.skip().accept('#'); !ok {
		return c, "", false
	}

	next, name, ok := next.lowercase()
	if !ok {
		return c, "", false
	}

	if next, ok = next.skip().accept('>'); !ok {
		return c, "", false
	}

	return next, name, true
}

// interpolation parses "%{" WS? PATH (WS NAME)? WS? '}' and returns the
// path and the transform name, if any.
func (c cursor) interpolation() (cursor, Path, string, bool) {
	next, ok := c.acceptAll("%{")
	if !ok {
		return c, Path{}, "", false
	}

	next, path, ok := next.skip().path()
	if !ok {
		return c, Path{}, "", false
	}

	var name string

	if ws, ok := next.whitespace(); ok {
		next = ws

		if after, lower, ok := next.lowercase(); ok {
			name = lower
			next = after.skip()
		}
	}

	if next, ok = next.accept('}'); !ok {
		return c, Path{}, "", false
	}

	return next, path, name, true
}
