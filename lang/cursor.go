package lang

import (
	"unicode"
	"unicode/utf8"
)

// eof is the rune reported by a cursor positioned past the end of input.
const eof rune = 0

// cursor is an immutable scan position over template source.
//
// Every primitive returns a new cursor and leaves its receiver untouched, so
// a failed sub-production is abandoned simply by discarding its result.
type cursor struct {
	src  string
	pos  int  // byte offset of ch
	ch   rune // rune at pos, or eof
	size int  // byte width of ch
}

func newCursor(src string) cursor {
	return cursor{src: src}.at(0)
}

// at returns a cursor positioned at byte offset pos.
func (c cursor) at(pos int) cursor {
	c.pos = pos
	if pos >= len(c.src) {
		c.pos, c.ch, c.size = len(c.src), eof, 0

		return c
	}

	c.ch, c.size = utf8.DecodeRuneInString(c.src[pos:])

	return c
}

func (c cursor) done() bool { return c.pos >= len(c.src) }

// advance moves one code point forward. It reports false when there was
// nothing left to consume.
func (c cursor) advance() (cursor, bool) {
	if c.done() {
		return c, false
	}

	return c.at(c.pos + c.size), true
}

// accept consumes r if it is the current code point.
func (c cursor) accept(r rune) (cursor, bool) {
	if c.done() || c.ch != r {
		return c, false
	}

	return c.advance()
}

// acceptAll consumes each rune of s in order, or nothing at all.
func (c cursor) acceptAll(s string) (cursor, bool) {
	next := c
	for _, r := range s {
		var ok bool
		if next, ok = next.accept(r); !ok {
			return c, false
		}
	}

	return next, true
}

// whitespace consumes a run of whitespace and reports whether the run was
// non-empty. Callers that treat whitespace as optional ignore the flag.
func (c cursor) whitespace() (cursor, bool) {
	next := c
	for !next.done() && unicode.IsSpace(next.ch) {
		next, _ = next.advance()
	}

	return next, next.pos > c.pos
}

// skip is whitespace without the flag.
func (c cursor) skip() cursor {
	next, _ := c.whitespace()

	return next
}

// span consumes one rune satisfying first followed by any number satisfying
// rest, returning the consumed text.
func (c cursor) span(first, rest func(rune) bool) (cursor, string, bool) {
	if c.done() || !first(c.ch) {
		return c, "", false
	}

	next, _ := c.advance()
	for !next.done() && rest(next.ch) {
		next, _ = next.advance()
	}

	return next, c.src[c.pos:next.pos], true
}

// identifier consumes an identifier.
func (c cursor) identifier() (cursor, string, bool) {
	return c.span(isIdentifierStart, isIdentifierContinue)
}

// lowercase consumes a run of ASCII lowercase letters, as used by tag and
// transform names.
func (c cursor) lowercase() (cursor, string, bool) {
	return c.span(isLowercase, isLowercase)
}

// Character classification

func isIdentifierStart(r rune) bool {
	return r == '_' || r == '$' || unicode.In(r,
		unicode.L,  // Letter
		unicode.Nl, // Letter, Number
		unicode.Sc, // Symbol, Currency
		unicode.Pc, // Punctuation, Connector
	)
}

func isIdentifierContinue(r rune) bool {
	return isIdentifierStart(r) || unicode.In(r,
		unicode.Nd, // Number, Decimal Digit
		unicode.Mn, // Mark, Nonspacing
		unicode.Mc, // Mark, Spacing Combining
	)
}

func isLowercase(r rune) bool { return r >= 'a' && r <= 'z' }
