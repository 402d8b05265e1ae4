package lang

// identifierOrCall parses IDENTIFIER "()"?.
func (c cursor) identifierOrCall() (cursor, Segment, bool) {
	next, name, ok := c.identifier()
	if !ok {
		return c, Segment{}, false
	}

	if next.ch != '(' {
		return next, Segment{Name: name}, true
	}

	// No whitespace is allowed between the parentheses.
	next, ok = next.acceptAll("()")
	if !ok {
		return c, Segment{}, false
	}

	return next, Segment{Name: name, Call: true}, true
}

// path parses IDENTIFIER ('.' IDENTIFIER_OR_CALL)*.
//
// A dot that is not followed by a valid segment fails the whole path.
func (c cursor) path() (cursor, Path, bool) {
	next, head, ok := c.identifier()
	if !ok {
		return c, Path{}, false
	}

	p := Path{Head: head}

	for next.ch == '.' {
		next, _ = next.advance()

		var seg Segment
		if next, seg, ok = next.identifierOrCall(); !ok {
			return c, Path{}, false
		}

		p.Segments = append(p.Segments, seg)
	}

	return next, p, true
}
