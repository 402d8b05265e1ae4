package render

import (
	"strconv"
	"strings"

	"github.com/ardnew/tmpl/lang"
)

// literals are names that keep their expr meaning when used as a path head.
var literals = map[string]bool{"true": true, "false": true, "nil": true}

// pathSource returns the expr source that resolves p.
func pathSource(p lang.Path) string {
	if len(p.Segments) == 0 && literals[p.Head] {
		return p.Head
	}

	var sb strings.Builder

	sb.WriteString("$env[" + strconv.Quote(p.Head) + "]")

	for _, s := range p.Segments {
		switch {
		case s.Call:
			sb.WriteString("?." + s.Name + "()")

		case isIdent(s.Name):
			sb.WriteString("?." + s.Name)

		default:
			sb.WriteString("[" + strconv.Quote(s.Name) + "]")
		}
	}

	return sb.String()
}

// condSource returns the expr source that evaluates e.
func condSource(e lang.Expr) string {
	switch e := e.(type) {
	case *lang.Comparison:
		return pathSource(e.Left) + " " + e.Op.String() + " " + pathSource(e.Right)

	case *lang.And:
		return "(" + condSource(e.Left) + ") && (" + condSource(e.Right) + ")"

	case *lang.Or:
		return "(" + condSource(e.Left) + ") || (" + condSource(e.Right) + ")"

	case *lang.Not:
		return "!(" + condSource(e.Expr) + ")"

	default:
		return "false"
	}
}

// isIdent reports whether s can follow a member operator unquoted.
func isIdent(s string) bool {
	if s == "" {
		return false
	}

	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}

	return true
}
