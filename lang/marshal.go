package lang

import (
	"encoding/json"

	"github.com/goccy/go-yaml"
)

// MarshalJSON implements json.Marshaler for Root.
func (r *Root) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.ToMap())
}

// MarshalYAML implements yaml.BytesMarshaler for Root.
func (r *Root) MarshalYAML() ([]byte, error) {
	return yaml.Marshal(r.ToMap())
}

// ToMap converts the tree to native Go maps and slices.
func (r *Root) ToMap() map[string]any {
	return map[string]any{
		"root": nodesToNative(r.Children),
	}
}

func nodesToNative(nodes []Node) []any {
	out := make([]any, 0, len(nodes))

	for _, n := range nodes {
		out = append(out, nodeToNative(n))
	}

	return out
}

func nodeToNative(n Node) map[string]any {
	switch n := n.(type) {
	case *Literal:
		return map[string]any{"literal": n.Text}

	case *Interpolation:
		m := map[string]any{"path": pathToNative(n.Path)}
		if n.Transform != nil {
			m["transform"] = n.Transform.Name()
		}

		return map[string]any{"interpolation": m}

	case *Conditional:
		return map[string]any{
			"conditional": map[string]any{
				"cond": exprToNative(n.Cond),
				"body": nodesToNative(n.Children),
			},
		}

	default:
		return nil
	}
}

func pathToNative(p Path) []any {
	out := make([]any, 0, len(p.Segments)+1)
	out = append(out, p.Head)

	for _, s := range p.Segments {
		out = append(out, s.String())
	}

	return out
}

func exprToNative(e Expr) map[string]any {
	switch e := e.(type) {
	case *Comparison:
		return map[string]any{
			"op":    e.Op.String(),
			"left":  pathToNative(e.Left),
			"right": pathToNative(e.Right),
		}

	case *And:
		return map[string]any{
			"and": []any{exprToNative(e.Left), exprToNative(e.Right)},
		}

	case *Or:
		return map[string]any{
			"or": []any{exprToNative(e.Left), exprToNative(e.Right)},
		}

	case *Not:
		return map[string]any{"not": exprToNative(e.Expr)}

	default:
		return nil
	}
}
