package builtin

import (
	"fmt"
	"log/slog"

	"github.com/ardnew/tmpl/lang"
)

// ErrUnsupportedValue is returned when a transform cannot be applied to the
// type of value it was given.
var ErrUnsupportedValue = lang.NewError("unsupported transform input")

// Func converts an interpolated value to output text.
type Func func(value any) (string, error)

// Transform is a named output transform.
type Transform struct {
	name string
	fn   Func
}

// NewTransform returns a transform with the given name. Names must be
// lowercase ASCII letters to be reachable from template source.
func NewTransform(name string, fn Func) *Transform {
	return &Transform{name: name, fn: fn}
}

// Name returns the transform name.
func (t *Transform) Name() string { return t.name }

// Apply converts value to output text.
func (t *Transform) Apply(value any) (string, error) {
	s, err := t.fn(value)
	if err != nil {
		return "", lang.WrapError(err).With(slog.String("transform", t.name))
	}

	return s, nil
}

// text is the textual form of value used by the string transforms.
func text(value any) string {
	switch v := value.(type) {
	case nil:
		return ""

	case string:
		return v

	case []byte:
		return string(v)

	case fmt.Stringer:
		return v.String()

	default:
		return fmt.Sprint(v)
	}
}

// stringFunc lifts a string mapping to a [Func].
func stringFunc(fn func(string) string) Func {
	return func(value any) (string, error) {
		return fn(text(value)), nil
	}
}
