package render

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/ardnew/tmpl/lang"
	"github.com/ardnew/tmpl/log"
)

// Applier is implemented by transform handles that can convert a value to
// output text.
type Applier interface {
	Apply(value any) (string, error)
}

// Template is a compiled template. It is safe for concurrent use.
type Template struct {
	root    *lang.Root
	paths   map[*lang.Interpolation]*vm.Program
	conds   map[*lang.Conditional]*vm.Program
	logger  log.Logger
	missing string
}

// Option configures a [Template].
type Option func(*Template)

// WithLogger sets the logger used for trace output.
func WithLogger(logger log.Logger) Option {
	return func(t *Template) { t.logger = logger }
}

// WithMissing sets the text rendered for interpolations that resolve to
// nil. The default is empty text.
func WithMissing(text string) Option {
	return func(t *Template) { t.missing = text }
}

// Compile prepares root for execution.
func Compile(root *lang.Root, opts ...Option) (*Template, error) {
	t := &Template{
		root:  root,
		paths: make(map[*lang.Interpolation]*vm.Program),
		conds: make(map[*lang.Conditional]*vm.Program),
	}

	for _, opt := range opts {
		opt(t)
	}

	for n := range root.All() {
		switch n := n.(type) {
		case *lang.Interpolation:
			prog, err := compile(pathSource(n.Path))
			if err != nil {
				return nil, err.With(slog.String("path", n.Path.String()))
			}

			t.paths[n] = prog

		case *lang.Conditional:
			prog, err := compile(condSource(n.Cond))
			if err != nil {
				return nil, err.With(slog.String("cond", lang.FormatExpr(n.Cond)))
			}

			t.conds[n] = prog
		}
	}

	t.logger.Trace("template compiled",
		slog.Int("paths", len(t.paths)),
		slog.Int("conditions", len(t.conds)))

	return t, nil
}

func compile(source string) (*vm.Program, *lang.Error) {
	prog, err := expr.Compile(source)
	if err != nil {
		return nil, ErrCompile.Wrap(err).With(slog.String("source", source))
	}

	return prog, nil
}

// Root returns the tree the template was compiled from.
func (t *Template) Root() *lang.Root { return t.root }

// Execute renders the template with data to w.
func (t *Template) Execute(ctx context.Context, w io.Writer, data any) error {
	if data == nil {
		data = map[string]any{}
	}

	ex := &execution{t: t, ctx: ctx, w: w, data: data}

	if err := ex.nodes(t.root.Children); err != nil {
		return err
	}

	t.logger.TraceContext(ctx, "template rendered",
		slog.Int("bytes", ex.n))

	return nil
}

// Render renders the template with data and returns the output.
func (t *Template) Render(ctx context.Context, data any) (string, error) {
	var sb strings.Builder

	if err := t.Execute(ctx, &sb, data); err != nil {
		return "", err
	}

	return sb.String(), nil
}

// String parses source with opts, compiles it, and renders it with data.
func String(
	ctx context.Context,
	source string,
	data any,
	opts ...lang.Option,
) (string, error) {
	root, err := lang.Parse(ctx, source, opts...)
	if err != nil {
		return "", err
	}

	t, err := Compile(root)
	if err != nil {
		return "", err
	}

	return t.Render(ctx, data)
}

// execution is the state of one call to Execute.
type execution struct {
	t    *Template
	ctx  context.Context
	w    io.Writer
	data any
	n    int
}

func (ex *execution) write(s string) error {
	n, err := io.WriteString(ex.w, s)
	ex.n += n

	return err
}

func (ex *execution) nodes(nodes []lang.Node) error {
	for _, n := range nodes {
		if err := ex.ctx.Err(); err != nil {
			return err
		}

		if err := ex.node(n); err != nil {
			return err
		}
	}

	return nil
}

func (ex *execution) node(n lang.Node) error {
	switch n := n.(type) {
	case *lang.Literal:
		return ex.write(n.Text)

	case *lang.Interpolation:
		s, err := ex.interpolate(n)
		if err != nil {
			return err
		}

		return ex.write(s)

	case *lang.Conditional:
		ok, err := ex.condition(n)
		if err != nil || !ok {
			return err
		}

		return ex.nodes(n.Children)

	default:
		return nil
	}
}

func (ex *execution) interpolate(n *lang.Interpolation) (string, error) {
	value, err := vm.Run(ex.t.paths[n], ex.data)
	if err != nil {
		return "", ErrEvaluate.Wrap(err).With(slog.String("path", n.Path.String()))
	}

	if n.Transform == nil {
		return ex.text(value), nil
	}

	a, ok := n.Transform.(Applier)
	if !ok {
		return "", ErrTransform.With(
			slog.String("transform", n.Transform.Name()),
			slog.String("reason", "handle cannot be applied"))
	}

	s, err := a.Apply(value)
	if err != nil {
		return "", ErrTransform.Wrap(err).With(
			slog.String("transform", n.Transform.Name()),
			slog.String("path", n.Path.String()))
	}

	return s, nil
}

func (ex *execution) text(value any) string {
	switch v := value.(type) {
	case nil:
		return ex.t.missing

	case string:
		return v

	default:
		return fmt.Sprint(v)
	}
}

func (ex *execution) condition(n *lang.Conditional) (bool, error) {
	value, err := vm.Run(ex.t.conds[n], ex.data)
	if err != nil {
		return false, ErrEvaluate.Wrap(err).
			With(slog.String("cond", lang.FormatExpr(n.Cond)))
	}

	ok, isBool := value.(bool)
	if !isBool {
		return false, ErrEvaluate.With(
			slog.String("cond", lang.FormatExpr(n.Cond)),
			slog.String("type", fmt.Sprintf("%T", value)))
	}

	return ok, nil
}
