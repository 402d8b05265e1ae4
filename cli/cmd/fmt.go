package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/tmpl/log"
	"github.com/ardnew/tmpl/pkg"
)

// Fmt prints the canonical source of a template.
type Fmt struct {
	Sources []string `arg:"" default:"-" help:"Template source file(s) or '-' for stdin." name:"sources" type:"existingfile"`
}

// Run executes the fmt command.
func (f *Fmt) Run(ctx context.Context) error {
	root, err := parseSources(ctx, f.Sources)
	if err != nil {
		return pkg.ErrParse.Wrap(err)
	}

	log.DebugContext(ctx, "formatting template",
		slog.Int("nodes", len(root.Children)))

	return root.Format(outputFrom(ctx))
}
