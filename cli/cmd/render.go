package cmd

import (
	"context"
	"log/slog"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/tmpl/log"
	"github.com/ardnew/tmpl/pkg"
	"github.com/ardnew/tmpl/render"
)

// Render renders a template with data read from a YAML or JSON file.
type Render struct {
	Data    string `help:"YAML or JSON file providing template data." short:"d" type:"existingfile"`
	Missing string `help:"Text rendered in place of paths that resolve to nothing."`

	Sources []string `arg:"" default:"-" help:"Template source file(s) or '-' for stdin." name:"sources" type:"existingfile"`
}

// Run executes the render command.
func (r *Render) Run(ctx context.Context) error {
	data, err := loadData(r.Data)
	if err != nil {
		return err
	}

	root, err := parseSources(ctx, r.Sources)
	if err != nil {
		return pkg.ErrParse.Wrap(err)
	}

	t, err := render.Compile(root,
		render.WithLogger(log.Default()),
		render.WithMissing(r.Missing),
	)
	if err != nil {
		return pkg.ErrRender.Wrap(err)
	}

	if err := t.Execute(ctx, outputFrom(ctx), data); err != nil {
		return pkg.ErrRender.Wrap(err)
	}

	return nil
}

// loadData decodes the data file at path. JSON is decoded as YAML.
// An empty path yields empty data.
func loadData(path string) (map[string]any, error) {
	data := map[string]any{}

	if path == "" {
		return data, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, pkg.ErrLoadData.Wrap(pkg.ErrReadInput,
			ErrOpenData.Wrap(err).With(slog.String("path", path)))
	}

	if err := yaml.Unmarshal(b, &data); err != nil {
		return nil, pkg.ErrLoadData.Wrap(err)
	}

	if data == nil {
		data = map[string]any{}
	}

	log.Debug("loaded data",
		slog.String("path", path),
		slog.Int("keys", len(data)))

	return data, nil
}
