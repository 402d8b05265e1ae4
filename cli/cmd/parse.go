package cmd

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/tmpl/pkg"
)

// Parse prints the parsed tree of a template.
type Parse struct {
	Format string `default:"ast" enum:"ast,json,yaml" help:"Output format (${enum})." short:"f"`
	Indent int    `default:"2"                        help:"Indent width for JSON and YAML output" short:"i"`

	Sources []string `arg:"" default:"-" help:"Template source file(s) or '-' for stdin." name:"sources" type:"existingfile"`
}

// Run executes the parse command.
func (p *Parse) Run(ctx context.Context) error {
	root, err := parseSources(ctx, p.Sources)
	if err != nil {
		return pkg.ErrParse.Wrap(err)
	}

	w := outputFrom(ctx)

	switch p.Format {
	case "ast":
		return root.Print(w)

	case "json":
		data, err := json.MarshalIndent(root, "", strings.Repeat(" ", p.Indent))
		if err != nil {
			return pkg.ErrJSONMarshal.Wrap(err)
		}

		_, err = w.Write(append(data, '\n'))

		return err

	case "yaml":
		data, err := yaml.MarshalWithOptions(root.ToMap(), yaml.Indent(p.Indent))
		if err != nil {
			return pkg.ErrYAMLMarshal.Wrap(err)
		}

		_, err = w.Write(data)

		return err
	}

	return pkg.ErrInvalidFormat.Wrapf("%q (valid: ast, json, yaml)", p.Format)
}
