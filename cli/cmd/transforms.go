package cmd

import (
	"context"
	"fmt"

	"github.com/ardnew/tmpl/builtin"
)

// Transforms lists the transforms available to interpolations.
type Transforms struct {
	Apply string `help:"Show each transform applied to this value." placeholder:"VALUE" short:"a"`
}

// Run executes the transforms command.
func (t *Transforms) Run(ctx context.Context) error {
	w := outputFrom(ctx)
	reg := builtin.Default()

	for _, name := range reg.Names() {
		if t.Apply == "" {
			fmt.Fprintln(w, name)

			continue
		}

		tr, _ := reg.Lookup(name)

		out, err := tr.Apply(t.Apply)
		if err != nil {
			fmt.Fprintf(w, "%s\t(%v)\n", name, err)

			continue
		}

		fmt.Fprintf(w, "%s\t%s\n", name, out)
	}

	return nil
}
