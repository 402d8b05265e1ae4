package cmd

import (
	"context"

	"github.com/ardnew/tmpl/cli/cmd/repl"
	"github.com/ardnew/tmpl/log"
)

// Repl starts an interactive template preview loop.
type Repl struct {
	Data      string `help:"YAML or JSON file providing template data." short:"d" type:"existingfile"`
	Cache     string `default:"${cache}"                                                    help:"Directory holding the input history." type:"path"`
	NoHistory bool   `help:"Do not persist input history."`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) error {
	data, err := loadData(r.Data)
	if err != nil {
		return err
	}

	dir := r.Cache
	if r.NoHistory {
		dir = ""
	}

	return repl.Run(ctx, data, dir, log.Default(), parseOptionsFrom(ctx)...)
}
