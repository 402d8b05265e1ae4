package cli

import (
	"strconv"

	"github.com/alecthomas/kong"

	"github.com/ardnew/tmpl/builtin"
	"github.com/ardnew/tmpl/lang"
	"github.com/ardnew/tmpl/log"
)

type parseConfig struct {
	Strict   bool `default:"false"              help:"Reject malformed tags instead of keeping them as text." negatable:""`
	MaxDepth int  `default:"${parseMaxDepth}"   help:"Maximum nesting depth of conditional tags and of groups within a condition."`
}

func (parseConfig) vars() kong.Vars {
	return kong.Vars{
		"parseMaxDepth": strconv.Itoa(lang.DefaultMaxDepth),
	}
}

func (parseConfig) group() kong.Group {
	var group kong.Group

	group.Key = "parse"
	group.Title = "Parser options"

	return group
}

// options returns the parser options selected on the command line.
func (f parseConfig) options(logger log.Logger) []lang.Option {
	return []lang.Option{
		lang.WithRegistry(builtin.Default()),
		lang.WithStrict(f.Strict),
		lang.WithMaxDepth(f.MaxDepth),
		lang.WithLogger(logger),
	}
}
