package cli

import (
	"context"
	"os"

	"github.com/alecthomas/kong"

	"github.com/ardnew/tmpl/cli/cmd"
	"github.com/ardnew/tmpl/log"
	"github.com/ardnew/tmpl/pkg"
)

// CLI is the top-level command-line interface for tmpl.
type CLI struct {
	Log    logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof  pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`
	Parser parseConfig `embed:"" group:"parse" prefix:"parse-"`

	Version kong.VersionFlag `help:"Print version and exit." short:"V"`

	Render     cmd.Render     `cmd:"" default:"withargs" help:"Render a template with data"`
	Parse      cmd.Parse      `cmd:""                    help:"Print the parsed template tree"`
	Fmt        cmd.Fmt        `cmd:""                    help:"Print canonical template source"`
	Check      cmd.Check      `cmd:""                    help:"Strictly validate templates"`
	Transforms cmd.Transforms `cmd:""                    help:"List available transforms"`
	Repl       cmd.Repl       `cmd:""                    help:"Preview templates interactively"`
}

// Run executes the tmpl CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	err := mkdirAllRequired()
	if err != nil {
		return err
	}

	vars := kong.Vars{
		"version":            pkg.Name + " " + pkg.Version,
		cmd.ConfigIdentifier: configPath(baseConfig),
		cmd.CacheIdentifier:  pkg.CacheDir(),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars()).
		CloneWith(cli.Parser.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Pre-scan for logger flags to ensure early configuration regardless of
	// flag position. TextUnmarshaler on logFormat/logLevel handles those flags
	// during normal parsing, but this early scan also catches boolean flags
	// like --log-pretty.
	cli.Log.scan(args)

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group(), cli.Parser.group()},
		),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				FlagsLast:           false,
				NoAppSummary:        false,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(kong.JSON, configPath(baseConfig+".json")),
		kong.Configuration(resolve(ctx), configPath(baseConfig+".yaml")),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	// Finalize logger configuration with all parsed values including
	// TimeLayout and Caller which don't use TextUnmarshaler.
	cli.Log.start(ctx)

	// [pprofConfig.start] is no-op unless built with tag pprof and enabled.
	defer cli.Pprof.start(ctx)()

	// Stuff additional context values for use by commands
	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithOutput(ctx, os.Stdout)
	ctx = cmd.WithParseOptions(ctx, cli.Parser.options(log.Default())...)

	ktx.BindTo(ctx, (*context.Context)(nil))

	return ktx.Run(&cli)
}
