package cli

import (
	"context"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/tmpl/log"
)

// logFormat reconfigures the default logger as soon as kong decodes
// --log-format, so that flag and config errors reported while parsing the
// rest of the command line already use the requested format.
type logFormat string

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *logFormat) UnmarshalText(text []byte) error {
	*f = logFormat(text)
	log.Config(log.WithFormat(log.ParseFormat(string(*f))))

	return nil
}

// logLevel is the --log-level counterpart of logFormat.
type logLevel string

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *logLevel) UnmarshalText(text []byte) error {
	*l = logLevel(text)
	log.Config(log.WithLevel(log.ParseLevel(string(*l))))

	return nil
}

// logConfig controls the diagnostics written while templates are parsed and
// rendered. Use --log-level=trace to see literal fallbacks and cache hits.
type logConfig struct {
	Level      logLevel  `default:"info"    enum:"${logLevelEnum}"      help:"Set log level (trace shows parser decisions)."`
	Format     logFormat `default:"json"    enum:"${logFormatEnum}"     help:"Set log format."`
	TimeLayout string    `default:"RFC3339"                              help:"Set timestamp format."`
	Caller     bool      `default:"false"                                help:"Include caller information."       negatable:""`
	Pretty     bool      `default:"true"                                 help:"Enable colorized pretty printing." negatable:""`
}

func (*logConfig) vars() kong.Vars {
	return kong.Vars{
		"logLevelEnum":  strings.Join(slices.Collect(log.Levels()), ","),
		"logFormatEnum": strings.Join(slices.Collect(log.Formats()), ","),
	}
}

func (*logConfig) group() kong.Group {
	var group kong.Group

	group.Key = "log"
	group.Title = "Logging options"

	return group
}

func (f *logConfig) start(ctx context.Context) {
	log.Config(
		log.WithLevel(log.ParseLevel(string(f.Level))),
		log.WithFormat(log.ParseFormat(string(f.Format))),
		log.WithTimeLayout(f.TimeLayout),
		log.WithCaller(f.Caller),
		log.WithPretty(f.Pretty),
	)

	log.DebugContext(ctx, "logger initialized",
		slog.String("level", string(f.Level)),
		slog.String("format", string(f.Format)),
		slog.String("time", f.TimeLayout),
		slog.Bool("caller", f.Caller),
		slog.Bool("pretty", f.Pretty),
	)
}

// scan applies the log flags found in args before kong parses them, so a
// template or data file that fails to load is reported with the requested
// level and format wherever the flags appear on the command line.
// Everything after a "--" argument is template input, not flags.
func (f *logConfig) scan(args []string) {
	text := map[string]func(string){
		"level":       func(v string) { _ = f.Level.UnmarshalText([]byte(v)) },
		"format":      func(v string) { _ = f.Format.UnmarshalText([]byte(v)) },
		"time-layout": func(v string) { f.TimeLayout = v; log.Config(log.WithTimeLayout(v)) },
	}

	toggle := map[string]func(bool){
		"pretty": func(v bool) { f.Pretty = v; log.Config(log.WithPretty(v)) },
		"caller": func(v bool) { f.Caller = v; log.Config(log.WithCaller(v)) },
	}

	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			return
		}

		name, negated := strings.CutPrefix(arg, "--no-log-")
		if !negated {
			var ok bool
			if name, ok = strings.CutPrefix(arg, "--log-"); !ok {
				continue
			}
		}

		name, value, assigned := strings.Cut(name, "=")

		if set, ok := toggle[name]; ok {
			v := true
			if assigned {
				var err error
				if v, err = strconv.ParseBool(value); err != nil {
					continue
				}
			}

			set(v != negated)

			continue
		}

		set, ok := text[name]
		if !ok || negated {
			continue
		}

		// The value may be the next argument unless it looks like a flag.
		if !assigned && i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			value = args[i+1]
			i++
		}

		set(value)
	}
}
