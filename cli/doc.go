// Package cli contains the command line interface for tmpl.
//
// # Usage
//
//	tmpl [flags] <command> [source ...]
//
// Commands read template source from the named files in order, or from
// stdin when the source is "-" or omitted. Render is the default command.
//
//	tmpl render --data user.yaml greeting.tmpl
//	tmpl parse --format=json greeting.tmpl
//	tmpl check templates/*.tmpl
//
// # Configuration
//
// Flag defaults are read from config.json and config.yaml in the user
// configuration directory (see [pkg.ConfigDir]). Nested YAML mappings are
// flattened into flag names:
//
//	log:
//	  level: debug
//	parse:
//	  strict: true
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (json, text)
//   - --log-time-layout: Set timestamp format (RFC3339, RFC3339Nano, etc.)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize log output
//
// # Parser Options
//
//   - --parse-strict: Report malformed tags as errors
//   - --parse-max-depth: Limit conditional nesting
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o tmpl .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default: ~/.cache/tmpl/pprof)
package cli
