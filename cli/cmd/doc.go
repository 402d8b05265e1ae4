// Package cmd implements the tmpl subcommands.
//
// Each command reads template source from its positional arguments, parses
// it with the options stored by [WithParseOptions], and writes to the writer
// stored by [WithOutput].
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the configuration file.
	ConfigIdentifier = "config"
)
