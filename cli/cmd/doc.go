// Package cmd implements the streamscore subcommands. The solve, fmt and eval
// commands read the same sources, parse them with package lang, and write to
// the kong context's standard output. Init writes the configuration file and
// repl hands the terminal to package repl.
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the YAML configuration file.
	ConfigIdentifier = "config"
)
