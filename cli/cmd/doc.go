// Package cmd implements the calc subcommands: eval, tree, tokens, repl,
// init, and version.
//
// Commands are plain structs run by kong. They read their shared evaluation
// settings from [Options] and write through the streams of the
// [kong.Context] stored with [WithContext], so tests can capture output
// without touching the process's standard streams.
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the YAML configuration file.
	ConfigIdentifier = "config"
)
