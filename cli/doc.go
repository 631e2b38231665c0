// Package cli contains the command line interface for calc.
//
// # Usage
//
//	calc [flags] [<expression> ...]
//	calc [flags] <command> [<args>]
//
// Without a command, the arguments are evaluated as expressions, one result
// per line. With neither expressions nor --source, calc starts the
// interactive evaluator when standard input is a terminal and otherwise
// evaluates standard input line by line.
//
// # Commands
//
//   - eval: evaluate expressions (the default)
//   - tree: print the expression tree (native, infix, json, yaml)
//   - tokens: print the tokens of an expression
//   - repl: start the interactive evaluator (--plain for a line loop)
//   - init: write the current flag values to config.yaml
//   - version: print the banner and version
//
// # Configuration
//
// Flag defaults are read from config.yaml and config.json in the user
// configuration directory (for example ~/.config/calc). YAML mappings are
// flattened into flag names:
//
//	notation: scientific
//	log:
//	  level: debug
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o calc .
//	calc --pprof-mode=cpu 'expression'
package cli
