package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/calc/cli/cmd/repl"
	"github.com/ardnew/calc/lang"
	"github.com/ardnew/calc/log"
)

// Repl starts the interactive evaluation loop.
type Repl struct {
	Plain bool `help:"Read plain lines instead of running the interactive editor."`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context, opts *Options) error {
	stdin := stdinFrom(ctx)
	stdout, _ := stdio(ctx)

	cfg := repl.Config{
		Notation: lang.ParseNotation(opts.Notation),
		Verify:   opts.Verify,
		Options:  opts.langOptions(),
		CacheDir: kongVar(ctx, CacheIdentifier),
		Logger:   log.With(slog.String("command", "repl")),
	}

	if r.Plain || !isTerminal(stdin) {
		return repl.RunPlain(ctx, stdin, stdout, cfg)
	}

	return repl.Run(ctx, cfg)
}
