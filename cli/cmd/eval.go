package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/klauspost/readahead"

	"github.com/ardnew/calc/cli/cmd/repl"
	"github.com/ardnew/calc/log"
)

// Eval evaluates expressions given as arguments, read line by line from
// source files, or read line by line from standard input.
//
// With no expressions and no sources, Eval starts the REPL if standard input
// is a terminal.
type Eval struct {
	Expressions []string `arg:"" help:"Expressions to evaluate, one per argument." name:"expression" optional:""`
}

// Run executes the eval command.
func (e *Eval) Run(ctx context.Context, opts *Options) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	stdout, stderr := stdio(ctx)
	stdin := stdinFrom(ctx)

	b := &batch{opts: opts, stdout: stdout, stderr: stderr}

	for i, expr := range e.Expressions {
		b.eval(ctx, "argument "+strconv.Itoa(i+1), expr)
	}

	srcs := sourceFilesFrom(ctx)

	switch {
	case srcs != nil:
		defer srcs.Close()

		for name, r := range srcs.All(stdin) {
			if err := b.read(ctx, name, r); err != nil {
				return err
			}
		}

	case len(e.Expressions) > 0:
		// arguments only

	case isTerminal(stdin):
		return (&Repl{}).Run(ctx, opts)

	default:
		if err := b.read(ctx, stdinName, stdin); err != nil {
			return err
		}
	}

	log.DebugContext(ctx, "eval complete",
		slog.Int("total", b.total),
		slog.Int("failed", b.failed),
	)

	if b.failed > 0 {
		return ErrEvalFailed.With(
			slog.Int("failed", b.failed),
			slog.Int("total", b.total),
		)
	}

	return nil
}

// batch evaluates lines in order, printing one result per line and
// reporting failures without stopping.
type batch struct {
	opts           *Options
	stdout, stderr io.Writer
	total, failed  int
}

func (b *batch) eval(ctx context.Context, where, source string) {
	b.total++

	result, err := b.opts.evaluate(ctx, source)
	if err != nil {
		b.failed++

		log.DebugContext(ctx, "evaluation failed",
			slog.String("where", where),
			slog.Any("error", err),
		)
		report(b.stderr, where, source, err)

		return
	}

	fmt.Fprintln(b.stdout, result)
}

// read evaluates every line of r except blank lines and lines whose first
// non-blank character is '#'.
func (b *batch) read(ctx context.Context, name string, r io.Reader) error {
	ra := readahead.NewReader(r)
	defer ra.Close()

	scanner := bufio.NewScanner(ra)
	scanner.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), repl.MaxLineLength)

	for n := 1; scanner.Scan(); n++ {
		line := scanner.Text()

		if trimmed := strings.TrimSpace(line); trimmed == "" ||
			strings.HasPrefix(trimmed, "#") {
			continue
		}

		b.eval(ctx, name+":"+strconv.Itoa(n), line)
	}

	if err := scanner.Err(); err != nil {
		return ErrReadSource.With(slog.String("source", name)).Wrap(err)
	}

	return nil
}
