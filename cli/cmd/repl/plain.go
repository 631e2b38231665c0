package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/ardnew/calc/lang"
	"github.com/ardnew/calc/pkg"
)

const plainPrompt = "> "

// MaxLineLength bounds a single line read by [RunPlain].
const MaxLineLength = 1 << 20

// RunPlain runs a line-oriented loop over r and w: it prints the banner,
// then prompts, reads one line, and prints its result or error until r is
// exhausted or ctx is done. Errors are reported and the loop continues.
func RunPlain(
	ctx context.Context,
	r io.Reader,
	w io.Writer,
	cfg Config,
) error {
	cfg.Logger.TraceContext(ctx, "repl plain start")

	if _, err := fmt.Fprintln(w, pkg.Banner()); err != nil {
		return err
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), MaxLineLength)

	for {
		if err := ctx.Err(); err != nil {
			return context.Cause(ctx)
		}

		fmt.Fprint(w, plainPrompt)

		if !scanner.Scan() {
			fmt.Fprintln(w)

			return scanner.Err()
		}

		line := scanner.Text()
		if isBlank(line) {
			continue
		}

		result, err := cfg.evaluate(ctx, line)
		if err != nil {
			cfg.Logger.TraceContext(ctx, "repl eval failed", slog.Any("error", err))

			fmt.Fprintf(w, "error: %s\n", err)

			if snippet := lang.Snippet(line, err); snippet != "" {
				fmt.Fprintln(w, snippet)
			}

			continue
		}

		fmt.Fprintln(w, result)
	}
}
