package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ardnew/calc/lang"
)

// Tokens prints the tokens of an expression, one per line, with the
// position where each begins.
type Tokens struct {
	Expression string `arg:"" help:"Expression to scan." name:"expression"`
}

// Run executes the tokens command.
func (t *Tokens) Run(ctx context.Context) error {
	stdout, stderr := stdio(ctx)

	lex := lang.NewLexer(t.Expression)

	for tok, err := range lex.All() {
		if err != nil {
			report(stderr, "", t.Expression, err)

			return ErrInvalidExpr.With(slog.String("position", lex.Pos().String()))
		}

		fmt.Fprintf(stdout, "%-7s %s\n", lex.Pos(), tok)
	}

	return nil
}
