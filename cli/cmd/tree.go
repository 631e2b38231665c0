package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ardnew/calc/lang"
)

// Tree formats choices.
const (
	treeNative = "native"
	treeInfix  = "infix"
	treeJSON   = "json"
	treeYAML   = "yaml"
)

// Tree parses an expression and prints its tree without evaluating it.
type Tree struct {
	Format string `default:"native" enum:"native,infix,json,yaml" help:"Output format (${enum})."           short:"f"`
	Indent int    `default:"2"                                    help:"Indent width for formatted output." short:"i"`

	Expression string `arg:"" help:"Expression to parse." name:"expression"`
}

// Run executes the tree command.
func (t *Tree) Run(ctx context.Context, opts *Options) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	stdout, stderr := stdio(ctx)

	ast, err := lang.ParseString(ctx, t.Expression, opts.langOptions()...)
	if err != nil {
		report(stderr, "", t.Expression, err)

		return ErrInvalidExpr.With(slog.String("format", t.Format))
	}

	switch t.Format {
	case treeNative:
		return ast.Format(ctx, stdout, t.Indent)

	case treeInfix:
		_, err = fmt.Fprintln(stdout, ast.String())

		return err

	case treeJSON:
		return ast.FormatJSON(ctx, stdout, t.Indent)

	case treeYAML:
		if err := ast.FormatYAML(ctx, stdout, t.Indent); err != nil {
			return ErrYAMLMarshal.Wrap(err)
		}

		return nil

	default:
		return ErrUnknownFormat.With(slog.String("format", t.Format))
	}
}
