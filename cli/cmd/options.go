package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"golang.org/x/term"

	"github.com/ardnew/calc/lang"
	"github.com/ardnew/calc/log"
)

// Options holds the evaluation settings shared by every command.
type Options struct {
	Notation string `default:"${notationDefault}" enum:"${notationEnum}" help:"Result notation (${enum})."                           short:"n"`
	MaxDepth int    `default:"${maxDepth}"                               help:"Maximum nesting of groups and precedence runs."`
	Verify   bool   `default:"false"                                     help:"Cross-check results with an independent engine." negatable:""`
}

// Vars returns the kong variables referenced by the Options tags.
func (Options) Vars() kong.Vars {
	return kong.Vars{
		"notationDefault": lang.DefaultNotation.String(),
		"notationEnum":    strings.Join(lang.Notations(), ","),
		"maxDepth":        strconv.Itoa(lang.DefaultMaxDepth),
	}
}

func (o *Options) langOptions() []lang.Option {
	return []lang.Option{
		lang.WithMaxDepth(o.MaxDepth),
		lang.WithLogger(log.Default()),
	}
}

// evaluate parses and evaluates one line and renders the result.
func (o *Options) evaluate(ctx context.Context, source string) (string, error) {
	evaluate := lang.Evaluate
	if o.Verify {
		evaluate = lang.EvaluateVerified
	}

	v, err := evaluate(ctx, source, o.langOptions()...)
	if err != nil {
		return "", err
	}

	return lang.FormatNumber(v, lang.ParseNotation(o.Notation)), nil
}

// report writes err, prefixed by where, followed by a caret snippet of
// source when the error has a position.
func report(w io.Writer, where, source string, err error) {
	if where != "" {
		fmt.Fprintf(w, "%s: ", where)
	}

	fmt.Fprintln(w, err)

	if snippet := lang.Snippet(source, err); snippet != "" {
		fmt.Fprintln(w, snippet)
	}
}

// isTerminal reports whether r is a terminal.
func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)

	return ok && term.IsTerminal(int(f.Fd()))
}

// kongVar returns the kong variable named id, or "" if unset.
func kongVar(ctx context.Context, id string) string {
	ktx := kongContextFrom(ctx)
	if ktx == nil || ktx.Model == nil {
		return ""
	}

	return ktx.Model.Vars()[id]
}
