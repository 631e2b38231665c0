package repl

import (
	"context"
	"path/filepath"

	"github.com/ardnew/calc/lang"
	"github.com/ardnew/calc/log"
)

// Config holds the settings of a REPL session.
type Config struct {
	// Notation renders results.
	Notation lang.Notation
	// Verify cross-checks every result with [lang.AST.Verify].
	Verify bool
	// Options are applied to every parse.
	Options []lang.Option
	// CacheDir holds the history file. An empty CacheDir keeps history in
	// memory only.
	CacheDir string
	Logger   log.Logger
}

func (c Config) historyPath() string {
	if c.CacheDir == "" {
		return ""
	}

	return filepath.Join(c.CacheDir, baseHistory)
}

func (c Config) parse(ctx context.Context, source string) (*lang.AST, error) {
	return lang.ParseString(ctx, source, c.Options...)
}

// evaluate parses and evaluates one line and renders the result.
func (c Config) evaluate(ctx context.Context, source string) (string, error) {
	ast, err := c.parse(ctx, source)
	if err != nil {
		return "", err
	}

	var v float64

	if c.Verify {
		v, err = ast.Verify(ctx)
	} else {
		v, err = ast.Evaluate(ctx)
	}

	if err != nil {
		return "", err
	}

	return lang.FormatNumber(v, c.Notation), nil
}
