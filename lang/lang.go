package lang

import (
	"context"
)

// Evaluate parses and evaluates one line of source text.
//
// Each call builds its own lexer, tree, and evaluator state, so repeated
// calls with the same input return bit-identical results.
func Evaluate(ctx context.Context, source string, opts ...Option) (float64, error) {
	ast, err := ParseString(ctx, source, opts...)
	if err != nil {
		return 0, err
	}

	return ast.Evaluate(ctx)
}

// EvaluateVerified parses, evaluates, and cross-checks one line of source
// text. See [AST.Verify].
func EvaluateVerified(
	ctx context.Context,
	source string,
	opts ...Option,
) (float64, error) {
	ast, err := ParseString(ctx, source, opts...)
	if err != nil {
		return 0, err
	}

	return ast.Verify(ctx)
}
