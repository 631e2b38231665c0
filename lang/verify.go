package lang

import (
	"context"
	"log/slog"
	"math"
	"strings"

	"github.com/expr-lang/expr"
)

// Verification causes. Both are reported as [ErrInternal] since a
// well-formed tree always agrees with the independent engine.
var (
	ErrVerifyCompile  = NewError("independent engine rejected expression")
	ErrVerifyMismatch = NewError("independent engine disagrees")
)

// Verify evaluates the tree and cross-checks the result against the
// expr-lang engine run on the tree's fully parenthesized rendering. Because
// the rendering fixes every grouping, any disagreement points at the tree
// builder or evaluator rather than at operator precedence rules.
//
// Trees with non-finite leaves cannot be spelled as expr-lang literals and
// are returned unchecked.
func (ast *AST) Verify(ctx context.Context) (float64, error) {
	want, err := ast.Evaluate(ctx)
	if err != nil {
		return 0, err
	}

	source, ok := exprSource(ast.Root)
	if !ok {
		ast.logger.TraceContext(ctx, "verify skipped",
			slog.String("reason", "non-finite literal"),
		)

		return want, nil
	}

	program, err := expr.Compile(source, expr.AsFloat64(), expr.MaxNodes(0))
	if err != nil {
		return 0, internalError(ErrVerifyCompile.Wrap(err)).
			With(slog.String("source", source))
	}

	out, err := expr.Run(program, nil)
	if err != nil {
		return 0, internalError(ErrVerifyCompile.Wrap(err)).
			With(slog.String("source", source))
	}

	got, _ := out.(float64)

	if got != want && !(math.IsNaN(got) && math.IsNaN(want)) {
		return 0, internalError(ErrVerifyMismatch.Wrapf("%v != %v", got, want)).
			With(
				slog.String("source", source),
				slog.Float64("want", want),
				slog.Float64("got", got),
			)
	}

	ast.logger.TraceContext(ctx, "verify complete",
		slog.String("source", source),
		slog.Float64("result", got),
	)

	return want, nil
}

// exprSource renders n as expr-lang source with every literal spelled as a
// float so that integer arithmetic never applies. It reports false if any
// leaf is not finite.
func exprSource(n *Node) (string, bool) {
	for node := range n.Postorder() {
		if node.IsLeaf() && (math.IsInf(node.Value, 0) || math.IsNaN(node.Value)) {
			return "", false
		}
	}

	var b strings.Builder

	writeInfix(&b, n, false, func(v float64) string {
		s := FormatNumber(v, NotationDecimal)
		if !strings.Contains(s, ".") {
			s += ".0"
		}

		return s
	})

	return b.String(), true
}
