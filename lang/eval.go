package lang

import (
	"context"
	"log/slog"
)

// Evaluate reduces the tree to a single value.
//
// Arithmetic follows IEEE-754 double precision: division by zero yields an
// infinity or NaN rather than an error. A tree that violates the structural
// invariants fails with an error matching [ErrInternal].
func (ast *AST) Evaluate(ctx context.Context) (float64, error) {
	if ast == nil {
		return 0, internalError(ErrNilTree)
	}

	result, err := evaluate(ast.Root)
	if err != nil {
		ast.logger.TraceContext(ctx, "evaluate failed", slog.Any("error", err))

		return 0, err
	}

	ast.logger.TraceContext(ctx, "evaluate complete",
		slog.Float64("result", result),
	)

	return result, nil
}

// Evaluate reduces the subtree rooted at n to a single value.
func (n *Node) Evaluate() (float64, error) {
	return evaluate(n)
}

// evaluate walks the tree in postorder with an explicit stack, so the
// goroutine stack does not grow with tree depth.
func evaluate(root *Node) (float64, error) {
	type frame struct {
		node     *Node
		expanded bool
	}

	if root == nil {
		return 0, internalError(ErrNilTree)
	}

	var (
		stack  = []frame{{node: root}}
		values = make([]float64, 0, 8)
	)

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		n := top.node

		if n.IsLeaf() {
			if n.Left != nil || n.Right != nil {
				return 0, internalError(ErrLeafChildren).
					With(slog.Float64("value", n.Value))
			}

			values = append(values, n.Value)

			continue
		}

		if !top.expanded {
			if !n.Op.Valid() {
				return 0, internalError(ErrUnknownOperator.Wrapf("%s", n.Op))
			}

			if n.Left == nil || n.Right == nil {
				return 0, internalError(ErrMissingOperand.Wrapf("%s", n.Op)).
					With(
						slog.Bool("left", n.Left != nil),
						slog.Bool("right", n.Right != nil),
					)
			}

			stack = append(stack,
				frame{node: n, expanded: true},
				frame{node: n.Right},
				frame{node: n.Left},
			)

			continue
		}

		k := len(values) - 2
		values = append(values[:k], n.Op.Apply(values[k], values[k+1]))
	}

	return values[0], nil
}
