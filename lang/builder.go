package lang

import (
	"context"
	"log/slog"

	"github.com/ardnew/calc/log"
)

// buildMode selects how a (sub)build treats closing tokens.
type buildMode uint8

const (
	// modeTop builds the whole line and must end at [TokenEnd].
	modeTop buildMode = iota
	// modeGroup builds the inside of parentheses and must end at
	// [TokenRightParen].
	modeGroup
	// modeRun extends a seeded operand with operators that bind tighter than
	// the pending operator it will be attached to. It never consumes the
	// token that stops it.
	modeRun
)

func (m buildMode) String() string {
	switch m {
	case modeTop:
		return "top"
	case modeGroup:
		return "group"
	case modeRun:
		return "run"
	default:
		return "unknown"
	}
}

// builder assembles an expression tree from a token stream using a single
// accumulator per (sub)build.
type builder struct {
	ctx      context.Context
	lex      *Lexer
	logger   log.Logger
	maxDepth int
	depth    int
}

// build consumes tokens until its mode's terminator and returns the finished
// subtree. seed is the initial accumulator; floor is the tier of the pending
// operator a run will be attached to.
func (b *builder) build(mode buildMode, seed *Node, floor Tier) (*Node, error) {
	b.depth++
	defer func() { b.depth-- }()

	if b.depth > b.maxDepth {
		return nil, syntaxError(b.lex.Pos(), ErrMaxDepthExceeded).
			With(slog.Int("max_depth", b.maxDepth))
	}

	b.logger.TraceContext(b.ctx, "build",
		slog.String("mode", mode.String()),
		slog.Int("depth", b.depth),
		slog.Int("floor", int(floor)),
	)

	acc := seed

	for {
		tok, err := b.lex.Peek()
		if err != nil {
			return nil, err
		}

		pos := b.lex.Pos()

		switch tok.Kind {
		case TokenEnd:
			if mode == modeGroup {
				return nil, syntaxError(pos, ErrUnterminatedGroup)
			}

			return b.finish(mode, acc, pos)

		case TokenRightParen:
			switch mode {
			case modeTop:
				return nil, syntaxError(pos, ErrUnmatchedRightParen)

			case modeGroup:
				_, _ = b.lex.Next()
			}

			return b.finish(mode, acc, pos)

		case TokenNumber, TokenLeftParen:
			_, _ = b.lex.Next()

			var operand *Node

			if tok.Kind == TokenLeftParen {
				operand, err = b.build(modeGroup, nil, TierNone)
				if err != nil {
					return nil, err
				}
			} else {
				operand = Leaf(tok.Value)
			}

			if acc == nil {
				acc = operand

				continue
			}

			if !acc.pending() {
				return nil, syntaxError(pos, ErrUnexpectedOperand.Wrapf("%s", tok)).
					With(slog.String("token", tok.String()))
			}

			err = b.attach(acc, operand)
			if err != nil {
				return nil, err
			}

		default:
			op, _ := tok.Operator()

			if mode == modeRun && op.Tier() <= floor {
				return b.finish(mode, acc, pos)
			}

			_, _ = b.lex.Next()

			if acc == nil {
				return nil, syntaxError(pos, ErrLeadingOperator).
					With(slog.String("operator", op.String()))
			}

			if acc.pending() {
				return nil, syntaxError(pos, ErrConsecutiveOperators.Wrapf("%s", tok)).
					With(slog.String("operator", op.String()))
			}

			acc = &Node{Op: op, Left: acc}
		}
	}
}

// attach joins a completed operand to the pending operator node acc.
// When the next operator binds tighter than acc, the operand first seeds a
// run that absorbs it.
func (b *builder) attach(acc, operand *Node) error {
	next, err := b.lex.Peek()
	if err != nil {
		return err
	}

	switch {
	case next.Kind == TokenEnd || next.Kind == TokenRightParen:
		// left for the enclosing build to observe
	case next.IsOperator():
		op, _ := next.Operator()

		if acc.Op.Yields(op) {
			b.logger.TraceContext(b.ctx, "descend into run",
				slog.String("pending", acc.Op.String()),
				slog.String("next", op.String()),
				slog.Int("depth", b.depth),
			)

			operand, err = b.build(modeRun, operand, acc.Op.Tier())
			if err != nil {
				return err
			}
		}

	default:
		return syntaxError(b.lex.Pos(), ErrUnexpectedOperand.Wrapf("%s", next)).
			With(slog.String("token", next.String()))
	}

	acc.Right = operand

	return nil
}

// finish validates the accumulator when a (sub)build terminates at pos.
func (b *builder) finish(mode buildMode, acc *Node, pos Position) (*Node, error) {
	switch {
	case acc == nil && mode == modeGroup:
		return nil, syntaxError(pos, ErrEmptyGroup)

	case acc == nil:
		return nil, syntaxError(pos, ErrEmptyExpression)

	case acc.pending():
		return nil, syntaxError(pos, ErrTrailingOperator).
			With(slog.String("operator", acc.Op.String()))
	}

	return acc, nil
}
