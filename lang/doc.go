// Package lang scans, builds, and evaluates single-line arithmetic
// expressions.
//
// # Grammar
//
// Informal EBNF:
//
//	expr    → term (('+' | '-') term)*
//	term    → power (('*' | 'x' | '/') power)*
//	power   → atom ('^' atom)*
//	atom    → NUMBER | '(' expr ')'
//	NUMBER  → digit+ ('.' digit*)?
//
// There are no signs, variables, functions, or exponent notation.
//
// # Precedence
//
// Operators fall into three tiers: Add and Subtract, then Multiply and
// Divide, then Power. Operators in the same tier compare equal, so every
// chain within a tier groups left to right. This includes Power:
//
//	2 ^ 3 ^ 2 = (2 ^ 3) ^ 2 = 64
//
// # Pipeline
//
// A [Lexer] yields tokens with one-token lookahead and an explicit cursor.
// The tree builder keeps an accumulator holding the tree built so far; each
// completed operand is attached to the pending operator node unless the next
// operator binds tighter, in which case the operand first seeds a sub-build
// that absorbs the tighter operators. The evaluator reduces the finished
// tree in postorder with IEEE-754 semantics, so 1/0 is +Inf rather than an
// error.
//
// # Errors
//
// Every error matches one of [ErrLexical], [ErrSyntax], or [ErrInternal]
// with [errors.Is], and the specific cause (for example
// [ErrUnmatchedRightParen]) as well. Lexical and syntax errors carry the
// source position of the offending token; see [Error.Position] and
// [Snippet].
//
// # Example
//
//	v, err := lang.Evaluate(ctx, "3 ^ (1 * (2 + 3))")
//	// v == 243
package lang
