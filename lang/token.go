package lang

import (
	"strconv"
)

// TokenKind identifies the lexical class of a [Token].
type TokenKind uint8

// Token kinds. The zero value is [TokenEnd] so that a zero [Token] marks the
// end of input.
const (
	TokenEnd TokenKind = iota
	TokenPlus
	TokenMinus
	TokenTimes
	TokenDivide
	TokenPower
	TokenLeftParen
	TokenRightParen
	TokenNumber
)

var tokenKindName = [...]string{
	TokenEnd:        "End",
	TokenPlus:       "Plus",
	TokenMinus:      "Minus",
	TokenTimes:      "Times",
	TokenDivide:     "Divide",
	TokenPower:      "Power",
	TokenLeftParen:  "LeftParen",
	TokenRightParen: "RightParen",
	TokenNumber:     "Number",
}

// String returns the name of the token kind.
func (k TokenKind) String() string {
	if int(k) < len(tokenKindName) {
		return tokenKindName[k]
	}

	return "TokenKind(" + strconv.Itoa(int(k)) + ")"
}

// Token is a single lexical unit. Only [TokenNumber] tokens carry a value.
type Token struct {
	Kind  TokenKind
	Value float64
}

// String returns the token in the form "Plus" or "Number(2.5)".
func (t Token) String() string {
	if t.Kind == TokenNumber {
		return t.Kind.String() + "(" + strconv.FormatFloat(t.Value, 'g', -1, 64) + ")"
	}

	return t.Kind.String()
}

// Operator returns the binary operator denoted by t.
// The second result is false if t is not an operator token.
func (t Token) Operator() (Operator, bool) {
	switch t.Kind {
	case TokenPlus:
		return OpAdd, true
	case TokenMinus:
		return OpSubtract, true
	case TokenTimes:
		return OpMultiply, true
	case TokenDivide:
		return OpDivide, true
	case TokenPower:
		return OpPower, true
	default:
		return OpNone, false
	}
}

// IsOperator reports whether t denotes a binary operator.
func (t Token) IsOperator() bool {
	_, ok := t.Operator()

	return ok
}

// IsOperand reports whether t begins an operand (a number or a group).
func (t Token) IsOperand() bool {
	return t.Kind == TokenNumber || t.Kind == TokenLeftParen
}

// Position identifies a location in the source text.
// Line and Column are 1-based; Column counts runes.
type Position struct {
	Offset int // byte offset
	Line   int
	Column int
}

// String returns the position as "line:column".
func (p Position) String() string {
	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}

// IsValid reports whether p refers to a location in some source.
func (p Position) IsValid() bool { return p.Line > 0 }
