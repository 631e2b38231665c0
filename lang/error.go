package lang

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// Error kinds. Every error returned by this package matches exactly one of
// these with [errors.Is].
var (
	ErrLexical  = NewError("lexical error")
	ErrSyntax   = NewError("syntax error")
	ErrInternal = NewError("internal invariant violated")
)

// Lexical error causes.
var (
	ErrUnrecognizedChar = NewError("unrecognized character")
)

// Syntax error causes.
var (
	ErrEmptyExpression      = NewError("empty expression")
	ErrEmptyGroup           = NewError("empty parentheses")
	ErrLeadingOperator      = NewError("expression cannot start with an operator")
	ErrConsecutiveOperators = NewError("operator cannot follow an operator")
	ErrTrailingOperator     = NewError("expression cannot end with an operator")
	ErrUnexpectedOperand    = NewError("operand cannot be followed by token")
	ErrUnmatchedRightParen  = NewError("unmatched right parenthesis")
	ErrUnterminatedGroup    = NewError("unterminated parenthetical group")
	ErrMalformedNumber      = NewError("malformed number")
	ErrMaxDepthExceeded     = NewError("maximum nesting depth exceeded")
)

// Internal invariant causes.
var (
	ErrNilTree         = NewError("no expression tree")
	ErrMissingOperand  = NewError("operator node is missing an operand")
	ErrLeafChildren    = NewError("leaf node has children")
	ErrUnknownOperator = NewError("unknown operator")
)

// Error represents an error with an optional source position and structured
// logging attributes. It implements both error and slog.LogValuer.
type Error struct {
	kind  *Error // sentinel this error derives from
	msg   string
	err   error // wrapped error (for errors.Unwrap)
	pos   Position
	attrs []slog.Attr
}

// NewError creates a new sentinel Error with a message.
func NewError(msg string) *Error {
	e := &Error{msg: msg}
	e.kind = e

	return e
}

// WrapError wraps a standard error into an Error.
func WrapError(err error) *Error {
	ee := &Error{}
	if errors.As(err, &ee) {
		return ee
	}

	return &Error{err: err}
}

// Error implements the error interface.
//
// The message has the form "<msg> at <line>:<col>: <err>", where each part is
// omitted when unset.
func (e *Error) Error() string {
	part := make([]string, 0, 2)

	if e.msg != "" {
		if e.pos.IsValid() {
			part = append(part, e.msg+" at "+e.pos.String())
		} else {
			part = append(part, e.msg)
		}
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether e was derived from target via [Error.Wrap],
// [Error.With], or [Error.At].
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)

	return ok && e.kind != nil && e.kind == t
}

// Position returns the source position attached to e, if any.
func (e *Error) Position() (Position, bool) {
	if e.pos.IsValid() {
		return e.pos, true
	}

	var inner *Error
	if e.err != nil && errors.As(e.err, &inner) {
		return inner.Position()
	}

	return Position{}, false
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+3)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.pos.IsValid() {
		attrs = append(attrs, slog.Group("position",
			slog.Int("line", e.pos.Line),
			slog.Int("column", e.pos.Column),
			slog.Int("offset", e.pos.Offset),
		))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	c := e.clone()
	c.err = err

	return c
}

// Wrapf creates a new Error wrapping a formatted error.
// The format may use %w to wrap further errors.
func (e *Error) Wrapf(format string, args ...any) *Error {
	return e.Wrap(fmt.Errorf(format, args...))
}

// At creates a new Error positioned at pos.
func (e *Error) At(pos Position) *Error {
	c := e.clone()
	c.pos = pos

	return c
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	c := e.clone()
	c.attrs = make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(c.attrs, e.attrs)
	copy(c.attrs[len(e.attrs):], attrs)

	return c
}

func (e *Error) clone() *Error {
	return &Error{
		kind:  e.kind,
		msg:   e.msg,
		err:   e.err,
		pos:   e.pos,
		attrs: e.attrs, // shared, With copies on write
	}
}

// syntaxError returns a positioned [ErrSyntax] caused by cause.
func syntaxError(pos Position, cause error) *Error {
	return ErrSyntax.At(pos).Wrap(cause)
}

// internalError returns an [ErrInternal] caused by cause.
func internalError(cause error) *Error {
	return ErrInternal.Wrap(cause)
}

// Snippet renders the line of source containing the position of err with a
// caret under the offending column. It returns "" if err carries no
// position or the position lies outside source.
func Snippet(source string, err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return ""
	}

	pos, ok := e.Position()
	if !ok {
		return ""
	}

	lines := strings.Split(source, "\n")
	if pos.Line > len(lines) {
		return ""
	}

	line := strings.TrimRight(lines[pos.Line-1], "\r")

	var b strings.Builder

	b.WriteString("  ")
	b.WriteString(line)
	b.WriteString("\n  ")

	// Tabs are echoed so the caret lines up under tab-indented input.
	col := 1
	for _, r := range line {
		if col >= pos.Column {
			break
		}

		if r == '\t' {
			b.WriteByte('\t')
		} else {
			b.WriteByte(' ')
		}

		col++
	}

	b.WriteByte('^')

	return b.String()
}
