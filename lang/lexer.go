package lang

import (
	"errors"
	"iter"
	"log/slog"
	"strconv"
	"unicode"
	"unicode/utf8"
)

// punctuation maps single-character tokens to their kind.
var punctuation = map[rune]TokenKind{
	'+': TokenPlus,
	'-': TokenMinus,
	'*': TokenTimes,
	'x': TokenTimes,
	'/': TokenDivide,
	'^': TokenPower,
	'(': TokenLeftParen,
	')': TokenRightParen,
}

// Lexer scans source text into tokens on demand.
//
// The lexer keeps an explicit cursor into its input. Once the input is
// exhausted, every call to [Lexer.Next] or [Lexer.Peek] returns [TokenEnd]
// and [Lexer.AtEnd] reports true. Once an error occurs, every subsequent
// call returns that same error.
type Lexer struct {
	input  string
	cursor Position // next unscanned byte

	// one-token lookahead
	tok    Token
	tokPos Position
	err    error
	peeked bool
}

// NewLexer returns a Lexer positioned at the start of input.
func NewLexer(input string) *Lexer {
	return &Lexer{
		input:  input,
		cursor: Position{Offset: 0, Line: 1, Column: 1},
	}
}

// Next consumes and returns the next token.
func (l *Lexer) Next() (Token, error) {
	tok, err := l.Peek()
	if err != nil {
		return Token{}, err
	}

	// End and errors are never consumed, so repeated calls are idempotent.
	if tok.Kind != TokenEnd {
		l.peeked = false
	}

	return tok, nil
}

// Peek returns the next token without consuming it.
func (l *Lexer) Peek() (Token, error) {
	if !l.peeked {
		l.tok, l.tokPos, l.err = l.scan()
		l.peeked = true
	}

	return l.tok, l.err
}

// Pos returns the position where the most recently scanned token begins.
// Before the first call to [Lexer.Next] or [Lexer.Peek] it returns the start
// of input.
func (l *Lexer) Pos() Position {
	if !l.tokPos.IsValid() {
		return l.cursor
	}

	return l.tokPos
}

// AtEnd reports whether the input is exhausted. It scans ahead if needed
// but never consumes a token. A lexer stuck on an error is not at end.
func (l *Lexer) AtEnd() bool {
	tok, err := l.Peek()

	return err == nil && tok.Kind == TokenEnd
}

// Err returns the error that stopped the lexer, if any.
func (l *Lexer) Err() error {
	if l.peeked {
		return l.err
	}

	return nil
}

// All returns an iterator over the remaining tokens. The sequence ends after
// yielding [TokenEnd] or the first error.
func (l *Lexer) All() iter.Seq2[Token, error] {
	return func(yield func(Token, error) bool) {
		for {
			tok, err := l.Next()
			if !yield(tok, err) || err != nil || tok.Kind == TokenEnd {
				return
			}
		}
	}
}

// Tokenize scans all of input and returns its tokens, ending with
// [TokenEnd].
func Tokenize(input string) ([]Token, error) {
	var toks []Token

	for tok, err := range NewLexer(input).All() {
		if err != nil {
			return toks, err
		}

		toks = append(toks, tok)
	}

	return toks, nil
}

// scan reads one token starting at the cursor.
func (l *Lexer) scan() (Token, Position, error) {
	l.skipWhitespace()

	start := l.cursor

	if l.eof() {
		return Token{Kind: TokenEnd}, start, nil
	}

	r := l.peekRune()

	if kind, ok := punctuation[r]; ok {
		l.advance()

		return Token{Kind: kind}, start, nil
	}

	if isDigit(r) {
		return l.scanNumber(start)
	}

	return Token{}, start, ErrLexical.At(start).
		With(slog.String("char", string(r))).
		Wrap(ErrUnrecognizedChar.Wrapf("%q", r))
}

// scanNumber greedily consumes digits and decimal points. The literal is
// validated only by the float conversion.
func (l *Lexer) scanNumber(start Position) (Token, Position, error) {
	for !l.eof() {
		r := l.peekRune()
		if !isDigit(r) && r != '.' {
			break
		}

		l.advance()
	}

	text := l.input[start.Offset:l.cursor.Offset]

	value, err := strconv.ParseFloat(text, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return Token{}, start, syntaxError(start,
			ErrMalformedNumber.Wrapf("%q", text)).
			With(slog.String("literal", text))
	}

	// Out-of-range literals saturate to ±Inf (or 0) per IEEE semantics.
	return Token{Kind: TokenNumber, Value: value}, start, nil
}

func (l *Lexer) skipWhitespace() {
	for !l.eof() && unicode.IsSpace(l.peekRune()) {
		l.advance()
	}
}

func (l *Lexer) eof() bool {
	return l.cursor.Offset >= len(l.input)
}

func (l *Lexer) peekRune() rune {
	r, _ := utf8.DecodeRuneInString(l.input[l.cursor.Offset:])

	return r
}

func (l *Lexer) advance() {
	r, size := utf8.DecodeRuneInString(l.input[l.cursor.Offset:])

	l.cursor.Offset += size

	if r == '\n' {
		l.cursor.Line++
		l.cursor.Column = 1
	} else {
		l.cursor.Column++
	}
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
