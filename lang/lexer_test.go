package lang_test

import (
	"errors"
	"math"
	"slices"
	"strings"
	"testing"

	"github.com/ardnew/calc/lang"
)

func num(v float64) lang.Token { return lang.Token{Kind: lang.TokenNumber, Value: v} }

func tok(k lang.TokenKind) lang.Token { return lang.Token{Kind: k} }

func TestTokenize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  []lang.Token
	}{
		{
			name:  "empty",
			input: "",
			want:  []lang.Token{tok(lang.TokenEnd)},
		},
		{
			name:  "whitespace_only",
			input: " \t\n ",
			want:  []lang.Token{tok(lang.TokenEnd)},
		},
		{
			name:  "operators",
			input: "+-*x/^()",
			want: []lang.Token{
				tok(lang.TokenPlus),
				tok(lang.TokenMinus),
				tok(lang.TokenTimes),
				tok(lang.TokenTimes),
				tok(lang.TokenDivide),
				tok(lang.TokenPower),
				tok(lang.TokenLeftParen),
				tok(lang.TokenRightParen),
				tok(lang.TokenEnd),
			},
		},
		{
			name:  "spaced_expression",
			input: "1 + 2 * 3",
			want: []lang.Token{
				num(1),
				tok(lang.TokenPlus),
				num(2),
				tok(lang.TokenTimes),
				num(3),
				tok(lang.TokenEnd),
			},
		},
		{
			name:  "decimals",
			input: "3.25x0.5",
			want: []lang.Token{
				num(3.25),
				tok(lang.TokenTimes),
				num(0.5),
				tok(lang.TokenEnd),
			},
		},
		{
			name:  "trailing_point",
			input: "7.",
			want:  []lang.Token{num(7), tok(lang.TokenEnd)},
		},
		{
			name:  "runs_of_whitespace",
			input: "  (\t4   )\n",
			want: []lang.Token{
				tok(lang.TokenLeftParen),
				num(4),
				tok(lang.TokenRightParen),
				tok(lang.TokenEnd),
			},
		},
		{
			name:  "adjacent_numbers",
			input: "1 2",
			want:  []lang.Token{num(1), num(2), tok(lang.TokenEnd)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := lang.Tokenize(tt.input)
			if err != nil {
				t.Fatalf("Tokenize(%q) error = %v", tt.input, err)
			}

			if !slices.Equal(got, tt.want) {
				t.Errorf("Tokenize(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestTokenize_Overflow(t *testing.T) {
	t.Parallel()

	input := "1" + strings.Repeat("0", 400)

	got, err := lang.Tokenize(input)
	if err != nil {
		t.Fatalf("Tokenize() error = %v", err)
	}

	if len(got) != 2 || !math.IsInf(got[0].Value, 1) {
		t.Errorf("Tokenize() = %v, want [Number(+Inf) End]", got)
	}
}

func TestLexer_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		kind    error
		cause   error
		wantPos lang.Position
	}{
		{
			name:    "unrecognized_letter",
			input:   "1 + a",
			kind:    lang.ErrLexical,
			cause:   lang.ErrUnrecognizedChar,
			wantPos: lang.Position{Offset: 4, Line: 1, Column: 5},
		},
		{
			name:    "unrecognized_symbol_first",
			input:   "#",
			kind:    lang.ErrLexical,
			cause:   lang.ErrUnrecognizedChar,
			wantPos: lang.Position{Offset: 0, Line: 1, Column: 1},
		},
		{
			name:    "multibyte_column",
			input:   "1 × 2",
			kind:    lang.ErrLexical,
			cause:   lang.ErrUnrecognizedChar,
			wantPos: lang.Position{Offset: 2, Line: 1, Column: 3},
		},
		{
			name:    "second_line",
			input:   "1\n+ $",
			kind:    lang.ErrLexical,
			cause:   lang.ErrUnrecognizedChar,
			wantPos: lang.Position{Offset: 4, Line: 2, Column: 3},
		},
		{
			name:    "malformed_number",
			input:   "2 * 1.2.3",
			kind:    lang.ErrSyntax,
			cause:   lang.ErrMalformedNumber,
			wantPos: lang.Position{Offset: 4, Line: 1, Column: 5},
		},
		{
			name:    "double_point",
			input:   "1..5",
			kind:    lang.ErrSyntax,
			cause:   lang.ErrMalformedNumber,
			wantPos: lang.Position{Offset: 0, Line: 1, Column: 1},
		},
		{
			name:    "leading_point",
			input:   ".5",
			kind:    lang.ErrLexical,
			cause:   lang.ErrUnrecognizedChar,
			wantPos: lang.Position{Offset: 0, Line: 1, Column: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := lang.Tokenize(tt.input)
			if err == nil {
				t.Fatalf("Tokenize(%q) expected error", tt.input)
			}

			if !errors.Is(err, tt.kind) {
				t.Errorf("error %v does not match kind %v", err, tt.kind)
			}

			if !errors.Is(err, tt.cause) {
				t.Errorf("error %v does not match cause %v", err, tt.cause)
			}

			var le *lang.Error
			if !errors.As(err, &le) {
				t.Fatalf("error %T is not *lang.Error", err)
			}

			pos, ok := le.Position()
			if !ok {
				t.Fatal("error has no position")
			}

			if pos != tt.wantPos {
				t.Errorf("position = %+v, want %+v", pos, tt.wantPos)
			}
		})
	}
}

func TestLexer_EndIsIdempotent(t *testing.T) {
	t.Parallel()

	lex := lang.NewLexer("4")

	if lex.AtEnd() {
		t.Fatal("AtEnd() = true before consuming input")
	}

	if got, err := lex.Next(); err != nil || got != num(4) {
		t.Fatalf("Next() = %v, %v; want Number(4)", got, err)
	}

	for i := range 3 {
		if !lex.AtEnd() {
			t.Fatalf("AtEnd() = false on check %d", i)
		}

		got, err := lex.Next()
		if err != nil || got.Kind != lang.TokenEnd {
			t.Fatalf("Next() #%d = %v, %v; want End", i, got, err)
		}
	}

	if pos := lex.Pos(); pos.Offset != 1 || pos.Column != 2 {
		t.Errorf("Pos() = %+v, want offset 1 column 2", pos)
	}
}

func TestLexer_ErrorIsSticky(t *testing.T) {
	t.Parallel()

	lex := lang.NewLexer("1 ? 2")

	if _, err := lex.Next(); err != nil {
		t.Fatalf("first Next() error = %v", err)
	}

	_, first := lex.Next()
	if first == nil {
		t.Fatal("second Next() expected error")
	}

	_, again := lex.Peek()
	if !errors.Is(again, lang.ErrLexical) || again.Error() != first.Error() {
		t.Errorf("Peek() after error = %v, want %v", again, first)
	}

	if lex.AtEnd() {
		t.Error("AtEnd() = true for a lexer stuck on an error")
	}

	if lex.Err() == nil {
		t.Error("Err() = nil after error")
	}
}

func TestLexer_PeekDoesNotConsume(t *testing.T) {
	t.Parallel()

	lex := lang.NewLexer("(9")

	for range 2 {
		got, err := lex.Peek()
		if err != nil || got.Kind != lang.TokenLeftParen {
			t.Fatalf("Peek() = %v, %v; want LeftParen", got, err)
		}
	}

	if got, _ := lex.Next(); got.Kind != lang.TokenLeftParen {
		t.Fatalf("Next() = %v, want LeftParen", got)
	}

	if got, _ := lex.Next(); got != num(9) {
		t.Fatalf("Next() = %v, want Number(9)", got)
	}
}

func TestLexer_AllStopsAtError(t *testing.T) {
	t.Parallel()

	var (
		toks []lang.Token
		errs int
	)

	for tk, err := range lang.NewLexer("1 + @ 2").All() {
		if err != nil {
			errs++

			continue
		}

		toks = append(toks, tk)
	}

	if errs != 1 {
		t.Errorf("errors yielded = %d, want 1", errs)
	}

	want := []lang.Token{num(1), tok(lang.TokenPlus)}
	if !slices.Equal(toks, want) {
		t.Errorf("tokens = %v, want %v", toks, want)
	}
}

func TestToken_String(t *testing.T) {
	t.Parallel()

	tests := []struct {
		tok  lang.Token
		want string
	}{
		{tok(lang.TokenEnd), "End"},
		{tok(lang.TokenTimes), "Times"},
		{tok(lang.TokenRightParen), "RightParen"},
		{num(2.5), "Number(2.5)"},
		{num(1e21), "Number(1e+21)"},
		{lang.Token{Kind: lang.TokenKind(42)}, "TokenKind(42)"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			t.Parallel()

			if got := tt.tok.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}
