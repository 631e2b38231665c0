package lang_test

import (
	"errors"
	"math"
	"testing"
	"unicode/utf8"

	"github.com/ardnew/calc/lang"
)

var fuzzSeeds = []string{
	"",
	"2",
	"1+2*3",
	"1*(2+3)",
	"(1+2)*3",
	"3^(1*(2+3))",
	"2^3^2",
	"1-2*3+4",
	"(1+2*3)",
	"1 / 0",
	"8/4x2",
	"+ 1",
	")",
	"(",
	"1 2",
	"1..2",
	"1 + a",
	"((((((1))))))",
}

// FuzzLexer checks that scanning never panics and always ends with either
// End or a positioned lexical or syntax error.
func FuzzLexer(f *testing.F) {
	for _, seed := range fuzzSeeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, input string) {
		if !utf8.ValidString(input) {
			t.Skip("invalid UTF-8")
		}

		toks, err := lang.Tokenize(input)
		if err != nil {
			if !errors.Is(err, lang.ErrLexical) && !errors.Is(err, lang.ErrSyntax) {
				t.Fatalf("Tokenize(%q) error of unexpected kind: %v", input, err)
			}

			var le *lang.Error
			if !errors.As(err, &le) {
				t.Fatalf("Tokenize(%q) error %T is not *lang.Error", input, err)
			}

			if pos, ok := le.Position(); !ok || pos.Offset > len(input) {
				t.Fatalf("Tokenize(%q) error position %v out of range", input, pos)
			}

			return
		}

		if len(toks) == 0 || toks[len(toks)-1].Kind != lang.TokenEnd {
			t.Fatalf("Tokenize(%q) = %v, missing End", input, toks)
		}

		for _, tok := range toks[:len(toks)-1] {
			if tok.Kind == lang.TokenEnd {
				t.Fatalf("Tokenize(%q) = %v, End before last token", input, toks)
			}
		}
	})
}

// FuzzParse checks that every input either fails with a lexical or syntax
// error, or builds a tree that evaluates, agrees with the independent
// engine, and survives a print/parse round trip.
func FuzzParse(f *testing.F) {
	for _, seed := range fuzzSeeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, input string) {
		if !utf8.ValidString(input) {
			t.Skip("invalid UTF-8")
		}

		ast, err := lang.ParseString(t.Context(), input)
		if err != nil {
			if errors.Is(err, lang.ErrInternal) {
				t.Fatalf("ParseString(%q) internal error: %v", input, err)
			}

			if !errors.Is(err, lang.ErrLexical) && !errors.Is(err, lang.ErrSyntax) {
				t.Fatalf("ParseString(%q) error of unexpected kind: %v", input, err)
			}

			return
		}

		if _, err := ast.Verify(t.Context()); err != nil {
			t.Fatalf("Verify(%q) error = %v", input, err)
		}

		for node := range ast.All() {
			if node.IsLeaf() && (math.IsInf(node.Value, 0) || math.IsNaN(node.Value)) {
				return // non-finite literals do not round trip
			}
		}

		// every operator below the root renders as a group
		again, err := lang.ParseString(t.Context(), ast.String(),
			lang.WithMaxDepth(ast.Root.Depth()+1),
		)
		if err != nil {
			t.Fatalf("ParseString(%q) of rendering %q error = %v", input, ast, err)
		}

		if !ast.Root.Equal(again.Root) {
			t.Fatalf("round trip of %q: %s != %s", input, ast, again)
		}
	})
}
