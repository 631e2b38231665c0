package lang

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func TestExprSource(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input  string
		want   string
		wantOK bool
	}{
		{"2", "2.0", true},
		{"0.5", "0.5", true},
		{"1+2*3", "1.0 + (2.0 * 3.0)", true},
		{"2^3^2", "(2.0 ^ 3.0) ^ 2.0", true},
		{"7/2", "7.0 / 2.0", true},
		{"1" + strings.Repeat("0", 400) + " + 1", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			t.Parallel()

			ast, err := ParseString(t.Context(), tt.input)
			if err != nil {
				t.Fatalf("ParseString(%q) error = %v", tt.input, err)
			}

			got, ok := exprSource(ast.Root)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("exprSource() = %q, %v; want %q, %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestAST_Verify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  float64
	}{
		{"1+2*3", 7},
		{"1*(2+3)", 5},
		{"(1+2)*3", 9},
		{"3^(1*(2+3))", 243},
		{"2", 2},
		{"2^3^2", 64},
		{"1-2*3+4", -1},
		{"7/2", 3.5},
		{"1/0", math.Inf(1)},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			got, err := EvaluateVerified(t.Context(), tt.input)
			if err != nil {
				t.Fatalf("EvaluateVerified(%q) error = %v", tt.input, err)
			}

			if got != tt.want {
				t.Errorf("EvaluateVerified(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestAST_Verify_NonFiniteLeafSkipped(t *testing.T) {
	t.Parallel()

	ast, err := ParseString(t.Context(), "1"+strings.Repeat("0", 400)+" - 1")
	if err != nil {
		t.Fatalf("ParseString() error = %v", err)
	}

	got, err := ast.Verify(t.Context())
	if err != nil || !math.IsInf(got, 1) {
		t.Errorf("Verify() = %v, %v; want +Inf, nil", got, err)
	}
}

func TestAST_Verify_UnknownOperator(t *testing.T) {
	t.Parallel()

	ast, err := ParseString(t.Context(), "2 * 3")
	if err != nil {
		t.Fatalf("ParseString() error = %v", err)
	}

	// corrupt the tree after building
	ast.Root.Op = Operator(len(precedence))

	_, err = ast.Verify(t.Context())
	if !errors.Is(err, ErrInternal) {
		t.Errorf("Verify() error = %v, want internal error", err)
	}
}

func TestAST_Verify_PropagatesEvaluateError(t *testing.T) {
	t.Parallel()

	ast := &AST{Root: Binary(OpAdd, Leaf(1), nil)}

	_, err := ast.Verify(t.Context())
	if !errors.Is(err, ErrMissingOperand) {
		t.Errorf("Verify() error = %v, want %v", err, ErrMissingOperand)
	}
}
