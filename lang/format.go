package lang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
)

// Notation selects how numbers are rendered.
type Notation int

// Number notations.
const (
	NotationShortest   Notation = iota // shortest
	NotationDecimal                    // decimal
	NotationScientific                 // scientific
)

// DefaultNotation is the notation used when none is specified.
const DefaultNotation = NotationShortest

var notationName = [...]string{
	NotationShortest:   "shortest",
	NotationDecimal:    "decimal",
	NotationScientific: "scientific",
}

// String returns the notation name.
func (n Notation) String() string {
	if n >= 0 && int(n) < len(notationName) {
		return notationName[n]
	}

	return "Notation(" + strconv.Itoa(int(n)) + ")"
}

// Notations returns the names of all notations.
func Notations() []string {
	return slices.Clone(notationName[:])
}

// ParseNotation parses a notation name, falling back to [DefaultNotation].
func ParseNotation(s string) Notation {
	for i, name := range notationName {
		if strings.EqualFold(strings.TrimSpace(s), name) {
			return Notation(i)
		}
	}

	return DefaultNotation
}

// FormatNumber renders v in the given notation. Infinities render as "+Inf"
// and "-Inf", and NaN as "NaN", in every notation.
func FormatNumber(v float64, notation Notation) string {
	switch {
	case math.IsInf(v, 0), math.IsNaN(v):
		return strconv.FormatFloat(v, 'g', -1, 64)

	case notation == NotationDecimal:
		return strconv.FormatFloat(v, 'f', -1, 64)

	case notation == NotationScientific:
		return strconv.FormatFloat(v, 'e', -1, 64)

	default:
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
}

// String renders the tree as fully parenthesized infix text. Every operator
// node except the root is wrapped in parentheses, so a tree with finite
// leaves parses back into an identical tree when the max depth allows one
// group per tree level.
func (n *Node) String() string {
	if n == nil {
		return ""
	}

	var b strings.Builder

	writeInfix(&b, n, false, decimalLiteral)

	return b.String()
}

func decimalLiteral(v float64) string {
	return FormatNumber(v, NotationDecimal)
}

// writeInfix renders n into b, spelling leaves with literal.
func writeInfix(
	b *strings.Builder,
	n *Node,
	group bool,
	literal func(float64) string,
) {
	switch {
	case n == nil:
		b.WriteString("?")

	case n.IsLeaf():
		b.WriteString(literal(n.Value))

	default:
		if group {
			b.WriteByte('(')
		}

		writeInfix(b, n.Left, true, literal)
		b.WriteByte(' ')
		b.WriteString(n.Op.Symbol())
		b.WriteByte(' ')
		writeInfix(b, n.Right, true, literal)

		if group {
			b.WriteByte(')')
		}
	}
}

// String renders the tree as fully parenthesized infix text.
func (ast *AST) String() string {
	if ast == nil {
		return ""
	}

	return ast.Root.String()
}

// Format writes the tree as an indented outline, one node per line.
func (ast *AST) Format(_ context.Context, w io.Writer, indent int) error {
	if ast == nil || ast.Root == nil {
		return internalError(ErrNilTree)
	}

	indent = max(indent, 1)

	var b strings.Builder

	formatNode(&b, ast.Root, "", "", indent)

	_, err := io.WriteString(w, b.String())

	return err
}

// formatNode writes n under the given line prefixes using box-drawing
// connectors.
func formatNode(b *strings.Builder, n *Node, head, tail string, indent int) {
	b.WriteString(head)

	if n == nil {
		b.WriteString("?\n")

		return
	}

	if n.IsLeaf() {
		b.WriteString(FormatNumber(n.Value, NotationShortest))
		b.WriteByte('\n')

		return
	}

	b.WriteString(n.Op.String())
	b.WriteByte('\n')

	bar := strings.Repeat("─", indent)
	pad := strings.Repeat(" ", indent)

	formatNode(b, n.Left, tail+"├"+bar+" ", tail+"│"+pad+" ", indent)
	formatNode(b, n.Right, tail+"└"+bar+" ", tail+" "+pad+" ", indent)
}

// FormatJSON writes the tree as JSON to the writer.
func (ast *AST) FormatJSON(_ context.Context, w io.Writer, indent int) error {
	var (
		jsonData []byte
		err      error
	)

	if indent > 0 {
		jsonData, err = json.MarshalIndent(ast, "", strings.Repeat(" ", indent))
	} else {
		jsonData, err = json.Marshal(ast)
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(jsonData))

	return err
}

// FormatYAML writes the tree as YAML to the writer.
func (ast *AST) FormatYAML(ctx context.Context, w io.Writer, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	yamlData, err := yaml.MarshalContext(ctx, ast.ToMap(), opts...)
	if err != nil {
		return err
	}

	_, err = w.Write(yamlData)

	return err
}
