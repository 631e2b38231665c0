package lang

import (
	"encoding/json"
	"math"
)

// MarshalJSON implements json.Marshaler for AST.
func (ast *AST) MarshalJSON() ([]byte, error) {
	return json.Marshal(ast.ToMap())
}

// ToMap converts the AST to a native Go map structure:
//
//	{"source": "1 + 2", "tree": {"op": "Add", "left": 1, "right": 2}}
func (ast *AST) ToMap() map[string]any {
	return map[string]any{
		"source": ast.Source,
		"tree":   ast.Root.ToNative(),
	}
}

// ToNative converts the subtree rooted at n to native Go values. Leaves
// become float64, or their string form when not finite, since neither JSON
// nor YAML consumers agree on infinities. Operator nodes become maps with
// keys "op", "left", and "right".
func (n *Node) ToNative() any {
	switch {
	case n == nil:
		return nil

	case n.IsLeaf():
		if math.IsInf(n.Value, 0) || math.IsNaN(n.Value) {
			return FormatNumber(n.Value, NotationShortest)
		}

		return n.Value

	default:
		return map[string]any{
			"op":    n.Op.String(),
			"left":  n.Left.ToNative(),
			"right": n.Right.ToNative(),
		}
	}
}
