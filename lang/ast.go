package lang

import (
	"iter"
	"math"

	"github.com/ardnew/calc/log"
)

// DefaultMaxDepth is the default bound on nested groups and precedence runs
// the tree builder will descend into.
const DefaultMaxDepth = 256

// Node is an expression tree node: a leaf holding a literal value when Op is
// [OpNone], otherwise an operator node with exclusively owned children.
type Node struct {
	Op    Operator
	Value float64
	Left  *Node
	Right *Node
}

// Leaf returns a leaf node holding v.
func Leaf(v float64) *Node {
	return &Node{Value: v}
}

// Binary returns an operator node combining left and right with op.
func Binary(op Operator, left, right *Node) *Node {
	return &Node{Op: op, Left: left, Right: right}
}

// IsLeaf reports whether n is a literal.
func (n *Node) IsLeaf() bool { return n.Op == OpNone }

// pending reports whether n is an operator node still waiting for its right
// operand.
func (n *Node) pending() bool {
	return n != nil && !n.IsLeaf() && n.Right == nil
}

// Equal reports whether n and m are structurally identical trees.
// NaN leaves match each other.
func (n *Node) Equal(m *Node) bool {
	switch {
	case n == nil || m == nil:
		return n == m
	case n.Op != m.Op:
		return false
	case n.IsLeaf():
		return n.Value == m.Value || (math.IsNaN(n.Value) && math.IsNaN(m.Value))
	default:
		return n.Left.Equal(m.Left) && n.Right.Equal(m.Right)
	}
}

// Postorder returns an iterator over the subtree rooted at n, children
// before parents, left before right.
func (n *Node) Postorder() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		type frame struct {
			node     *Node
			expanded bool
		}

		if n == nil {
			return
		}

		stack := []frame{{node: n}}

		for len(stack) > 0 {
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			if top.expanded || top.node.IsLeaf() {
				if !yield(top.node) {
					return
				}

				continue
			}

			stack = append(stack, frame{node: top.node, expanded: true})

			if top.node.Right != nil {
				stack = append(stack, frame{node: top.node.Right})
			}

			if top.node.Left != nil {
				stack = append(stack, frame{node: top.node.Left})
			}
		}
	}
}

// Depth returns the number of nodes on the longest root-to-leaf path.
func (n *Node) Depth() int {
	if n == nil {
		return 0
	}

	depth := make(map[*Node]int)

	for node := range n.Postorder() {
		d := max(depth[node.Left], depth[node.Right]) + 1
		delete(depth, node.Left)
		delete(depth, node.Right)
		depth[node] = d
	}

	return depth[n]
}

// AST is the expression tree built from one line of source text.
type AST struct {
	Root   *Node
	Source string

	maxDepth int
	logger   log.Logger
}

// Option configures parsing and evaluation of an [AST].
type Option func(*AST)

// WithMaxDepth bounds how deeply the tree builder may nest groups and
// precedence runs. Values less than 1 select [DefaultMaxDepth].
func WithMaxDepth(depth int) Option {
	return func(ast *AST) {
		if depth < 1 {
			depth = DefaultMaxDepth
		}

		ast.maxDepth = depth
	}
}

// WithLogger sets the structured logger for trace-level debugging.
// If not provided, the logger is zero-valued and all logging is a no-op.
func WithLogger(logger log.Logger) Option {
	return func(ast *AST) {
		ast.logger = logger
	}
}

// applyDefaults sets default option values on an AST.
func applyDefaults(ast *AST) {
	ast.maxDepth = DefaultMaxDepth
}

// applyOptions applies functional options to an AST.
func applyOptions(ast *AST, opts ...Option) {
	for _, opt := range opts {
		opt(ast)
	}
}

// All returns an iterator over every node of the tree in postorder.
func (ast *AST) All() iter.Seq[*Node] {
	if ast == nil {
		return func(func(*Node) bool) {}
	}

	return ast.Root.Postorder()
}

// Len returns the number of nodes in the tree.
func (ast *AST) Len() int {
	n := 0
	for range ast.All() {
		n++
	}

	return n
}
