package lang

import (
	"iter"
	"math"
	"strconv"
)

// Operator is a binary arithmetic operator.
type Operator uint8

// Operators. [OpNone] marks a leaf node.
const (
	OpNone Operator = iota
	OpAdd
	OpSubtract
	OpMultiply
	OpDivide
	OpPower
)

// Tier is the precedence class of an [Operator]. Higher tiers bind tighter.
// Operators of the same tier compare equal, which makes every tier
// left-associative, Power included.
type Tier int

// Precedence tiers.
const (
	TierNone Tier = iota
	TierAdditive
	TierMultiplicative
	TierExponential
)

// precedence is the single source of truth for operator tiers, spellings,
// and arithmetic.
var precedence = [...]struct {
	name   string
	symbol string
	tier   Tier
	apply  func(a, b float64) float64
}{
	OpNone: {name: "None", tier: TierNone},
	OpAdd: {
		name: "Add", symbol: "+", tier: TierAdditive,
		apply: func(a, b float64) float64 { return a + b },
	},
	OpSubtract: {
		name: "Subtract", symbol: "-", tier: TierAdditive,
		apply: func(a, b float64) float64 { return a - b },
	},
	OpMultiply: {
		name: "Multiply", symbol: "*", tier: TierMultiplicative,
		apply: func(a, b float64) float64 { return a * b },
	},
	OpDivide: {
		name: "Divide", symbol: "/", tier: TierMultiplicative,
		apply: func(a, b float64) float64 { return a / b },
	},
	OpPower: {
		name: "Power", symbol: "^", tier: TierExponential,
		apply: math.Pow,
	},
}

// Operators returns an iterator over all binary operators in table order.
func Operators() iter.Seq[Operator] {
	return func(yield func(Operator) bool) {
		for op := OpAdd; int(op) < len(precedence); op++ {
			if !yield(op) {
				return
			}
		}
	}
}

// Valid reports whether o is a binary operator.
func (o Operator) Valid() bool {
	return o > OpNone && int(o) < len(precedence)
}

// String returns the operator name, e.g. "Multiply".
func (o Operator) String() string {
	if int(o) < len(precedence) {
		return precedence[o].name
	}

	return "Operator(" + strconv.Itoa(int(o)) + ")"
}

// Symbol returns the canonical source spelling of o.
func (o Operator) Symbol() string {
	if o.Valid() {
		return precedence[o].symbol
	}

	return "?"
}

// Tier returns the precedence tier of o, or [TierNone] if o is not a binary
// operator.
func (o Operator) Tier() Tier {
	if o.Valid() {
		return precedence[o].tier
	}

	return TierNone
}

// Yields reports whether o must yield its right operand to next, i.e. next
// binds strictly tighter than o.
func (o Operator) Yields(next Operator) bool {
	return next.Tier() > o.Tier()
}

// Apply combines a and b with IEEE-754 double precision semantics.
// It returns NaN for an invalid operator.
func (o Operator) Apply(a, b float64) float64 {
	if !o.Valid() {
		return math.NaN()
	}

	return precedence[o].apply(a, b)
}
