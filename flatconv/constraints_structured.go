// Copyright 2026 The Flatconv Authors
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package flatconv

// Structured constraint types (spec.md §3 "Structured"): indicator constraints, SOS1/SOS2,
// complementarity pairs, and piecewise-linear. Unlike the functional types in
// constraints_functional.go these do not define `y = f(args)`; the controlling/linked variables
// are ordinary fields.

// indicatorCmp is the comparison held by an indicator constraint's linear/quadratic body.
type indicatorCmp int

const (
	IndLE indicatorCmp = iota
	IndEQ
	IndGE
)

func (op indicatorCmp) String() string {
	switch op {
	case IndLE:
		return "LE"
	case IndEQ:
		return "EQ"
	case IndGE:
		return "GE"
	default:
		return "?"
	}
}

// IndicatorConstraintLin is `Bin == BinVal  =>  (Expr op RHS)` for a linear Expr. spec.md §3 names
// the three instances (`IndicatorConstraintLin{LE,EQ,GE}`); as with CondLinCon flatconv keeps one
// struct parameterized by Op and differentiates TypeName per instance.
type IndicatorConstraintLin struct {
	Bin    VarIndex
	BinVal int
	Expr   LinExpr
	RHS    float64
	Op     indicatorCmp
}

func (c IndicatorConstraintLin) TypeName() string { return "IndicatorConstraintLin" + c.Op.String() }
func (c IndicatorConstraintLin) Args() []VarIndex {
	return append([]VarIndex{c.Bin}, c.Expr.Vars...)
}
func (c IndicatorConstraintLin) SubstituteVar(old, repl VarIndex) Constraint {
	if c.Bin == old {
		c.Bin = repl
	}
	c.Expr = c.Expr.substitute(old, repl)
	return c
}

// IndicatorConstraintQuad is `Bin == BinVal  =>  (Expr op RHS)` for a quadratic Expr.
type IndicatorConstraintQuad struct {
	Bin    VarIndex
	BinVal int
	Expr   QuadExpr
	RHS    float64
	Op     indicatorCmp
}

func (c IndicatorConstraintQuad) TypeName() string {
	return "IndicatorConstraintQuad" + c.Op.String()
}
func (c IndicatorConstraintQuad) Args() []VarIndex {
	return append([]VarIndex{c.Bin}, quadArgs(c.Expr)...)
}
func (c IndicatorConstraintQuad) SubstituteVar(old, repl VarIndex) Constraint {
	if c.Bin == old {
		c.Bin = repl
	}
	c.Expr = c.Expr.substitute(old, repl)
	return c
}

// SOS1 requires at most one variable in Vars to be nonzero.
type SOS1 struct {
	Vars    []VarIndex
	Weights []float64
}

func (c SOS1) TypeName() string { return "SOS1Constraint" }
func (c SOS1) Args() []VarIndex { return c.Vars }
func (c SOS1) SubstituteVar(old, repl VarIndex) Constraint {
	c.Vars = substituteVarSlice(c.Vars, old, repl)
	return c
}

// SOS2 requires at most two variables in Vars to be nonzero, and if two, they are consecutive in
// the Weights ordering.
type SOS2 struct {
	Vars    []VarIndex
	Weights []float64
}

func (c SOS2) TypeName() string { return "SOS2Constraint" }
func (c SOS2) Args() []VarIndex { return c.Vars }
func (c SOS2) SubstituteVar(old, repl VarIndex) Constraint {
	c.Vars = substituteVarSlice(c.Vars, old, repl)
	return c
}

// ComplementarityLinear is `0 <= (Expr + Const) perp X >= 0`: Expr+Const and X cannot both be
// strictly positive. spec.md §5 flags the postsolve mapping for this type as an Open Question;
// DESIGN.md records the decision (an SOS1 pair, with no pair-specific postsolve mapping).
type ComplementarityLinear struct {
	Expr  LinExpr
	Const float64
	X     VarIndex
}

func (c ComplementarityLinear) TypeName() string { return "ComplementarityLinear" }
func (c ComplementarityLinear) Args() []VarIndex {
	return append(append([]VarIndex{}, c.Expr.Vars...), c.X)
}
func (c ComplementarityLinear) SubstituteVar(old, repl VarIndex) Constraint {
	c.Expr = c.Expr.substitute(old, repl)
	if c.X == old {
		c.X = repl
	}
	return c
}

// ComplementarityQuadratic is the quadratic-Expr counterpart of ComplementarityLinear.
type ComplementarityQuadratic struct {
	Expr  QuadExpr
	Const float64
	X     VarIndex
}

func (c ComplementarityQuadratic) TypeName() string { return "ComplementarityQuadratic" }
func (c ComplementarityQuadratic) Args() []VarIndex {
	return append(quadArgs(c.Expr), c.X)
}
func (c ComplementarityQuadratic) SubstituteVar(old, repl VarIndex) Constraint {
	c.Expr = c.Expr.substitute(old, repl)
	if c.X == old {
		c.X = repl
	}
	return c
}

// PLConstraint is `y = pl(X)`, a piecewise-linear function given by breakpoints (spec.md §4.5
// "Piecewise-linear"). Breakpoints[i] is the domain knot; len(Slopes) == len(Breakpoints)+1, with
// Slopes[0] the slope before the first knot, Slopes[i+1] the slope of the segment starting at
// Breakpoints[i], and the last entry the slope after the last knot.
type PLConstraint struct {
	base
	X           VarIndex
	Breakpoints []float64
	Slopes      []float64
	Value0      float64 // f(Breakpoints[0]), the anchor the slopes integrate from
}

func (c *PLConstraint) TypeName() string { return "PLConstraint" }
func (c *PLConstraint) Args() []VarIndex  { return []VarIndex{c.X} }
func (c *PLConstraint) SubstituteVar(old, repl VarIndex) Constraint {
	if c.X == old {
		c.X = repl
	}
	return c
}
func (c *PLConstraint) Key() string {
	s := "pl:" + itoa(int(c.X)) + "|" + ftoa(c.Value0) + "|"
	for _, b := range c.Breakpoints {
		s += ftoa(b) + ","
	}
	s += "|"
	for _, sl := range c.Slopes {
		s += ftoa(sl) + ","
	}
	return s
}

// valueAt returns the piecewise-linear function's value at breakpoint index i (0-based),
// integrating Slopes forward from Value0.
func (c *PLConstraint) valueAt(i int) float64 {
	v := c.Value0
	for k := 0; k < i; k++ {
		v += c.Slopes[k+1] * (c.Breakpoints[k+1] - c.Breakpoints[k])
	}
	return v
}
