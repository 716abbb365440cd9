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

// Algebraic constraint types (spec.md §3 "Algebraic"): the base forms every ModelAPI is assumed
// to accept directly. Only the range forms carry a redefinition rule (split into one <= and one >=
// row, spec.md §4.5 "Range linear / quadratic") since a
// ModelAPI that rejects the plain <=/==/>= forms outright has nothing left to reformulate into.

// LinConLE is the row `Expr <= RHS`.
type LinConLE struct {
	Expr LinExpr
	RHS  float64
}

func (c LinConLE) TypeName() string { return "LinConLE" }
func (c LinConLE) Args() []VarIndex { return c.Expr.Vars }
func (c LinConLE) SubstituteVar(old, repl VarIndex) Constraint {
	c.Expr = c.Expr.substitute(old, repl)
	return c
}

// LinConEQ is the row `Expr == RHS`.
type LinConEQ struct {
	Expr LinExpr
	RHS  float64
}

func (c LinConEQ) TypeName() string { return "LinConEQ" }
func (c LinConEQ) Args() []VarIndex { return c.Expr.Vars }
func (c LinConEQ) SubstituteVar(old, repl VarIndex) Constraint {
	c.Expr = c.Expr.substitute(old, repl)
	return c
}

// LinConGE is the row `Expr >= RHS`.
type LinConGE struct {
	Expr LinExpr
	RHS  float64
}

func (c LinConGE) TypeName() string { return "LinConGE" }
func (c LinConGE) Args() []VarIndex { return c.Expr.Vars }
func (c LinConGE) SubstituteVar(old, repl VarIndex) Constraint {
	c.Expr = c.Expr.substitute(old, repl)
	return c
}

// LinConRange is the two-sided row `LB <= Expr <= UB`.
type LinConRange struct {
	Expr   LinExpr
	LB, UB float64
}

func (c LinConRange) TypeName() string { return "LinConRange" }
func (c LinConRange) Args() []VarIndex { return c.Expr.Vars }
func (c LinConRange) SubstituteVar(old, repl VarIndex) Constraint {
	c.Expr = c.Expr.substitute(old, repl)
	return c
}

// QuadConLE is the row `Expr <= RHS` where Expr has quadratic terms.
type QuadConLE struct {
	Expr QuadExpr
	RHS  float64
}

func (c QuadConLE) TypeName() string { return "QuadConLE" }
func (c QuadConLE) Args() []VarIndex { return quadArgs(c.Expr) }
func (c QuadConLE) SubstituteVar(old, repl VarIndex) Constraint {
	c.Expr = c.Expr.substitute(old, repl)
	return c
}

// QuadConEQ is the row `Expr == RHS`.
type QuadConEQ struct {
	Expr QuadExpr
	RHS  float64
}

func (c QuadConEQ) TypeName() string { return "QuadConEQ" }
func (c QuadConEQ) Args() []VarIndex { return quadArgs(c.Expr) }
func (c QuadConEQ) SubstituteVar(old, repl VarIndex) Constraint {
	c.Expr = c.Expr.substitute(old, repl)
	return c
}

// QuadConGE is the row `Expr >= RHS`.
type QuadConGE struct {
	Expr QuadExpr
	RHS  float64
}

func (c QuadConGE) TypeName() string { return "QuadConGE" }
func (c QuadConGE) Args() []VarIndex { return quadArgs(c.Expr) }
func (c QuadConGE) SubstituteVar(old, repl VarIndex) Constraint {
	c.Expr = c.Expr.substitute(old, repl)
	return c
}

// QuadConRange is the two-sided row `LB <= Expr <= UB`.
type QuadConRange struct {
	Expr   QuadExpr
	LB, UB float64
}

func (c QuadConRange) TypeName() string { return "QuadConRange" }
func (c QuadConRange) Args() []VarIndex { return quadArgs(c.Expr) }
func (c QuadConRange) SubstituteVar(old, repl VarIndex) Constraint {
	c.Expr = c.Expr.substitute(old, repl)
	return c
}

func quadArgs(e QuadExpr) []VarIndex {
	args := append([]VarIndex{}, e.Lin.Vars...)
	args = append(args, e.QVars1...)
	args = append(args, e.QVars2...)
	return args
}
