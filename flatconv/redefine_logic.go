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

import "math"

// redefine_logic.go holds the redefinition catalog entries for Abs, And, Or, Not, IfThen, Max and
// Min (spec.md §4.5 "Logical" and "Min/Max/Abs"): classic big-M / disjunctive MIP linearizations,
// grounded on the same shape cp_model.go's own AddAbsEquality/AddMaxEquality/AddBoolAnd/
// AddBoolOr convenience constructors build toward, adapted here from CP-SAT's
// native support down to the LP/MIP rows a plain linear solver accepts.

func absf(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

// bigMFor returns a finite big-M coefficient large enough to dominate v's own range, or
// ErrUnboundedBigM if v has no finite bound on at least one side.
func bigMFor(conv *Converter, v VarIndex) (float64, error) {
	vv := conv.model.Var(v)
	if math.IsInf(vv.LB, -1) || math.IsInf(vv.UB, 1) {
		return 0, ErrUnboundedBigM
	}
	return max(absf(vv.LB), absf(vv.UB)), nil
}

// Convert redefines `y = |X|` as a binary-selected pair of linear inequalities:
//
//	y >= X; y >= -X          (lower-bounds y by the magnitude)
//	y <= X + M(1-b); y <= -X + M*b   (ties y to whichever branch b selects)
//
// The tie-down pair is only needed when something can observe y being strictly larger than |X|; in
// a positive context (y is only ever used as a lower bound elsewhere, e.g. minimized directly or fed
// into a >= row) the two GE rows already pin y down completely, so the disjunctive binary is skipped.
func (c *Abs) Convert(conv *Converter, idx int) error {
	m, err := bigMFor(conv, c.X)
	if err != nil {
		return err
	}
	y := conv.AssignResult2Args(c, conv.Convert2Var(0, m, Continuous))
	AddConstraint(conv.Model(), "LinConGE", LinConGE{Expr: NewLinExpr().AddTerm(y, 1).AddTerm(c.X, -1), RHS: 0})
	AddConstraint(conv.Model(), "LinConGE", LinConGE{Expr: NewLinExpr().AddTerm(y, 1).AddTerm(c.X, 1), RHS: 0})
	if c.Context() == CtxPositive {
		return nil
	}

	b := conv.Convert2Var(0, 1, Integer)
	AddConstraint(conv.Model(), "LinConLE", LinConLE{Expr: NewLinExpr().AddTerm(y, 1).AddTerm(c.X, -1).AddTerm(b, m), RHS: m})
	AddConstraint(conv.Model(), "LinConLE", LinConLE{Expr: NewLinExpr().AddTerm(y, 1).AddTerm(c.X, 1).AddTerm(b, -m), RHS: 0})
	return nil
}

// Convert redefines `y = AND(Of...)` over 0/1 variables as:
//
//	y <= arg_i for every i;  y >= sum(args) - (n-1)
//
// In a positive context (y is only ever required to hold, never observed false or in both senses)
// every conjunct must itself be true, so this asserts each xi = 1 directly instead of emitting the
// general encoding at all. A single-argument And is a pure alias of that argument (already folded
// by preprocessEqBinary when the option is on; this handles the case when it isn't).
func (c *And) Convert(conv *Converter, idx int) error {
	if len(c.Of) == 1 {
		conv.AssignResult2Args(c, c.Of[0])
		return nil
	}
	if c.Context() == CtxPositive {
		for _, arg := range c.Of {
			if err := conv.FixAsTrue(arg); err != nil {
				return err
			}
		}
		if y, ok := c.ResultVar(); ok {
			return conv.FixAsTrue(y)
		}
		conv.AssignResult2Args(c, conv.FixedValueVar(1))
		return nil
	}

	y := conv.AssignResult2Args(c, conv.Convert2Var(0, 1, Integer))
	for _, arg := range c.Of {
		AddConstraint(conv.Model(), "LinConLE", LinConLE{Expr: NewLinExpr().AddTerm(y, 1).AddTerm(arg, -1), RHS: 0})
	}
	sum := NewLinExpr().AddTerm(y, 1)
	for _, arg := range c.Of {
		sum = sum.AddTerm(arg, -1)
	}
	AddConstraint(conv.Model(), "LinConGE", LinConGE{Expr: sum, RHS: float64(1 - len(c.Of))})
	return nil
}

// Convert redefines `y = OR(Of...)` over 0/1 variables as:
//
//	y >= arg_i for every i;  y <= sum(args)
//
// Dually to And's positive-context rule: in a negative context (y is only ever required to not
// hold) every disjunct must itself be false, so this asserts each xi = 0 directly. A single-argument
// Or is folded the same way a single-argument And is.
func (c *Or) Convert(conv *Converter, idx int) error {
	if len(c.Of) == 1 {
		conv.AssignResult2Args(c, c.Of[0])
		return nil
	}
	if c.Context() == CtxNegative {
		for _, arg := range c.Of {
			if err := conv.FixAsFalse(arg); err != nil {
				return err
			}
		}
		if y, ok := c.ResultVar(); ok {
			return conv.FixAsFalse(y)
		}
		conv.AssignResult2Args(c, conv.FixedValueVar(0))
		return nil
	}

	y := conv.AssignResult2Args(c, conv.Convert2Var(0, 1, Integer))
	for _, arg := range c.Of {
		AddConstraint(conv.Model(), "LinConGE", LinConGE{Expr: NewLinExpr().AddTerm(y, 1).AddTerm(arg, -1), RHS: 0})
	}
	sum := NewLinExpr().AddTerm(y, 1)
	for _, arg := range c.Of {
		sum = sum.AddTerm(arg, -1)
	}
	AddConstraint(conv.Model(), "LinConLE", LinConLE{Expr: sum, RHS: 0})
	return nil
}

// Convert redefines `y = NOT X` as the single equality `y + X == 1`.
func (c *Not) Convert(conv *Converter, idx int) error {
	y := conv.AssignResult2Args(c, conv.Convert2Var(0, 1, Integer))
	AddConstraint(conv.Model(), "LinConEQ", LinConEQ{Expr: NewLinExpr().AddTerm(y, 1).AddTerm(c.X, 1), RHS: 1})
	return nil
}

// Convert redefines `y = Cond ? Then : Else` as the standard four-row big-M linearization.
func (c *IfThen) Convert(conv *Converter, idx int) error {
	mThen, err := bigMFor(conv, c.Then)
	if err != nil {
		return err
	}
	mElse, err := bigMFor(conv, c.Else)
	if err != nil {
		return err
	}
	lb, ub := conv.model.Var(c.Then).LB, conv.model.Var(c.Then).UB
	if conv.model.Var(c.Else).LB < lb {
		lb = conv.model.Var(c.Else).LB
	}
	if conv.model.Var(c.Else).UB > ub {
		ub = conv.model.Var(c.Else).UB
	}
	y := conv.AssignResult2Args(c, conv.Convert2Var(lb, ub, Continuous))

	AddConstraint(conv.Model(), "LinConLE", LinConLE{Expr: NewLinExpr().AddTerm(y, 1).AddTerm(c.Then, -1).AddTerm(c.Cond, mThen), RHS: mThen})
	AddConstraint(conv.Model(), "LinConGE", LinConGE{Expr: NewLinExpr().AddTerm(y, 1).AddTerm(c.Then, -1).AddTerm(c.Cond, -mThen), RHS: -mThen})
	AddConstraint(conv.Model(), "LinConLE", LinConLE{Expr: NewLinExpr().AddTerm(y, 1).AddTerm(c.Else, -1).AddTerm(c.Cond, -mElse), RHS: 0})
	AddConstraint(conv.Model(), "LinConGE", LinConGE{Expr: NewLinExpr().AddTerm(y, 1).AddTerm(c.Else, -1).AddTerm(c.Cond, mElse), RHS: 0})
	return nil
}

// Convert redefines `y = max(Of...)` with one selector binary per argument: exactly one is chosen
// (sum z_i == 1), y is bounded below by every argument, and tied to the chosen one from above.
func (c *Max) Convert(conv *Converter, idx int) error {
	return convertMinMax(conv, c, c.Of, true, c.Context())
}

// Convert redefines `y = min(Of...)` symmetrically to Max.
func (c *Min) Convert(conv *Converter, idx int) error {
	return convertMinMax(conv, c, c.Of, false, c.Context())
}

// convertMinMax always emits the one-sided inequalities that hold regardless of which argument
// actually attains the max/min. The selector-binary tie-break that pins y to the winning argument
// exactly is skipped in a positive context, where y is only ever used as a bound (e.g. minimized
// directly, or fed into further >= rows for Max) and an over-estimate is harmless.
func convertMinMax(conv *Converter, rh resultHolder, args []VarIndex, isMax bool, ctx Context) error {
	if len(args) == 1 {
		conv.AssignResult2Args(rh, args[0])
		return nil
	}
	lb, ub := math.Inf(1), math.Inf(-1)
	for _, a := range args {
		v := conv.model.Var(a)
		if v.LB < lb {
			lb = v.LB
		}
		if v.UB > ub {
			ub = v.UB
		}
	}
	y := conv.AssignResult2Args(rh, conv.Convert2Var(lb, ub, Continuous))

	for _, a := range args {
		if isMax {
			AddConstraint(conv.Model(), "LinConGE", LinConGE{Expr: NewLinExpr().AddTerm(y, 1).AddTerm(a, -1), RHS: 0})
		} else {
			AddConstraint(conv.Model(), "LinConLE", LinConLE{Expr: NewLinExpr().AddTerm(y, 1).AddTerm(a, -1), RHS: 0})
		}
	}
	if ctx == CtxPositive {
		return nil
	}

	sel := NewLinExpr()
	for _, a := range args {
		m, err := bigMFor(conv, a)
		if err != nil {
			return err
		}
		z := conv.Convert2Var(0, 1, Integer)
		sel = sel.AddTerm(z, 1)
		if isMax {
			// y <= a_i + M(1-z_i), tight exactly when z_i=1 (the argument max picked).
			AddConstraint(conv.Model(), "LinConLE", LinConLE{Expr: NewLinExpr().AddTerm(y, 1).AddTerm(a, -1).AddTerm(z, m), RHS: m})
		} else {
			// y >= a_i - M(1-z_i), tight exactly when z_i=1 (the argument min picked).
			AddConstraint(conv.Model(), "LinConGE", LinConGE{Expr: NewLinExpr().AddTerm(y, 1).AddTerm(a, -1).AddTerm(z, -m), RHS: -m})
		}
	}
	AddConstraint(conv.Model(), "LinConEQ", LinConEQ{Expr: sel, RHS: 1})
	return nil
}
