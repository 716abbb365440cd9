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

// redefine_arith.go covers Div, the plain linear/quadratic functional forms, and the two-sided
// range forms (spec.md §4.5 "Range linear / quadratic", "Division").

// Convert redefines `y = Num / Den` as the quadratic row `y*Den - Num == 0`, valid as long as
// Den's domain excludes 0 (the model builder is responsible for that; flatconv does not invent a
// domain split here since doing so would silently change the feasible region rather than just
// reformulate it).
func (c *Div) Convert(conv *Converter, idx int) error {
	den := conv.model.Var(c.Den)
	if den.LB <= 0 && den.UB >= 0 {
		return ErrInfeasibleDomain
	}
	num := conv.model.Var(c.Num)
	lb, ub := math.Inf(1), math.Inf(-1)
	for _, cand := range []float64{num.LB / den.LB, num.LB / den.UB, num.UB / den.LB, num.UB / den.UB} {
		lb = min(lb, cand)
		ub = max(ub, cand)
	}
	y := conv.AssignResult2Args(c, conv.Convert2Var(lb, ub, Continuous))
	AddConstraint(conv.Model(), "QuadConEQ", QuadConEQ{
		Expr: QuadExpr{
			Lin:     NewLinExpr().AddTerm(c.Num, -1),
			QVars1:  []VarIndex{y},
			QVars2:  []VarIndex{c.Den},
			QCoeffs: []float64{1},
		},
		RHS: 0,
	})
	return nil
}

// Convert redefines `y = Expr` as the single row `y - Expr == 0`. The alias case (Expr already a
// single unit-coefficient variable) is normally folded away entirely by preprocessEqResult
// (propagate.go) before RunConversion ever reaches this catalog; this repeats that check so the
// rule still degrades to a plain alias bind when the micro-pass is off.
func (c *LinearFunctionalConstraint) Convert(conv *Converter, idx int) error {
	if v, isAlias := c.Expr.singleVar(); isAlias {
		conv.AssignResult2Args(c, v)
		return nil
	}
	iv := linExprInterval(conv.model, c.Expr)
	y := conv.AssignResult2Args(c, conv.Convert2Var(iv.LB, iv.UB, Continuous))
	e := NewLinExpr().AddTerm(y, 1)
	for i, v := range c.Expr.Vars {
		e = e.AddTerm(v, -c.Expr.Coeffs[i])
	}
	AddConstraint(conv.Model(), "LinConEQ", LinConEQ{Expr: e, RHS: c.Expr.Const})
	return nil
}

// Convert redefines the quadratic-Expr counterpart of LinearFunctionalConstraint analogously.
func (c *QuadraticFunctionalConstraint) Convert(conv *Converter, idx int) error {
	iv := quadExprInterval(conv.model, c.Expr)
	y := conv.AssignResult2Args(c, conv.Convert2Var(iv.LB, iv.UB, Continuous))

	lin := NewLinExpr().AddTerm(y, 1)
	for i, v := range c.Expr.Lin.Vars {
		lin = lin.AddTerm(v, -c.Expr.Lin.Coeffs[i])
	}
	lin.Const = -c.Expr.Lin.Const

	qCoeffs := make([]float64, len(c.Expr.QCoeffs))
	for i, coeff := range c.Expr.QCoeffs {
		qCoeffs[i] = -coeff
	}
	AddConstraint(conv.Model(), "QuadConEQ", QuadConEQ{
		Expr: QuadExpr{Lin: lin, QVars1: c.Expr.QVars1, QVars2: c.Expr.QVars2, QCoeffs: qCoeffs},
		RHS:  0,
	})
	return nil
}

// Convert redefines the two-sided row `LB <= Expr <= UB` as two one-sided rows, the textbook
// splitting every LP format that lacks a native ranged-row notion requires.
func (c LinConRange) Convert(conv *Converter, idx int) error {
	AddConstraint(conv.Model(), "LinConLE", LinConLE{Expr: c.Expr, RHS: c.UB})
	AddConstraint(conv.Model(), "LinConGE", LinConGE{Expr: c.Expr, RHS: c.LB})
	return nil
}

// Convert redefines the quadratic two-sided row analogously to LinConRange.
func (c QuadConRange) Convert(conv *Converter, idx int) error {
	AddConstraint(conv.Model(), "QuadConLE", QuadConLE{Expr: c.Expr, RHS: c.UB})
	AddConstraint(conv.Model(), "QuadConGE", QuadConGE{Expr: c.Expr, RHS: c.LB})
	return nil
}
