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

// redefine_count.go covers Count, NumberofConst, NumberofVar, and AllDiff (spec.md §4.5
// "Counting", "AllDifferent").

// Convert redefines `y = count of true values among Of` as the linear identity
// `y == sum(Of)`, valid because each element of Of is itself constrained to 0/1.
func (c *Count) Convert(conv *Converter, idx int) error {
	expr := NewLinExpr()
	for _, v := range c.Of {
		expr = expr.AddTerm(v, 1)
	}
	y := conv.AssignResult2Args(c, conv.Convert2Var(0, float64(len(c.Of)), Integer))
	AddConstraint(conv.Model(), "LinConEQ", LinConEQ{Expr: expr.AddTerm(y, -1), RHS: 0})
	return nil
}

// Convert redefines `y = count of i such that Of[i] == Value` by reifying one CondLinCon per
// element and summing the reified booleans.
func (c *NumberofConst) Convert(conv *Converter, idx int) error {
	sum := NewLinExpr()
	for _, v := range c.Of {
		cond := &CondLinCon{Expr: NewLinExpr().AddTerm(v, 1), RHS: c.Value, Op: CmpEQ}
		AddConstraint(conv.Model(), "CondLinConEQ", cond)
		b, _ := cond.ResultVar()
		if !hasValidResultVar(cond) {
			b = conv.Convert2Var(0, 1, Integer)
			cond.SetResultVar(b)
		}
		sum = sum.AddTerm(b, 1)
	}
	y := conv.AssignResult2Args(c, conv.Convert2Var(0, float64(len(c.Of)), Integer))
	AddConstraint(conv.Model(), "LinConEQ", LinConEQ{Expr: sum.AddTerm(y, -1), RHS: 0})
	return nil
}

// hasValidResultVar reports whether a functional constraint already carries a result variable;
// needed here because CondLinCon's own Convert (redefine_cond.go) lazily allocates one for itself
// the first time it runs, and NumberofConst/NumberofVar need to read that same variable back
// immediately after registering the constraint rather than waiting for RunConversion's later pass.
func hasValidResultVar(rh resultHolder) bool {
	_, ok := rh.ResultVar()
	return ok
}

// Convert redefines `y = count of i such that Of[i] == Target` symmetrically to NumberofConst,
// reifying `Of[i] - Target == 0` per element.
func (c *NumberofVar) Convert(conv *Converter, idx int) error {
	sum := NewLinExpr()
	for _, v := range c.Of {
		cond := &CondLinCon{Expr: NewLinExpr().AddTerm(v, 1).AddTerm(c.Target, -1), RHS: 0, Op: CmpEQ}
		AddConstraint(conv.Model(), "CondLinConEQ", cond)
		if !hasValidResultVar(cond) {
			cond.SetResultVar(conv.Convert2Var(0, 1, Integer))
		}
		b, _ := cond.ResultVar()
		sum = sum.AddTerm(b, 1)
	}
	y := conv.AssignResult2Args(c, conv.Convert2Var(0, float64(len(c.Of)), Integer))
	AddConstraint(conv.Model(), "LinConEQ", LinConEQ{Expr: sum.AddTerm(y, -1), RHS: 0})
	return nil
}

// Convert redefines pairwise-distinctness over Vars as one big-M disjunction per pair: for i < j,
// a selector binary z picks which of Vars[i] < Vars[j] or Vars[i] > Vars[j] holds, each enforced
// with a strict-inequality epsilon gap exactly as CondLinCon's LT/GT branches use.
func (c AllDiff) Convert(conv *Converter, idx int) error {
	for i := 0; i < len(c.Vars); i++ {
		for j := i + 1; j < len(c.Vars); j++ {
			vi, vj := c.Vars[i], c.Vars[j]
			mi, err := bigMFor(conv, vi)
			if err != nil {
				return err
			}
			mj, err := bigMFor(conv, vj)
			if err != nil {
				return err
			}
			m := mi + mj
			z := conv.Convert2Var(0, 1, Integer)
			// vi - vj <= -eps + M*z   (z=0 branch: vi < vj)
			AddConstraint(conv.Model(), "LinConLE", LinConLE{
				Expr: NewLinExpr().AddTerm(vi, 1).AddTerm(vj, -1).AddTerm(z, -m),
				RHS:  -condEpsilon,
			})
			// vj - vi <= -eps + M*(1-z)   (z=1 branch: vi > vj)
			AddConstraint(conv.Model(), "LinConLE", LinConLE{
				Expr: NewLinExpr().AddTerm(vj, 1).AddTerm(vi, -1).AddTerm(z, m),
				RHS:  m - condEpsilon,
			})
		}
	}
	return nil
}
