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

// Interval is a closed bound pair used for the forward bound-tightening pass below, modeled on the
// saturating-arithmetic style of ortools/sat/go/cpmodel/domain.go's ClosedInterval and Domain,
// adapted from CP-SAT's int64 domains to flatconv's float64 variable bounds.
type Interval struct {
	LB, UB float64
}

func (a Interval) add(b Interval) Interval {
	return Interval{a.LB + b.LB, a.UB + b.UB}
}

// scale multiplies the interval by a scalar, swapping endpoints for a negative factor.
func (a Interval) scale(f float64) Interval {
	if f >= 0 {
		return Interval{a.LB * f, a.UB * f}
	}
	return Interval{a.UB * f, a.LB * f}
}

func (a Interval) union(b Interval) Interval {
	return Interval{min(a.LB, b.LB), max(a.UB, b.UB)}
}

func (a Interval) abs() Interval {
	if a.LB >= 0 {
		return a
	}
	if a.UB <= 0 {
		return Interval{-a.UB, -a.LB}
	}
	return Interval{0, max(-a.LB, a.UB)}
}

func min(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func max(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func varInterval(m *FlatModel, v VarIndex) Interval {
	vv := m.Var(v)
	return Interval{vv.LB, vv.UB}
}

// linExprInterval computes the interval a linear expression's value can take given its variables'
// current bounds, via the same forward interval arithmetic boundsLinearFunctional applies to a
// LinearFunctionalConstraint's own result variable. Shared with the redefinition catalog
// (redefine_cond.go, redefine_arith.go) for big-M sizing.
func linExprInterval(m *FlatModel, e LinExpr) Interval {
	iv := Interval{e.Const, e.Const}
	for i, v := range e.Vars {
		iv = iv.add(varInterval(m, v).scale(e.Coeffs[i]))
	}
	return iv
}

// quadExprInterval conservatively bounds a quadratic expression by bounding each pairwise product
// term as the interval product of its two factors' own intervals, then summing with the linear
// part. This over-approximates (it does not account for correlation between the two factors when
// they are the same or related variables) but is always sound as a big-M source.
func quadExprInterval(m *FlatModel, e QuadExpr) Interval {
	iv := linExprInterval(m, e.Lin)
	for i := range e.QVars1 {
		a := varInterval(m, e.QVars1[i])
		b := varInterval(m, e.QVars2[i])
		iv = iv.add(intervalProduct(a, b).scale(e.QCoeffs[i]))
	}
	return iv
}

// intervalProduct returns the interval spanned by the product of every combination of endpoints of
// a and b, the standard conservative rule for multiplying two bounded ranges.
func intervalProduct(a, b Interval) Interval {
	candidates := [4]float64{a.LB * b.LB, a.LB * b.UB, a.UB * b.LB, a.UB * b.UB}
	lo, hi := candidates[0], candidates[0]
	for _, v := range candidates[1:] {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	return Interval{lo, hi}
}

// tightenVar intersects v's current bounds with iv, widening never narrows an already-tighter
// bound a caller supplied, and returns ErrInfeasibleDomain if the result is empty.
func tightenVar(m *FlatModel, v VarIndex, iv Interval) error {
	vv := m.Var(v)
	lb, ub := max(vv.LB, iv.LB), min(vv.UB, iv.UB)
	if lb > ub {
		return logErrorf("%w: var %d would become [%g, %g]", ErrInfeasibleDomain, v, lb, ub)
	}
	vv.LB, vv.UB = lb, ub
	m.SetVar(v, vv)
	return nil
}

// ComputeBoundsAndType runs one forward bound-propagation sweep over every functional constraint
// whose result bound can be derived purely from its arguments' current bounds (spec.md §4.3's
// bound-tightening engine). It is deliberately conservative: types whose bound cannot be expressed
// as simple interval arithmetic (Div, the elementary nonlinear family) are left to their own
// redefinition rule (redefine_arith.go, redefine_nonlinear.go); this pass does not bound their
// result variables.
func ComputeBoundsAndType(m *FlatModel) error {
	for _, k := range m.Keepers() {
		var err error
		switch kt := k.(type) {
		case *ConstraintKeeper[*LinearFunctionalConstraint]:
			err = boundsLinearFunctional(m, kt)
		case *ConstraintKeeper[*Max]:
			err = boundsMax(m, kt)
		case *ConstraintKeeper[*Min]:
			err = boundsMin(m, kt)
		case *ConstraintKeeper[*Abs]:
			err = boundsAbs(m, kt)
		case *ConstraintKeeper[*And]:
			err = boundsBoolean(m, kt.items01())
		case *ConstraintKeeper[*Or]:
			err = boundsBoolean(m, kt.items01())
		case *ConstraintKeeper[*Not]:
			err = boundsBoolean(m, kt.items01())
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func boundsLinearFunctional(m *FlatModel, k *ConstraintKeeper[*LinearFunctionalConstraint]) error {
	for i := 0; i < k.Len(); i++ {
		c := k.Get(i)
		v, ok := c.ResultVar()
		if !ok {
			continue
		}
		iv := Interval{c.Expr.Const, c.Expr.Const}
		for j, term := range c.Expr.Vars {
			iv = iv.add(varInterval(m, term).scale(c.Expr.Coeffs[j]))
		}
		if err := tightenVar(m, v, iv); err != nil {
			return err
		}
	}
	return nil
}

func boundsMax(m *FlatModel, k *ConstraintKeeper[*Max]) error {
	for i := 0; i < k.Len(); i++ {
		c := k.Get(i)
		v, ok := c.ResultVar()
		if !ok || len(c.Of) == 0 {
			continue
		}
		iv := varInterval(m, c.Of[0])
		for _, arg := range c.Of[1:] {
			lo := max(iv.LB, varInterval(m, arg).LB)
			hi := max(iv.UB, varInterval(m, arg).UB)
			iv = Interval{lo, hi}
		}
		if err := tightenVar(m, v, iv); err != nil {
			return err
		}
	}
	return nil
}

func boundsMin(m *FlatModel, k *ConstraintKeeper[*Min]) error {
	for i := 0; i < k.Len(); i++ {
		c := k.Get(i)
		v, ok := c.ResultVar()
		if !ok || len(c.Of) == 0 {
			continue
		}
		iv := varInterval(m, c.Of[0])
		for _, arg := range c.Of[1:] {
			lo := min(iv.LB, varInterval(m, arg).LB)
			hi := min(iv.UB, varInterval(m, arg).UB)
			iv = Interval{lo, hi}
		}
		if err := tightenVar(m, v, iv); err != nil {
			return err
		}
	}
	return nil
}

func boundsAbs(m *FlatModel, k *ConstraintKeeper[*Abs]) error {
	for i := 0; i < k.Len(); i++ {
		c := k.Get(i)
		v, ok := c.ResultVar()
		if !ok {
			continue
		}
		if err := tightenVar(m, v, varInterval(m, c.X).abs()); err != nil {
			return err
		}
	}
	return nil
}

// boundsBoolean clamps every listed result variable into [0, 1]; used for the logical family whose
// result is always a 0/1 indicator regardless of its arguments' own bounds.
func boundsBoolean(m *FlatModel, resultVars []VarIndex) error {
	for _, v := range resultVars {
		if err := tightenVar(m, v, Interval{0, 1}); err != nil {
			return err
		}
	}
	return nil
}

// items01 collects the result variables of every stored item that has one, used by the boolean
// logical types whose bound is a constant [0,1] regardless of argument values.
func (k *ConstraintKeeper[C]) items01() []VarIndex {
	var out []VarIndex
	for i := 0; i < k.Len(); i++ {
		if rh, ok := any(k.items[i]).(resultHolder); ok {
			if v, has := rh.ResultVar(); has {
				out = append(out, v)
			}
		}
	}
	return out
}
