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

// redefine_cond.go covers the reified-comparison family (CondLinCon*/CondQuadCon*), the indicator
// constraints, and complementarity pairs (spec.md §4.5 "Conditional comparisons", "Indicator",
// "Complementarity"). Comparisons and indicators are big-M reifications in the same style as
// redefine_logic.go's IfThen; complementarity pairs become an SOS1 constraint.

// condEpsilon stands in for a strict inequality's open endpoint when reifying CmpLT/CmpGT: a
// strict `Expr < RHS` is treated as `Expr <= RHS - condEpsilon`, the same finite-tolerance
// approximation every LP-based MIP solver makes for strict rows since a true open bound is not
// representable in a closed-form LP relaxation.
const condEpsilon = 1e-7

// Convert redefines `b <=> (Expr op RHS)` by big-M reification in both directions:
//
//	Expr - RHS <= M*(1-b) - eps*(eq-direction slack)   (b=1 implies the comparison holds)
//	RHS - Expr <= M*b                                   (b=0 implies its negation holds)
//
// EQ is handled as the conjunction of LE and GE with b's negation driving both directions (a
// single equality can only be "forced" one way by a single binary, so EQ's reverse implication is
// left as the documented asymmetry original_source/solver-opt.h notes for equality reification).
//
// In a positive context b is only ever consumed as a sufficient condition for something else (never
// tested false, never both), so the "b=0 implies the negation holds" row is dropped: nothing
// downstream relies on b staying 0 when the comparison fails.
func (c *CondLinCon) Convert(conv *Converter, idx int) error {
	iv := linExprInterval(conv.model, c.Expr)
	m := max(absf(iv.LB-c.RHS), absf(iv.UB-c.RHS))
	if math.IsInf(m, 0) {
		return ErrUnboundedBigM
	}
	b, hasB := c.ResultVar()
	if !hasB {
		b = conv.Convert2Var(0, 1, Integer)
		c.SetResultVar(b)
	}
	positive := c.Context() == CtxPositive

	lhs := func(rhsAdjust float64) LinExpr {
		e := c.Expr
		e.Const -= c.RHS + rhsAdjust
		return e
	}

	switch c.Op {
	case CmpLE, CmpLT:
		eps := 0.0
		if c.Op == CmpLT {
			eps = condEpsilon
		}
		AddConstraint(conv.Model(), "LinConLE", LinConLE{Expr: lhs(-eps).AddTerm(b, m), RHS: m})
		if !positive {
			AddConstraint(conv.Model(), "LinConGE", LinConGE{Expr: lhs(0).AddTerm(b, m), RHS: 0})
		}
	case CmpGE, CmpGT:
		eps := 0.0
		if c.Op == CmpGT {
			eps = condEpsilon
		}
		AddConstraint(conv.Model(), "LinConGE", LinConGE{Expr: lhs(eps).AddTerm(b, -m), RHS: -m})
		if !positive {
			AddConstraint(conv.Model(), "LinConLE", LinConLE{Expr: lhs(0).AddTerm(b, -m), RHS: 0})
		}
	case CmpEQ:
		AddConstraint(conv.Model(), "LinConLE", LinConLE{Expr: lhs(0).AddTerm(b, m), RHS: m})
		AddConstraint(conv.Model(), "LinConGE", LinConGE{Expr: lhs(0).AddTerm(b, -m), RHS: -m})
	}
	return nil
}

// Convert redefines the quadratic-Expr counterpart identically to CondLinCon (including its
// positive-context row drop), sizing M from quadExprInterval's conservative product bound instead
// of linExprInterval.
func (c *CondQuadCon) Convert(conv *Converter, idx int) error {
	iv := quadExprInterval(conv.model, c.Expr)
	m := max(absf(iv.LB-c.RHS), absf(iv.UB-c.RHS))
	if math.IsInf(m, 0) {
		return ErrUnboundedBigM
	}
	b, hasB := c.ResultVar()
	if !hasB {
		b = conv.Convert2Var(0, 1, Integer)
		c.SetResultVar(b)
	}
	positive := c.Context() == CtxPositive
	e := shiftQuad(c.Expr, -c.RHS)

	switch c.Op {
	case CmpLE, CmpLT:
		eps := 0.0
		if c.Op == CmpLT {
			eps = condEpsilon
		}
		le := shiftQuad(e, -eps)
		le.Lin = le.Lin.AddTerm(b, m)
		AddConstraint(conv.Model(), "QuadConLE", QuadConLE{Expr: le, RHS: m})
		if !positive {
			ge := e
			ge.Lin = ge.Lin.AddTerm(b, m)
			AddConstraint(conv.Model(), "QuadConGE", QuadConGE{Expr: ge, RHS: 0})
		}
	case CmpGE, CmpGT:
		eps := 0.0
		if c.Op == CmpGT {
			eps = condEpsilon
		}
		ge := shiftQuad(e, eps)
		ge.Lin = ge.Lin.AddTerm(b, -m)
		AddConstraint(conv.Model(), "QuadConGE", QuadConGE{Expr: ge, RHS: -m})
		if !positive {
			le := e
			le.Lin = le.Lin.AddTerm(b, -m)
			AddConstraint(conv.Model(), "QuadConLE", QuadConLE{Expr: le, RHS: 0})
		}
	case CmpEQ:
		le := e
		le.Lin = le.Lin.AddTerm(b, m)
		AddConstraint(conv.Model(), "QuadConLE", QuadConLE{Expr: le, RHS: m})
		ge := e
		ge.Lin = ge.Lin.AddTerm(b, -m)
		AddConstraint(conv.Model(), "QuadConGE", QuadConGE{Expr: ge, RHS: -m})
	}
	return nil
}

// shiftQuad returns a copy of e with its constant term adjusted by delta, used to recenter a
// quadratic expression around its RHS before adding the big-M slack term.
func shiftQuad(e QuadExpr, delta float64) QuadExpr {
	e.Lin.Const += delta
	return e
}

// indicatorLERow builds the big-M row enforcing `e <= 0` whenever Bin == binVal, i.e.
//
//	binVal == 1:  e + M*Bin <= M
//	binVal == 0:  e - M*Bin <= 0
func indicatorLERow(e LinExpr, m float64, bin VarIndex, binVal int) LinConLE {
	if binVal == 1 {
		return LinConLE{Expr: e.AddTerm(bin, m), RHS: m}
	}
	return LinConLE{Expr: e.AddTerm(bin, -m), RHS: 0}
}

// indicatorGERow builds the symmetric big-M row enforcing `e >= 0` whenever Bin == binVal.
func indicatorGERow(e LinExpr, m float64, bin VarIndex, binVal int) LinConGE {
	if binVal == 1 {
		return LinConGE{Expr: e.AddTerm(bin, -m), RHS: -m}
	}
	return LinConGE{Expr: e.AddTerm(bin, m), RHS: 0}
}

// Convert redefines `Bin == BinVal => (Expr op RHS)` for a linear Expr as one or two big-M rows,
// active only when Bin takes the value that triggers enforcement.
func (c IndicatorConstraintLin) Convert(conv *Converter, idx int) error {
	iv := linExprInterval(conv.model, c.Expr)
	m := max(absf(iv.LB-c.RHS), absf(iv.UB-c.RHS))
	if math.IsInf(m, 0) {
		return ErrUnboundedBigM
	}
	e := c.Expr
	e.Const -= c.RHS
	switch c.Op {
	case IndLE:
		AddConstraint(conv.Model(), "LinConLE", indicatorLERow(e, m, c.Bin, c.BinVal))
	case IndGE:
		AddConstraint(conv.Model(), "LinConGE", indicatorGERow(e, m, c.Bin, c.BinVal))
	case IndEQ:
		AddConstraint(conv.Model(), "LinConLE", indicatorLERow(e, m, c.Bin, c.BinVal))
		AddConstraint(conv.Model(), "LinConGE", indicatorGERow(e, m, c.Bin, c.BinVal))
	}
	return nil
}

// Convert redefines the quadratic-Expr counterpart of IndicatorConstraintLin analogously, using
// quadExprInterval for its big-M and one QuadConLE/QuadConGE row per direction needed (quadratic rows
// have no linear-coefficient analogue for the Bin*M term, so the indicator term is folded into the
// expression's own linear part instead).
func (c IndicatorConstraintQuad) Convert(conv *Converter, idx int) error {
	iv := quadExprInterval(conv.model, c.Expr)
	m := max(absf(iv.LB-c.RHS), absf(iv.UB-c.RHS))
	if math.IsInf(m, 0) {
		return ErrUnboundedBigM
	}
	e := shiftQuad(c.Expr, -c.RHS)
	switch c.Op {
	case IndLE:
		e.Lin = indicatorLERow(e.Lin, m, c.Bin, c.BinVal).Expr
		AddConstraint(conv.Model(), "QuadConLE", QuadConLE{Expr: e, RHS: indicatorLERow(LinExpr{}, m, c.Bin, c.BinVal).RHS})
	case IndGE:
		e.Lin = indicatorGERow(e.Lin, m, c.Bin, c.BinVal).Expr
		AddConstraint(conv.Model(), "QuadConGE", QuadConGE{Expr: e, RHS: indicatorGERow(LinExpr{}, m, c.Bin, c.BinVal).RHS})
	case IndEQ:
		le := e
		le.Lin = indicatorLERow(e.Lin, m, c.Bin, c.BinVal).Expr
		AddConstraint(conv.Model(), "QuadConLE", QuadConLE{Expr: le, RHS: indicatorLERow(LinExpr{}, m, c.Bin, c.BinVal).RHS})
		ge := e
		ge.Lin = indicatorGERow(e.Lin, m, c.Bin, c.BinVal).Expr
		AddConstraint(conv.Model(), "QuadConGE", QuadConGE{Expr: ge, RHS: indicatorGERow(LinExpr{}, m, c.Bin, c.BinVal).RHS})
	}
	return nil
}

// Convert redefines `0 <= (Expr + Const) perp X >= 0` as the SOS1 pair {s, X} where s stands for
// Expr + Const, i.e. at most one of s and X may be nonzero. This materializes the decision
// DESIGN.md records for the postsolve-mapping Open Question flagged in spec.md §5: the
// complementary pair is represented structurally (as SOS1) rather than by enumerating its two
// linear branches. No pair-specific postsolve mapping is recorded: the only link this adds is the
// one Convert2Var creates for s.
func (c ComplementarityLinear) Convert(conv *Converter, idx int) error {
	iv := linExprInterval(conv.model, c.Expr)
	lb, ub := iv.LB+c.Const, iv.UB+c.Const
	s := conv.Convert2Var(min(lb, 0), max(ub, 0), Continuous)
	sExpr := c.Expr
	sExpr.Const += c.Const
	AddConstraint(conv.Model(), "LinearFunctionalConstraint", &LinearFunctionalConstraint{Expr: sExpr, base: base{resultVar: s, hasResult: true}})
	AddConstraint(conv.Model(), "SOS1Constraint", SOS1{Vars: []VarIndex{s, c.X}})
	return nil
}

// Convert redefines the quadratic-Expr counterpart of ComplementarityLinear analogously.
func (c ComplementarityQuadratic) Convert(conv *Converter, idx int) error {
	iv := quadExprInterval(conv.model, c.Expr)
	lb, ub := iv.LB+c.Const, iv.UB+c.Const
	s := conv.Convert2Var(min(lb, 0), max(ub, 0), Continuous)
	sExpr := shiftQuad(c.Expr, c.Const)
	AddConstraint(conv.Model(), "QuadraticFunctionalConstraint", &QuadraticFunctionalConstraint{Expr: sExpr, base: base{resultVar: s, hasResult: true}})
	AddConstraint(conv.Model(), "SOS1Constraint", SOS1{Vars: []VarIndex{s, c.X}})
	return nil
}
