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

import (
	"math"
	"sort"
)

// redefine_nonlinear.go covers the elementary nonlinear family (spec.md §4.5 "Elementary
// nonlinear"), piecewise-linear, and SOS1/SOS2: each elementary function is first approximated by
// a PLConstraint via adaptive sampling, then PLConstraint and SOS2 reduce further down to plain
// MIP rows. The adaptive-sampling bisection is grounded on the interval-bisection style of
// gitrdm-gokando's pkg/minikanren/interval_arithmetic.go, adapted from that package's constraint-
// propagation use to function approximation.

// adaptiveSample returns a sorted list of breakpoints over [lb, ub] such that linear interpolation
// between consecutive breakpoints approximates f to within tol, refining by bisecting every
// segment whose midpoint error exceeds tol in first-in-first-out (breadth-first) order, until
// either the error tolerance is met everywhere or maxPoints breakpoints have been placed.
func adaptiveSample(f func(float64) float64, lb, ub, tol float64, maxPoints int) []float64 {
	if lb == ub {
		return []float64{lb}
	}
	type segment struct{ a, b float64 }
	points := map[float64]bool{lb: true, ub: true}
	queue := []segment{{lb, ub}}
	for len(queue) > 0 && len(points) < maxPoints {
		s := queue[0]
		queue = queue[1:]
		mid := s.a + (s.b-s.a)/2
		linear := f(s.a) + (f(s.b)-f(s.a))*(mid-s.a)/(s.b-s.a)
		if absf(f(mid)-linear) > tol {
			points[mid] = true
			queue = append(queue, segment{s.a, mid}, segment{mid, s.b})
		}
	}
	out := make([]float64, 0, len(points))
	for p := range points {
		out = append(out, p)
	}
	sort.Float64s(out)
	return out
}

// rangeOf returns the min/max of f over the given breakpoints, used to bound the PLConstraint's
// own result variable.
func rangeOf(bps []float64, f func(float64) float64) (float64, float64) {
	lo, hi := f(bps[0]), f(bps[0])
	for _, b := range bps[1:] {
		v := f(b)
		lo, hi = min(lo, v), max(hi, v)
	}
	return lo, hi
}

// convertElementary is the shared redefinition for every elementary nonlinear type: sample f
// adaptively over X's current domain and emit a PLConstraint sharing the same result variable, so
// PLConstraint's own Convert (below) takes over the rest of the reformulation in a later
// conversion round.
func convertElementary(conv *Converter, rh resultHolder, x VarIndex, f func(float64) float64) error {
	xv := conv.model.Var(x)
	bps := adaptiveSample(f, xv.LB, xv.UB, 1e-4, 24)

	if len(bps) == 1 {
		conv.AssignResult2Args(rh, conv.Convert2Var(f(bps[0]), f(bps[0]), Continuous))
		return nil
	}

	slopes := make([]float64, len(bps)+1)
	for i := 1; i < len(bps); i++ {
		slopes[i] = (f(bps[i]) - f(bps[i-1])) / (bps[i] - bps[i-1])
	}
	lo, hi := rangeOf(bps, f)
	y := conv.AssignResult2Args(rh, conv.Convert2Var(lo, hi, Continuous))

	pl := &PLConstraint{X: x, Breakpoints: bps, Slopes: slopes, Value0: f(bps[0])}
	pl.SetResultVar(y)
	AddConstraint(conv.Model(), "PLConstraint", pl)
	return nil
}

func (c *Exp) Convert(conv *Converter, idx int) error  { return convertElementary(conv, c, c.X, math.Exp) }
func (c *Log) Convert(conv *Converter, idx int) error  { return convertElementary(conv, c, c.X, math.Log) }
func (c *Sin) Convert(conv *Converter, idx int) error  { return convertElementary(conv, c, c.X, math.Sin) }
func (c *Cos) Convert(conv *Converter, idx int) error  { return convertElementary(conv, c, c.X, math.Cos) }
func (c *Tan) Convert(conv *Converter, idx int) error  { return convertElementary(conv, c, c.X, math.Tan) }

func (c *ExpA) Convert(conv *Converter, idx int) error {
	b := c.Base
	return convertElementary(conv, c, c.X, func(x float64) float64 { return math.Pow(b, x) })
}

func (c *LogA) Convert(conv *Converter, idx int) error {
	b := c.Base
	logB := math.Log(b)
	return convertElementary(conv, c, c.X, func(x float64) float64 { return math.Log(x) / logB })
}

func (c *Pow) Convert(conv *Converter, idx int) error {
	e := c.Exponent
	return convertElementary(conv, c, c.X, func(x float64) float64 { return math.Pow(x, e) })
}

// Convert redefines `y = pl(X)` as the convex-combination ("lambda") formulation: one weight
// variable per breakpoint, X and y recovered as the weighted combination of breakpoints/values,
// weights summing to 1, and an SOS2 constraint over the weights so only two adjacent breakpoints
// may be active at once.
func (c *PLConstraint) Convert(conv *Converter, idx int) error {
	n := len(c.Breakpoints)
	if n == 1 {
		conv.AssignResult2Args(c, conv.Convert2Var(c.Value0, c.Value0, Continuous))
		return nil
	}

	lambdas := make([]VarIndex, n)
	sumX := NewLinExpr()
	sumY := NewLinExpr()
	sumLambda := NewLinExpr()
	lo, hi := c.valueAt(0), c.valueAt(0)
	for i := 0; i < n; i++ {
		lambdas[i] = conv.Convert2Var(0, 1, Continuous)
		sumX = sumX.AddTerm(lambdas[i], c.Breakpoints[i])
		v := c.valueAt(i)
		sumY = sumY.AddTerm(lambdas[i], v)
		sumLambda = sumLambda.AddTerm(lambdas[i], 1)
		lo, hi = min(lo, v), max(hi, v)
	}
	y := conv.AssignResult2Args(c, conv.Convert2Var(lo, hi, Continuous))

	AddConstraint(conv.Model(), "LinConEQ", LinConEQ{Expr: sumLambda, RHS: 1})
	AddConstraint(conv.Model(), "LinConEQ", LinConEQ{Expr: sumX.AddTerm(c.X, -1), RHS: 0})
	AddConstraint(conv.Model(), "LinConEQ", LinConEQ{Expr: sumY.AddTerm(y, -1), RHS: 0})
	AddConstraint(conv.Model(), "SOS2Constraint", SOS2{Vars: lambdas, Weights: append([]float64{}, c.Breakpoints...)})
	return nil
}

// Convert redefines SOS1 (at most one nonzero) as one binary selector per variable plus the
// standard big-M bracketing rows, the textbook MIP encoding for a special-ordered set of type 1.
func (c SOS1) Convert(conv *Converter, idx int) error {
	zs := make([]VarIndex, len(c.Vars))
	sumZ := NewLinExpr()
	for i, v := range c.Vars {
		m, err := bigMFor(conv, v)
		if err != nil {
			return err
		}
		zs[i] = conv.Convert2Var(0, 1, Integer)
		sumZ = sumZ.AddTerm(zs[i], 1)
		AddConstraint(conv.Model(), "LinConLE", LinConLE{Expr: NewLinExpr().AddTerm(v, 1).AddTerm(zs[i], -m), RHS: 0})
		AddConstraint(conv.Model(), "LinConGE", LinConGE{Expr: NewLinExpr().AddTerm(v, 1).AddTerm(zs[i], m), RHS: 0})
	}
	AddConstraint(conv.Model(), "LinConLE", LinConLE{Expr: sumZ, RHS: 1})
	return nil
}

// Convert redefines SOS2 (at most two nonzero, and consecutive) as one binary per adjacent pair of
// variables selecting which pair may be jointly nonzero, the standard MIP encoding for a
// special-ordered set of type 2.
func (c SOS2) Convert(conv *Converter, idx int) error {
	n := len(c.Vars)
	if n <= 2 {
		return nil
	}
	zs := make([]VarIndex, n-1)
	sumZ := NewLinExpr()
	for k := range zs {
		zs[k] = conv.Convert2Var(0, 1, Integer)
		sumZ = sumZ.AddTerm(zs[k], 1)
	}
	AddConstraint(conv.Model(), "LinConEQ", LinConEQ{Expr: sumZ, RHS: 1})
	for i := 0; i < n; i++ {
		e := NewLinExpr().AddTerm(c.Vars[i], 1)
		if i > 0 {
			e = e.AddTerm(zs[i-1], -1)
		}
		if i < n-1 {
			e = e.AddTerm(zs[i], -1)
		}
		AddConstraint(conv.Model(), "LinConLE", LinConLE{Expr: e, RHS: 0})
	}
	return nil
}
