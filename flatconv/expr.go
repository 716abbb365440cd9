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

import "sort"

// LinExpr is a linear expression `sum(Coeffs[i] * Vars[i]) + Const` over VarIndex terms. It is
// the argument/result shape shared by every algebraic and many functional constraint types,
// mirroring ortools/sat/go/cpmodel/cp_model.go's `LinearExpr`, adapted from proto
// int64 coefficients to float64, since flatconv targets LP/MIP/NLP solvers rather than CP-SAT's
// integer-only domain.
type LinExpr struct {
	Vars   []VarIndex
	Coeffs []float64
	Const  float64
}

// NewLinExpr returns an empty linear expression equal to the constant 0.
func NewLinExpr() LinExpr {
	return LinExpr{}
}

// AddTerm appends one coefficient*variable term and returns the receiver for chaining.
func (e LinExpr) AddTerm(v VarIndex, coeff float64) LinExpr {
	e.Vars = append(append([]VarIndex{}, e.Vars...), v)
	e.Coeffs = append(append([]float64{}, e.Coeffs...), coeff)
	return e
}

// singleVar reports whether the expression is exactly one variable with coefficient 1 and no
// constant, i.e. it can be used directly in place of a Variable reference.
func (e LinExpr) singleVar() (VarIndex, bool) {
	if len(e.Vars) == 1 && e.Coeffs[0] == 1 && e.Const == 0 {
		return e.Vars[0], true
	}
	return 0, false
}

// isConstant reports whether the expression has no variable terms.
func (e LinExpr) isConstant() (float64, bool) {
	if len(e.Vars) == 0 {
		return e.Const, true
	}
	return 0, false
}

// key produces a canonical, order-independent string for structural-equality dedup.
func (e LinExpr) key() string {
	type term struct {
		v VarIndex
		c float64
	}
	terms := make([]term, len(e.Vars))
	for i := range e.Vars {
		terms[i] = term{e.Vars[i], e.Coeffs[i]}
	}
	sort.Slice(terms, func(i, j int) bool { return terms[i].v < terms[j].v })
	s := ""
	for _, t := range terms {
		s += itoa(int(t.v)) + ":" + ftoa(t.c) + ";"
	}
	return s + "c=" + ftoa(e.Const)
}

// QuadExpr is a quadratic expression: a LinExpr plus a sum of pairwise products
// `sum(QCoeffs[k] * QVars1[k] * QVars2[k])`.
type QuadExpr struct {
	Lin     LinExpr
	QVars1  []VarIndex
	QVars2  []VarIndex
	QCoeffs []float64
}

func (e QuadExpr) key() string {
	type qterm struct {
		a, b VarIndex
		c    float64
	}
	terms := make([]qterm, len(e.QVars1))
	for i := range e.QVars1 {
		a, b := e.QVars1[i], e.QVars2[i]
		if a > b {
			a, b = b, a
		}
		terms[i] = qterm{a, b, e.QCoeffs[i]}
	}
	sort.Slice(terms, func(i, j int) bool {
		if terms[i].a != terms[j].a {
			return terms[i].a < terms[j].a
		}
		return terms[i].b < terms[j].b
	})
	s := e.Lin.key() + "|"
	for _, t := range terms {
		s += itoa(int(t.a)) + "*" + itoa(int(t.b)) + ":" + ftoa(t.c) + ";"
	}
	return s
}

// isQuadratic reports whether the expression has any quadratic terms at all.
func (e QuadExpr) isQuadratic() bool {
	return len(e.QVars1) > 0
}

// substitute returns a copy of e with every occurrence of old replaced by repl, used by the
// alias-folding micro-passes (propagate.go) to redirect a constraint off a variable that turned
// out to be a pure duplicate of another.
func (e LinExpr) substitute(old, repl VarIndex) LinExpr {
	out := e
	out.Vars = substituteVarSlice(e.Vars, old, repl)
	return out
}

func (e QuadExpr) substitute(old, repl VarIndex) QuadExpr {
	out := e
	out.Lin = e.Lin.substitute(old, repl)
	out.QVars1 = substituteVarSlice(e.QVars1, old, repl)
	out.QVars2 = substituteVarSlice(e.QVars2, old, repl)
	return out
}

// substituteVarSlice returns a copy of s with every occurrence of old replaced by repl.
func substituteVarSlice(s []VarIndex, old, repl VarIndex) []VarIndex {
	if len(s) == 0 {
		return s
	}
	out := append([]VarIndex{}, s...)
	for i, v := range out {
		if v == old {
			out[i] = repl
		}
	}
	return out
}
