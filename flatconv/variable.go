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

// VarIndex identifies a variable within a FlatModel. Variables are never reordered or removed, so
// a VarIndex remains valid for the model's whole lifetime (spec.md §3 "Lifecycle").
type VarIndex int

// VarType distinguishes continuous and integer (including binary, which is integer with bounds
// [0,1]) variables.
type VarType int

const (
	Continuous VarType = iota
	Integer
)

// Inf / -Inf stand in for the extended reals used for variable bounds, matching the sign of
// math.Inf so arithmetic with them saturates the way spec.md's interval arithmetic expects.
var (
	Inf    = math.Inf(1)
	NegInf = math.Inf(-1)
)

// initExprRef identifies the functional constraint that defines a variable's value: the
// constraint at index Index in the keeper named Keeper. At most one per variable (spec.md §3).
type initExprRef struct {
	Keeper string
	Index  int
	valid  bool
}

// Variable is one decision variable of the FlatModel.
type Variable struct {
	LB, UB float64
	Type   VarType
	// initExpr is set when this variable is the result-variable of a functional constraint
	// `y = f(args)`; set by AddConstraint (model_add.go) when such a constraint is added.
	initExpr initExprRef
}

// HasInitExpr reports whether this variable was allocated as the result of a functional
// constraint, and if so returns the keeper name and index of that constraint.
func (v Variable) HasInitExpr() (keeper string, index int, ok bool) {
	if !v.initExpr.valid {
		return "", 0, false
	}
	return v.initExpr.Keeper, v.initExpr.Index, true
}

// validDomain reports whether LB <= UB; spec.md §3 "violation raises infeasible-domain".
func (v Variable) validDomain() bool {
	return v.LB <= v.UB
}

// IsFixed reports whether the variable's bounds pin it to a single value.
func (v Variable) IsFixed() bool {
	return v.LB == v.UB
}

// Context annotates a logical constraint with how its truth value is actually used by the rest of
// the model: never used (None), required to hold (Positive), required to not hold (Negative), or
// used in both senses / unknown (Mixed). Context forms a lattice (spec.md §4.4):
//
//	None < Positive, Negative < Mixed
//
// merges take the least upper bound, and once Mixed a context can never narrow back down.
type Context int

const (
	CtxNone Context = iota
	CtxPositive
	CtxNegative
	CtxMixed
)

// MergeContext returns the least-upper-bound of a and b in the context lattice. It is idempotent
// (MergeContext(c, c) == c) and absorbing at Mixed (MergeContext(c, CtxMixed) == CtxMixed), per
// spec.md §8 invariant 6.
func MergeContext(a, b Context) Context {
	if a == b {
		return a
	}
	if a == CtxNone {
		return b
	}
	if b == CtxNone {
		return a
	}
	// a != b, neither is None: {Positive,Negative} mixed, or either is already Mixed.
	return CtxMixed
}

// Flip returns the context seen through a logical negation: Positive <-> Negative, None and Mixed
// unchanged.
func (c Context) Flip() Context {
	switch c {
	case CtxPositive:
		return CtxNegative
	case CtxNegative:
		return CtxPositive
	default:
		return c
	}
}

func (c Context) String() string {
	switch c {
	case CtxNone:
		return "none"
	case CtxPositive:
		return "positive"
	case CtxNegative:
		return "negative"
	case CtxMixed:
		return "mixed"
	default:
		return "invalid"
	}
}
