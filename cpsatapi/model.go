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

// Package cpsatapi is a flatconv.ModelAPI/flatconv.Backend pair modeled on the constraint
// repertoire of ortools/sat/go/cpmodel.Builder: it declares every constraint type CP-SAT itself
// builds a native propagator for (AddLinearConstraint, AddAllDifferent, AddMinEquality/
// AddMaxEquality, AddAbsEquality, AddBoolAnd/Or, AddDivisionEquality, OnlyEnforceIf-style
// indicators, AddImplication as an IfThen) as Recommended, and rejects everything else so the
// redefinition catalog (flatconv/redefine_*.go) reduces it first.
//
// cp_model.go's actual solving is cgo into an internal, non-fetchable C++ library
// (cp_solver.go's SolveCpModelWithParameters), so unlike cpmodel.Builder, Backend.Solve here
// cannot hand the model to CP-SAT itself. Instead it builds an internal flatconv.FlatModel
// mirroring the Builder's accepted items, drives flatconv's own redefinition catalog a second time
// against a strictly-linear internal target, and solves the result with bnb — reusing flatconv's
// existing big-M/indicator encodings rather than duplicating them inside this package.
package cpsatapi

import fc "github.com/mipflat/flatconv/flatconv"

// Builder is the flatconv.ModelAPI CP-SAT-shaped callers build a model against. It stores every
// accepted constraint item verbatim (no linearization happens here); Backend.Solve performs the
// actual reduction to a linear program at solve time.
type Builder struct {
	model *fc.FlatModel

	numVars int
	items   map[string][]fc.Constraint

	objective    fc.LinExpr
	maximize     bool
	hasObjective bool

	// AlgRelax mirrors the "alg:relax" option (flatconv.Options.AlgRelax): when set, Solve drops
	// integrality off every column of the internal re-linearized model and solves the LP relaxation
	// only.
	AlgRelax bool
}

// NewBuilder returns a Builder over model. model's variables must already be present (added via
// model.AddVar) before NewBuilder is called, mirroring NewCpModelBuilder's expectation that
// NewIntVar/NewBoolVar precede any Add* call.
func NewBuilder(model *fc.FlatModel) *Builder {
	return &Builder{
		model: model,
		items: make(map[string][]fc.Constraint),
	}
}

// recommended lists the constraint type names this Builder accepts natively, grounded on
// cp_model.go's own Add* method set: AddLinearConstraint -> LinCon{LE,EQ,GE,Range},
// AddAllDifferent -> AllDiffConstraint, AddMaxEquality/AddMinEquality/AddAbsEquality -> Max/Min/
// Abs, AddBoolAnd/AddBoolOr/AddImplication -> And/Or/Not/IfThen, AddDivisionEquality -> Div,
// OnlyEnforceIf on a linear constraint -> IndicatorConstraintLin*/CondLinCon*. CP-SAT's other
// native constraints (AddNoOverlap, AddCircuitConstraint, AddAutomaton, AddCumulative,
// AddReservoirConstraint, AddElement) have no flatconv constraint type to bind to and are left
// unaccepted.
var recommended = map[string]bool{
	"LinConLE":    true,
	"LinConEQ":    true,
	"LinConGE":    true,
	"LinConRange": true,

	"AllDiffConstraint": true,

	"Max": true,
	"Min": true,
	"Abs": true,

	"And":    true,
	"Or":     true,
	"Not":    true,
	"IfThen": true,
	"Div":    true,

	"IndicatorConstraintLinLE": true,
	"IndicatorConstraintLinEQ": true,
	"IndicatorConstraintLinGE": true,

	"CondLinConEQ": true,
	"CondLinConLE": true,
	"CondLinConLT": true,
	"CondLinConGE": true,
	"CondLinConGT": true,
}
