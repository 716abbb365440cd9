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

// Acceptance reports how a ModelAPI is prepared to receive one constraint type (spec.md §2
// "ModelAPI"). The zero value is NotAccepted so a ModelAPI only needs to special-case the types it
// actually wants.
type Acceptance int

const (
	NotAccepted Acceptance = iota
	AcceptedButNotRecommended
	Recommended
)

// ModelAPI is the interface a concrete solver frontend implements so FlatConverter can drive it
// without knowing the solver's native model representation (spec.md §2, modeled on the
// Builder-style surface of ortools/sat/go/cpmodel.Builder: a small set of Add*/Set* entry points
// plus a declarative Accepts query FlatConverter consults before emitting anything).
type ModelAPI interface {
	// Accepts reports how the target is prepared to receive a constraint of the named type. A
	// result of NotAccepted sends the constraint through the redefinition catalog instead.
	Accepts(typeName string) Acceptance

	// AddVariables reserves n new decision variables and returns the index of the first one;
	// subsequent indices are contiguous. Each variable's bounds/type are held by the FlatModel
	// (AddVar/SetVar), not passed through this call.
	AddVariables(n int) VarIndex

	// AddConstraint hands one constraint of a natively-accepted type to the target. c's dynamic
	// type matches exactly one of the types typeName names; the ModelAPI is expected to type-
	// switch on it.
	AddConstraint(typeName string, c Constraint) error

	// SetObjective installs a linear objective for the given index (only index 0 is supported;
	// see ErrUnsupportedObjective). maximize selects the optimization sense.
	SetObjective(index int, expr LinExpr, maximize bool) error

	// Infinity and MinusInfinity report the sentinel values the target uses in place of unbounded
	// variable/row bounds; these need not be math.Inf if the target has its own convention (e.g.
	// HiGHS uses +/-1e30). The converter itself does not call them; bounds and rows reach the
	// target carrying flatconv's own Inf/NegInf.
	Infinity() float64
	MinusInfinity() float64

	// InitProblemModificationPhase and FinishProblemModificationPhase bracket a batch of
	// AddVariables/AddConstraint/SetObjective calls, mirroring cpmodel.Builder's own
	// InitModificationPhase/FinishModificationPhase hooks used before/after a solve.
	InitProblemModificationPhase() error
	FinishProblemModificationPhase() error
}

// NeedsConversionAPI is an optional extension to ModelAPI (spec.md §11, supplemented from
// original_source/solver.h's IfNeedsConversion hook): a ModelAPI that wants to force conversion of
// a constraint it would otherwise accept natively (e.g. to canonicalize before a warm start)
// implements this and returns true for that (typeName, c) pair. A ModelAPI that does not implement
// it is treated as always returning false.
type NeedsConversionAPI interface {
	NeedsConversion(typeName string, c Constraint) bool
}

// needsConversion consults the optional NeedsConversionAPI hook, defaulting to false.
func needsConversion(api ModelAPI, typeName string, c Constraint) bool {
	if nc, ok := api.(NeedsConversionAPI); ok {
		return nc.NeedsConversion(typeName, c)
	}
	return false
}
