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

package cpsatapi

import (
	"fmt"

	fc "github.com/mipflat/flatconv/flatconv"
)

// Accepts reports Recommended for every type name in the recommended set, NotAccepted otherwise
// (cp_model.go's Builder never reports AcceptedButNotRecommended for anything: a constraint is
// either one of its Add* shapes or it isn't).
func (b *Builder) Accepts(typeName string) fc.Acceptance {
	if recommended[typeName] {
		return fc.Recommended
	}
	return fc.NotAccepted
}

// AddVariables reserves n indices, mirroring NewIntVar/NewBoolVar's index-and-return-VarIndex
// pattern. Bounds/type live on the paired FlatModel, not here (modelapi.go's ModelAPI contract).
func (b *Builder) AddVariables(n int) fc.VarIndex {
	first := b.numVars
	b.numVars += n
	return fc.VarIndex(first)
}

// AddConstraint stores c under typeName for Backend.Solve to reduce later. Called only for
// typeName in the recommended set; RunConversion (flatconv/converter.go) never calls AddConstraint
// for a type this Builder reports NotAccepted for.
func (b *Builder) AddConstraint(typeName string, c fc.Constraint) error {
	if !recommended[typeName] {
		return fmt.Errorf("cpsatapi: constraint type %q not accepted", typeName)
	}
	b.items[typeName] = append(b.items[typeName], c)
	return nil
}

// SetObjective installs the single supported objective (index 0), mirroring Builder.Minimize/
// Maximize.
func (b *Builder) SetObjective(index int, expr fc.LinExpr, maximize bool) error {
	if index != 0 {
		return fc.ErrUnsupportedObjective
	}
	b.objective = expr
	b.maximize = maximize
	b.hasObjective = true
	return nil
}

// Infinity/MinusInfinity report flatconv's own sentinel (cp_model.go's Domain has no analogous
// continuous infinity convention of its own to map through; CP-SAT's domains are closed integer
// intervals, so there is nothing to adapt here beyond flatconv's own math.Inf convention).
func (b *Builder) Infinity() float64      { return fc.Inf }
func (b *Builder) MinusInfinity() float64 { return fc.NegInf }

// InitProblemModificationPhase/FinishProblemModificationPhase are no-ops: this Builder only
// accumulates items in memory, with no underlying solver session to open or close (unlike
// cp_solver.go's cgo SolveCpModel call, which this package never invokes).
func (b *Builder) InitProblemModificationPhase() error   { return nil }
func (b *Builder) FinishProblemModificationPhase() error { return nil }
