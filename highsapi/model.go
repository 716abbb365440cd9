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

// Package highsapi is a flatconv.ModelAPI/flatconv.Backend pair modeled on bartolsthoorn-gohighs's
// Model/Solution shapes: a row is `RowLower <= Expr <= RowUpper` exactly as gohighs's
// AddDenseRow/AddEqRow/AddLeRow/AddGeRow express it, and a column carries ColLower/ColUpper plus a
// VariableType.
//
// gohighs itself solves by embedding prebuilt HiGHS static libraries behind cgo
// (bartolsthoorn-gohighs__cgo.go's //go:build cgo-and-platform-gated Solver), which is not a
// fetchable pure-Go dependency, so Backend.Solve here delegates the actual search to bnb instead.
// Unlike cpsatapi, this package's accepted type set (LinCon{LE,EQ,GE,Range}) is already the
// terminal linear form bnb needs, so there is no internal re-conversion step: AddConstraint
// accumulates rows directly and Solve builds the matrices from them.
package highsapi

import fc "github.com/mipflat/flatconv/flatconv"

// linearRow mirrors one gohighs row: RowLower <= Expr <= RowUpper (RowLower == RowUpper encodes an
// equality, as AddEqRow does; one side at +/-Inf encodes a one-sided Le/Ge row).
type linearRow struct {
	expr         fc.LinExpr
	lower, upper float64
}

// Builder is the flatconv.ModelAPI gohighs-shaped callers build a model against, and also the
// flatconv.Backend that solves it (bartolsthoorn-gohighs's Model plays both roles too: Model.Solve
// is a method on the same struct the constraints were added to).
type Builder struct {
	model *fc.FlatModel

	numVars int
	rows    []linearRow

	objective    fc.LinExpr
	maximize     bool
	hasObjective bool

	// AlgRelax mirrors the "alg:relax" option (flatconv.Options.AlgRelax): when set, Solve drops
	// integrality off every column and solves the LP relaxation only.
	AlgRelax bool
}

// NewBuilder returns a Builder over model. model's variables must already be present (added via
// model.AddVar) before NewBuilder is called.
func NewBuilder(model *fc.FlatModel) *Builder {
	return &Builder{model: model}
}
