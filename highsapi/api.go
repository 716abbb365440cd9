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

package highsapi

import (
	"fmt"

	fc "github.com/mipflat/flatconv/flatconv"
)

// Accepts reports Recommended only for the four plain linear row shapes gohighs's AddDenseRow
// family can express (RowLower <= Expr <= RowUpper covers all four); everything else — including
// QuadCon* (gohighs's Hessian is an objective-only device, not a per-row quadratic constraint) and
// every functional/structured type — is NotAccepted, so the redefinition catalog reduces it first.
func (b *Builder) Accepts(typeName string) fc.Acceptance {
	switch typeName {
	case "LinConLE", "LinConEQ", "LinConGE", "LinConRange":
		return fc.Recommended
	default:
		return fc.NotAccepted
	}
}

// AddVariables reserves n column indices.
func (b *Builder) AddVariables(n int) fc.VarIndex {
	first := b.numVars
	b.numVars += n
	return fc.VarIndex(first)
}

// AddConstraint records one row in gohighs's two-sided RowLower/RowUpper form.
func (b *Builder) AddConstraint(typeName string, c fc.Constraint) error {
	switch typeName {
	case "LinConLE":
		lc := c.(fc.LinConLE)
		b.rows = append(b.rows, linearRow{lc.Expr, fc.NegInf, lc.RHS})
	case "LinConEQ":
		lc := c.(fc.LinConEQ)
		b.rows = append(b.rows, linearRow{lc.Expr, lc.RHS, lc.RHS})
	case "LinConGE":
		lc := c.(fc.LinConGE)
		b.rows = append(b.rows, linearRow{lc.Expr, lc.RHS, fc.Inf})
	case "LinConRange":
		lc := c.(fc.LinConRange)
		b.rows = append(b.rows, linearRow{lc.Expr, lc.LB, lc.UB})
	default:
		return fmt.Errorf("highsapi: constraint type %q not accepted", typeName)
	}
	return nil
}

// SetObjective installs the single supported objective (index 0), mirroring Model.ColCosts/
// Model.Maximize.
func (b *Builder) SetObjective(index int, expr fc.LinExpr, maximize bool) error {
	if index != 0 {
		return fc.ErrUnsupportedObjective
	}
	b.objective = expr
	b.maximize = maximize
	b.hasObjective = true
	return nil
}

// Infinity/MinusInfinity report flatconv's own math.Inf convention; gohighs itself maps these
// through to HiGHS's internal +/-1e30 sentinel only inside its cgo Solve call, a step this package
// never reaches since it solves via bnb instead.
func (b *Builder) Infinity() float64      { return fc.Inf }
func (b *Builder) MinusInfinity() float64 { return fc.NegInf }

// InitProblemModificationPhase/FinishProblemModificationPhase are no-ops: rows accumulate in
// memory until Solve, there is no open solver session to bracket (unlike gohighs's own
// NewSolver/Close pair around its cgo calls).
func (b *Builder) InitProblemModificationPhase() error   { return nil }
func (b *Builder) FinishProblemModificationPhase() error { return nil }
