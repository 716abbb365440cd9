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
	"context"
	"math"
	"testing"

	fc "github.com/mipflat/flatconv/flatconv"
)

func approxEq(x, y float64) bool {
	return math.Abs(x-y) < 1e-6
}

func TestAccepts(t *testing.T) {
	b := NewBuilder(fc.NewFlatModel())
	if got := b.Accepts("LinConRange"); got != fc.Recommended {
		t.Errorf("Accepts(LinConRange) = %v, want Recommended", got)
	}
	if got := b.Accepts("QuadConLE"); got != fc.NotAccepted {
		t.Errorf("Accepts(QuadConLE) = %v, want NotAccepted (HiGHS's Hessian is objective-only)", got)
	}
	if got := b.Accepts("Max"); got != fc.NotAccepted {
		t.Errorf("Accepts(Max) = %v, want NotAccepted", got)
	}
}

func TestSolveLinearRange(t *testing.T) {
	model := fc.NewFlatModel()
	x0 := model.AddVar(0, 10, fc.Continuous)
	x1 := model.AddVar(0, 10, fc.Continuous)

	b := NewBuilder(model)
	model.SetObjective(fc.NewLinExpr().AddTerm(x0, 1).AddTerm(x1, 2), true)
	fc.AddConstraint(model, "LinConRange", fc.LinConRange{
		Expr: fc.NewLinExpr().AddTerm(x0, 1).AddTerm(x1, 1),
		LB:   1,
		UB:   4,
	})

	conv := fc.NewConverter(model, b, fc.Options{})
	if err := conv.RunConversion(); err != nil {
		t.Fatalf("RunConversion() err = %v", err)
	}

	sol, err := b.Solve(context.Background())
	if err != nil {
		t.Fatalf("Solve() err = %v", err)
	}
	if sol.Status != fc.Solved {
		t.Fatalf("Solve() status = %v, want Solved", sol.Status)
	}
	if !approxEq(sol.ObjValue, 8) {
		t.Errorf("Solve() obj = %v, want 8", sol.ObjValue)
	}
}

// TestSolveAbsGoesThroughCatalogOnce exercises a type this strict Builder never accepts (Abs): the
// redefinition catalog runs once, during the single outer RunConversion call, and by the time
// Builder.AddConstraint ever sees anything it is already plain LinCon* rows.
func TestSolveAbsGoesThroughCatalogOnce(t *testing.T) {
	model := fc.NewFlatModel()
	x := model.AddVar(-5, 5, fc.Continuous)
	y := model.AddVar(0, 5, fc.Continuous)

	b := NewBuilder(model)
	model.SetObjective(fc.NewLinExpr().AddTerm(y, 1), false)
	fc.AddConstraint(model, "LinConEQ", fc.LinConEQ{Expr: fc.NewLinExpr().AddTerm(x, 1), RHS: -3})

	abs := &fc.Abs{X: x}
	abs.SetResultVar(y)
	fc.AddConstraint(model, "Abs", abs)

	conv := fc.NewConverter(model, b, fc.Options{})
	if err := conv.RunConversion(); err != nil {
		t.Fatalf("RunConversion() err = %v", err)
	}
	if len(b.rows) == 0 {
		t.Fatalf("RunConversion() produced no rows; Abs's redefinition should have emitted LinCon* constraints")
	}

	sol, err := b.Solve(context.Background())
	if err != nil {
		t.Fatalf("Solve() err = %v", err)
	}
	if sol.Status != fc.Solved {
		t.Fatalf("Solve() status = %v, want Solved", sol.Status)
	}
	if !approxEq(sol.ObjValue, 3) {
		t.Errorf("Solve() obj = %v, want 3", sol.ObjValue)
	}
}

func TestSolveInfeasible(t *testing.T) {
	model := fc.NewFlatModel()
	x := model.AddVar(0, 1, fc.Continuous)

	b := NewBuilder(model)
	model.SetObjective(fc.NewLinExpr().AddTerm(x, 1), false)
	fc.AddConstraint(model, "LinConGE", fc.LinConGE{Expr: fc.NewLinExpr().AddTerm(x, 1), RHS: 5})

	conv := fc.NewConverter(model, b, fc.Options{})
	if err := conv.RunConversion(); err != nil {
		t.Fatalf("RunConversion() err = %v", err)
	}

	sol, err := b.Solve(context.Background())
	if err != nil {
		t.Fatalf("Solve() err = %v", err)
	}
	if sol.Status != fc.Infeasible {
		t.Errorf("Solve() status = %v, want Infeasible", sol.Status)
	}
}
