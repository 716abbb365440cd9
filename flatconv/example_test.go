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

// example_test.go runs the end-to-end scenarios end to end against a real strict ModelAPI
// (highsapi), the way cp_model_test.go's Example functions drive a real Builder rather than
// asserting against an in-test stub.
package flatconv_test

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"

	fc "github.com/mipflat/flatconv/flatconv"
	"github.com/mipflat/flatconv/highsapi"
)

func solve(model *fc.FlatModel, b interface {
	fc.ModelAPI
	Solve(context.Context) (fc.Solution, error)
}) (fc.Solution, error) {
	conv := fc.NewConverter(model, b, fc.Options{})
	if err := conv.RunConversion(); err != nil {
		return fc.Solution{}, err
	}
	return b.Solve(context.Background())
}

// ExampleMax_redefinition reduces `max(x,y) <= 3` through highsapi, which rejects Max natively
// (end-to-end scenario 1).
func ExampleMax_redefinition() {
	model := fc.NewFlatModel()
	x := model.AddVar(0, 5, fc.Continuous)
	y := model.AddVar(0, 5, fc.Continuous)
	z := model.AddVar(0, 5, fc.Continuous)

	m := &fc.Max{Of: []fc.VarIndex{x, y}}
	m.SetResultVar(z)
	fc.AddConstraint(model, "Max", m)
	fc.AddConstraint(model, "LinConLE", fc.LinConLE{Expr: fc.NewLinExpr().AddTerm(z, 1), RHS: 3})
	model.SetObjective(fc.NewLinExpr().AddTerm(x, 1).AddTerm(y, 1), false)

	sol, err := solve(model, highsapi.NewBuilder(model))
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Printf("obj=%.0f x=%.0f y=%.0f\n", sol.ObjValue, sol.VarValues[0], sol.VarValues[1])
	// Output: obj=0 x=0 y=0
}

// ExampleAllDiff reduces alldiff(x1,x2,x3) over {1,2,3} through highsapi, which rejects
// AllDiffConstraint natively (end-to-end scenario 3).
func ExampleAllDiff() {
	model := fc.NewFlatModel()
	x1 := model.AddVar(1, 3, fc.Integer)
	x2 := model.AddVar(1, 3, fc.Integer)
	x3 := model.AddVar(1, 3, fc.Integer)
	fc.AddConstraint(model, "AllDiffConstraint", fc.AllDiff{Vars: []fc.VarIndex{x1, x2, x3}})

	sol, err := solve(model, highsapi.NewBuilder(model))
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	seen := map[int]bool{}
	for _, v := range sol.VarValues {
		seen[int(math.Round(v))] = true
	}
	fmt.Println("status:", sol.Status, "distinct:", len(seen) == 3)
	// Output: status: SOLVED distinct: true
}

// ExampleIndicatorConstraintLin reduces `b=1 => x <= 5` via big-M through highsapi, which rejects
// indicator constraints natively (end-to-end scenario 4).
func ExampleIndicatorConstraintLin() {
	model := fc.NewFlatModel()
	x := model.AddVar(0, 10, fc.Continuous)
	b := model.AddVar(1, 1, fc.Integer) // fixed true, so the implication is live

	fc.AddConstraint(model, "IndicatorConstraintLinLE", fc.IndicatorConstraintLin{
		Bin: b, BinVal: 1, Expr: fc.NewLinExpr().AddTerm(x, 1), RHS: 5,
	})
	model.SetObjective(fc.NewLinExpr().AddTerm(x, 1), true)

	sol, err := solve(model, highsapi.NewBuilder(model))
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Printf("x*=%.0f\n", sol.VarValues[0])
	// Output: x*=5
}

// ExampleFlatModel_infeasibleBounds shows RunConversion rejecting an infeasible variable domain
// before any ModelAPI/Backend call (end-to-end scenario 6).
func ExampleFlatModel_infeasibleBounds() {
	model := fc.NewFlatModel()
	model.AddVar(5, 3, fc.Continuous)

	b := highsapi.NewBuilder(model)
	conv := fc.NewConverter(model, b, fc.Options{})
	err := conv.RunConversion()
	fmt.Println(errors.Is(err, fc.ErrInfeasibleDomain))
	// Output: true
}

// TestElementaryNonlinearPLApproximation exercises scenario 2: y = exp(x), x in [0,1], minimize y,
// approximated by adaptive piecewise-linear sampling since highsapi has no native Exp constraint.
func TestElementaryNonlinearPLApproximation(t *testing.T) {
	model := fc.NewFlatModel()
	x := model.AddVar(0, 1, fc.Continuous)
	y := model.AddVar(1, math.E, fc.Continuous)

	e := &fc.Exp{X: x}
	e.SetResultVar(y)
	fc.AddConstraint(model, "Exp", e)
	model.SetObjective(fc.NewLinExpr().AddTerm(y, 1), false)

	sol, err := solve(model, highsapi.NewBuilder(model))
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	if sol.Status != fc.Solved {
		t.Fatalf("status = %v, want Solved", sol.Status)
	}
	if sol.ObjValue < 1 || sol.ObjValue > 1+1e-2 {
		t.Errorf("obj = %v, want in [1, 1.01]", sol.ObjValue)
	}
}

// TestPLConstraintSOS2Reduction exercises scenario 5: a hat-shaped piecewise-linear function over
// breakpoints 0,1,2 with values 0,1,0, reduced to the lambda/SOS2 encoding since highsapi has no
// native PLConstraint or SOS2 support.
func TestPLConstraintSOS2Reduction(t *testing.T) {
	model := fc.NewFlatModel()
	x := model.AddVar(0, 2, fc.Continuous)
	y := model.AddVar(0, 1, fc.Continuous)

	pl := &fc.PLConstraint{
		X:           x,
		Breakpoints: []float64{0, 1, 2},
		Slopes:      []float64{0, 1, -1, 0},
		Value0:      0,
	}
	pl.SetResultVar(y)
	fc.AddConstraint(model, "PLConstraint", pl)
	model.SetObjective(fc.NewLinExpr().AddTerm(y, 1), true)

	sol, err := solve(model, highsapi.NewBuilder(model))
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	if sol.Status != fc.Solved {
		t.Fatalf("status = %v, want Solved", sol.Status)
	}
	if math.Abs(sol.ObjValue-1) > 1e-6 {
		t.Errorf("obj = %v, want 1", sol.ObjValue)
	}
}
