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

package bnb

import (
	"context"
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func approxEq(x, y float64) bool {
	return math.Abs(x-y) < 1e-6
}

// TestSolveLPOnly exercises the no-integrality fast path: a plain LP with no branching needed.
func TestSolveLPOnly(t *testing.T) {
	// minimize -x1 - 2x2  s.t.  -x1 + 2x2 + x3 = 4,  3x1 + x2 + x4 = 9,  x >= 0
	c := []float64{-1, -2, 0, 0}
	a := mat.NewDense(2, 4, []float64{
		-1, 2, 1, 0,
		3, 1, 0, 1,
	})
	b := []float64{4, 9}
	p := NewProblem(c, a, b, nil, nil, []bool{false, false, false, false})

	got, err := p.Solve(context.Background())
	if err != nil {
		t.Fatalf("Solve() err = %v, want nil", err)
	}
	if got.Status != Optimal {
		t.Fatalf("Solve() status = %v, want Optimal", got.Status)
	}
	if !approxEq(got.Z, -8) {
		t.Errorf("Solve() z = %v, want -8", got.Z)
	}
}

// TestSolveKnapsack is a small 0/1 knapsack (maximize value under a weight budget, expressed as
// bnb's minimize convention by negating the objective) solved through the integer path of Solve
// rather than the LP-only fast path. Items 0 and 2 have the best value/weight ratio and exactly fill
// the budget, so the root LP relaxation is already integral and the search ends at the root node.
func TestSolveKnapsack(t *testing.T) {
	// items: value [6,5,4], weight [3,4,2], budget 5 -> best integral choice is items {0,2}: value 10.
	// maximize 6x0+5x1+4x2  s.t. 3x0+4x1+2x2 + s = 5, 0<=x<=1, s >= 0 (slack for the <=).
	value := []float64{6, 5, 4}
	weight := []float64{3, 4, 2}
	budget := 5.0

	n := len(value)
	c := make([]float64, n+1+n) // x[0..n), slack, upper-bound slacks for x<=1
	for i, v := range value {
		c[i] = -v // minimize -value == maximize value
	}

	// one equality row: weight.x + s = budget
	aData := make([]float64, n+1+n)
	copy(aData, weight)
	aData[n] = 1
	a := mat.NewDense(1, n+1+n, aData)

	// x[i] <= 1 as extra equality x[i] + u[i] = 1 rows, appended below the weight row.
	rows := make([]float64, n*(n+1+n))
	bs := make([]float64, n)
	for i := 0; i < n; i++ {
		rows[i*(n+1+n)+i] = 1
		rows[i*(n+1+n)+n+1+i] = 1
		bs[i] = 1
	}
	fullA := mat.NewDense(1+n, n+1+n, nil)
	fullA.SetRow(0, a.RawRowView(0))
	for i := 0; i < n; i++ {
		fullA.SetRow(1+i, rows[i*(n+1+n):(i+1)*(n+1+n)])
	}
	fullB := append([]float64{budget}, bs...)

	integrality := make([]bool, n+1+n)
	for i := range value {
		integrality[i] = true
	}

	p := NewProblem(c, fullA, fullB, nil, nil, integrality)
	got, err := p.Solve(context.Background())
	if err != nil {
		t.Fatalf("Solve() err = %v, want nil", err)
	}
	if got.Status != Optimal {
		t.Fatalf("Solve() status = %v, want Optimal", got.Status)
	}
	if !approxEq(got.Z, -10) {
		t.Errorf("Solve() z = %v, want -10", got.Z)
	}
	for i := range value {
		if !approxEq(got.X[i], math.Round(got.X[i])) {
			t.Errorf("x[%d] = %v, want an integer", i, got.X[i])
		}
	}
}

func TestSolveInfeasible(t *testing.T) {
	// x1 = 1, x1 = 2 simultaneously: infeasible regardless of integrality.
	c := []float64{0}
	a := mat.NewDense(2, 1, []float64{1, 1})
	b := []float64{1, 2}
	p := NewProblem(c, a, b, nil, nil, []bool{true})

	got, err := p.Solve(context.Background())
	if err != nil {
		t.Fatalf("Solve() err = %v, want nil", err)
	}
	if got.Status != Infeasible {
		t.Errorf("Solve() status = %v, want Infeasible", got.Status)
	}
}

func TestSolveRespectsContextCancellation(t *testing.T) {
	value := []float64{6, 5, 4}
	weight := []float64{3, 4, 2}
	n := len(value)
	c := make([]float64, n)
	for i, v := range value {
		c[i] = -v
	}
	aData := weight
	a := mat.NewDense(1, n, aData)
	b := []float64{5}
	integrality := []bool{true, true, true}

	p := NewProblem(c, a, b, nil, nil, integrality)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got, err := p.Solve(ctx)
	if err == nil {
		t.Fatalf("Solve() err = nil, want context.Canceled")
	}
	if got.Status != Interrupted {
		t.Errorf("Solve() status = %v, want Interrupted", got.Status)
	}
}

func TestPickBranchVarHeuristics(t *testing.T) {
	integrality := []bool{true, true, false}
	x := []float64{1.5, 2.9, 7.1}
	c := []float64{1, 100, 1}

	if i, ok := pickBranchVar(MostFractional, c, integrality, x, integerTolerance); !ok || i != 0 {
		t.Errorf("MostFractional picked %d (ok=%v), want 0", i, ok)
	}
	if i, ok := pickBranchVar(FirstFractional, c, integrality, x, integerTolerance); !ok || i != 0 {
		t.Errorf("FirstFractional picked %d (ok=%v), want 0", i, ok)
	}
	if i, ok := pickBranchVar(LargestCoefficient, c, integrality, x, integerTolerance); !ok || i != 1 {
		t.Errorf("LargestCoefficient picked %d (ok=%v), want 1", i, ok)
	}
	if _, ok := pickBranchVar(MostFractional, c, []bool{true}, []float64{4}, integerTolerance); ok {
		t.Errorf("pickBranchVar on an already-integral x reported fractional")
	}
}

func TestStandardizeShiftsAndSplits(t *testing.T) {
	// x0 in [-2, 4] (needs shifting), x1 free (needs splitting). minimize x0 + x1 s.t. x0 - x1 = 1.
	c := []float64{1, 1}
	a := mat.NewDense(1, 2, []float64{1, -1})
	b := []float64{1}
	lb := []float64{-2, math.Inf(-1)}
	ub := []float64{4, math.Inf(1)}
	integrality := []bool{false, false}

	prob, unshift := Standardize(c, a, b, nil, nil, lb, ub, integrality)
	got, err := prob.Solve(context.Background())
	if err != nil {
		t.Fatalf("Solve() err = %v, want nil", err)
	}
	if got.Status != Optimal {
		t.Fatalf("Solve() status = %v, want Optimal", got.Status)
	}
	x := unshift(got.X)
	if !approxEq(x[0]-x[1], 1) {
		t.Errorf("x0-x1 = %v, want 1 (x=%v)", x[0]-x[1], x)
	}
	if x[0] < -2-1e-6 || x[0] > 4+1e-6 {
		t.Errorf("x0 = %v out of bounds [-2,4]", x[0])
	}
}
