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
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	fc "github.com/mipflat/flatconv/flatconv"
	"github.com/mipflat/flatconv/bnb"
)

// Solve builds standard-form matrices directly from the rows AddConstraint accumulated (already
// the terminal linear form, unlike cpsatapi's internal re-conversion step) and hands them to bnb,
// in place of gohighs's own cgo-embedded HiGHS solver.
func (b *Builder) Solve(ctx context.Context) (fc.Solution, error) {
	n := b.model.NumVars()

	c := make([]float64, n)
	if b.hasObjective {
		for i, v := range b.objective.Vars {
			coeff := b.objective.Coeffs[i]
			if b.maximize {
				coeff = -coeff
			}
			c[v] += coeff
		}
	}

	lb := make([]float64, n)
	ub := make([]float64, n)
	integrality := make([]bool, n)
	for i := 0; i < n; i++ {
		v := b.model.Var(fc.VarIndex(i))
		lb[i], ub[i] = v.LB, v.UB
		integrality[i] = v.Type == fc.Integer && !b.AlgRelax
	}

	var aRows, gRows []float64
	var bVals, hVals []float64
	for _, r := range b.rows {
		row := denseRow(n, r.expr)
		lower := r.lower - r.expr.Const
		upper := r.upper - r.expr.Const
		switch {
		case lower == upper:
			aRows = append(aRows, row...)
			bVals = append(bVals, lower)
		case math.IsInf(lower, -1):
			gRows = append(gRows, row...)
			hVals = append(hVals, upper)
		case math.IsInf(upper, 1):
			gRows = append(gRows, negateRow(row)...)
			hVals = append(hVals, -lower)
		default:
			gRows = append(gRows, row...)
			hVals = append(hVals, upper)
			gRows = append(gRows, negateRow(row)...)
			hVals = append(hVals, -lower)
		}
	}

	var a, g *mat.Dense
	if len(bVals) > 0 {
		a = mat.NewDense(len(bVals), n, aRows)
	}
	if len(hVals) > 0 {
		g = mat.NewDense(len(hVals), n, gRows)
	}

	prob, unshift := bnb.Standardize(c, a, bVals, g, hVals, lb, ub, integrality)
	result, err := prob.Solve(ctx)
	if err != nil {
		return fc.Solution{}, fmt.Errorf("%w: %v", fc.ErrSolverNative, err)
	}

	sol := fc.Solution{Status: solveStatus(result.Status)}
	if result.HasSolution {
		sol.VarValues = unshift(result.X)
		sol.HasObjValue = true
		if b.maximize {
			sol.ObjValue = -result.Z + b.objective.Const
		} else {
			sol.ObjValue = result.Z + b.objective.Const
		}
	}
	return sol, nil
}

func solveStatus(s bnb.Status) fc.SolveStatus {
	switch s {
	case bnb.Optimal:
		return fc.Solved
	case bnb.Infeasible:
		return fc.Infeasible
	case bnb.NodeLimitReached:
		return fc.Uncertain
	case bnb.Interrupted:
		return fc.Interrupted
	default:
		return fc.Unknown
	}
}

// denseRow flattens e into a length-n dense coefficient row, summing duplicate variable indices
// (LinExpr.AddTerm never combines like terms on append).
func denseRow(n int, e fc.LinExpr) []float64 {
	row := make([]float64, n)
	for i, v := range e.Vars {
		row[v] += e.Coeffs[i]
	}
	return row
}

func negateRow(row []float64) []float64 {
	out := make([]float64, len(row))
	for i, v := range row {
		out[i] = -v
	}
	return out
}
