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
	"math"

	"gonum.org/v1/gonum/mat"
)

// Standardize rewrites a problem whose n variables carry arbitrary per-variable bounds [lb[i],
// ub[i]] into the x >= 0 standard form gonum's lp.Simplex (and so Problem.Solve) requires:
//
//   - a variable with a finite lower bound is shifted, x[i] = lb[i] + x'[i], x'[i] >= 0;
//   - a variable with no finite lower bound (free, or only upper-bounded) is split into the
//     classic nonnegative pair x[i] = xplus[i] - xminus[i].
//
// A finite upper bound becomes one extra `<=` row in the standardized problem. jjhbw-GoMILP never
// performed this step at all (its MILPproblem assumes x >= 0 throughout, silently wrong for any
// problem with negative or free variables); flatconv's variables routinely have LB < 0 or LB ==
// NegInf, so cpsatapi/highsapi call this before handing a Problem to Solve.
//
// Standardize returns the standardized Problem and an Unshift function that maps a solution vector
// over the standardized variables back onto the original n variables.
func Standardize(c []float64, a *mat.Dense, b []float64, g *mat.Dense, h []float64, lb, ub []float64, integrality []bool) (prob Problem, unshift func([]float64) []float64) {
	n := len(c)
	split := make([]bool, n)
	// col[i] is the standardized column index of x[i] (or of xplus[i] for a split variable).
	col := make([]int, n)
	width := 0
	for i := 0; i < n; i++ {
		split[i] = math.IsInf(lb[i], -1)
		col[i] = width
		if split[i] {
			width += 2
		} else {
			width++
		}
	}

	newC := make([]float64, width)
	newIntegrality := make([]bool, width)
	for i := 0; i < n; i++ {
		if split[i] {
			newC[col[i]] = c[i]
			newC[col[i]+1] = -c[i]
			newIntegrality[col[i]] = integrality[i]
			newIntegrality[col[i]+1] = integrality[i]
		} else {
			newC[col[i]] = c[i]
			newIntegrality[col[i]] = integrality[i]
		}
	}

	expandRow := func(row []float64) []float64 {
		out := make([]float64, width)
		for i, coeff := range row {
			if coeff == 0 {
				continue
			}
			if split[i] {
				out[col[i]] += coeff
				out[col[i]+1] -= coeff
			} else {
				out[col[i]] += coeff
			}
		}
		return out
	}

	shiftOffset := func(row []float64) float64 {
		var off float64
		for i, coeff := range row {
			if coeff == 0 || split[i] {
				continue
			}
			off += coeff * lb[i]
		}
		return off
	}

	newA, newB := expandMatrix(a, b, expandRow, shiftOffset)
	newG, newH := expandMatrix(g, h, expandRow, shiftOffset)

	// Append one upper-bound row per variable that has a finite UB.
	var ubRows []float64
	var ubRHS []float64
	for i := 0; i < n; i++ {
		if math.IsInf(ub[i], 1) {
			continue
		}
		row := make([]float64, width)
		if split[i] {
			row[col[i]] = 1
			row[col[i]+1] = -1
			ubRHS = append(ubRHS, ub[i])
		} else {
			row[col[i]] = 1
			ubRHS = append(ubRHS, ub[i]-lb[i])
		}
		ubRows = append(ubRows, row...)
	}
	if len(ubRHS) > 0 {
		ubG := mat.NewDense(len(ubRHS), width, ubRows)
		newG, newH = stackInequalities(newG, newH, ubG, ubRHS)
	}

	unshift = func(x []float64) []float64 {
		out := make([]float64, n)
		for i := 0; i < n; i++ {
			if split[i] {
				out[i] = x[col[i]] - x[col[i]+1]
			} else {
				out[i] = lb[i] + x[col[i]]
			}
		}
		return out
	}

	return NewProblem(newC, newA, newB, newG, newH, newIntegrality), unshift
}

// expandMatrix rewrites m/rhs (may both be nil) through expandRow/shiftOffset, row by row.
func expandMatrix(m *mat.Dense, rhs []float64, expandRow func([]float64) []float64, shiftOffset func([]float64) float64) (*mat.Dense, []float64) {
	if m == nil {
		return nil, nil
	}
	rows, _ := m.Dims()
	var data []float64
	newRHS := make([]float64, rows)
	width := 0
	for r := 0; r < rows; r++ {
		row := m.RawRowView(r)
		expanded := expandRow(row)
		width = len(expanded)
		data = append(data, expanded...)
		newRHS[r] = rhs[r] - shiftOffset(row)
	}
	return mat.NewDense(rows, width, data), newRHS
}

// stackInequalities appends the rows of extra/extraRHS below g/h, treating a nil g as zero rows.
func stackInequalities(g *mat.Dense, h []float64, extra *mat.Dense, extraRHS []float64) (*mat.Dense, []float64) {
	if g == nil {
		return extra, extraRHS
	}
	gRows, cols := g.Dims()
	eRows, _ := extra.Dims()
	out := mat.NewDense(gRows+eRows, cols, nil)
	out.Stack(g, extra)
	return out, append(append([]float64{}, h...), extraRHS...)
}
