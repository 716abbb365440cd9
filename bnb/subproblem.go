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
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

// subProblem is one node of the branch-and-bound search tree: the root Problem's data plus the
// extra inequality rows accumulated by branching so far. Grounded on jjhbw-GoMILP's subProblem,
// keeping its "never mutate the parent's slices/matrices" discipline (copy only grows the
// bnbConstraints slice) but collapsing the two divergent subProblem shapes jjhbw-GoMILP's ilp.go
// and subproblem.go files disagreed on (id/parent bookkeeping vs. none, *mat.Matrix vs. *mat.Dense)
// into one.
type subProblem struct {
	c []float64
	a *mat.Dense
	b []float64
	g *mat.Dense
	h []float64

	integrality []bool
	heuristic   BranchHeuristic

	// bnbConstraints are the extra `gsharp . x <= hsharp` rows this node adds on top of the root
	// problem's own G/h, one per branching decision on the path from the root.
	bnbConstraints []bnbConstraint
}

type bnbConstraint struct {
	branchedVar int
	hsharp      float64
	gsharp      []float64
}

func (p Problem) toRootSubProblem() subProblem {
	return subProblem{
		c:           p.C,
		a:           p.A,
		b:           p.B,
		g:           p.G,
		h:           p.H,
		integrality: p.Integrality,
		heuristic:   p.Heuristic,
	}
}

// combineInequalities returns this node's full set of inequality rows: the root problem's own G/h
// stacked with every bnbConstraint accumulated by branching down to this node.
func (p subProblem) combineInequalities() (*mat.Dense, []float64) {
	if len(p.bnbConstraints) == 0 {
		return p.g, p.h
	}

	h := append([]float64{}, p.h...)
	var gRows []float64
	for _, bc := range p.bnbConstraints {
		gRows = append(gRows, bc.gsharp...)
		h = append(h, bc.hsharp)
	}
	bnbG := mat.NewDense(len(p.bnbConstraints), len(p.c), gRows)

	if p.g == nil {
		return bnbG, h
	}

	origRows, _ := p.g.Dims()
	bnbRows, _ := bnbG.Dims()
	out := mat.NewDense(origRows+bnbRows, len(p.c), nil)
	out.Stack(p.g, bnbG)
	return out, h
}

// solve computes the LP relaxation of this node (integrality constraints dropped).
func (p subProblem) solve() (solution, error) {
	g, h := p.combineInequalities()

	var z float64
	var x []float64
	var err error
	if g == nil {
		z, x, err = lp.Simplex(p.c, p.a, p.b, 0, nil)
	} else {
		c, a, b := lp.Convert(p.c, g, h, p.a, p.b)
		z, x, err = lp.Simplex(c, a, b, 0, nil)
		if err == nil && len(x) > len(p.c) {
			x = x[:len(p.c)]
		}
	}
	if err != nil {
		return solution{}, err
	}
	return solution{node: p, x: x, z: z}, nil
}

// copy returns a node sharing the parent's slices/matrices but with its own bnbConstraints slice,
// so appending a new branching row to a child never touches a sibling's.
func (p subProblem) copy() subProblem {
	out := p
	out.bnbConstraints = append([]bnbConstraint{}, p.bnbConstraints...)
	return out
}

// getChild returns a node inheriting everything from p plus one additional row `factor * x[branchOn]
// <= limit`, the building block both branches of solution.branch use (factor is 1 for a `<=` row, -1
// to encode a `>=` row as `-x[branchOn] <= -limit`).
func (p subProblem) getChild(branchOn int, factor, limit float64) subProblem {
	child := p.copy()
	row := make([]float64, len(p.c))
	row[branchOn] = factor
	child.bnbConstraints = append(child.bnbConstraints, bnbConstraint{
		branchedVar: branchOn,
		hsharp:      limit,
		gsharp:      row,
	})
	return child
}
