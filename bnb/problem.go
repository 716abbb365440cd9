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

// Package bnb is a branch-and-bound MILP solver built on gonum's dense simplex (gonum.org/v1/gonum/optimize/convex/lp).
// It is grounded on jjhbw-GoMILP's ilp package: the same standard-form problem shape (minimize c^T x
// s.t. A x = b, G x <= h, x >= 0, with a per-variable integrality flag) and the same LP-relaxation-plus-
// branching structure, but carried through to a working implementation. jjhbw-GoMILP's own
// solution.branch method was left as a body-less TODO and its Solve loop compared a nil incumbent
// directly (solution.z on a nil pointer), so neither ever actually ran; this package keeps the shape
// and fixes both.
package bnb

import "gonum.org/v1/gonum/mat"

// Problem is a mixed-integer linear program in the standard form
//
//	minimize    c^T x
//	subject to  A x = b
//	            G x <= h
//	            x >= 0
//	            x[i] integer for every i with Integrality[i]
//
// Variable bounds other than x >= 0 are expected to already be folded into G/h by the caller (one
// row per bound), the same convention jjhbw-GoMILP's Problem.toSolveable uses.
type Problem struct {
	C []float64
	A *mat.Dense
	B []float64

	// G/H are the general inequality constraints; both may be nil if the problem has none.
	G *mat.Dense
	H []float64

	// Integrality has one entry per variable (len(Integrality) == len(C)); true marks an integer
	// variable.
	Integrality []bool

	// Heuristic selects which fractional variable to branch on at each node. Zero value is
	// MostFractional.
	Heuristic BranchHeuristic

	// MaxNodes bounds the number of nodes explored before Solve gives up and returns the best
	// incumbent found so far with Result.Status == NodeLimitReached. Zero means unbounded.
	MaxNodes int
}

// NewProblem returns a Problem ready for Solve, with MostFractional branching and no node limit.
func NewProblem(c []float64, a *mat.Dense, b []float64, g *mat.Dense, h []float64, integrality []bool) Problem {
	return Problem{C: c, A: a, B: b, G: g, H: h, Integrality: integrality}
}

// BranchHeuristic picks the fractional variable branched on at a node, mirroring the
// BranchHeuristic enum jjhbw-GoMILP's subProblem.branchHeuristic field refers to (that package
// never actually shipped the type or the heuristic functions alongside it).
type BranchHeuristic int

const (
	// MostFractional branches on the integer-constrained variable whose LP-relaxation value is
	// closest to a half-integer, the classic "most fractional" rule.
	MostFractional BranchHeuristic = iota
	// FirstFractional branches on the lowest-indexed integer-constrained variable that is not
	// currently integral.
	FirstFractional
	// LargestCoefficient branches on the integer-constrained fractional variable with the largest
	// |objective coefficient|, on the theory that it most influences the bound.
	LargestCoefficient
)

func (h BranchHeuristic) String() string {
	switch h {
	case MostFractional:
		return "most-fractional"
	case FirstFractional:
		return "first-fractional"
	case LargestCoefficient:
		return "largest-coefficient"
	default:
		return "unknown"
	}
}

// fractionalityOf returns how far v is from the nearest integer, in [0, 0.5].
func fractionalityOf(v float64) float64 {
	f := v - floor(v)
	if f > 0.5 {
		f = 1 - f
	}
	return f
}

// floor avoids an extra math import for this one call site's worth of use across the package.
func floor(v float64) float64 {
	i := int64(v)
	if v < 0 && float64(i) != v {
		i--
	}
	return float64(i)
}

// pickBranchVar selects the variable to branch on for x under integrality, using heuristic h.
// Returns ok=false if x already satisfies every integrality constraint within tol.
func pickBranchVar(h BranchHeuristic, c []float64, integrality []bool, x []float64, tol float64) (branchOn int, ok bool) {
	best := -1
	bestScore := -1.0
	for i, isInt := range integrality {
		if !isInt {
			continue
		}
		frac := fractionalityOf(x[i])
		if frac <= tol {
			continue
		}
		var score float64
		switch h {
		case FirstFractional:
			return i, true
		case LargestCoefficient:
			score = absf(c[i])
		default: // MostFractional
			score = frac
		}
		if best == -1 || score > bestScore {
			best, bestScore = i, score
		}
	}
	if best == -1 {
		return 0, false
	}
	return best, true
}

func absf(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
