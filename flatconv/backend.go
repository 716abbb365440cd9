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

package flatconv

import "context"

// SolveStatus reports the outcome of a Backend.Solve call (spec.md §2 "Backend"), named after the
// states a MIP/NLP solver actually returns rather than a generic success/failure bit.
type SolveStatus int

const (
	Unknown SolveStatus = iota
	Solved
	Infeasible
	InfeasibleOrUnbounded
	Unbounded
	Uncertain
	Interrupted
)

func (s SolveStatus) String() string {
	switch s {
	case Solved:
		return "SOLVED"
	case Infeasible:
		return "INFEASIBLE"
	case InfeasibleOrUnbounded:
		return "INF_OR_UNB"
	case Unbounded:
		return "UNBOUNDED"
	case Uncertain:
		return "UNCERTAIN"
	case Interrupted:
		return "INTERRUPTED"
	default:
		return "UNKNOWN"
	}
}

// Solution carries a Backend's answer back to the caller: the values the ModelAPI's variables
// took, indexed like the FlatModel's variables (Converter keeps the two index spaces in lockstep).
type Solution struct {
	Status      SolveStatus
	VarValues   []float64
	ObjValue    float64
	HasObjValue bool
}

// Backend is the interface a concrete solver implements to actually run a solve over a model built
// through its paired ModelAPI. Solve is context-aware so a caller can cancel a
// long-running branch-and-bound search, mirroring the Interrupter/atomic-flag pattern
// ortools/sat/go/cpmodel/cp_solver.go uses around its cgo SolveCpModel call.
type Backend interface {
	Solve(ctx context.Context) (Solution, error)
}

// MIPStartBackend is an optional Backend extension for solvers that accept a warm-start solution.
type MIPStartBackend interface {
	SetMIPStart(varValues []float64) error
}

// BasisBackend is an optional Backend extension for solvers that expose LP basis information,
// modeled on bartolsthoorn-gohighs's BasisStatus-bearing Solution.
type BasisBackend interface {
	ColumnBasis() []int
	RowBasis() []int
}

// IISBackend is an optional Backend extension for solvers that can compute an irreducible
// inconsistent subsystem after an infeasible solve.
type IISBackend interface {
	ComputeIIS(ctx context.Context) ([]int, error)
}

// MIPGapBackend is an optional Backend extension for solvers that accept a relative/absolute MIP
// gap tolerance.
type MIPGapBackend interface {
	SetMIPGap(relative, absolute float64)
}
