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

package cpsatapi

import (
	"context"
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"

	fc "github.com/mipflat/flatconv/flatconv"
	"github.com/mipflat/flatconv/bnb"
)

// linearRow is one row of the fully-linearized internal model: expr `kind` rhs.
type linearRow struct {
	kind string // "LE", "EQ", or "GE"
	expr fc.LinExpr
	rhs  float64
}

// linearCollector is a strict flatconv.ModelAPI accepting only the plain linear rows every
// Recommended type in this package ultimately reduces to. It is never exposed outside this
// package: Backend.Solve drives flatconv's own redefinition catalog against it, the same catalog
// that runs whenever a real target ModelAPI declines Max/Min/Abs/And/Or/Not/Div/IfThen/
// IndicatorConstraintLin*/CondLinCon*/AllDiffConstraint, so this package never re-derives the big-M
// encodings itself.
type linearCollector struct {
	numVars int
	rows    []linearRow

	objective    fc.LinExpr
	maximize     bool
	hasObjective bool
}

func (l *linearCollector) Accepts(typeName string) fc.Acceptance {
	switch typeName {
	case "LinConLE", "LinConEQ", "LinConGE":
		return fc.Recommended
	default:
		return fc.NotAccepted
	}
}

func (l *linearCollector) AddVariables(n int) fc.VarIndex {
	first := l.numVars
	l.numVars += n
	return fc.VarIndex(first)
}

func (l *linearCollector) AddConstraint(typeName string, c fc.Constraint) error {
	switch typeName {
	case "LinConLE":
		lc := c.(fc.LinConLE)
		l.rows = append(l.rows, linearRow{"LE", lc.Expr, lc.RHS})
	case "LinConEQ":
		lc := c.(fc.LinConEQ)
		l.rows = append(l.rows, linearRow{"EQ", lc.Expr, lc.RHS})
	case "LinConGE":
		lc := c.(fc.LinConGE)
		l.rows = append(l.rows, linearRow{"GE", lc.Expr, lc.RHS})
	default:
		return fmt.Errorf("cpsatapi: internal linearizer saw unexpected type %q", typeName)
	}
	return nil
}

func (l *linearCollector) SetObjective(index int, expr fc.LinExpr, maximize bool) error {
	if index != 0 {
		return fc.ErrUnsupportedObjective
	}
	l.objective = expr
	l.maximize = maximize
	l.hasObjective = true
	return nil
}

func (l *linearCollector) Infinity() float64                     { return fc.Inf }
func (l *linearCollector) MinusInfinity() float64                { return fc.NegInf }
func (l *linearCollector) InitProblemModificationPhase() error   { return nil }
func (l *linearCollector) FinishProblemModificationPhase() error { return nil }

// addToInner re-adds one item this Builder accepted natively into inner, keyed by the same
// typeName, restoring its concrete type via a type assertion (constraint.go's Constraint
// interface only guarantees TypeName). This is the one place this package needs to know the
// field shape of each Recommended type, mirroring cp_model_test.go's own habit of constructing
// each constraint type directly rather than through a generic path. Pointer-typed items are
// copied rather than reused as-is: inner's own conversion pass mutates a functional constraint's
// embedded base (SetResultVar/SetContext) as it runs, and that must never reach back into the
// item still sitting in the caller's original model.
func addToInner(inner *fc.FlatModel, typeName string, item fc.Constraint) error {
	switch typeName {
	case "LinConLE":
		fc.AddConstraint(inner, typeName, item.(fc.LinConLE))
	case "LinConEQ":
		fc.AddConstraint(inner, typeName, item.(fc.LinConEQ))
	case "LinConGE":
		fc.AddConstraint(inner, typeName, item.(fc.LinConGE))
	case "LinConRange":
		fc.AddConstraint(inner, typeName, item.(fc.LinConRange))
	case "AllDiffConstraint":
		fc.AddConstraint(inner, typeName, item.(fc.AllDiff))
	case "Max":
		v := *item.(*fc.Max)
		fc.AddConstraint(inner, typeName, &v)
	case "Min":
		v := *item.(*fc.Min)
		fc.AddConstraint(inner, typeName, &v)
	case "Abs":
		v := *item.(*fc.Abs)
		fc.AddConstraint(inner, typeName, &v)
	case "And":
		v := *item.(*fc.And)
		fc.AddConstraint(inner, typeName, &v)
	case "Or":
		v := *item.(*fc.Or)
		fc.AddConstraint(inner, typeName, &v)
	case "Not":
		v := *item.(*fc.Not)
		fc.AddConstraint(inner, typeName, &v)
	case "IfThen":
		v := *item.(*fc.IfThen)
		fc.AddConstraint(inner, typeName, &v)
	case "Div":
		v := *item.(*fc.Div)
		fc.AddConstraint(inner, typeName, &v)
	case "IndicatorConstraintLinLE", "IndicatorConstraintLinEQ", "IndicatorConstraintLinGE":
		fc.AddConstraint(inner, typeName, item.(fc.IndicatorConstraintLin))
	case "CondLinConEQ", "CondLinConLE", "CondLinConLT", "CondLinConGE", "CondLinConGT":
		v := *item.(*fc.CondLinCon)
		fc.AddConstraint(inner, typeName, &v)
	default:
		return fmt.Errorf("cpsatapi: internal reduction saw unexpected type %q", typeName)
	}
	return nil
}

// Solve builds an internal FlatModel mirroring every variable and accepted item this Builder
// holds, runs it through flatconv's own redefinition catalog against the strict linearCollector
// above, and hands the resulting matrices to bnb (this package's Backend, since cp_solver.go's
// SolveCpModelWithParameters is a cgo call into a non-fetchable internal library).
func (b *Builder) Solve(ctx context.Context) (fc.Solution, error) {
	n := b.model.NumVars()
	inner := fc.NewFlatModel()
	for i := 0; i < n; i++ {
		v := b.model.Var(fc.VarIndex(i))
		inner.AddVar(v.LB, v.UB, v.Type)
	}
	if b.hasObjective {
		inner.SetObjective(b.objective, b.maximize)
	}
	// Iterate typeNames in a fixed order so aux-variable indices stay reproducible across runs of
	// the same model (model.go's registerKeeper docs the same requirement for FlatModel itself);
	// b.items is a map only because a Builder's accepted type set is sparse and unordered.
	typeNames := make([]string, 0, len(b.items))
	for typeName := range b.items {
		typeNames = append(typeNames, typeName)
	}
	sort.Strings(typeNames)
	for _, typeName := range typeNames {
		for _, item := range b.items[typeName] {
			if err := addToInner(inner, typeName, item); err != nil {
				return fc.Solution{}, err
			}
		}
	}

	lin := &linearCollector{}
	lin.AddVariables(n) // keep inner's/lin's index spaces in lockstep for the original n variables
	conv := fc.NewConverter(inner, lin, fc.Options{AlgRelax: b.AlgRelax})
	if err := conv.RunConversion(); err != nil {
		return fc.Solution{}, fmt.Errorf("cpsatapi: internal linearization: %w", err)
	}

	nv := lin.numVars
	c := make([]float64, nv)
	if lin.hasObjective {
		for i, v := range lin.objective.Vars {
			coeff := lin.objective.Coeffs[i]
			if lin.maximize {
				coeff = -coeff
			}
			c[v] += coeff
		}
	}

	lb := make([]float64, nv)
	ub := make([]float64, nv)
	integrality := make([]bool, nv)
	for i := 0; i < nv; i++ {
		v := inner.Var(fc.VarIndex(i))
		lb[i], ub[i] = v.LB, v.UB
		integrality[i] = v.Type == fc.Integer && !b.AlgRelax
	}

	var aRows, gRows []float64
	var bVals, hVals []float64
	for _, r := range lin.rows {
		row := denseRow(nv, r.expr)
		rhs := r.rhs - r.expr.Const
		switch r.kind {
		case "EQ":
			aRows = append(aRows, row...)
			bVals = append(bVals, rhs)
		case "LE":
			gRows = append(gRows, row...)
			hVals = append(hVals, rhs)
		case "GE":
			gRows = append(gRows, negateRow(row)...)
			hVals = append(hVals, -rhs)
		}
	}

	var a, g *mat.Dense
	if len(bVals) > 0 {
		a = mat.NewDense(len(bVals), nv, aRows)
	}
	if len(hVals) > 0 {
		g = mat.NewDense(len(hVals), nv, gRows)
	}

	prob, unshift := bnb.Standardize(c, a, bVals, g, hVals, lb, ub, integrality)
	result, err := prob.Solve(ctx)
	if err != nil {
		return fc.Solution{}, fmt.Errorf("%w: %v", fc.ErrSolverNative, err)
	}

	sol := fc.Solution{Status: solveStatus(result.Status)}
	if result.HasSolution {
		x := unshift(result.X)
		sol.VarValues = x[:n]
		sol.HasObjValue = true
		if lin.maximize {
			sol.ObjValue = -result.Z + lin.objective.Const
		} else {
			sol.ObjValue = result.Z + lin.objective.Const
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
