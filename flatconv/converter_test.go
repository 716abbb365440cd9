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

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

// recordingAPI accepts only plain one-sided linear rows and records everything it is handed, so a
// test can inspect exactly what a redefinition rule emitted (mirrors cp_model_test.go's pattern of
// comparing a built model against a literal expected value with cmp.Diff rather than re-deriving
// the answer inline).
type recordingAPI struct {
	numVars   int
	le, ge    []LinConLE
	objective LinExpr
	maximize  bool
}

func (r *recordingAPI) Accepts(typeName string) Acceptance {
	switch typeName {
	case "LinConLE", "LinConGE":
		return Recommended
	default:
		return NotAccepted
	}
}

func (r *recordingAPI) AddVariables(n int) VarIndex {
	first := r.numVars
	r.numVars += n
	return VarIndex(first)
}

func (r *recordingAPI) AddConstraint(typeName string, c Constraint) error {
	switch typeName {
	case "LinConLE":
		r.le = append(r.le, c.(LinConLE))
	case "LinConGE":
		// Normalize to LinConLE shape for comparison purposes only.
		ge := c.(LinConGE)
		r.ge = append(r.ge, LinConLE{Expr: ge.Expr, RHS: ge.RHS})
	default:
		return ErrConstraintConversionFailure
	}
	return nil
}

func (r *recordingAPI) SetObjective(index int, expr LinExpr, maximize bool) error {
	r.objective, r.maximize = expr, maximize
	return nil
}

func (r *recordingAPI) Infinity() float64      { return Inf }
func (r *recordingAPI) MinusInfinity() float64 { return NegInf }

func (r *recordingAPI) InitProblemModificationPhase() error   { return nil }
func (r *recordingAPI) FinishProblemModificationPhase() error { return nil }

// TestRunConversionSplitsLinConRange checks the exact pair of one-sided rows LinConRange.Convert
// emits, byte for byte, via cmp.Diff rather than spot-checking individual fields.
func TestRunConversionSplitsLinConRange(t *testing.T) {
	model := NewFlatModel()
	x := model.AddVar(0, 10, Continuous)
	api := &recordingAPI{}
	api.AddVariables(model.NumVars())

	expr := NewLinExpr().AddTerm(x, 1)
	AddConstraint(model, "LinConRange", LinConRange{Expr: expr, LB: 2, UB: 7})

	conv := NewConverter(model, api, Options{})
	if err := conv.RunConversion(); err != nil {
		t.Fatalf("RunConversion() err = %v", err)
	}

	wantLE := []LinConLE{{Expr: expr, RHS: 7}}
	wantGE := []LinConLE{{Expr: expr, RHS: 2}}
	if diff := cmp.Diff(wantLE, api.le); diff != "" {
		t.Errorf("LE rows mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(wantGE, api.ge); diff != "" {
		t.Errorf("GE rows (normalized) mismatch (-want +got):\n%s", diff)
	}
}

// TestRunConversionRejectsUnconvertibleType confirms a type with no redefinition rule and no
// native acceptance surfaces ErrConstraintConversionFailure, logged once at the point of detection.
// QuadConEQ is the terminal quadratic row form: nothing redefines it further, so a ModelAPI that
// declines it natively (recordingAPI only accepts LinConLE/LinConGE) leaves the converter stuck.
func TestRunConversionRejectsUnconvertibleType(t *testing.T) {
	model := NewFlatModel()
	x := model.AddVar(0, 10, Continuous)
	y := model.AddVar(0, 10, Continuous)
	api := &recordingAPI{}
	api.AddVariables(model.NumVars())

	AddConstraint(model, "QuadConEQ", QuadConEQ{
		Expr: QuadExpr{QVars1: []VarIndex{x}, QVars2: []VarIndex{y}, QCoeffs: []float64{1}},
		RHS:  0,
	})

	conv := NewConverter(model, api, Options{})
	err := conv.RunConversion()
	if err == nil {
		t.Fatal("RunConversion() err = nil, want ErrConstraintConversionFailure")
	}
}
