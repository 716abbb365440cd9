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

// FlatModel owns the variable array, the linear objective, and the registry of constraint keepers
// (spec.md §2 "FlatModel"). It is solver-agnostic; FlatConverter (converter.go) drives a FlatModel
// through a particular ModelAPI/Backend pair.
type FlatModel struct {
	vars      []Variable
	objective LinExpr
	maximize  bool
	hasObj    bool

	keeperOrder []string
	keepers     map[string]anyKeeper
	presolver   *ValuePresolver
	auxNode     *ValueNode // lazily created value node standing in for the variable array; see auxVarNode in converter.go
}

// NewFlatModel returns an empty model ready to receive variables and constraints.
func NewFlatModel() *FlatModel {
	return &FlatModel{
		keepers:   make(map[string]anyKeeper),
		presolver: newValuePresolver(),
	}
}

// AddVar appends one decision variable and returns its index.
func (m *FlatModel) AddVar(lb, ub float64, typ VarType) VarIndex {
	m.vars = append(m.vars, Variable{LB: lb, UB: ub, Type: typ})
	return VarIndex(len(m.vars) - 1)
}

// NumVars reports the number of variables currently in the model.
func (m *FlatModel) NumVars() int { return len(m.vars) }

// Var returns a copy of the variable at idx.
func (m *FlatModel) Var(idx VarIndex) Variable { return m.vars[idx] }

// SetVar replaces the variable at idx.
func (m *FlatModel) SetVar(idx VarIndex, v Variable) { m.vars[idx] = v }

// setInitExpr records that idx is the result variable of the constraint at position i in the
// keeper named keeper, so Variable.HasInitExpr can report it later.
func (m *FlatModel) setInitExpr(idx VarIndex, keeper string, i int) {
	v := m.vars[idx]
	v.initExpr = initExprRef{Keeper: keeper, Index: i, valid: true}
	m.vars[idx] = v
}

// SetObjective installs the (single, spec.md §2) model objective.
func (m *FlatModel) SetObjective(expr LinExpr, maximize bool) {
	m.objective = expr
	m.maximize = maximize
	m.hasObj = true
}

// Objective returns the installed objective, if any.
func (m *FlatModel) Objective() (LinExpr, bool, bool) {
	return m.objective, m.maximize, m.hasObj
}

// Presolver returns the model's value-presolver DAG, shared across every keeper's redefinitions.
func (m *FlatModel) Presolver() *ValuePresolver { return m.presolver }

// registerKeeper records k under typeName, preserving first-registration order so RunConversion
// (converter.go) processes keepers deterministically (spec.md §4.2 "constraint types are converted
// in a fixed, registration-derived order so that auxiliary variable indices are reproducible
// across runs of the same model").
func (m *FlatModel) registerKeeper(typeName string, k anyKeeper) {
	if _, exists := m.keepers[typeName]; !exists {
		m.keeperOrder = append(m.keeperOrder, typeName)
	}
	m.keepers[typeName] = k
}

// keeperFor returns the keeper registered under typeName, or nil.
func (m *FlatModel) keeperFor(typeName string) anyKeeper {
	return m.keepers[typeName]
}

// Keepers returns every registered keeper in registration order.
func (m *FlatModel) Keepers() []anyKeeper {
	out := make([]anyKeeper, len(m.keeperOrder))
	for i, name := range m.keeperOrder {
		out[i] = m.keepers[name]
	}
	return out
}

// substituteVar rewrites every occurrence of old as an argument of the objective or any registered
// constraint to repl. Used by the alias-folding micro-passes (propagate.go) once a functional
// constraint's result variable is determined to be a pure duplicate of one of its own arguments:
// every consumer is redirected to the argument directly instead of the result variable staying a
// separate, redundantly-defined column.
func (m *FlatModel) substituteVar(old, repl VarIndex) {
	if m.hasObj {
		m.objective = m.objective.substitute(old, repl)
	}
	for _, k := range m.Keepers() {
		k.substituteVar(old, repl)
	}
}

// Keeper returns the typed keeper for constraint type C, registering a new empty one under
// typeName on first use. Call sites are generated per constraint type, e.g.:
//
//	k := Keeper[LinConLE](model, "LinConLE")
//	idx, _ := k.Add(c)
func Keeper[C Constraint](m *FlatModel, typeName string) *ConstraintKeeper[C] {
	if existing := m.keeperFor(typeName); existing != nil {
		return existing.(*ConstraintKeeper[C])
	}
	k := NewConstraintKeeper[C](typeName)
	m.registerKeeper(typeName, k)
	return k
}
