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

// Constraint is the minimal contract every concrete constraint type satisfies: a static type
// name used as the ModelAPI acceptance key and the keeper registry key (spec.md §3).
type Constraint interface {
	TypeName() string
}

// resultHolder is implemented by functional constraints of the form `y = f(args)` (spec.md §3,
// "Functional constraint"). Implemented via the embedded `base` struct.
type resultHolder interface {
	ResultVar() (VarIndex, bool)
	SetResultVar(VarIndex)
}

// contextHolder is implemented by constraints whose truth value can be used positively,
// negatively, or in a mixed sense (spec.md §4.4). UsesContext distinguishes constraints that
// carry a meaningful context (logical/reified types) from those that never do (plain algebraic
// rows), so RunConversion (converter.go) knows which constraints get the "unset -> Mixed"
// default applied (spec.md §4.3 step 1).
type contextHolder interface {
	Context() Context
	SetContext(Context)
	UsesContext() bool
}

// keyable is implemented by constraint types stored in a *mapped* keeper (spec.md §3
// "ConstraintKeeper<C>... For functional types it additionally owns a hash map C -> index for
// CSE-style deduplication."). Key must be a canonical, order-independent encoding of the
// constraint's structural content.
type keyable interface {
	Key() string
}

// convertible is implemented by constraint types that have a registered redefinition rule.
// Dispatch is a single interface method call — i.e. O(1), with the concrete type's method table
// already resolved by the Go runtime (spec.md §9 "the requirement is O(1) dispatch to Convert(c)
// with the concrete type restored" — satisfied here via Go's interface dispatch rather than a
// tagged union or manual type-id registry).
type convertible interface {
	// Convert emits the equivalent constraints/variables for the item at idx (via conv's
	// Add*/AssignResult2Args/Convert2Var methods) and returns an error for a structural defect
	// (e.g. UnboundedBigM, InfeasibleDomain). Called only from the Converter's conversion loop
	// (converter.go), after beginItem has set the item's postsolve source.
	Convert(conv *Converter, idx int) error
}

// argsHolder exposes the argument variables of a constraint, used by bound/context propagation
// (bounds.go, propagate.go) to walk from a constraint to the variables it constrains.
type argsHolder interface {
	Args() []VarIndex
}

// varSubstitutable is implemented by every constraint type that can have one of its own variable
// references replaced by another. Used by propagate.go's eqresult/eqbinary micro-passes to redirect
// every other constraint off a variable that turned out to be a pure alias of one of its own
// arguments, rather than emitting a redundant defining row for it.
type varSubstitutable interface {
	SubstituteVar(old, repl VarIndex) Constraint
}

// base is embedded by every functional constraint type (one with a result variable and a
// context). It supplies the resultHolder and contextHolder implementations so concrete types only
// need to declare their argument fields and TypeName/Convert/Key.
type base struct {
	resultVar VarIndex
	hasResult bool
	ctx       Context
}

func (b *base) ResultVar() (VarIndex, bool) {
	return b.resultVar, b.hasResult
}

func (b *base) SetResultVar(v VarIndex) {
	b.resultVar = v
	b.hasResult = true
}

func (b *base) Context() Context {
	return b.ctx
}

func (b *base) SetContext(c Context) {
	b.ctx = c
}

// UsesContext defaults to true for every type embedding base; purely algebraic types (which do
// not embed base) never implement contextHolder at all and so are skipped by the context-default
// step regardless.
func (b *base) UsesContext() bool {
	return true
}
