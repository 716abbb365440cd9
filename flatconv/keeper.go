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

import "fmt"

// ConstraintKeeper stores every constraint of one concrete type C (spec.md §3
// "ConstraintKeeper<C>: a typed container for one concrete constraint type, responsible for
// storage, value-node wiring, and dispatching conversion"). Functional types that additionally
// implement keyable get CSE-style dedup via an index map keyed by their canonical Key().
type ConstraintKeeper[C Constraint] struct {
	typeName string
	items    []C
	index    map[string]int // Key() -> position in items, only populated when C is keyable
	vnode    *ValueNode      // per-item postsolve payload, nil until SelectValueNodeRange is used
}

// NewConstraintKeeper constructs an empty keeper for constraint type C, identified by typeName for
// diagnostics and for the acc:<tag> option lookup (options.go).
func NewConstraintKeeper[C Constraint](typeName string) *ConstraintKeeper[C] {
	return &ConstraintKeeper[C]{typeName: typeName}
}

// TypeName returns the keeper's registered type name.
func (k *ConstraintKeeper[C]) TypeName() string { return k.typeName }

// Len returns the number of constraints currently stored.
func (k *ConstraintKeeper[C]) Len() int { return len(k.items) }

// Get returns the constraint at idx.
func (k *ConstraintKeeper[C]) Get(idx int) C { return k.items[idx] }

// Add appends c and returns its index. If C implements keyable, structurally identical constraints
// are deduplicated: Add returns the existing index instead of creating a duplicate (spec.md §3
// "functional constraint keepers additionally perform CSE: adding a constraint structurally equal
// to one already present returns the existing result variable instead of creating a duplicate").
func (k *ConstraintKeeper[C]) Add(c C) (idx int, isNew bool) {
	if kc, ok := any(c).(keyable); ok {
		if k.index == nil {
			k.index = make(map[string]int)
		}
		key := kc.Key()
		if existing, found := k.index[key]; found {
			return existing, false
		}
		idx = len(k.items)
		k.items = append(k.items, c)
		k.index[key] = idx
		return idx, true
	}
	idx = len(k.items)
	k.items = append(k.items, c)
	return idx, true
}

// Find looks up a keyable constraint by its canonical key without inserting it.
func (k *ConstraintKeeper[C]) Find(key string) (int, bool) {
	idx, ok := k.index[key]
	return idx, ok
}

// SelectValueNodeRange returns the postsolve value-node range spanning all items currently in the
// keeper, allocating the node on first use. Converter calls this once per keeper right before
// conversion so a Link (link.go) can be wired from the redefinition's new constraints back to
// these result positions (spec.md §8 "Presolve link creation").
func (k *ConstraintKeeper[C]) SelectValueNodeRange() NodeRange {
	if k.vnode == nil {
		k.vnode = newValueNode(k.typeName)
	}
	for k.vnode.Len() < len(k.items) {
		k.vnode.grow()
	}
	return NodeRange{Node: k.vnode, First: 0, Size: len(k.items)}
}

// ValueNodeRange is the anyKeeper-interface name for SelectValueNodeRange.
func (k *ConstraintKeeper[C]) ValueNodeRange() NodeRange { return k.SelectValueNodeRange() }

// ItemAt returns the constraint at i widened to the Constraint interface, for callers (Converter's
// emitNative) that only know the keeper's erased anyKeeper type.
func (k *ConstraintKeeper[C]) ItemAt(i int) Constraint { return k.items[i] }

// ConvertItem dispatches item i to its Convert method if C implements convertible, reporting
// whether a conversion rule ran at all. Dispatch is a single interface call per item, i.e. O(1) in
// the number of registered constraint types (constraint.go's convertible doc comment). Converter's
// RunConversion (converter.go) calls this once per item, bracketed by a per-item autolink scope so
// Convert can wire postsolve links without threading the item's own index through every call.
func (k *ConstraintKeeper[C]) ConvertItem(conv *Converter, i int) (ran bool, err error) {
	cv, ok := any(k.items[i]).(convertible)
	if !ok {
		return false, nil
	}
	if err := cv.Convert(conv, i); err != nil {
		return true, fmt.Errorf("converting %s[%d]: %w", k.typeName, i, err)
	}
	return true, nil
}

// typeAcceptance reports, for every stored item, the acceptance the given ModelAPI (with opt's
// acc:<tag> overrides applied) reports for this keeper's type. All items of one keeper share one type name,
// so this is a single lookup rather than a per-item one.
func (k *ConstraintKeeper[C]) typeAcceptance(api ModelAPI, opt Options) Acceptance {
	return effectiveAcceptance(opt, api, k.typeName)
}

// itemContext, setItemContext, itemArgs, and itemResultVar give propagate.go's context/bound
// passes generic, type-erased access to whichever of contextHolder/argsHolder/resultHolder item i
// happens to implement, without propagate.go needing to know the concrete constraint type C.
func (k *ConstraintKeeper[C]) itemContext(i int) (Context, bool) {
	if ch, ok := any(k.items[i]).(contextHolder); ok && ch.UsesContext() {
		return ch.Context(), true
	}
	return CtxNone, false
}

func (k *ConstraintKeeper[C]) setItemContext(i int, c Context) {
	if ch, ok := any(k.items[i]).(contextHolder); ok {
		ch.SetContext(c)
	}
}

func (k *ConstraintKeeper[C]) itemArgs(i int) ([]VarIndex, bool) {
	if ah, ok := any(k.items[i]).(argsHolder); ok {
		return ah.Args(), true
	}
	return nil, false
}

func (k *ConstraintKeeper[C]) itemResultVar(i int) (VarIndex, bool) {
	if rh, ok := any(k.items[i]).(resultHolder); ok {
		return rh.ResultVar()
	}
	return 0, false
}

// substituteVar rewrites every item implementing varSubstitutable, replacing each occurrence of
// old with repl. Items that don't reference variables structurally (or don't reference old at all)
// are left as returned by their own SubstituteVar, which is always safe to call unconditionally.
func (k *ConstraintKeeper[C]) substituteVar(old, repl VarIndex) {
	for i, item := range k.items {
		if vs, ok := any(item).(varSubstitutable); ok {
			k.items[i] = vs.SubstituteVar(old, repl).(C)
		}
	}
}

// anyKeeper is the type-erased view of a ConstraintKeeper used by FlatModel's registry (model.go)
// and by the acceptance/conversion loop in RunConversion, which must iterate over keepers of many
// different concrete C without knowing each one at compile time.
type anyKeeper interface {
	TypeName() string
	Len() int
	ValueNodeRange() NodeRange
	ItemAt(i int) Constraint
	ConvertItem(conv *Converter, i int) (ran bool, err error)
	typeAcceptance(api ModelAPI, opt Options) Acceptance
	itemContext(i int) (Context, bool)
	setItemContext(i int, c Context)
	itemArgs(i int) ([]VarIndex, bool)
	itemResultVar(i int) (VarIndex, bool)
	substituteVar(old, repl VarIndex)
}
