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

// propagate.go implements the two passes spec.md §4.3 runs before redefinition: context defaulting
// and propagation (step 1), and the optional cvt:pre:eqresult/cvt:pre:eqbinary micro-passes
// (spec.md §11, supplemented from original_source/).

// applyContextDefaults sets every contextHolder item's context to CtxMixed if it is still CtxNone,
// i.e. a functional constraint the model builder never attributed a usage context to is assumed to
// be used both positively and negatively (spec.md §4.3 step 1: "a constraint with no recorded
// usage defaults to Mixed, the conservative choice").
func applyContextDefaults(m *FlatModel) {
	for _, k := range m.Keepers() {
		for i := 0; i < k.Len(); i++ {
			ctx, ok := k.itemContext(i)
			if !ok {
				continue
			}
			if ctx == CtxNone {
				k.setItemContext(i, CtxMixed)
			}
		}
	}
}

// owner identifies the constraint (keeper + item index) that defines one VarIndex as its result.
type owner struct {
	k   anyKeeper
	idx int
}

// flipsChildContext reports whether typeName's own context must be flipped (De Morgan-style)
// before being pushed onto its arguments. Only logical negation flips; every other functional
// type propagates its own context unchanged to the constraints defining its arguments.
func flipsChildContext(typeName string) bool {
	return typeName == "Not"
}

// propagateContexts walks outward from every functional constraint's own context to the
// constraints that define its argument variables, merging contexts at a fixpoint (spec.md §4.3
// step 2, §4.4 "Context propagation"). It returns an error only if propagation itself cannot make
// progress in a bounded number of passes, which does not happen for an acyclic constraint graph;
// flatconv assumes (as cpmodel.Builder's own CP-SAT model does for functional constraints) that
// the argument graph is a DAG.
func propagateContexts(m *FlatModel) error {
	owners := make(map[VarIndex]owner)
	keepers := m.Keepers()
	for _, k := range keepers {
		for i := 0; i < k.Len(); i++ {
			if v, ok := k.itemResultVar(i); ok {
				owners[v] = owner{k: k, idx: i}
			}
		}
	}

	type work struct {
		o   owner
		ctx Context
	}
	var queue []work
	for _, k := range keepers {
		for i := 0; i < k.Len(); i++ {
			if ctx, ok := k.itemContext(i); ok {
				queue = append(queue, work{owner{k, i}, ctx})
			}
		}
	}

	const maxPasses = 10000
	passes := 0
	for len(queue) > 0 {
		passes++
		if passes > maxPasses {
			return ErrInfeasibleDomain // unreachable for an acyclic graph; guards against a future cyclic builder bug
		}
		w := queue[0]
		queue = queue[1:]

		args, ok := w.o.k.itemArgs(w.o.idx)
		if !ok {
			continue
		}
		childCtx := w.ctx
		if flipsChildContext(w.o.k.TypeName()) {
			childCtx = childCtx.Flip()
		}
		for _, argVar := range args {
			child, found := owners[argVar]
			if !found {
				continue
			}
			cur, _ := child.k.itemContext(child.idx)
			merged := MergeContext(cur, childCtx)
			if merged != cur {
				child.k.setItemContext(child.idx, merged)
				queue = append(queue, work{child, merged})
			}
		}
	}
	return nil
}

// aliasResult rewrites every other reference to y (the objective, and every argument of every
// other registered constraint) onto v, then rebinds the item's own result variable to v directly.
// This is the actual rebind preprocessEqResult/preprocessEqBinary perform: without it, y would
// stay a separate column that nothing but this one item ever defines.
func aliasResult(conv *Converter, rh resultHolder, v VarIndex) {
	if y, hasY := rh.ResultVar(); hasY && y != v {
		conv.aliasVariable(y, v)
	}
	rh.SetResultVar(v)
}

// preprocessEqResult implements the "cvt:pre:eqresult" micro-pass: a LinearFunctionalConstraint
// whose Expr is already a single variable with unit coefficient and no constant is a pure alias
// (`y = x`). Every other constraint and the objective that referenced y is rewritten to reference x
// directly, so the redefinition catalog never needs to emit a defining row for y at all; y is left
// an unconstrained, otherwise-unreferenced auxiliary.
func preprocessEqResult(conv *Converter) {
	k, ok := conv.model.keeperFor("LinearFunctionalConstraint").(*ConstraintKeeper[*LinearFunctionalConstraint])
	if !ok {
		return
	}
	for i := 0; i < k.Len(); i++ {
		c := k.Get(i)
		if v, isAlias := c.Expr.singleVar(); isAlias {
			aliasResult(conv, c, v)
		}
	}
}

// preprocessEqBinary implements the "cvt:pre:eqbinary" micro-pass: an And/Or constraint over
// exactly one argument is a pure alias of that argument, folded away the same way as
// preprocessEqResult instead of going through redefinition for a trivial `y <= x; y >= x` pair.
func preprocessEqBinary(conv *Converter) {
	if k, ok := conv.model.keeperFor("And").(*ConstraintKeeper[*And]); ok {
		for i := 0; i < k.Len(); i++ {
			if c := k.Get(i); len(c.Of) == 1 {
				aliasResult(conv, c, c.Of[0])
			}
		}
	}
	if k, ok := conv.model.keeperFor("Or").(*ConstraintKeeper[*Or]); ok {
		for i := 0; i < k.Len(); i++ {
			if c := k.Get(i); len(c.Of) == 1 {
				aliasResult(conv, c, c.Of[0])
			}
		}
	}
}
