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

// Converter drives one FlatModel through one ModelAPI/Backend pair: it decides, type by type,
// whether a constraint goes straight to the target or through the redefinition catalog, and it is
// the handle every Convert method (constraint.go's convertible interface) uses to emit new
// variables and constraints (spec.md §4 "FlatConverter"). The name mirrors
// ortools/sat/go/cpmodel.Builder's own Builder-as-sole-mutation-point style: nothing downstream of
// RunConversion reaches into the model directly.
type Converter struct {
	model *FlatModel
	api   ModelAPI
	opt   Options

	// fixedVars caches already-created "constant as a variable" auxiliaries so that two
	// redefinitions needing the same fixed value (e.g. a 0/1 literal used as big-M scaffolding)
	// share one variable instead of allocating a fresh one each time (spec.md §11, supplemented
	// from original_source/: the original's converter.h keeps exactly this kind of fixed-value
	// cache).
	fixedVars map[float64]VarIndex

	// curSource is the postsolve value-node position of the constraint item currently being
	// converted; set by beginItem before each ConvertItem call and consulted by Convert2Var when it
	// records a postsolve link.
	curSource NodeRange
}

// NewConverter builds a Converter for model against api, under the given parsed options.
func NewConverter(model *FlatModel, api ModelAPI, opt Options) *Converter {
	return &Converter{
		model:     model,
		api:       api,
		opt:       opt,
		fixedVars: make(map[float64]VarIndex),
	}
}

// Model returns the FlatModel being converted.
func (c *Converter) Model() *FlatModel { return c.model }

// API returns the target ModelAPI.
func (c *Converter) API() ModelAPI { return c.api }

// RunConversion walks every registered keeper in registration order and, for each, either leaves
// its items alone (native acceptance), converts them all via the redefinition catalog, or fails
// with ErrConstraintConversionFailure (spec.md §4.2 "Dispatch"). It brackets the whole pass with
// the ModelAPI's modification-phase hooks and, afterward, emits the objective and the optional
// presolve-graph dump.
func (c *Converter) RunConversion() error {
	for v := 0; v < c.model.NumVars(); v++ {
		vv := c.model.Var(VarIndex(v))
		if vv.LB > vv.UB {
			return logErrorf("%w: var %d has [%g, %g]", ErrInfeasibleDomain, v, vv.LB, vv.UB)
		}
	}

	// alg:relax drops integrality off every variable before anything downstream (native emission,
	// the redefinition catalog's own aux variables, and whichever Backend eventually reads
	// Variable.Type) ever sees it, so the whole model solves as its LP relaxation.
	if c.opt.AlgRelax {
		for v := 0; v < c.model.NumVars(); v++ {
			vv := c.model.Var(VarIndex(v))
			vv.Type = Continuous
			c.model.SetVar(VarIndex(v), vv)
		}
	}

	if err := c.api.InitProblemModificationPhase(); err != nil {
		return fmt.Errorf("InitProblemModificationPhase: %w", err)
	}

	if c.opt.PreAll || c.opt.PreEqResult {
		preprocessEqResult(c)
	}
	if c.opt.PreAll || c.opt.PreEqBinary {
		preprocessEqBinary(c)
	}

	applyContextDefaults(c.model)
	if err := propagateContexts(c.model); err != nil {
		return err
	}
	if err := ComputeBoundsAndType(c.model); err != nil {
		return err
	}

	// Redefinition rules routinely register brand-new constraint types mid-pass (e.g. Abs emits
	// LinConLE/LinConGE rows; NumberofConst emits CondLinConEQ constraints that may themselves need
	// further redefinition). A single range-for over the keeper list taken at the start would miss
	// every one of those, so this runs to a fixed point instead: each outer round re-reads
	// c.model.Keepers() (picking up keepers created since the last round) and, for every keeper,
	// only processes the items appended since that keeper was last visited. The round stops when a
	// full pass makes no progress at all.
	done := make(map[string]int)
	for {
		progressed := false
		for _, k := range c.model.Keepers() {
			from := done[k.TypeName()]
			if k.Len() <= from {
				continue
			}
			acc := k.typeAcceptance(c.api, c.opt)
			switch acc {
			case Recommended, AcceptedButNotRecommended:
				if err := c.emitNative(k, from); err != nil {
					return err
				}
			case NotAccepted:
				if err := c.emitConverted(k, from); err != nil {
					return err
				}
			}
			done[k.TypeName()] = k.Len()
			progressed = true
		}
		if !progressed {
			break
		}
	}

	if expr, maximize, has := c.model.Objective(); has {
		if err := c.api.SetObjective(0, expr, maximize); err != nil {
			return fmt.Errorf("SetObjective: %w", err)
		}
	}

	if err := c.api.FinishProblemModificationPhase(); err != nil {
		return fmt.Errorf("FinishProblemModificationPhase: %w", err)
	}

	if c.opt.WriteGraphPath != "" {
		if err := writePresolveGraph(c.model, c.opt.WriteGraphPath); err != nil {
			return fmt.Errorf("tech:writegraph: %w", err)
		}
	}
	return nil
}

// emitNative hands every item of k from index `from` onward straight to the ModelAPI, unless an
// individual item's own NeedsConversionAPI hook overrides that (modelapi.go's needsConversion).
func (c *Converter) emitNative(k anyKeeper, from int) error {
	nr := k.ValueNodeRange()
	for i := from; i < k.Len(); i++ {
		c.beginItem(NodeRange{Node: nr.Node, First: nr.First + i, Size: 1})
		item := k.ItemAt(i)
		if needsConversion(c.api, k.TypeName(), item) {
			if _, err := k.ConvertItem(c, i); err != nil {
				return err
			}
			continue
		}
		if err := c.api.AddConstraint(k.TypeName(), item); err != nil {
			return fmt.Errorf("AddConstraint %s[%d]: %w", k.TypeName(), i, err)
		}
	}
	return nil
}

// emitConverted routes every item of k from index `from` onward through its redefinition rule. A
// keeper whose constraint type has no Convert method at all cannot be converted; that is reported
// as ErrConstraintConversionFailure rather than silently passing the item through, since the
// target explicitly declined it (NotAccepted).
func (c *Converter) emitConverted(k anyKeeper, from int) error {
	nr := k.ValueNodeRange()
	anyConverted := false
	for i := from; i < k.Len(); i++ {
		c.beginItem(NodeRange{Node: nr.Node, First: nr.First + i, Size: 1})
		ran, err := k.ConvertItem(c, i)
		if err != nil {
			return err
		}
		if ran {
			anyConverted = true
		}
	}
	if !anyConverted && k.Len() > from {
		return logErrorf("%w: %s", ErrConstraintConversionFailure, k.TypeName())
	}
	return nil
}

// ConvertItems forces every item currently stored under typeName through its redefinition rule,
// regardless of what the target ModelAPI reports for Accepts(typeName). Exported for callers (and
// tests) that need to materialize a specific type's reformulation independent of the normal
// acceptance-driven dispatch in RunConversion.
func (c *Converter) ConvertItems(typeName string) error {
	k := c.model.keeperFor(typeName)
	if k == nil {
		return nil
	}
	return c.emitConverted(k, 0)
}

// beginItem sets the postsolve source position for the item about to be converted; every Link
// created by the constraint's Convert method during this call is attributed to src.
func (c *Converter) beginItem(src NodeRange) {
	c.curSource = src
}

// Convert2Var allocates one fresh auxiliary variable with the given bounds/type in both the
// FlatModel's bookkeeping and the target ModelAPI, and wires a CopyLink from the current
// constraint item's postsolve position to it (spec.md §4.3 "introduce a new variable").
func (c *Converter) Convert2Var(lb, ub float64, typ VarType) VarIndex {
	first := c.api.AddVariables(1)
	idx := c.model.AddVar(lb, ub, typ)
	_ = first // the ModelAPI and FlatModel index spaces are kept in lockstep by construction
	c.model.Presolver().AddLink(Link{
		Source: c.curSource,
		Target: NodeRange{Node: auxVarNode(c.model), First: int(idx), Size: 1},
		Agg:    AggFirst,
	})
	return idx
}

// AssignResult2Args binds rh's result variable to v directly, without allocating a new variable,
// when the redefinition determines the functional constraint's output coincides with one of its
// own arguments (e.g. `y = max(x)` for a single argument reduces to `y = x`). It is a no-op if rh
// already has a result variable assigned.
func (c *Converter) AssignResult2Args(rh resultHolder, v VarIndex) VarIndex {
	if existing, ok := rh.ResultVar(); ok {
		return existing
	}
	rh.SetResultVar(v)
	return v
}

// FixAsTrue fixes the 0/1 variable v to the literal 1, returning ErrInfeasibleDomain if v's
// current bounds cannot represent that value. Used when a redefinition determines a reified
// boolean must hold unconditionally (e.g. an indicator whose controlling literal is itself fixed).
func (c *Converter) FixAsTrue(v VarIndex) error {
	vv := c.model.Var(v)
	if 1 < vv.LB || 1 > vv.UB {
		return logErrorf("%w: var %d cannot be fixed to 1 (domain [%g, %g])", ErrInfeasibleDomain, v, vv.LB, vv.UB)
	}
	vv.LB, vv.UB = 1, 1
	c.model.SetVar(v, vv)
	return nil
}

// FixAsFalse fixes the 0/1 variable v to the literal 0, returning ErrInfeasibleDomain if v's
// current bounds cannot represent that value. The dual of FixAsTrue, used when a redefinition
// determines a reified boolean must fail unconditionally.
func (c *Converter) FixAsFalse(v VarIndex) error {
	vv := c.model.Var(v)
	if 0 < vv.LB || 0 > vv.UB {
		return logErrorf("%w: var %d cannot be fixed to 0 (domain [%g, %g])", ErrInfeasibleDomain, v, vv.LB, vv.UB)
	}
	vv.LB, vv.UB = 0, 0
	c.model.SetVar(v, vv)
	return nil
}

// RedefineVariable rebinds an existing variable's domain and type in place, used when a
// redefinition determines a tighter or more specific domain for a variable it itself introduced
// earlier in the same conversion pass (e.g. narrowing an SOS2-weight auxiliary from continuous to
// binary once its role is known). It refuses to rebind a variable that is already referenced by a
// fixed-value cache entry under its prior meaning, since that would silently invalidate whatever
// shared that cache entry.
func (c *Converter) RedefineVariable(v VarIndex, lb, ub float64, typ VarType) error {
	for _, cached := range c.fixedVars {
		if cached == v {
			return logErrorf("%w: var %d is already cached as a fixed value", ErrDuplicateMapInsert, v)
		}
	}
	vv := c.model.Var(v)
	vv.LB, vv.UB, vv.Type = lb, ub, typ
	c.model.SetVar(v, vv)
	return nil
}

// aliasVariable redirects every reference to old (the objective and every registered constraint)
// onto repl. Used when a functional constraint's result variable turns out to be a pure alias of
// one of its own arguments (propagate.go's eqresult/eqbinary micro-passes): rather than emitting a
// redundant defining row for old, every consumer is rewritten to use repl directly, and old is left
// an unconstrained, otherwise-unreferenced auxiliary.
func (c *Converter) aliasVariable(old, repl VarIndex) {
	c.model.substituteVar(old, repl)
}

// FixedValueVar returns the variable representing the constant value, allocating and caching a new
// fixed [value,value] variable on first use so repeated redefinitions needing the same constant
// share one auxiliary (spec.md §11's fixed-value cache).
func (c *Converter) FixedValueVar(value float64) VarIndex {
	if v, ok := c.fixedVars[value]; ok {
		return v
	}
	v := c.Convert2Var(value, value, Continuous)
	c.fixedVars[value] = v
	return v
}

// auxVarNode lazily creates the single shared value node standing in for "the FlatModel's own
// variable array" as a postsolve target, so Convert2Var's CopyLink has somewhere concrete to point.
func auxVarNode(m *FlatModel) *ValueNode {
	if m.auxNode == nil {
		m.auxNode = newValueNode("vars")
	}
	for m.auxNode.Len() < m.NumVars() {
		m.auxNode.grow()
	}
	return m.auxNode
}
