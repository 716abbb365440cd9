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

// Package flatconv implements a MIP/NLP model transformation pipeline: it accepts a flattened
// model built from a large, open-ended taxonomy of structured constraints and rewrites whatever a
// target solver's ModelAPI does not accept into forms it does, through a cascade of redefinition
// passes, while keeping a presolve trail that lets primal, dual, basis and sensitivity values be
// mapped back to the original model.
package flatconv

// ValueNode is a growable, typed, per-entity-family array used by the presolve DAG to carry
// primal/dual/basis/sensitivity scalars across rewrites. One ValueNode is owned by each
// ConstraintKeeper (one scalar per stored constraint) and one by the variable family.
type ValueNode struct {
	name   string
	floats []float64
	ints   []int
}

// newValueNode creates an empty ValueNode identified by name (used in diagnostics and the
// tech:writegraph export).
func newValueNode(name string) *ValueNode {
	return &ValueNode{name: name}
}

// grow appends one zero-valued entry and returns its index.
func (n *ValueNode) grow() int {
	n.floats = append(n.floats, 0)
	n.ints = append(n.ints, 0)
	return len(n.floats) - 1
}

// Len returns the number of entries currently stored.
func (n *ValueNode) Len() int {
	return len(n.floats)
}

// SetFloat stores a float64 scalar (dual value, sensitivity range endpoint, ...) at i.
func (n *ValueNode) SetFloat(i int, v float64) {
	n.floats[i] = v
}

// Float reads the float64 scalar at i.
func (n *ValueNode) Float(i int) float64 {
	return n.floats[i]
}

// SetInt stores an int scalar (basis status, solver-native row/col index, ...) at i.
func (n *ValueNode) SetInt(i int, v int) {
	n.ints[i] = v
}

// Int reads the int scalar at i.
func (n *ValueNode) Int(i int) int {
	return n.ints[i]
}

// NodeRange is a contiguous slice `[First, First+Size)` into a ValueNode. Links in the presolve
// DAG connect NodeRanges rather than individual entries, since most rewrites are emitted as one
// contiguous run of new constraints/variables for a single source item.
type NodeRange struct {
	Node  *ValueNode
	First int
	Size  int
}

// Empty reports whether the range has zero entries (e.g. a constant-folded constraint that never
// allocated a target).
func (r NodeRange) Empty() bool {
	return r.Size == 0
}

// At returns the absolute node index for the i-th entry of the range.
func (r NodeRange) At(i int) int {
	if i < 0 || i >= r.Size {
		panic("flatconv: NodeRange index out of bounds")
	}
	return r.First + i
}
