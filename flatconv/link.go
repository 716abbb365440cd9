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

// Aggregator selects how a One2ManyLink combines several target-side values back into the single
// source-side value during postsolve.
type Aggregator int

const (
	// AggSum sums all target values onto the source (e.g. PL-multiplier breakpoints -> the
	// original variable's value).
	AggSum Aggregator = iota
	// AggFirst takes the first target value (e.g. duals of the dominant row of a range split).
	AggFirst
	// AggFirstNonzero takes the first nonzero target value.
	AggFirstNonzero
)

func (a Aggregator) apply(values []float64) float64 {
	switch a {
	case AggSum:
		var s float64
		for _, v := range values {
			s += v
		}
		return s
	case AggFirst:
		if len(values) == 0 {
			return 0
		}
		return values[0]
	case AggFirstNonzero:
		for _, v := range values {
			if v != 0 {
				return v
			}
		}
		return 0
	default:
		panic(fmt.Sprintf("flatconv: unknown aggregator %d", a))
	}
}

// Link is one directed edge of the presolve DAG: it describes how the Target range's values map
// back onto the Source range. A CopyLink is element-wise (Source.Size == Target.Size); a
// One2ManyLink maps a single source entry onto an arbitrary number of target entries, typically
// because one source constraint was rewritten into several target constraints.
type Link struct {
	Source NodeRange
	Target NodeRange
	// Agg is only consulted for one-to-many links (Source.Size == 1, Target.Size != 1).
	Agg Aggregator
}

// isOneToMany reports whether this link needs aggregation on postsolve.
func (l Link) isOneToMany() bool {
	return l.Source.Size == 1 && l.Target.Size != 1
}

// ValuePresolver owns the full set of Links created during conversion: the DAG that lets
// PostsolveFloats walk from solver-native (target) values back to original-model (source)
// values.
type ValuePresolver struct {
	links []Link
}

// newValuePresolver creates an empty presolve graph.
func newValuePresolver() *ValuePresolver {
	return &ValuePresolver{}
}

// AddLink records one edge. It is a defect (spec.md §8 invariant 4: "link completeness") to add a
// link whose Target range was not actually populated during the originating conversion; the
// converter calls AddLink from Convert2Var (see converter.go), right after the target variable
// it links to has been created.
func (p *ValuePresolver) AddLink(l Link) {
	if l.Source.Size == 1 && l.Target.Size == l.Source.Size {
		l.Agg = AggFirst
	}
	p.links = append(p.links, l)
}

// Links returns the recorded links in creation order (used by tech:writegraph).
func (p *ValuePresolver) Links() []Link {
	return p.links
}

// PostsolveFloats walks the DAG *in reverse* (last-created link first) propagating float values
// from each link's Target range back onto its Source range, using the link's aggregator whenever
// the arities differ. Source entries are only ever written once by a well-formed graph (spec.md
// §8 invariant 4), but later (earlier-created) links may overwrite earlier postsolved values if a
// chain of rewrites ran more than one pass deep, which is the desired "closest wins" semantics
// since later rewrites are strictly further from the original model.
func (p *ValuePresolver) PostsolveFloats() {
	for i := len(p.links) - 1; i >= 0; i-- {
		l := p.links[i]
		if l.Target.Empty() {
			continue
		}
		if l.isOneToMany() {
			vals := make([]float64, l.Target.Size)
			for j := 0; j < l.Target.Size; j++ {
				vals[j] = l.Target.Node.Float(l.Target.At(j))
			}
			if l.Source.Size == 1 {
				l.Source.Node.SetFloat(l.Source.At(0), l.Agg.apply(vals))
			}
			continue
		}
		n := l.Source.Size
		if l.Target.Size < n {
			n = l.Target.Size
		}
		for j := 0; j < n; j++ {
			l.Source.Node.SetFloat(l.Source.At(j), l.Target.Node.Float(l.Target.At(j)))
		}
	}
}

// arity returns the total number of target entries referenced by all recorded links, the
// quantity spec.md §8 invariant 4 compares with the total target entries created.
func (p *ValuePresolver) arity() int {
	total := 0
	for _, l := range p.links {
		total += l.Target.Size
	}
	return total
}
