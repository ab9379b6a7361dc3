// Copyright 2019 eBay Inc.
// Primary authors: Simon Fell, Diego Ongaro,
//                  Raymond Kroeker, and Sathish Kandasamy.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
// https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package validity checks a graph for facts that contradict its schema. The
// checks are read only: they report Violations and never change the graph.
package validity

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/ebay/entail/graph"
)

// Kind identifies which check found a Violation.
type Kind int

// Kinds of checks, in the order their Violations are reported.
const (
	// Disjoint reports a resource that is an instance of two disjoint classes.
	Disjoint Kind = iota + 1
	// Nothing reports an instance of owl:Nothing.
	Nothing
	// RangeKind reports a value that is a resource where the property's range
	// calls for a literal, or the other way around.
	RangeKind
	// RangeDatatype reports a literal whose datatype doesn't match the
	// property's datatype range.
	RangeDatatype
	// IllFormedLiteral reports a typed literal whose lexical form isn't valid
	// for its datatype.
	IllFormedLiteral
	// Functional reports a subject with more than one value for a functional
	// property.
	Functional
	// InverseFunctional reports a value shared by more than one subject for an
	// inverse functional property.
	InverseFunctional
)

var kindNames = [...]string{
	Disjoint:          "disjoint",
	Nothing:           "nothing",
	RangeKind:         "range-kind",
	RangeDatatype:     "range-datatype",
	IllFormedLiteral:  "ill-formed-literal",
	Functional:        "functional",
	InverseFunctional: "inverse-functional",
}

// String returns the Kind's name, as used to disable checks.
func (k Kind) String() string {
	if k > 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Kinds returns every Kind, in reporting order.
func Kinds() []Kind {
	kinds := make([]Kind, 0, len(kindNames)-1)
	for k := Disjoint; int(k) < len(kindNames); k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

// ParseKind returns the Kind with the given name.
func ParseKind(name string) (Kind, error) {
	for _, k := range Kinds() {
		if k.String() == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown validity check %q", name)
}

// Violation describes one inconsistency found in a graph.
type Violation struct {
	Kind Kind
	// Focus is the resource (or value) the Violation is about.
	Focus graph.Term
	// Facts are the facts that together contradict each other, in sorted
	// order. They include the schema axioms involved.
	Facts       []graph.Fact
	Explanation string
}

// String returns a single line description, such as
// "disjoint: <http://example.org/tom>: ...".
func (v Violation) String() string {
	return fmt.Sprintf("%v: %v: %s", v.Kind, v.Focus, v.Explanation)
}

// compare orders Violations by kind, then focus, then their facts.
func compare(a, b Violation) int {
	return cmp.Or(
		cmp.Compare(a.Kind, b.Kind),
		a.Focus.Compare(b.Focus),
		slices.CompareFunc(a.Facts, b.Facts, graph.Fact.Compare),
		strings.Compare(a.Explanation, b.Explanation),
	)
}

// newViolation returns a Violation with its facts sorted and de-duplicated.
func newViolation(kind Kind, focus graph.Term, facts []graph.Fact, format string, args ...any) Violation {
	facts = slices.Clone(facts)
	slices.SortFunc(facts, graph.Fact.Compare)
	facts = slices.Compact(facts)
	return Violation{
		Kind:        kind,
		Focus:       focus,
		Facts:       facts,
		Explanation: fmt.Sprintf(format, args...),
	}
}
