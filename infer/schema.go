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

package infer

import (
	"iter"
	"slices"

	"github.com/ebay/entail/graph"
	"github.com/ebay/entail/vocab"
)

// multimap is a map from a Term to a set of Terms that remembers the order
// keys and values were first added in, so that walking it is deterministic.
type multimap struct {
	keys []graph.Term
	vals map[graph.Term][]graph.Term
}

func (m *multimap) add(key, val graph.Term) {
	if m.vals == nil {
		m.vals = make(map[graph.Term][]graph.Term)
	}
	vals, exists := m.vals[key]
	if !exists {
		m.keys = append(m.keys, key)
	}
	if slices.Contains(vals, val) {
		return
	}
	m.vals[key] = append(vals, val)
}

func (m *multimap) get(key graph.Term) []graph.Term {
	return m.vals[key]
}

func (m *multimap) has(key graph.Term) bool {
	_, exists := m.vals[key]
	return exists
}

// schema holds the axioms read from a graph at the start of a pass. Only
// axioms whose subject and object are both resources are used.
type schema struct {
	superClasses multimap // class -> direct super classes
	superProps   multimap // property -> direct super properties
	domains      multimap
	ranges       multimap
	inverses     multimap // recorded in both directions
	symmetric    multimap // property -> itself
	transitive   []graph.Term
	// properties lists every property with a subPropertyOf, domain, range,
	// inverse or symmetric axiom, in first seen order.
	properties []graph.Term
}

func loadSchema(store *graph.Store) *schema {
	s := new(schema)
	axioms := func(predicate graph.Term, add func(subject, object graph.Term)) {
		for f := range store.Match(graph.Any, predicate, graph.Any) {
			if f.Object.IsResource() {
				add(f.Subject, f.Object)
			}
		}
	}
	axioms(vocab.SubClassOf, s.superClasses.add)
	axioms(vocab.EquivalentClass, func(a, b graph.Term) {
		s.superClasses.add(a, b)
		s.superClasses.add(b, a)
	})
	axioms(vocab.SubPropertyOf, s.superProps.add)
	axioms(vocab.EquivalentProperty, func(a, b graph.Term) {
		s.superProps.add(a, b)
		s.superProps.add(b, a)
	})
	axioms(vocab.Domain, s.domains.add)
	axioms(vocab.Range, s.ranges.add)
	axioms(vocab.InverseOf, func(a, b graph.Term) {
		s.inverses.add(a, b)
		s.inverses.add(b, a)
	})
	for p := range seqSubjects(store, vocab.Type, vocab.SymmetricProperty) {
		s.symmetric.add(p, p)
	}
	for p := range seqSubjects(store, vocab.Type, vocab.TransitiveProperty) {
		s.transitive = append(s.transitive, p)
	}
	seen := make(map[graph.Term]struct{})
	for _, m := range []*multimap{&s.superProps, &s.domains, &s.ranges, &s.inverses, &s.symmetric} {
		for _, p := range m.keys {
			if _, exists := seen[p]; !exists {
				seen[p] = struct{}{}
				s.properties = append(s.properties, p)
			}
		}
	}
	return s
}

// seqSubjects yields the subjects of facts with the given predicate and
// object.
func seqSubjects(store *graph.Store, predicate, object graph.Term) iter.Seq[graph.Term] {
	return func(yield func(graph.Term) bool) {
		for f := range store.Match(graph.Any, predicate, object) {
			if !yield(f.Subject) {
				return
			}
		}
	}
}

// hierarchy derives the transitive subClassOf and subPropertyOf facts, which
// include those implied by equivalences, and the reversed inverseOf facts.
func (s *schema) hierarchy(emit func(graph.Fact)) {
	for _, c := range s.superClasses.keys {
		for _, d := range reachable(c, s.superClasses.get) {
			emit(graph.NewFact(c, vocab.SubClassOf, d))
		}
	}
	for _, p := range s.superProps.keys {
		for _, q := range reachable(p, s.superProps.get) {
			emit(graph.NewFact(p, vocab.SubPropertyOf, q))
		}
	}
	for _, p := range s.inverses.keys {
		for _, q := range s.inverses.get(p) {
			emit(graph.NewFact(p, vocab.InverseOf, q))
		}
	}
}

// instances derives facts about the individuals in the graph: facts implied
// by super properties, domains, ranges, symmetric and inverse properties, and
// types implied by super classes.
func (s *schema) instances(store *graph.Store, emit func(graph.Fact)) {
	for _, p := range s.properties {
		supers := reachable(p, s.superProps.get)
		domains := s.domains.get(p)
		ranges := classRanges(store, s.ranges.get(p))
		inverses := s.inverses.get(p)
		symmetric := s.symmetric.has(p)
		for f := range store.Match(graph.Any, p, graph.Any) {
			for _, q := range supers {
				emit(graph.NewFact(f.Subject, q, f.Object))
			}
			for _, d := range domains {
				emit(graph.NewFact(f.Subject, vocab.Type, d))
			}
			if !f.Object.IsResource() {
				continue
			}
			for _, r := range ranges {
				emit(graph.NewFact(f.Object, vocab.Type, r))
			}
			if symmetric {
				emit(graph.NewFact(f.Object, p, f.Subject))
			}
			for _, q := range inverses {
				emit(graph.NewFact(f.Object, q, f.Subject))
			}
		}
	}
	for _, c := range s.superClasses.keys {
		supers := reachable(c, s.superClasses.get)
		for x := range seqSubjects(store, vocab.Type, c) {
			for _, d := range supers {
				emit(graph.NewFact(x, vocab.Type, d))
			}
		}
	}
}

// classRanges returns the ranges that are classes of resources. Datatype
// ranges say nothing about the type of a resource object.
func classRanges(store *graph.Store, ranges []graph.Term) []graph.Term {
	var res []graph.Term
	for _, r := range ranges {
		if vocab.IsDatatype(r) || store.Contains(graph.NewFact(r, vocab.Type, vocab.Datatype)) {
			continue
		}
		res = append(res, r)
	}
	return res
}

// transitives derives the transitive closure of each transitive property,
// walking breadth first from each subject. Literal objects are reached but
// not walked from.
func (s *schema) transitives(store *graph.Store, emit func(graph.Fact)) {
	for _, p := range s.transitive {
		next := func(t graph.Term) []graph.Term {
			if !t.IsResource() {
				return nil
			}
			return store.Objects(t, p)
		}
		seen := make(map[graph.Term]struct{})
		for x := range seqSubjects(store, p, graph.Any) {
			if _, done := seen[x]; done {
				continue
			}
			seen[x] = struct{}{}
			for _, z := range reachable(x, next) {
				emit(graph.NewFact(x, p, z))
			}
		}
	}
}
