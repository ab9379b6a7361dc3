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

package validity

import (
	"slices"
	"time"

	"github.com/ebay/entail/graph"
	"github.com/ebay/entail/vocab"
	log "github.com/sirupsen/logrus"
)

// Options controls which checks Check runs.
type Options struct {
	// Disabled lists the names of checks to skip, such as "functional".
	// Unknown names are ignored.
	Disabled []string
}

type checkFunc func(store *graph.Store, emit func(Violation))

var checks = map[Kind]checkFunc{
	Disjoint:          checkDisjoint,
	Nothing:           checkNothing,
	RangeKind:         checkRangeKind,
	RangeDatatype:     checkRangeDatatype,
	IllFormedLiteral:  checkLiterals,
	Functional:        checkFunctional,
	InverseFunctional: checkInverseFunctional,
}

// Check runs the enabled checks over the graph and returns the Violations
// they find, ordered by kind, then focus, then facts. It returns nil if the
// graph is consistent. Check does not modify the graph.
func Check(store *graph.Store, opts Options) []Violation {
	start := time.Now()
	var res []Violation
	for _, kind := range Kinds() {
		if slices.Contains(opts.Disabled, kind.String()) {
			log.WithField("check", kind).Debug("Skipping disabled validity check")
			continue
		}
		before := len(res)
		checks[kind](store, func(v Violation) {
			res = append(res, v)
		})
		if n := len(res) - before; n > 0 {
			metrics.violationsTotal.WithLabelValues(kind.String()).Add(float64(n))
		}
	}
	slices.SortFunc(res, compare)
	res = slices.CompactFunc(res, func(a, b Violation) bool {
		return compare(a, b) == 0
	})
	metrics.checkDurationSeconds.Observe(time.Since(start).Seconds())
	log.WithFields(log.Fields{
		"facts":      store.Len(),
		"violations": len(res),
	}).Debug("Checked graph validity")
	return res
}

// axioms returns the facts with the given predicate whose subject and object
// are both resources, in sorted order.
func axioms(store *graph.Store, predicate graph.Term) []graph.Fact {
	var res []graph.Fact
	for f := range store.Match(graph.Any, predicate, graph.Any) {
		if f.Object.IsResource() {
			res = append(res, f)
		}
	}
	slices.SortFunc(res, graph.Fact.Compare)
	return res
}

// typeFact returns the fact (x rdf:type class).
func typeFact(x, class graph.Term) graph.Fact {
	return graph.NewFact(x, vocab.Type, class)
}

// declared returns the properties declared to be of type 'class', in sorted
// order.
func declared(store *graph.Store, class graph.Term) []graph.Term {
	props := store.Subjects(vocab.Type, class)
	slices.SortFunc(props, graph.Term.Compare)
	return props
}

// matching returns the facts with the given predicate, in sorted order.
func matching(store *graph.Store, predicate graph.Term) []graph.Fact {
	var res []graph.Fact
	for f := range store.Match(graph.Any, predicate, graph.Any) {
		res = append(res, f)
	}
	slices.SortFunc(res, graph.Fact.Compare)
	return res
}

func checkDisjoint(store *graph.Store, emit func(Violation)) {
	seen := make(map[[2]graph.Term]bool)
	for _, axiom := range axioms(store, vocab.DisjointWith) {
		a, b := axiom.Subject, axiom.Object
		if b.Less(a) {
			a, b = b, a
		}
		if seen[[2]graph.Term{a, b}] {
			continue
		}
		seen[[2]graph.Term{a, b}] = true
		instances := store.Subjects(vocab.Type, a)
		slices.SortFunc(instances, graph.Term.Compare)
		for _, x := range instances {
			if !store.Contains(typeFact(x, b)) {
				continue
			}
			emit(newViolation(Disjoint, x,
				[]graph.Fact{typeFact(x, a), typeFact(x, b), axiom},
				"%v is an instance of both %v and %v, which are disjoint", x, a, b))
		}
	}
}

func checkNothing(store *graph.Store, emit func(Violation)) {
	for _, x := range store.Subjects(vocab.Type, vocab.Nothing) {
		emit(newViolation(Nothing, x, []graph.Fact{typeFact(x, vocab.Nothing)},
			"%v is an instance of %v, which can have no instances", x, vocab.Nothing))
	}
}

// isDatatype returns true if the class is a datatype, either a well known one
// or one the graph declares.
func isDatatype(store *graph.Store, class graph.Term) bool {
	return vocab.IsDatatype(class) || store.Contains(typeFact(class, vocab.Datatype))
}

func checkRangeKind(store *graph.Store, emit func(Violation)) {
	seen := make(map[graph.Fact]bool)
	report := func(f graph.Fact, reason graph.Fact, wantLiteral bool, format string, args ...any) {
		if seen[f] || f.Object.IsLiteral() == wantLiteral {
			return
		}
		seen[f] = true
		emit(newViolation(RangeKind, f.Subject, []graph.Fact{f, reason}, format, args...))
	}
	for _, axiom := range axioms(store, vocab.Range) {
		p, r := axiom.Subject, axiom.Object
		wantLiteral := isDatatype(store, r)
		want := "a resource"
		if wantLiteral {
			want = "a literal"
		}
		for _, f := range matching(store, p) {
			report(f, axiom, wantLiteral,
				"%v has range %v, so its value %v should be %s", p, r, f.Object, want)
		}
	}
	for _, p := range declared(store, vocab.DatatypeProperty) {
		for _, f := range matching(store, p) {
			report(f, typeFact(p, vocab.DatatypeProperty), true,
				"%v is a datatype property, so its value %v should be a literal", p, f.Object)
		}
	}
	for _, p := range declared(store, vocab.ObjectProperty) {
		for _, f := range matching(store, p) {
			report(f, typeFact(p, vocab.ObjectProperty), false,
				"%v is an object property, so its value %v should be a resource", p, f.Object)
		}
	}
}

func checkRangeDatatype(store *graph.Store, emit func(Violation)) {
	for _, axiom := range axioms(store, vocab.Range) {
		p, r := axiom.Subject, axiom.Object
		if r == vocab.Literal || !vocab.IsDatatype(r) {
			continue
		}
		for _, f := range matching(store, p) {
			if !f.Object.IsLiteral() || compatible(f.Object, r.Value()) {
				continue
			}
			emit(newViolation(RangeDatatype, f.Subject, []graph.Fact{f, axiom},
				"%v has range %v, but its value %v has datatype <%s>",
				p, r, f.Object, literalType(f.Object)))
		}
	}
}

func checkLiterals(store *graph.Store, emit func(Violation)) {
	for f := range store.Facts() {
		if !f.Object.IsLiteral() || f.Object.Datatype() == "" || wellFormed(f.Object) {
			continue
		}
		emit(newViolation(IllFormedLiteral, f.Subject, []graph.Fact{f},
			"%q is not a valid <%s>", f.Object.Value(), f.Object.Datatype()))
	}
}

func checkFunctional(store *graph.Store, emit func(Violation)) {
	for _, p := range declared(store, vocab.FunctionalProperty) {
		facts := matching(store, p)
		// Sorted by subject, so each subject's facts are adjacent.
		for len(facts) > 0 {
			n := 1
			for n < len(facts) && facts[n].Subject == facts[0].Subject {
				n++
			}
			group := facts[:n]
			facts = facts[n:]
			var values []graph.Term
			for _, f := range group {
				if !slices.ContainsFunc(values, func(v graph.Term) bool {
					return graph.SameValue(v, f.Object)
				}) {
					values = append(values, f.Object)
				}
			}
			if len(values) < 2 {
				continue
			}
			x := group[0].Subject
			emit(newViolation(Functional, x,
				append(slices.Clone(group), typeFact(p, vocab.FunctionalProperty)),
				"%v is functional, but %v has %d distinct values for it", p, x, len(values)))
		}
	}
}

func checkInverseFunctional(store *graph.Store, emit func(Violation)) {
	for _, p := range declared(store, vocab.InverseFunctionalProperty) {
		facts := matching(store, p)
		slices.SortFunc(facts, func(a, b graph.Fact) int {
			if c := a.Object.Compare(b.Object); c != 0 {
				return c
			}
			return a.Subject.Compare(b.Subject)
		})
		for len(facts) > 0 {
			n := 1
			for n < len(facts) && facts[n].Object == facts[0].Object {
				n++
			}
			group := facts[:n]
			facts = facts[n:]
			if n < 2 {
				continue
			}
			y := group[0].Object
			emit(newViolation(InverseFunctional, y,
				append(slices.Clone(group), typeFact(p, vocab.InverseFunctionalProperty)),
				"%v is inverse functional, but %d distinct subjects have the value %v for it", p, n, y))
		}
	}
}
