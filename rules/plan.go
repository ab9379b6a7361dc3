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

package rules

import (
	"github.com/ebay/entail/graph"
)

// slot is a position in a compiled atom: either a constant term, or a
// variable identified by its index into the binding.
type slot struct {
	term graph.Term
	// v is the variable index, or -1 for a constant.
	v int
}

// value returns the slot's term under the binding, or graph.Any for an
// unbound variable.
func (s slot) value(binding []graph.Term) graph.Term {
	if s.v < 0 {
		return s.term
	}
	return binding[s.v]
}

type compiledPattern [3]slot

func (p compiledPattern) instantiate(binding []graph.Term) graph.Fact {
	return graph.NewFact(p[0].value(binding), p[1].value(binding), p[2].value(binding))
}

// step is one stage of the join: either a pattern to match or a builtin to
// check.
type step struct {
	pattern compiledPattern
	// delta restricts the pattern to facts added since the previous pass.
	delta bool
	// fn is set for builtin steps.
	fn   *builtin
	args []slot
}

// plan evaluates one rule. Its steps put one chosen pattern first, then the
// remaining patterns in body order. Each builtin is placed right after the
// step that binds the last of its variables.
type plan struct {
	rule  *Rule
	steps []step
	head  []compiledPattern
	nvars int
}

// newPlan compiles the rule. If delta is >= 0, it is the index among the
// rule's patterns of the pattern that's evaluated first and restricted to new
// facts; otherwise the patterns are evaluated in body order.
func newPlan(r *Rule, delta int) *plan {
	vars := make(map[string]int)
	compile := func(t graph.Term) slot {
		if !t.IsVariable() {
			return slot{term: t, v: -1}
		}
		idx, exists := vars[t.Value()]
		if !exists {
			idx = len(vars)
			vars[t.Value()] = idx
		}
		return slot{v: idx}
	}
	compilePattern := func(p Pattern) compiledPattern {
		return compiledPattern{compile(p.Subject), compile(p.Predicate), compile(p.Object)}
	}

	patterns := r.patterns()
	order := make([]int, 0, len(patterns))
	if delta >= 0 {
		order = append(order, delta)
	}
	for i := range patterns {
		if i != delta {
			order = append(order, i)
		}
	}
	var pending []Builtin
	for _, a := range r.Body {
		if b, ok := a.(Builtin); ok {
			pending = append(pending, b)
		}
	}
	pl := &plan{rule: r}
	var bound varSet
	placeBuiltins := func() {
		remaining := pending[:0]
		for _, b := range pending {
			if len(varSet(b.Variables()).sub(bound)) > 0 {
				remaining = append(remaining, b)
				continue
			}
			fn := builtins[b.Name]
			st := step{fn: &fn}
			for _, arg := range b.Args {
				st.args = append(st.args, compile(arg))
			}
			pl.steps = append(pl.steps, st)
		}
		pending = remaining
	}
	placeBuiltins()
	for i, idx := range order {
		p := patterns[idx]
		pl.steps = append(pl.steps, step{
			pattern: compilePattern(p),
			delta:   delta >= 0 && i == 0,
		})
		bound = bound.union(p.Variables())
		placeBuiltins()
	}
	for _, p := range r.Head {
		pl.head = append(pl.head, compilePattern(p))
	}
	pl.nvars = len(vars)
	return pl
}

// output collects what one evaluation of a plan derived.
type output struct {
	facts    []graph.Fact
	firings  int
	skipped  int
	existing int
}

// eval finds every binding of the plan's body in the store and instantiates
// the head for each. Delta steps only see facts added at or after 'since'.
// Facts already in the store are counted but not collected.
func (pl *plan) eval(store *graph.Store, since graph.Mark) output {
	var out output
	binding := make([]graph.Term, pl.nvars)
	pl.solve(store, since, 0, binding, &out)
	return out
}

func (pl *plan) solve(store *graph.Store, since graph.Mark, i int, binding []graph.Term, out *output) {
	if i == len(pl.steps) {
		out.firings++
		for _, h := range pl.head {
			f := h.instantiate(binding)
			if err := f.Validate(); err != nil {
				// Such as a variable bound to a literal used as a subject.
				out.skipped++
				continue
			}
			if store.Contains(f) {
				out.existing++
				continue
			}
			out.facts = append(out.facts, f)
		}
		return
	}
	st := &pl.steps[i]
	if st.fn != nil {
		args := make([]graph.Term, len(st.args))
		for j, a := range st.args {
			args[j] = a.value(binding)
		}
		if st.fn.eval(args) {
			pl.solve(store, since, i+1, binding, out)
		}
		return
	}
	s, p, o := st.pattern[0].value(binding), st.pattern[1].value(binding), st.pattern[2].value(binding)
	var from graph.Mark
	if st.delta {
		from = since
	}
	for f := range store.MatchSince(from, s, p, o) {
		// Variables bound by this step, so they can be unbound afterwards. A
		// variable may appear more than once in a pattern, as in (?x p ?x).
		var set [3]int
		nset := 0
		ok := true
		for j, t := range [3]graph.Term{f.Subject, f.Predicate, f.Object} {
			sl := st.pattern[j]
			if sl.v < 0 {
				continue
			}
			switch cur := binding[sl.v]; {
			case cur.IsAny():
				binding[sl.v] = t
				set[nset] = sl.v
				nset++
			case cur != t:
				ok = false
			}
		}
		if ok {
			pl.solve(store, since, i+1, binding, out)
		}
		for _, v := range set[:nset] {
			binding[v] = graph.Any
		}
	}
}
