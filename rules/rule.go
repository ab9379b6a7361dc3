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
	"fmt"
	"strings"

	"github.com/ebay/entail/graph"
)

// Atom is one antecedent of a Rule: either a Pattern to match against the
// graph, or a Builtin filter over terms bound by the patterns.
type Atom interface {
	// Variables returns the names of the variables the atom uses.
	Variables() []string
	String() string
	isAtom()
}

// Pattern is a triple of Terms, any of which may be a Variable. As an
// antecedent it matches Facts in the graph; as a consequent it is instantiated
// into a new Fact.
type Pattern struct {
	Subject   graph.Term
	Predicate graph.Term
	Object    graph.Term
}

// NewPattern returns a Pattern with the given terms.
func NewPattern(subject, predicate, object graph.Term) Pattern {
	return Pattern{Subject: subject, Predicate: predicate, Object: object}
}

// Terms returns the Subject, Predicate and Object in that order.
func (p Pattern) Terms() [3]graph.Term {
	return [3]graph.Term{p.Subject, p.Predicate, p.Object}
}

// Variables implements Atom.
func (p Pattern) Variables() []string {
	return termVariables(p.Subject, p.Predicate, p.Object)
}

func (p Pattern) String() string {
	return fmt.Sprintf("(%v %v %v)", p.Subject, p.Predicate, p.Object)
}

func (Pattern) isAtom() {}

// Builtin is a call to one of the builtin functions, such as ge(?n, 18). It
// filters the bindings produced by the patterns before it.
type Builtin struct {
	Name string
	Args []graph.Term
}

// NewBuiltin returns a Builtin calling the named function.
func NewBuiltin(name string, args ...graph.Term) Builtin {
	return Builtin{Name: name, Args: args}
}

// Variables implements Atom.
func (b Builtin) Variables() []string {
	return termVariables(b.Args...)
}

func (b Builtin) String() string {
	args := make([]string, len(b.Args))
	for i, a := range b.Args {
		args[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", b.Name, strings.Join(args, ", "))
}

func (Builtin) isAtom() {}

func termVariables(terms ...graph.Term) []string {
	var names []string
	for _, t := range terms {
		if t.IsVariable() {
			names = append(names, t.Value())
		}
	}
	return newVarSet(names...)
}

// Rule is a forward chaining rule: whenever every atom in the Body matches
// with one consistent binding of its variables, each Pattern in the Head is
// instantiated with that binding and added to the graph.
type Rule struct {
	// Name is used in logs, metrics and errors. It may be empty.
	Name string
	Body []Atom
	Head []Pattern
}

// New returns a validated Rule. It returns a *MalformedRuleError if the rule
// can't be evaluated; see Validate.
func New(name string, body []Atom, head []Pattern) (*Rule, error) {
	r := &Rule{Name: name, Body: body, Head: head}
	if err := r.validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// MustNew is like New but panics if the rule is malformed. It's intended for
// tests and for rules defined in code.
func MustNew(name string, body []Atom, head []Pattern) *Rule {
	r, err := New(name, body, head)
	if err != nil {
		panic(err.Error())
	}
	return r
}

// patterns returns the Pattern atoms of the Body, in order.
func (r *Rule) patterns() []Pattern {
	var res []Pattern
	for _, a := range r.Body {
		if p, ok := a.(Pattern); ok {
			res = append(res, p)
		}
	}
	return res
}

// label returns the name to use for the rule in logs and metrics.
func (r *Rule) label() string {
	if r.Name == "" {
		return "unnamed"
	}
	return r.Name
}

// String returns the rule in the rule text syntax.
func (r *Rule) String() string {
	var b strings.Builder
	b.WriteByte('[')
	if r.Name != "" {
		b.WriteString(r.Name)
		b.WriteString(": ")
	}
	for _, a := range r.Body {
		b.WriteString(a.String())
		b.WriteByte(' ')
	}
	b.WriteString("->")
	for _, p := range r.Head {
		b.WriteByte(' ')
		b.WriteString(p.String())
	}
	b.WriteByte(']')
	return b.String()
}
