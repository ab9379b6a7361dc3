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

	"github.com/ebay/entail/graph"
)

// MalformedRuleError is returned for a rule that can't be evaluated.
type MalformedRuleError struct {
	// Rule is the name of the offending rule, if it has one.
	Rule   string
	Reason string
}

func (e *MalformedRuleError) Error() string {
	if e.Rule == "" {
		return fmt.Sprintf("malformed rule: %s", e.Reason)
	}
	return fmt.Sprintf("malformed rule %q: %s", e.Rule, e.Reason)
}

// Validate checks every rule in the ruleset and returns a *MalformedRuleError
// for the first one that can't be evaluated. A rule is malformed if:
//   - its body or head is empty;
//   - a head pattern or builtin uses a variable that no body pattern binds;
//   - a builtin is unknown or called with the wrong number of arguments;
//   - a pattern has a literal subject or predicate, or a term that's neither
//     a resource, a literal nor a named variable.
//
// Two rules with the same non-empty name are also rejected.
func Validate(ruleset []*Rule) error {
	names := make(map[string]struct{}, len(ruleset))
	for i, r := range ruleset {
		if r == nil {
			return &MalformedRuleError{Reason: fmt.Sprintf("rule %d is nil", i)}
		}
		if err := r.validate(); err != nil {
			return err
		}
		if r.Name == "" {
			continue
		}
		if _, exists := names[r.Name]; exists {
			return &MalformedRuleError{Rule: r.Name, Reason: "duplicate rule name"}
		}
		names[r.Name] = struct{}{}
	}
	return nil
}

func (r *Rule) validate() error {
	malformed := func(format string, args ...any) error {
		return &MalformedRuleError{Rule: r.Name, Reason: fmt.Sprintf(format, args...)}
	}
	if len(r.Body) == 0 {
		return malformed("rule has no antecedents")
	}
	if len(r.Head) == 0 {
		return malformed("rule has no consequents")
	}
	var bound varSet
	for _, atom := range r.Body {
		switch atom := atom.(type) {
		case Pattern:
			if reason := checkPattern(atom); reason != "" {
				return malformed("antecedent %v: %s", atom, reason)
			}
			bound = bound.union(atom.Variables())
		case Builtin:
			b, exists := builtins[atom.Name]
			if !exists {
				return malformed("unsupported builtin %q", atom.Name)
			}
			if len(atom.Args) != b.arity {
				return malformed("builtin %s takes %d arguments, got %d", atom.Name, b.arity, len(atom.Args))
			}
			for _, arg := range atom.Args {
				if reason := checkTerm(arg); reason != "" {
					return malformed("builtin %v: %s", atom, reason)
				}
			}
		case nil:
			return malformed("nil antecedent")
		default:
			return malformed("unsupported antecedent %v", atom)
		}
	}
	for _, atom := range r.Body {
		if b, ok := atom.(Builtin); ok {
			if unbound := varSet(b.Variables()).sub(bound); len(unbound) > 0 {
				return malformed("builtin %v uses %v, which no antecedent pattern binds", b, unbound)
			}
		}
	}
	for _, p := range r.Head {
		if reason := checkPattern(p); reason != "" {
			return malformed("consequent %v: %s", p, reason)
		}
		if unbound := varSet(p.Variables()).sub(bound); len(unbound) > 0 {
			return malformed("consequent %v uses %v, which no antecedent pattern binds", p, unbound)
		}
	}
	return nil
}

// checkPattern returns the reason the pattern is malformed, or "".
func checkPattern(p Pattern) string {
	for _, t := range p.Terms() {
		if reason := checkTerm(t); reason != "" {
			return reason
		}
	}
	if p.Subject.IsLiteral() {
		return "subject can't be a literal"
	}
	if p.Predicate.IsLiteral() {
		return "predicate can't be a literal"
	}
	return ""
}

func checkTerm(t graph.Term) string {
	switch {
	case t.IsAny():
		return "missing term"
	case t.IsVariable() && t.Value() == "":
		return "variable has no name"
	}
	return ""
}
