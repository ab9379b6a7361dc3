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
	"sort"

	"github.com/ebay/entail/graph"
)

// builtin is the implementation of a builtin function. Functions are only
// called once all their arguments are bound to concrete terms.
type builtin struct {
	arity int
	eval  func(args []graph.Term) bool
}

var builtins = map[string]builtin{
	"equal": {2, func(args []graph.Term) bool {
		return graph.SameValue(args[0], args[1])
	}},
	"notEqual": {2, func(args []graph.Term) bool {
		return !graph.SameValue(args[0], args[1])
	}},
	"lessThan":    {2, numeric(func(c int) bool { return c < 0 })},
	"greaterThan": {2, numeric(func(c int) bool { return c > 0 })},
	"le":          {2, numeric(func(c int) bool { return c <= 0 })},
	"ge":          {2, numeric(func(c int) bool { return c >= 0 })},
	"isLiteral": {1, func(args []graph.Term) bool {
		return args[0].IsLiteral()
	}},
	"notLiteral": {1, func(args []graph.Term) bool {
		return !args[0].IsLiteral()
	}},
	"isResource": {1, func(args []graph.Term) bool {
		return args[0].IsResource()
	}},
}

// numeric returns a comparison builtin. It fails unless both arguments are
// numeric literals.
func numeric(accept func(cmp int) bool) func(args []graph.Term) bool {
	return func(args []graph.Term) bool {
		c, ok := graph.CompareNumeric(args[0], args[1])
		return ok && accept(c)
	}
}

// Builtins returns the names of the builtin functions that rules may call,
// sorted.
func Builtins() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
