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
	"strings"
)

// varSet is a set of variable names. It's represented as a sorted slice of
// unique names.
type varSet []string

// newVarSet returns a varSet with the given names; duplicates are dropped.
func newVarSet(names ...string) varSet {
	set := make(varSet, 0, len(names))
	set = append(set, names...)
	sort.Strings(set)
	out := set[:0]
	for i, name := range set {
		if i == 0 || name != set[i-1] {
			out = append(out, name)
		}
	}
	return out
}

// contains returns true if name is in the set.
func (set varSet) contains(name string) bool {
	i := sort.SearchStrings(set, name)
	return i < len(set) && set[i] == name
}

// union returns a new set with the names present in either 'set' or 'other'.
func (set varSet) union(other varSet) varSet {
	var either varSet
	left, right := set, other
	for len(left) > 0 && len(right) > 0 {
		switch {
		case left[0] == right[0]:
			either = append(either, left[0])
			left = left[1:]
			right = right[1:]
		case left[0] < right[0]:
			either = append(either, left[0])
			left = left[1:]
		default:
			either = append(either, right[0])
			right = right[1:]
		}
	}
	either = append(either, left...)
	return append(either, right...)
}

// sub returns a new set with the names present in 'set' but not 'other'.
func (set varSet) sub(other varSet) varSet {
	var diff varSet
	for _, name := range set {
		if !other.contains(name) {
			diff = append(diff, name)
		}
	}
	return diff
}

// String returns a string like "?a ?b".
func (set varSet) String() string {
	var b strings.Builder
	for i, name := range set {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteByte('?')
		b.WriteString(name)
	}
	return b.String()
}
