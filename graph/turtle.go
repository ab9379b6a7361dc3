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

package graph

import (
	"bufio"
	"io"
	"sort"
	"strings"
)

const rdfType = "http://www.w3.org/1999/02/22-rdf-syntax-ns#type"

// WriteTurtle writes the Facts in the store to 'w' in Turtle syntax. Facts are
// written in sorted order, grouped by subject and then by predicate. IRIs that
// start with one of the namespaces in 'prefixes' (a map of prefix name to
// namespace IRI) are written as prefixed names. The output is the same for any
// two Stores holding the same Facts.
func WriteTurtle(w io.Writer, store *Store, prefixes map[string]string) error {
	bw := bufio.NewWriter(w)
	names := make([]string, 0, len(prefixes))
	for name := range prefixes {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		bw.WriteString("@prefix ")
		bw.WriteString(name)
		bw.WriteString(": <")
		bw.WriteString(prefixes[name])
		bw.WriteString("> .\n")
	}
	if len(names) > 0 {
		bw.WriteString("\n")
	}
	c := compactor{prefixes: prefixes, names: names}
	var prev Fact
	first := true
	for f := range store.Sorted() {
		switch {
		case first:
			bw.WriteString(c.term(f.Subject))
			bw.WriteString("\n    ")
			bw.WriteString(c.predicate(f.Predicate))
			bw.WriteString(" ")
		case f.Subject != prev.Subject:
			bw.WriteString(" .\n\n")
			bw.WriteString(c.term(f.Subject))
			bw.WriteString("\n    ")
			bw.WriteString(c.predicate(f.Predicate))
			bw.WriteString(" ")
		case f.Predicate != prev.Predicate:
			bw.WriteString(" ;\n    ")
			bw.WriteString(c.predicate(f.Predicate))
			bw.WriteString(" ")
		default:
			bw.WriteString(" ,\n        ")
		}
		bw.WriteString(c.term(f.Object))
		prev = f
		first = false
	}
	if !first {
		bw.WriteString(" .\n")
	}
	return bw.Flush()
}

// compactor writes Terms in Turtle syntax, using prefixed names where it can.
type compactor struct {
	prefixes map[string]string
	names    []string // sorted prefix names
}

func (c *compactor) predicate(t Term) string {
	if t.IsResource() && t.Value() == rdfType {
		return "a"
	}
	return c.term(t)
}

func (c *compactor) term(t Term) string {
	switch t.Kind() {
	case KindResource:
		if t.IsBlank() {
			return t.Value()
		}
		return c.iri(t.Value())
	case KindLiteral:
		if bareLiteral(t) {
			return t.Value()
		}
		s := quote(t.Value())
		switch {
		case t.Lang() != "":
			return s + "@" + t.Lang()
		case t.Datatype() != "":
			return s + "^^" + c.iri(t.Datatype())
		}
		return s
	}
	return t.String()
}

// iri returns the shortest prefixed name for the IRI, or the IRI in angle
// brackets if no prefix applies.
func (c *compactor) iri(iri string) string {
	best := ""
	bestLen := 0
	for _, name := range c.names {
		ns := c.prefixes[name]
		if len(ns) > bestLen && strings.HasPrefix(iri, ns) && isLocalName(iri[len(ns):]) {
			best = name
			bestLen = len(ns)
		}
	}
	if bestLen == 0 {
		return "<" + iri + ">"
	}
	return best + ":" + iri[bestLen:]
}

// isLocalName returns true if s can be written as the local part of a prefixed
// name.
func isLocalName(s string) bool {
	if s == "" || s[0] == '-' || s[0] == '.' || s[len(s)-1] == '.' {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == '_' || c == '-' || c == '.':
		default:
			return false
		}
	}
	return true
}

// bareLiteral returns true if the literal can be written without quotes:
// canonical looking integers, decimals, doubles and booleans.
func bareLiteral(t Term) bool {
	v := t.Value()
	switch {
	case t.Datatype() == XSDBoolean:
		return v == "true" || v == "false"
	case t.Datatype() == XSDInteger:
		return isDigits(trimSign(v), false)
	case t.Datatype() == XSDDecimal:
		v = trimSign(v)
		dot := strings.IndexByte(v, '.')
		return dot >= 0 && isDigits(v[:dot], true) && isDigits(v[dot+1:], false)
	case t.Datatype() == XSDDouble:
		v = trimSign(v)
		e := strings.IndexAny(v, "eE")
		if e < 0 {
			return false
		}
		mantissa, exp := v[:e], trimSign(v[e+1:])
		if dot := strings.IndexByte(mantissa, '.'); dot >= 0 {
			if !isDigits(mantissa[:dot], false) || !isDigits(mantissa[dot+1:], false) {
				return false
			}
		} else if !isDigits(mantissa, false) {
			return false
		}
		return isDigits(exp, false)
	}
	return false
}

// isDigits returns true if s is all ASCII digits. An empty string is only
// accepted if emptyOK is set.
func isDigits(s string, emptyOK bool) bool {
	if s == "" {
		return emptyOK
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// trimSign removes a single leading '+' or '-'.
func trimSign(s string) string {
	if s != "" && (s[0] == '+' || s[0] == '-') {
		return s[1:]
	}
	return s
}
