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

// Package graph defines the Terms and Facts that make up a graph, and an
// in-memory indexed Store that holds a set of Facts.
package graph

import (
	"fmt"
	"strings"
)

// Kind identifies which variant of Term a Term value holds.
type Kind uint8

const (
	// KindAny is the Kind of the zero Term. It never appears in a stored Fact;
	// in a Match pattern it matches any Term.
	KindAny Kind = iota
	// KindResource is an IRI or a blank node.
	KindResource
	// KindLiteral is a lexical value with an optional datatype or language.
	KindLiteral
	// KindVariable is a named placeholder used by rule patterns.
	KindVariable
)

func (k Kind) String() string {
	switch k {
	case KindAny:
		return "Any"
	case KindResource:
		return "Resource"
	case KindLiteral:
		return "Literal"
	case KindVariable:
		return "Variable"
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Term is a node in the graph, or a variable in a pattern over the graph.
// Terms are comparable and can be used as map keys; two Terms are the same
// Term exactly when they are ==.
type Term struct {
	kind     Kind
	value    string
	datatype string
	lang     string
}

// Any is the zero Term. It matches every Term when used in a Match pattern.
var Any = Term{}

// blankPrefix starts the identifier of every blank node.
const blankPrefix = "_:"

// Resource returns a Resource Term for the given IRI.
func Resource(iri string) Term {
	return Term{kind: KindResource, value: iri}
}

// Blank returns a Resource Term for the blank node with the given label.
func Blank(label string) Term {
	return Term{kind: KindResource, value: blankPrefix + label}
}

// Literal returns a plain literal Term, which has neither a datatype nor a
// language tag.
func Literal(value string) Term {
	return Term{kind: KindLiteral, value: value}
}

// TypedLiteral returns a literal Term with the given datatype IRI.
func TypedLiteral(value, datatype string) Term {
	return Term{kind: KindLiteral, value: value, datatype: datatype}
}

// LangLiteral returns a literal Term with the given language tag. The tag is
// lowercased, as language tags are case insensitive.
func LangLiteral(value, lang string) Term {
	return Term{kind: KindLiteral, value: value, lang: strings.ToLower(lang)}
}

// Variable returns a Variable Term with the given name. The name does not
// include the '?' sigil.
func Variable(name string) Term {
	return Term{kind: KindVariable, value: name}
}

// Kind returns which variant of Term this is.
func (t Term) Kind() Kind {
	return t.kind
}

// IsAny returns true for the zero Term.
func (t Term) IsAny() bool {
	return t.kind == KindAny
}

// IsResource returns true if the Term is an IRI or blank node.
func (t Term) IsResource() bool {
	return t.kind == KindResource
}

// IsBlank returns true if the Term is a blank node.
func (t Term) IsBlank() bool {
	return t.kind == KindResource && strings.HasPrefix(t.value, blankPrefix)
}

// IsLiteral returns true if the Term is a literal.
func (t Term) IsLiteral() bool {
	return t.kind == KindLiteral
}

// IsVariable returns true if the Term is a Variable.
func (t Term) IsVariable() bool {
	return t.kind == KindVariable
}

// IsConcrete returns true if the Term can appear in a stored Fact.
func (t Term) IsConcrete() bool {
	return t.kind == KindResource || t.kind == KindLiteral
}

// Value returns the IRI of a Resource, the lexical form of a Literal or the
// name of a Variable.
func (t Term) Value() string {
	return t.value
}

// Datatype returns the datatype IRI of a typed literal, or "" otherwise.
func (t Term) Datatype() string {
	return t.datatype
}

// Lang returns the language tag of a literal, or "" if it doesn't have one.
func (t Term) Lang() string {
	return t.lang
}

// String returns the Term in an N-Triples like syntax. This is intended for
// logging and error messages; see WriteTurtle for serialization.
func (t Term) String() string {
	switch t.kind {
	case KindAny:
		return "_"
	case KindResource:
		if t.IsBlank() {
			return t.value
		}
		return "<" + t.value + ">"
	case KindLiteral:
		s := quote(t.value)
		switch {
		case t.lang != "":
			return s + "@" + t.lang
		case t.datatype != "":
			return s + "^^<" + t.datatype + ">"
		}
		return s
	case KindVariable:
		return "?" + t.value
	}
	return fmt.Sprintf("Term(%d:%q)", t.kind, t.value)
}

// Compare orders Terms by kind, then value, then datatype, then language. It
// returns a negative number when t < o, zero when t == o and a positive
// number when t > o.
func (t Term) Compare(o Term) int {
	if t.kind != o.kind {
		if t.kind < o.kind {
			return -1
		}
		return 1
	}
	if c := strings.Compare(t.value, o.value); c != 0 {
		return c
	}
	if c := strings.Compare(t.datatype, o.datatype); c != 0 {
		return c
	}
	return strings.Compare(t.lang, o.lang)
}

// Less returns true if t sorts before o.
func (t Term) Less(o Term) bool {
	return t.Compare(o) < 0
}

// quote returns s surrounded by double quotes, escaping the characters that
// the graph text syntax requires to be escaped.
func quote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}
