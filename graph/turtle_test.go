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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_WriteTurtle(t *testing.T) {
	s := NewStoreFrom(
		fact("bob", "age", Int(25)),
		NewFact(ex("alice"), Resource(rdfType), ex("Person")),
		fact("alice", "knows", ex("carol")),
		fact("alice", "knows", ex("bob")),
		fact("alice", "name", LangLiteral("Alice", "en")),
		fact("bob", "score", TypedLiteral("2.5", XSDDecimal)),
		fact("bob", "weight", TypedLiteral("7.5E1", XSDDouble)),
		fact("bob", "member", Bool(true)),
		fact("bob", "note", Literal("line1\nline2")),
		fact("bob", "code", TypedLiteral("007", "http://example.org/code")),
		NewFact(Blank("b1"), ex("seen"), ex("path/with/slash")),
	)
	var buf strings.Builder
	err := WriteTurtle(&buf, s, map[string]string{
		"ex":  "http://example.org/",
		"xsd": XSDNamespace,
	})
	require.NoError(t, err)
	assert.Equal(t, `@prefix ex: <http://example.org/> .
@prefix xsd: <http://www.w3.org/2001/XMLSchema#> .

_:b1
    ex:seen <http://example.org/path/with/slash> .

ex:alice
    ex:knows ex:bob ,
        ex:carol ;
    ex:name "Alice"@en ;
    a ex:Person .

ex:bob
    ex:age 25 ;
    ex:code "007"^^ex:code ;
    ex:member true ;
    ex:note "line1\nline2" ;
    ex:score 2.5 ;
    ex:weight 7.5E1 .
`, buf.String())
}

func Test_WriteTurtleEmpty(t *testing.T) {
	var buf strings.Builder
	require.NoError(t, WriteTurtle(&buf, NewStore(), nil))
	assert.Equal(t, "", buf.String())
}

func Test_WriteTurtleDeterministic(t *testing.T) {
	a := NewStoreFrom(fact("x", "p", ex("y")), fact("a", "p", ex("b")))
	b := NewStoreFrom(fact("a", "p", ex("b")), fact("x", "p", ex("y")))
	var bufA, bufB strings.Builder
	require.NoError(t, WriteTurtle(&bufA, a, map[string]string{"ex": "http://example.org/"}))
	require.NoError(t, WriteTurtle(&bufB, b, map[string]string{"ex": "http://example.org/"}))
	assert.Equal(t, bufA.String(), bufB.String())
}
