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
	"testing"

	"github.com/ebay/entail/graph"
	"github.com/ebay/entail/vocab"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ex(local string) graph.Term {
	return graph.Resource("http://example.org/" + local)
}

func fact(s string, p graph.Term, o graph.Term) graph.Fact {
	return graph.NewFact(ex(s), p, o)
}

func kinds(violations []Violation) []Kind {
	var res []Kind
	for _, v := range violations {
		res = append(res, v.Kind)
	}
	return res
}

func Test_CheckConsistent(t *testing.T) {
	store := graph.NewStoreFrom(
		fact("Cat", vocab.DisjointWith, ex("Dog")),
		fact("tom", vocab.Type, ex("Cat")),
		fact("rex", vocab.Type, ex("Dog")),
		fact("age", vocab.Range, graph.Resource(graph.XSDInteger)),
		fact("tom", ex("age"), graph.Int(3)),
	)
	assert.Nil(t, Check(store, Options{}))
}

func Test_CheckDisjoint(t *testing.T) {
	store := graph.NewStoreFrom(
		fact("Cat", vocab.DisjointWith, ex("Dog")),
		fact("Dog", vocab.DisjointWith, ex("Cat")),
		fact("tom", vocab.Type, ex("Cat")),
		fact("tom", vocab.Type, ex("Dog")),
	)
	before := testutil.ToFloat64(metrics.violationsTotal.WithLabelValues("disjoint"))
	fp := store.Fingerprint()
	violations := Check(store, Options{})
	require.Len(t, violations, 1)
	assert.Equal(t, Violation{
		Kind:  Disjoint,
		Focus: ex("tom"),
		Facts: []graph.Fact{
			fact("Cat", vocab.DisjointWith, ex("Dog")),
			fact("tom", vocab.Type, ex("Cat")),
			fact("tom", vocab.Type, ex("Dog")),
		},
		Explanation: "<http://example.org/tom> is an instance of both <http://example.org/Cat> and " +
			"<http://example.org/Dog>, which are disjoint",
	}, violations[0])
	assert.Equal(t, "disjoint: <http://example.org/tom>: "+violations[0].Explanation, violations[0].String())
	assert.Equal(t, fp, store.Fingerprint(), "Check should not modify the graph")
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.violationsTotal.WithLabelValues("disjoint")))
}

func Test_CheckNothing(t *testing.T) {
	store := graph.NewStoreFrom(fact("ghost", vocab.Type, vocab.Nothing))
	violations := Check(store, Options{})
	require.Len(t, violations, 1)
	assert.Equal(t, Nothing, violations[0].Kind)
	assert.Equal(t, ex("ghost"), violations[0].Focus)
}

func Test_CheckRangeKind(t *testing.T) {
	tests := []struct {
		name  string
		facts []graph.Fact
		exp   []Kind
	}{
		{"datatype range with resource", []graph.Fact{
			fact("age", vocab.Range, graph.Resource(graph.XSDInteger)),
			fact("bob", ex("age"), ex("thirty")),
		}, []Kind{RangeKind}},
		{"rdfs:Literal range with resource", []graph.Fact{
			fact("name", vocab.Range, vocab.Literal),
			fact("bob", ex("name"), ex("Bob")),
		}, []Kind{RangeKind}},
		{"declared datatype range with resource", []graph.Fact{
			fact("Money", vocab.Type, vocab.Datatype),
			fact("price", vocab.Range, ex("Money")),
			fact("pen", ex("price"), ex("cheap")),
		}, []Kind{RangeKind}},
		{"class range with literal", []graph.Fact{
			fact("owner", vocab.Range, ex("Person")),
			fact("pen", ex("owner"), graph.Literal("bob")),
		}, []Kind{RangeKind}},
		{"class range with resource", []graph.Fact{
			fact("owner", vocab.Range, ex("Person")),
			fact("pen", ex("owner"), ex("bob")),
		}, nil},
		{"datatype property with resource", []graph.Fact{
			fact("name", vocab.Type, vocab.DatatypeProperty),
			fact("bob", ex("name"), ex("Bob")),
		}, []Kind{RangeKind}},
		{"object property with literal", []graph.Fact{
			fact("knows", vocab.Type, vocab.ObjectProperty),
			fact("bob", ex("knows"), graph.Literal("alice")),
		}, []Kind{RangeKind}},
		{"reported once", []graph.Fact{
			fact("knows", vocab.Type, vocab.ObjectProperty),
			fact("knows", vocab.Range, ex("Person")),
			fact("bob", ex("knows"), graph.Literal("alice")),
		}, []Kind{RangeKind}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			store := graph.NewStoreFrom(test.facts...)
			violations := Check(store, Options{})
			assert.Equal(t, test.exp, kinds(violations))
			for _, v := range violations {
				assert.Contains(t, v.Facts, test.facts[len(test.facts)-1])
			}
		})
	}
}

func Test_CheckRangeDatatype(t *testing.T) {
	tests := []struct {
		name    string
		rng     string
		value   graph.Term
		violate bool
	}{
		{"same type", graph.XSDInteger, graph.Int(30), false},
		{"derived type", graph.XSDInteger, graph.TypedLiteral("30", graph.XSDInt), false},
		{"integer is a decimal", graph.XSDDecimal, graph.Int(30), false},
		{"unsigned byte is a decimal", graph.XSDDecimal, graph.TypedLiteral("3", graph.XSDUnsignedByte), false},
		{"decimal isn't an integer", graph.XSDInteger, graph.TypedLiteral("3.5", graph.XSDDecimal), true},
		{"plain literal is a string", graph.XSDString, graph.Literal("bob"), false},
		{"plain literal isn't an integer", graph.XSDInteger, graph.Literal("30"), true},
		{"tagged literal isn't a string", graph.XSDString, graph.LangLiteral("bob", "en"), true},
		{"double isn't a decimal", graph.XSDDecimal, graph.Double(1.5), true},
		{"resource is someone else's problem", graph.XSDInteger, ex("thirty"), false},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			store := graph.NewStoreFrom(
				fact("p", vocab.Range, graph.Resource(test.rng)),
				fact("x", ex("p"), test.value),
			)
			violations := Check(store, Options{Disabled: []string{"range-kind"}})
			if test.violate {
				require.Len(t, violations, 1)
				assert.Equal(t, RangeDatatype, violations[0].Kind)
				assert.Equal(t, ex("x"), violations[0].Focus)
			} else {
				assert.Empty(t, violations)
			}
		})
	}
}

func Test_wellFormed(t *testing.T) {
	tests := []struct {
		lex, datatype string
		exp           bool
	}{
		{"42", graph.XSDInteger, true},
		{" +42 ", graph.XSDInteger, true},
		{"-0", graph.XSDInteger, true},
		{"4.2", graph.XSDInteger, false},
		{"forty", graph.XSDInteger, false},
		{"", graph.XSDInteger, false},
		{"127", graph.XSDByte, true},
		{"128", graph.XSDByte, false},
		{"-1", graph.XSDNonNegativeInteger, false},
		{"0", graph.XSDPositiveInteger, false},
		{"18446744073709551615", graph.XSDUnsignedLong, true},
		{"18446744073709551616", graph.XSDUnsignedLong, false},
		{"9223372036854775808", graph.XSDLong, false},
		{"99999999999999999999999", graph.XSDInteger, true},
		{"1.5", graph.XSDDecimal, true},
		{".5", graph.XSDDecimal, true},
		{"5.", graph.XSDDecimal, true},
		{"1e5", graph.XSDDecimal, false},
		{"1.5E-3", graph.XSDDouble, true},
		{"INF", graph.XSDDouble, true},
		{"-INF", graph.XSDFloat, true},
		{"NaN", graph.XSDFloat, true},
		{"1.5E", graph.XSDDouble, false},
		{"true", graph.XSDBoolean, true},
		{"0", graph.XSDBoolean, true},
		{"yes", graph.XSDBoolean, false},
		{"2019-03-01T10:30:00", graph.XSDDateTime, true},
		{"2019-03-01T10:30:00.25Z", graph.XSDDateTime, true},
		{"2019-03-01T10:30:00-08:00", graph.XSDDateTime, true},
		{"2019-13-01T10:30:00", graph.XSDDateTime, false},
		{"2019-03-01", graph.XSDDateTime, false},
		{"2019-03-01", graph.XSDDate, true},
		{"2019-03-01Z", graph.XSDDate, true},
		{"2019-02-30", graph.XSDDate, false},
		{"anything", graph.XSDString, true},
		{"anything", "http://example.org/custom", true},
	}
	for _, test := range tests {
		assert.Equal(t, test.exp, wellFormed(graph.TypedLiteral(test.lex, test.datatype)),
			"%q as %s", test.lex, test.datatype)
	}
}

func Test_CheckIllFormedLiteral(t *testing.T) {
	store := graph.NewStoreFrom(
		fact("bob", ex("age"), graph.TypedLiteral("thirty", graph.XSDInteger)),
		fact("bob", ex("name"), graph.Literal("Bob")),
		fact("bob", ex("born"), graph.TypedLiteral("1990-01-01", graph.XSDDate)),
	)
	violations := Check(store, Options{})
	require.Len(t, violations, 1)
	assert.Equal(t, IllFormedLiteral, violations[0].Kind)
	assert.Equal(t, `"thirty" is not a valid <http://www.w3.org/2001/XMLSchema#integer>`,
		violations[0].Explanation)
}

func Test_CheckFunctional(t *testing.T) {
	store := graph.NewStoreFrom(
		fact("mother", vocab.Type, vocab.FunctionalProperty),
		fact("age", vocab.Type, vocab.FunctionalProperty),
		fact("bob", ex("mother"), ex("alice")),
		fact("bob", ex("mother"), ex("carol")),
		fact("tim", ex("mother"), ex("alice")),
		fact("bob", ex("age"), graph.Int(1)),
		fact("bob", ex("age"), graph.TypedLiteral("1.0", graph.XSDDecimal)),
	)
	violations := Check(store, Options{})
	require.Len(t, violations, 1)
	v := violations[0]
	assert.Equal(t, Functional, v.Kind)
	assert.Equal(t, ex("bob"), v.Focus)
	assert.Equal(t, []graph.Fact{
		fact("bob", ex("mother"), ex("alice")),
		fact("bob", ex("mother"), ex("carol")),
		fact("mother", vocab.Type, vocab.FunctionalProperty),
	}, v.Facts)
	assert.Equal(t, "<http://example.org/mother> is functional, but <http://example.org/bob> "+
		"has 2 distinct values for it", v.Explanation)
}

func Test_CheckInverseFunctional(t *testing.T) {
	store := graph.NewStoreFrom(
		fact("email", vocab.Type, vocab.InverseFunctionalProperty),
		fact("bob", ex("email"), graph.Literal("b@example.org")),
		fact("rob", ex("email"), graph.Literal("b@example.org")),
		fact("ann", ex("email"), graph.Literal("a@example.org")),
	)
	violations := Check(store, Options{})
	require.Len(t, violations, 1)
	v := violations[0]
	assert.Equal(t, InverseFunctional, v.Kind)
	assert.Equal(t, graph.Literal("b@example.org"), v.Focus)
	assert.Len(t, v.Facts, 3)
}

func Test_CheckOrderAndDisabled(t *testing.T) {
	store := graph.NewStoreFrom(
		fact("mother", vocab.Type, vocab.FunctionalProperty),
		fact("zed", ex("mother"), ex("a")),
		fact("zed", ex("mother"), ex("b")),
		fact("zed", vocab.Type, vocab.Nothing),
		fact("amy", vocab.Type, vocab.Nothing),
		fact("A", vocab.DisjointWith, ex("B")),
		fact("zed", vocab.Type, ex("A")),
		fact("zed", vocab.Type, ex("B")),
	)
	violations := Check(store, Options{})
	assert.Equal(t, []Kind{Disjoint, Nothing, Nothing, Functional}, kinds(violations))
	assert.Equal(t, ex("amy"), violations[1].Focus)
	assert.Equal(t, ex("zed"), violations[2].Focus)

	violations = Check(store, Options{Disabled: []string{"nothing", "functional", "no-such-check"}})
	assert.Equal(t, []Kind{Disjoint}, kinds(violations))
}

func Test_Kinds(t *testing.T) {
	var names []string
	for _, k := range Kinds() {
		names = append(names, k.String())
		parsed, err := ParseKind(k.String())
		assert.NoError(t, err)
		assert.Equal(t, k, parsed)
	}
	assert.Equal(t, []string{"disjoint", "nothing", "range-kind", "range-datatype",
		"ill-formed-literal", "functional", "inverse-functional"}, names)
	_, err := ParseKind("bogus")
	assert.EqualError(t, err, `unknown validity check "bogus"`)
	assert.Equal(t, "Kind(99)", Kind(99).String())
}
