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

package parser

import (
	"strings"
	"testing"

	"github.com/ebay/entail/graph"
	"github.com/ebay/entail/rules"
	"github.com/ebay/entail/vocab"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vektah/goparsify"
)

func ex(local string) graph.Term {
	return graph.Resource("http://example.org/" + local)
}

func Test_ParseGraph(t *testing.T) {
	in := `@prefix ex: <http://example.org/> .
PREFIX foaf: <http://xmlns.com/foaf/0.1/>
# Rex
ex:rex a ex:Dog ;
    ex:name "Rex"@EN, 'Rexy' ;   // two names
    ex:age 3 ;
    ex:weight 7.5 ;
    ex:ratio -1.5e3 ;
    ex:good true ;
    ex:born "2019-01-01"^^xsd:date ;;
    foaf:knows _:b1 , <http://example.org/fido> .
_:b1 ex:code "a\tbé\"" .
`
	g, err := ParseGraph(in)
	require.NoError(t, err)
	rex := ex("rex")
	assert.Equal(t, []graph.Fact{
		graph.NewFact(rex, vocab.Type, ex("Dog")),
		graph.NewFact(rex, ex("name"), graph.LangLiteral("Rex", "en")),
		graph.NewFact(rex, ex("name"), graph.Literal("Rexy")),
		graph.NewFact(rex, ex("age"), graph.Int(3)),
		graph.NewFact(rex, ex("weight"), graph.TypedLiteral("7.5", graph.XSDDecimal)),
		graph.NewFact(rex, ex("ratio"), graph.TypedLiteral("-1.5e3", graph.XSDDouble)),
		graph.NewFact(rex, ex("good"), graph.Bool(true)),
		graph.NewFact(rex, ex("born"), graph.TypedLiteral("2019-01-01", vocab.XSD+"date")),
		graph.NewFact(rex, graph.Resource("http://xmlns.com/foaf/0.1/knows"), graph.Blank("b1")),
		graph.NewFact(rex, graph.Resource("http://xmlns.com/foaf/0.1/knows"), ex("fido")),
		graph.NewFact(graph.Blank("b1"), ex("code"), graph.Literal("a\tb\u00e9\"")),
	}, g.Facts)
	assert.Equal(t, "http://example.org/", g.Prefixes["ex"])
	assert.Equal(t, "http://xmlns.com/foaf/0.1/", g.Prefixes["foaf"])
	assert.Equal(t, vocab.RDFS, g.Prefixes["rdfs"])
	assert.Equal(t, 11, g.Store().Len())
}

func Test_ParseGraphEmpty(t *testing.T) {
	for _, in := range []string{"", "  \n", "# nothing here\n", "@prefix ex: <http://example.org/> ."} {
		g, err := ParseGraph(in)
		if assert.NoError(t, err, "%q", in) {
			assert.Empty(t, g.Facts)
		}
	}
}

func Test_ParseGraphRedefinedPrefix(t *testing.T) {
	g, err := ParseGraph(`@prefix ex: <http://example.org/> .
ex:a ex:p ex:b .
@prefix ex: <http://example.com/> .
ex:a ex:p ex:b .`)
	require.NoError(t, err)
	require.Len(t, g.Facts, 2)
	assert.Equal(t, ex("a"), g.Facts[0].Subject)
	assert.Equal(t, graph.Resource("http://example.com/a"), g.Facts[1].Subject)
}

func Test_ParseGraphNormalizes(t *testing.T) {
	decomposed := "e\u0301"
	g, err := ParseGraph(`<http://example.org/a> <http://example.org/p> "caf` + decomposed + `" .`)
	require.NoError(t, err)
	require.Len(t, g.Facts, 1)
	assert.Equal(t, graph.Literal("caf\u00e9"), g.Facts[0].Object)
}

func Test_ParseGraphErrors(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		expLine int
		expCol  int
		exp     string
	}{
		{
			name:    "missing dot",
			in:      "ex:a ex:p ex:b",
			expLine: 1, expCol: 15,
			exp: "unable to parse graph: line 1 column 15: expected .",
		},
		{
			name:    "unknown prefix",
			in:      "foo:a ex:p ex:b .",
			expLine: 1, expCol: 1,
			exp: "unable to parse graph: line 1 column 1: unknown prefix 'foo:'",
		},
		{
			name:    "unknown datatype prefix",
			in:      `rdfs:a rdfs:p "1"^^foo:int .`,
			expLine: 1, expCol: 20,
			exp: "unable to parse graph: line 1 column 20: unknown prefix 'foo:'",
		},
		{
			name:    "unparsed",
			in:      "ex:a ex:p ex:b . }",
			expLine: 1, expCol: 18,
			exp: "unable to parse graph: line 1 column 18: unparsed text: '}'",
		},
		{
			name:    "bad object",
			in:      "@prefix ex: <http://example.org/> .\nex:a ex:p ex:b .\nex:c ex:p }",
			expLine: 3, expCol: 11,
		},
		{
			name:    "literal subject",
			in:      `"a" ex:p ex:b .`,
			expLine: 1, expCol: 1,
		},
		{
			name:    "unterminated string",
			in:      "ex:a ex:p \"abc\nex:b ex:p ex:c .",
			expLine: 1, expCol: 15,
			exp: "unable to parse graph: line 1 column 15: expected closing quote",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := ParseGraph(test.in)
			var parseErr *ParseError
			require.ErrorAs(t, err, &parseErr)
			assert.Equal(t, "graph", parseErr.ParseType)
			assert.Equal(t, test.expLine, parseErr.Line)
			assert.Equal(t, test.expCol, parseErr.Column)
			if test.exp != "" {
				assert.EqualError(t, err, test.exp)
			}
		})
	}
}

func Test_WriteTurtleRoundTrip(t *testing.T) {
	g := MustParseGraph(`@prefix ex: <http://example.org/> .
ex:rex a ex:Dog, owl:Thing ;
    ex:name "Rex"@en, "Say \"hi\"\n" ;
    ex:age 3 ;
    ex:weight 7.5 ;
    ex:ratio 1.5E3 ;
    ex:good false ;
    ex:code "007"^^ex:code ;
    ex:knows _:b1 , <http://example.org/path/with/slash> .
_:b1 rdfs:label "b one" .
`)
	var buf strings.Builder
	require.NoError(t, graph.WriteTurtle(&buf, g.Store(), g.Prefixes))
	again, err := ParseGraph(buf.String())
	require.NoError(t, err, buf.String())
	assert.True(t, g.Store().Equal(again.Store()), buf.String())
}

func Test_ParseRules(t *testing.T) {
	in := `@prefix ex: <http://example.org/> .
// people of age
[adult: (?x ex:age ?n), ge(?n, 18) -> (?x, ex:isAdult, true)]
# grandparents
[(?a ex:parent ?b) (?b ex:parent ?c)
    -> (?a ex:grandparent ?c) (?c ex:grandchild ?a)]
`
	x, n := graph.Variable("x"), graph.Variable("n")
	a, b, c := graph.Variable("a"), graph.Variable("b"), graph.Variable("c")
	exp := []*rules.Rule{
		rules.MustNew("adult",
			[]rules.Atom{
				rules.NewPattern(x, ex("age"), n),
				rules.NewBuiltin("ge", n, graph.Int(18)),
			},
			[]rules.Pattern{rules.NewPattern(x, ex("isAdult"), graph.Bool(true))}),
		rules.MustNew("",
			[]rules.Atom{
				rules.NewPattern(a, ex("parent"), b),
				rules.NewPattern(b, ex("parent"), c),
			},
			[]rules.Pattern{
				rules.NewPattern(a, ex("grandparent"), c),
				rules.NewPattern(c, ex("grandchild"), a),
			}),
	}
	actual, err := ParseRules(in)
	require.NoError(t, err)
	assert.Equal(t, exp, actual)

	t.Run("String", func(t *testing.T) {
		for _, r := range actual {
			again, err := ParseRules(r.String())
			if assert.NoError(t, err, r.String()) && assert.Len(t, again, 1) {
				assert.Equal(t, r, again[0])
			}
		}
	})
}

func Test_ParseRulesErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		exp  string
	}{
		{
			name: "backward",
			in:   "[b: (?a ex:p ?b) <- (?b ex:q ?a)]",
			exp:  `malformed rule "b": backward rules are not supported`,
		},
		{
			name: "nested",
			in:   "[outer: (?a ex:p ?b) -> [inner: (?b ex:q ?a) -> (?a ex:r ?b)]]",
			exp:  `malformed rule "outer": nested rules are not supported`,
		},
		{
			name: "builtin consequent",
			in:   "[h: (?a ex:p ?b) -> ge(?a, 1)]",
			exp:  `malformed rule "h": builtin ge can't be a consequent`,
		},
		{
			name: "duplicate name",
			in:   "[d: (?a ex:p ?b) -> (?b ex:p ?a)]\n[d: (?a ex:q ?b) -> (?b ex:q ?a)]",
			exp:  `malformed rule "d": duplicate rule name`,
		},
		{
			name: "unknown builtin",
			in:   "[u: (?a ex:p ?b) bogus(?a) -> (?b ex:p ?a)]",
			exp:  `malformed rule "u": unsupported builtin "bogus"`,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := ParseRules("@prefix ex: <http://example.org/> .\n" + test.in)
			var malformed *rules.MalformedRuleError
			assert.ErrorAs(t, err, &malformed)
			assert.EqualError(t, err, test.exp)
		})
	}
	t.Run("unbound", func(t *testing.T) {
		_, err := ParseRules("[v: (?a rdf:type ?b) -> (?c rdf:type ?b)]")
		var malformed *rules.MalformedRuleError
		assert.ErrorAs(t, err, &malformed)
	})
}

func Test_ParseRulesSyntaxErrors(t *testing.T) {
	tests := []struct {
		in  string
		exp string
	}{
		{"[m: (?a rdf:type ?b)]", "unable to parse rules: line 1 column 21: expected ->"},
		{"[u: (?a foo:p ?b) -> (?b rdf:type ?a)]", "unable to parse rules: line 1 column 9: unknown prefix 'foo:'"},
		{"[r: (?a rdf:type ?b) -> (?b rdf:type ?a)", "unable to parse rules: line 1 column 41: expected ]"},
		{"[r: (?a rdf:type ?b) -> (?b rdf:type ?a)] extra", "unable to parse rules: line 1 column 43: unparsed text: 'extra'"},
	}
	for _, test := range tests {
		t.Run(test.in, func(t *testing.T) {
			_, err := ParseRules(test.in)
			var parseErr *ParseError
			assert.ErrorAs(t, err, &parseErr)
			assert.EqualError(t, err, test.exp)
		})
	}
}

func Test_ParseError(t *testing.T) {
	err := &ParseError{
		ParseType: "graph",
		Input:     "ex:a ex:p",
		Offset:    9,
		Line:      1,
		Column:    10,
		Details:   "expected object",
	}
	assert.EqualError(t, err, "unable to parse graph: line 1 column 10: expected object")
}

func Test_ExpectedText(t *testing.T) {
	// its not possible to construct a goparsify.Error from outside the package,
	// so we force the parser to generate one.
	_, err := goparsify.Run("Bob", "Alice")
	assert.Error(t, err)
	assert.Equal(t, "Bob", expectedText(err.(*goparsify.Error)))
}

func Test_Coordinates(t *testing.T) {
	tests := []struct {
		input   string
		pos     int
		expLine int
		expCol  int
	}{
		{"Hello World", 0, 1, 1},
		{"Hello World", 5, 1, 6},
		{"Hello World", 11, 1, 12},
		{"Hello World", 12, 1, 12},
		{"Hello World\n\n\n", 14, 1, 12},
		{"Hello\nWorld", 5, 1, 6},
		{"Hello\nWorld", 6, 2, 1},
		{"世界\n世界", 3, 1, 2},
		{"世界\n世界", 7, 2, 1},
		{"世界\n世界", 13, 2, 3},
		{"\n\n\nHello\nWorld\n", 4, 4, 2},
	}
	for _, test := range tests {
		line, col := coordinates(test.input, test.pos)
		assert.Equal(t, test.expLine, line, "line for %q at %d", test.input, test.pos)
		assert.Equal(t, test.expCol, col, "column for %q at %d", test.input, test.pos)
	}
}
