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
	"github.com/ebay/entail/graph"
	"github.com/ebay/entail/vocab"
	p "github.com/vektah/goparsify"
)

var (
	// graphDoc is the parser function called by ParseGraph. It extracts prefix
	// declarations and statements from a Turtle document.
	graphDoc p.Parser
	// ruleDoc is the parser function called by ParseRules. It extracts prefix
	// declarations and rules.
	ruleDoc p.Parser
)

func init() {
	// If you need to debug what the parser is doing, you can enable goparsify's
	// built in debug support by building with -tags debug. See the docs for
	// more details https://github.com/vektah/goparsify#debugging-parsers
	//
	// The parser_debug.go file will setup sending the parser debug output to
	// stdOut when the debug tag is used.

	iri := iriRef()         // <http://example.org/a>
	qname := prefixedName() // ex:a
	bnode := blankNode()    // _:b1
	literal := p.Any(
		rdfLiteral(stringLit(), p.Any(iri, qname)), // "a" || "a"@en || "1"^^xsd:int
		numberLit(),                                // 1 || 1.5 || 1.5E3
		keyword("true", graph.Bool(true)),
		keyword("false", graph.Bool(false)))
	resource := p.Any(iri, qname, bnode)

	prefixID := p.Seq("@prefix", p.Cut(), prefixLabel(), iri, ".").Map(prefixDecl(2, 3))
	sparqlPrefix := p.Seq(ignoreCase("PREFIX"), prefixLabel(), iri).Map(prefixDecl(1, 2))
	prefix := p.Any(prefixID, sparqlPrefix)

	verb := p.Any(iri, qname, keyword("a", vocab.Type))
	triples := triplesParser(resource, verb, p.Any(resource, literal))
	graphDoc = withWhitespace(textWS, p.Some(p.Any(prefix, triples)))

	term := p.Any(variable(), iri, qname, bnode, literal)
	comma := p.Maybe(",")
	pattern := p.Seq("(", term, comma, term, comma, term, ")").Map(patternAtom) // (?s, ex:p, ?o)
	atom := p.Any(pattern, builtinParser(term))                                 // ge(?n, 18)
	rule := ruleParser(atom)                                                    // [name: atom... -> atom...]
	ruleDoc = withWhitespace(textWS, p.Some(p.Any(prefix, rule)))
}
