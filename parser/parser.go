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
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ebay/entail/graph"
	"github.com/ebay/entail/rules"
	"github.com/ebay/entail/vocab"
	"github.com/sirupsen/logrus"
	"github.com/vektah/goparsify"
	"golang.org/x/text/unicode/norm"
)

// Graph is the result of ParseGraph.
type Graph struct {
	// Facts are in the order they appear in the input. Duplicates are kept.
	Facts []graph.Fact
	// Prefixes maps prefix names to namespace IRIs. It holds the predeclared
	// rdf, rdfs, owl and xsd prefixes and those declared in the input.
	Prefixes map[string]string
}

// Store returns a new Store holding the Facts.
func (g *Graph) Store() *graph.Store {
	return graph.NewStoreFrom(g.Facts...)
}

// MustParseGraph is like ParseGraph but panics if an error occurs. It's meant
// for tests and fixtures.
func MustParseGraph(in string) *Graph {
	g, err := ParseGraph(in)
	if err != nil {
		panic(fmt.Sprintf("unable to parse graph: '%s': %v", strings.Replace(in, "\n", "\\n", -1), err))
	}
	return g
}

// ParseGraph parses a graph written in a subset of Turtle: @prefix and PREFIX
// declarations, and statements using ';' and ',' lists. Terms may be IRIs,
// prefixed names, labelled blank nodes, strings with optional language tags
// or datatypes, numbers and booleans. 'a' abbreviates rdf:type. The input is
// normalized to Unicode NFC first. Syntax errors and unknown prefixes are
// reported as a *ParseError.
func ParseGraph(in string) (*Graph, error) {
	p := &parser{in: norm.NFC.String(in), typ: "graph"}
	result, err := p.parse(graphDoc)
	if err != nil {
		return nil, err
	}
	g := &Graph{Prefixes: vocab.Prefixes()}
	for _, stmt := range result.Child {
		switch stmt := stmt.Result.(type) {
		case *prefixNode:
			g.Prefixes[stmt.name] = stmt.iri
		case *triplesNode:
			for _, t := range stmt.triples {
				var terms [3]graph.Term
				for i, n := range t {
					terms[i], err = p.resolve(n, g.Prefixes)
					if err != nil {
						return nil, err
					}
				}
				g.Facts = append(g.Facts, graph.NewFact(terms[0], terms[1], terms[2]))
			}
		default:
			return nil, fmt.Errorf("invalid result type: %T", stmt)
		}
	}
	return g, nil
}

// ParseRules parses rules written as
//
//	@prefix ex: <http://example.org/> .
//	[adult: (?x ex:age ?n) ge(?n, 18) -> (?x ex:isAdult true)]
//
// Each rule has an optional name, a body of patterns and builtin calls, "->",
// and a head of patterns. Pattern terms may be separated by commas. Syntax
// errors are reported as a *ParseError. Backward rules, nested rules, builtins
// in the head, and rules that fail rules.Validate are reported as a
// *rules.MalformedRuleError.
func ParseRules(in string) ([]*rules.Rule, error) {
	p := &parser{in: norm.NFC.String(in), typ: "rules"}
	result, err := p.parse(ruleDoc)
	if err != nil {
		return nil, err
	}
	prefixes := vocab.Prefixes()
	var ruleset []*rules.Rule
	for _, stmt := range result.Child {
		switch stmt := stmt.Result.(type) {
		case *prefixNode:
			prefixes[stmt.name] = stmt.iri
		case *ruleNode:
			r, err := p.rule(stmt, prefixes)
			if err != nil {
				return nil, err
			}
			ruleset = append(ruleset, r)
		default:
			return nil, fmt.Errorf("invalid result type: %T", stmt)
		}
	}
	if err := rules.Validate(ruleset); err != nil {
		return nil, err
	}
	return ruleset, nil
}

// parser implementation
type parser struct {
	in string
	// graph, rules
	typ string
}

// parse runs the root parser over the whole input. If it's unable to fully
// parse the input, a ParseError will be returned that includes the position of
// where it parsed to, and what the problem is.
func (p *parser) parse(root goparsify.Parser) (*goparsify.Result, error) {
	state := goparsify.NewState(p.in)
	state.WS = goparsify.NoWhitespace
	// consume head whitespace
	goparsify.UnicodeWhitespace(state)

	result := &goparsify.Result{}
	root(state, result)
	if state.Errored() {
		exp := strings.TrimPrefix(fmt.Sprintf("%q", expectedText(&state.Error)), `"`)
		exp = strings.TrimSuffix(exp, `"`)
		return nil, p.errorAt(state.Error.Pos(), "expected "+exp)
	}
	// consume tail whitespace and comments and check for unparsed text
	state.WS = textWS
	state.WS(state)
	unparsed := state.Get()
	if unparsed != "" {
		if i := strings.IndexByte(unparsed, '\n'); i > 0 {
			unparsed = unparsed[:i]
		}
		return nil, p.errorAt(state.Pos,
			fmt.Sprintf("unparsed text: '%s'", strings.TrimRightFunc(unparsed, unicode.IsSpace)))
	}
	return result, nil
}

func (p *parser) errorAt(offset int, details string) *ParseError {
	line, col := coordinates(p.in, offset)
	return &ParseError{
		ParseType: p.typ,
		Input:     p.in,
		Offset:    offset,
		Line:      line,
		Column:    col,
		Details:   details,
	}
}

// resolve returns the Term for the node, expanding prefixed names.
func (p *parser) resolve(n *termNode, prefixes map[string]string) (graph.Term, error) {
	switch {
	case n.qname:
		ns, ok := prefixes[n.prefix]
		if !ok {
			return graph.Term{}, p.errorAt(n.pos, fmt.Sprintf("unknown prefix '%s:'", n.prefix))
		}
		return graph.Resource(ns + n.local), nil
	case n.datatype != nil:
		dt, err := p.resolve(n.datatype, prefixes)
		if err != nil {
			return graph.Term{}, err
		}
		return graph.TypedLiteral(n.value, dt.Value()), nil
	}
	return n.term, nil
}

// rule builds and validates a Rule.
func (p *parser) rule(n *ruleNode, prefixes map[string]string) (*rules.Rule, error) {
	if n.unsupported != "" {
		return nil, &rules.MalformedRuleError{Rule: n.name, Reason: n.unsupported}
	}
	terms := func(a *atomNode) ([]graph.Term, error) {
		res := make([]graph.Term, len(a.terms))
		for i, t := range a.terms {
			var err error
			if res[i], err = p.resolve(t, prefixes); err != nil {
				return nil, err
			}
		}
		return res, nil
	}
	var body []rules.Atom
	for _, a := range n.body {
		args, err := terms(a)
		if err != nil {
			return nil, err
		}
		if a.builtin != "" {
			body = append(body, rules.NewBuiltin(a.builtin, args...))
		} else {
			body = append(body, rules.NewPattern(args[0], args[1], args[2]))
		}
	}
	var head []rules.Pattern
	for _, a := range n.head {
		if a.builtin != "" {
			return nil, &rules.MalformedRuleError{
				Rule:   n.name,
				Reason: fmt.Sprintf("builtin %s can't be a consequent", a.builtin),
			}
		}
		args, err := terms(a)
		if err != nil {
			return nil, err
		}
		head = append(head, rules.NewPattern(args[0], args[1], args[2]))
	}
	return rules.New(n.name, body, head)
}

// ParseError captures more detailed information about a parsing error, and
// where it occurred.
type ParseError struct {
	// graph or rules.
	ParseType string
	// The input string to the parser which resulted in this error, after
	// Unicode normalization.
	Input string
	// Offset is the byte offset into 'Input' at which the error ocurred.
	Offset int
	// Line is the line number in 'Input' at which the error ocurred.
	Line int
	// Column is the column (in runes) into the indicated Line that the error
	// ocurred. Line & Column represent the same point in 'Input' as 'Offset'.
	Column int
	// The specific parser error that ocurred.
	Details string
}

func (p *ParseError) Error() string {
	return fmt.Sprintf("unable to parse %s: line %d column %d: %s",
		p.ParseType, p.Line, p.Column, p.Details)
}

// coordinates returns the line & column of the supplied offset in the string
// 'input'. Offset is in bytes, the returned column value is in runes.
func coordinates(input string, atOffset int) (line, col int) {
	// Trim any trailing whitespace from the input, as most people wouldn't
	// consider it an expected place for an error.
	input = strings.TrimRightFunc(input, unicode.IsSpace)
	// Don't let atOffset be past the end of the input.
	atOffset = min(atOffset, len(input))

	lines := strings.Split(input, "\n")
	current := 0
	line = 1
	for _, l := range lines {
		if current+len(l) >= atOffset {
			// offset is in bytes, but the reported column should be based on runes.
			col = utf8.RuneCountInString(l[:atOffset-current]) + 1
			return line, col
		}
		line++
		current += len(l) + 1 // remember to consume the \n
	}
	panic(fmt.Sprintf("shouldn't get here. Input was '%s' atOffset: %d", input, atOffset))
}

// expectedText extracts from the supplied goparsify Error the expected text
// i.e. the error from an unmatched parser. This relies on the format of the
// error message generated by goparsify.
func expectedText(e *goparsify.Error) string {
	msg := e.Error()
	expectedIdx := strings.Index(msg, "expected")
	if expectedIdx == -1 {
		logrus.WithField("err", msg).
			Warn("Got goparsify error with missing 'expected' string")
		return msg
	}
	expected := msg[expectedIdx+len("expected")+1:]
	return expected
}
