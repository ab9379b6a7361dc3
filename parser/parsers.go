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
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/ebay/entail/graph"
	"github.com/vektah/goparsify"
)

// termNode is a parsed term. Prefixed names, and literals typed with one, are
// resolved once the prefixes declared before them are known.
type termNode struct {
	// pos is the byte offset of the term in the input.
	pos int
	// term is set for terms that don't need resolving.
	term graph.Term
	// qname is set for a prefixed name.
	qname  bool
	prefix string
	local  string
	// datatype is set for a typed literal, whose lexical form is in value.
	datatype *termNode
	value    string
}

// isWordChar returns true for bytes that can continue a name or keyword.
// Bytes of multi-byte UTF-8 sequences count as word characters.
func isWordChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' ||
		c == '_' || c == '-' || c >= utf8.RuneSelf
}

func isAlnum(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func digits(s string) int {
	n := 0
	for n < len(s) && isDigit(s[n]) {
		n++
	}
	return n
}

// scanName returns the length of the name at the start of s. Names are made of
// word characters and '.', but can't end with a '.'.
func scanName(s string) int {
	n := 0
	for n < len(s) && (isWordChar(s[n]) || s[n] == '.') {
		n++
	}
	for n > 0 && s[n-1] == '.' {
		n--
	}
	return n
}

// scanPrefix returns the length of the prefix name at the start of s, which
// may be zero. Prefix names start with a letter.
func scanPrefix(s string) int {
	if s == "" || isDigit(s[0]) || s[0] == '_' || s[0] == '-' || !isWordChar(s[0]) {
		return 0
	}
	return scanName(s)
}

// scanLocal returns the length of the local part of a prefixed name or blank
// node label at the start of s, which may be zero.
func scanLocal(s string) int {
	if s == "" || s[0] == '-' || !isWordChar(s[0]) {
		return 0
	}
	return scanName(s)
}

// scanLangTag returns the length of the language tag at the start of s, such
// as "en" or "en-US", or 0 if there isn't one.
func scanLangTag(s string) int {
	n := 0
	for n < len(s) && (s[n] >= 'a' && s[n] <= 'z' || s[n] >= 'A' && s[n] <= 'Z') {
		n++
	}
	if n == 0 {
		return 0
	}
	for n+1 < len(s) && s[n] == '-' {
		rest := s[n+1:]
		m := 0
		for m < len(rest) && isAlnum(rest[m]) {
			m++
		}
		if m == 0 {
			break
		}
		n += 1 + m
	}
	return n
}

// failAt records an error at 'offset' bytes past the current position,
// leaving the position unchanged.
func failAt(ps *goparsify.State, offset int, expected string) {
	start := ps.Pos
	ps.Pos += offset
	ps.ErrorHere(expected)
	ps.Pos = start
}

// consume skips whitespace and then the token, if it's next. It returns true if
// the token was consumed.
func consume(ps *goparsify.State, token string) bool {
	ps.WS(ps)
	if strings.HasPrefix(ps.Get(), token) {
		ps.Advance(len(token))
		return true
	}
	return false
}

// peek skips whitespace and returns true if the token is next.
func peek(ps *goparsify.State, token string) bool {
	ps.WS(ps)
	return strings.HasPrefix(ps.Get(), token)
}

// iriRef parses an IRI in angle brackets, as in <http://example.org/a>.
func iriRef() goparsify.Parser {
	return goparsify.NewParser("IRI", func(ps *goparsify.State, node *goparsify.Result) {
		ps.WS(ps)
		in := ps.Get()
		if !strings.HasPrefix(in, "<") {
			ps.ErrorHere("<")
			return
		}
		end := strings.IndexAny(in[1:], "<>\"{}|^`\\ \t\r\n")
		if end < 0 || in[1+end] != '>' {
			failAt(ps, 1, "IRI")
			return
		}
		node.Token = in[1 : 1+end]
		node.Result = &termNode{pos: ps.Pos, term: graph.Resource(node.Token)}
		ps.Advance(end + 2)
	})
}

// prefixLabel parses the "ex:" of a prefix declaration. The Token is the
// prefix name, which may be empty.
func prefixLabel() goparsify.Parser {
	return goparsify.NewParser("prefix name", func(ps *goparsify.State, node *goparsify.Result) {
		ps.WS(ps)
		in := ps.Get()
		n := scanPrefix(in)
		if n >= len(in) || in[n] != ':' {
			ps.ErrorHere("prefix name")
			return
		}
		node.Token = in[:n]
		ps.Advance(n + 1)
	})
}

// prefixedName parses a name such as ex:alice or :alice.
func prefixedName() goparsify.Parser {
	return goparsify.NewParser("prefixed name", func(ps *goparsify.State, node *goparsify.Result) {
		ps.WS(ps)
		in := ps.Get()
		n := scanPrefix(in)
		if n >= len(in) || in[n] != ':' {
			ps.ErrorHere("prefixed name")
			return
		}
		m := scanLocal(in[n+1:])
		node.Token = in[:n+1+m]
		node.Result = &termNode{
			pos:    ps.Pos,
			qname:  true,
			prefix: in[:n],
			local:  in[n+1 : n+1+m],
		}
		ps.Advance(n + 1 + m)
	})
}

// blankNode parses a labelled blank node, as in _:b1.
func blankNode() goparsify.Parser {
	return goparsify.NewParser("blank node", func(ps *goparsify.State, node *goparsify.Result) {
		ps.WS(ps)
		in := ps.Get()
		if !strings.HasPrefix(in, "_:") {
			ps.ErrorHere("_:")
			return
		}
		n := scanLocal(in[2:])
		if n == 0 {
			failAt(ps, 2, "blank node label")
			return
		}
		node.Token = in[:2+n]
		node.Result = &termNode{pos: ps.Pos, term: graph.Blank(in[2 : 2+n])}
		ps.Advance(2 + n)
	})
}

// variable parses a rule variable, as in ?x.
func variable() goparsify.Parser {
	return goparsify.NewParser("variable", func(ps *goparsify.State, node *goparsify.Result) {
		ps.WS(ps)
		in := ps.Get()
		if !strings.HasPrefix(in, "?") {
			ps.ErrorHere("?")
			return
		}
		n := 1
		for n < len(in) && isWordChar(in[n]) && in[n] != '-' {
			n++
		}
		if n == 1 {
			failAt(ps, 1, "variable name")
			return
		}
		node.Token = in[:n]
		node.Result = &termNode{pos: ps.Pos, term: graph.Variable(in[1:n])}
		ps.Advance(n)
	})
}

// keyword parses the given word, which mustn't run into a longer name, and
// produces 'term'.
func keyword(word string, term graph.Term) goparsify.Parser {
	return goparsify.NewParser(word, func(ps *goparsify.State, node *goparsify.Result) {
		ps.WS(ps)
		in := ps.Get()
		if !strings.HasPrefix(in, word) ||
			len(in) > len(word) && (isWordChar(in[len(word)]) || in[len(word)] == ':') {
			ps.ErrorHere(word)
			return
		}
		node.Token = word
		node.Result = &termNode{pos: ps.Pos, term: term}
		ps.Advance(len(word))
	})
}

// ignoreCase returns a parser that matches the supplied string exactly ignoring
// case.
func ignoreCase(match string) goparsify.Parser {
	lenMatch := len(match)
	return goparsify.NewParser("i/"+match+"/", func(s *goparsify.State, r *goparsify.Result) {
		s.WS(s)
		in := s.Get()
		if len(in) < lenMatch || !strings.EqualFold(match, in[:lenMatch]) {
			s.ErrorHere(match)
			return
		}
		s.Advance(lenMatch)
		r.Token = in[:lenMatch]
	})
}

// numberLit parses an integer, decimal or double, keeping its lexical form.
// "5." is the integer 5 followed by a '.'.
func numberLit() goparsify.Parser {
	return goparsify.NewParser("number", func(ps *goparsify.State, node *goparsify.Result) {
		ps.WS(ps)
		in := ps.Get()
		n := 0
		if n < len(in) && (in[n] == '+' || in[n] == '-') {
			n++
		}
		start := n
		n += digits(in[n:])
		datatype := graph.XSDInteger
		if n+1 < len(in) && in[n] == '.' && isDigit(in[n+1]) {
			n += 1 + digits(in[n+1:])
			datatype = graph.XSDDecimal
		}
		if n == start {
			ps.ErrorHere("number")
			return
		}
		if n < len(in) && (in[n] == 'e' || in[n] == 'E') {
			m := n + 1
			if m < len(in) && (in[m] == '+' || in[m] == '-') {
				m++
			}
			if d := digits(in[m:]); d > 0 {
				n = m + d
				datatype = graph.XSDDouble
			}
		}
		if n < len(in) && isWordChar(in[n]) {
			ps.ErrorHere("number")
			return
		}
		node.Token = in[:n]
		node.Result = &termNode{pos: ps.Pos, term: graph.TypedLiteral(in[:n], datatype)}
		ps.Advance(n)
	})
}

// stringLit parses a single line string in double or single quotes. The Token
// is the unescaped value.
func stringLit() goparsify.Parser {
	return goparsify.NewParser("string", func(ps *goparsify.State, node *goparsify.Result) {
		ps.WS(ps)
		in := ps.Get()
		if in == "" || in[0] != '"' && in[0] != '\'' {
			ps.ErrorHere("string")
			return
		}
		quote := in[0]
		var b strings.Builder
		for i := 1; i < len(in); i++ {
			c := in[i]
			switch {
			case c == quote:
				node.Token = b.String()
				ps.Advance(i + 1)
				return
			case c == '\n' || c == '\r':
				failAt(ps, i, "closing quote")
				return
			case c == '\\':
				if i+1 >= len(in) {
					failAt(ps, i, "escape sequence")
					return
				}
				i++
				switch e := in[i]; e {
				case 't':
					b.WriteByte('\t')
				case 'b':
					b.WriteByte('\b')
				case 'n':
					b.WriteByte('\n')
				case 'r':
					b.WriteByte('\r')
				case 'f':
					b.WriteByte('\f')
				case '"', '\'', '\\':
					b.WriteByte(e)
				case 'u', 'U':
					size := 4
					if e == 'U' {
						size = 8
					}
					if i+size >= len(in) {
						failAt(ps, i-1, "escape sequence")
						return
					}
					v, err := strconv.ParseUint(in[i+1:i+1+size], 16, 32)
					if err != nil || !utf8.ValidRune(rune(v)) {
						failAt(ps, i-1, "escape sequence")
						return
					}
					b.WriteRune(rune(v))
					i += size
				default:
					failAt(ps, i-1, "escape sequence")
					return
				}
			default:
				b.WriteByte(c)
			}
		}
		failAt(ps, len(in), "closing quote")
	})
}

// rdfLiteral parses a string optionally followed by a language tag or a
// datatype.
func rdfLiteral(str, datatype goparsify.Parser) goparsify.Parser {
	return goparsify.NewParser("literal", func(ps *goparsify.State, node *goparsify.Result) {
		ps.WS(ps)
		start := ps.Pos
		var s goparsify.Result
		str(ps, &s)
		if ps.Errored() {
			return
		}
		in := ps.Get()
		switch {
		case strings.HasPrefix(in, "@"):
			n := scanLangTag(in[1:])
			if n == 0 {
				failAt(ps, 1, "language tag")
				ps.Pos = start
				return
			}
			node.Result = &termNode{pos: start, term: graph.LangLiteral(s.Token, in[1:1+n])}
			ps.Advance(1 + n)
		case strings.HasPrefix(in, "^^"):
			ps.Advance(2)
			var dt goparsify.Result
			datatype(ps, &dt)
			if ps.Errored() {
				ps.Pos = start
				return
			}
			node.Result = &termNode{pos: start, value: s.Token, datatype: dt.Result.(*termNode)}
		default:
			node.Result = &termNode{pos: start, term: graph.Literal(s.Token)}
		}
		node.Token = ps.Input[start:ps.Pos]
	})
}

// triplesNode holds the facts of one statement, with each term unresolved.
type triplesNode struct {
	triples [][3]*termNode
}

// triplesParser parses a subject followed by predicate-object lists, using
// ',' and ';' as in Turtle, and ending in '.'.
func triplesParser(subject, verb, object goparsify.Parser) goparsify.Parser {
	return goparsify.NewParser("triples", func(ps *goparsify.State, node *goparsify.Result) {
		ps.WS(ps)
		start := ps.Pos
		var s goparsify.Result
		subject(ps, &s)
		if ps.Errored() {
			return
		}
		// Once a subject is parsed, errors in the rest of the statement are
		// reported rather than backtracked over.
		ps.Cut = ps.Pos
		res := &triplesNode{}
		for {
			var v goparsify.Result
			verb(ps, &v)
			if ps.Errored() {
				ps.Pos = start
				return
			}
			for {
				var o goparsify.Result
				object(ps, &o)
				if ps.Errored() {
					ps.Pos = start
					return
				}
				res.triples = append(res.triples, [3]*termNode{
					s.Result.(*termNode), v.Result.(*termNode), o.Result.(*termNode),
				})
				if !consume(ps, ",") {
					break
				}
			}
			if !consume(ps, ";") {
				break
			}
			for consume(ps, ";") {
			}
			if peek(ps, ".") {
				break
			}
		}
		if !consume(ps, ".") {
			ps.ErrorHere(".")
			ps.Pos = start
			return
		}
		node.Result = res
	})
}

// atomNode is a parsed rule atom: a pattern, or a call to the named builtin.
type atomNode struct {
	pos     int
	builtin string
	terms   []*termNode
}

// builtinParser parses a builtin call, as in ge(?n, 18).
func builtinParser(arg goparsify.Parser) goparsify.Parser {
	return goparsify.NewParser("builtin", func(ps *goparsify.State, node *goparsify.Result) {
		ps.WS(ps)
		start := ps.Pos
		in := ps.Get()
		n := 0
		for n < len(in) && (isAlnum(in[n]) || in[n] == '_') {
			n++
		}
		if n == 0 || n >= len(in) || in[n] != '(' {
			ps.ErrorHere("pattern or builtin")
			return
		}
		b := &atomNode{pos: start, builtin: in[:n]}
		ps.Advance(n + 1)
		for {
			if consume(ps, ")") {
				node.Result = b
				return
			}
			if len(b.terms) > 0 && !consume(ps, ",") {
				ps.ErrorHere(", or )")
				ps.Pos = start
				return
			}
			var t goparsify.Result
			arg(ps, &t)
			if ps.Errored() {
				ps.Pos = start
				return
			}
			b.terms = append(b.terms, t.Result.(*termNode))
		}
	})
}

// ruleNode is a parsed rule. If the rule uses a construct that isn't
// supported, only its name and the reason are kept.
type ruleNode struct {
	pos         int
	name        string
	body        []*atomNode
	head        []*atomNode
	unsupported string
}

// ruleParser parses a rule in brackets: an optional name followed by ':', the
// body atoms, "->", and the head atoms. Atoms may be separated by commas.
func ruleParser(atom goparsify.Parser) goparsify.Parser {
	return goparsify.NewParser("rule", func(ps *goparsify.State, node *goparsify.Result) {
		ps.WS(ps)
		start := ps.Pos
		if !strings.HasPrefix(ps.Get(), "[") {
			ps.ErrorHere("[")
			return
		}
		ps.Advance(1)
		ps.Cut = ps.Pos
		r := &ruleNode{pos: start}
		ps.WS(ps)
		in := ps.Get()
		n := scanName(in)
		if n > 0 && n < len(in) && in[n] == ':' {
			r.name = in[:n]
			ps.Advance(n + 1)
		}
		atoms := &r.body
		arrow := false
		for {
			ps.WS(ps)
			in := ps.Get()
			switch {
			case in == "":
				ps.ErrorHere("]")
				return
			case strings.HasPrefix(in, "]"):
				if !arrow {
					ps.ErrorHere("->")
					return
				}
				ps.Advance(1)
				node.Result = r
				return
			case strings.HasPrefix(in, "->"):
				if arrow {
					ps.ErrorHere("]")
					return
				}
				arrow = true
				atoms = &r.head
				ps.Advance(2)
			case strings.HasPrefix(in, "<-"):
				r.unsupported = "backward rules are not supported"
				skipRule(ps)
				node.Result = r
				return
			case strings.HasPrefix(in, "["):
				r.unsupported = "nested rules are not supported"
				skipRule(ps)
				node.Result = r
				return
			case strings.HasPrefix(in, ","):
				ps.Advance(1)
			default:
				var a goparsify.Result
				atom(ps, &a)
				if ps.Errored() {
					return
				}
				*atoms = append(*atoms, a.Result.(*atomNode))
			}
		}
	})
}

// skipRule advances past the ']' that closes the current rule, skipping over
// nested brackets and quoted strings. It stops at the end of the input if
// there isn't one.
func skipRule(ps *goparsify.State) {
	depth := 1
	in := ps.Get()
	for i := 0; i < len(in); i++ {
		switch c := in[i]; c {
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				ps.Advance(i + 1)
				return
			}
		case '"', '\'':
			if end := strings.IndexByte(in[i+1:], c); end >= 0 {
				i += end + 1
			}
		}
	}
	ps.Advance(len(in))
}

// withWhitespace will set Auto Whitespace to 'ws' for parser and all its
// children. The original Whitespace settting will be restored once 'parser'
// returns.
func withWhitespace(ws goparsify.VoidParser, parserish goparsify.Parserish) goparsify.Parser {
	parser := goparsify.Parsify(parserish)
	return func(ps *goparsify.State, node *goparsify.Result) {
		oldWS := ps.WS
		ps.WS = ws
		parser(ps, node)
		ps.WS = oldWS
	}
}

// textWS is a goparsify Whitespace parser for graph and rule files. Whitespace
// chars are ' ' \t \r \n only. Comments start with '#' or "//" and run to the
// end of the line.
func textWS(s *goparsify.State) {
	for s.Pos < len(s.Input) {
		switch s.Input[s.Pos] {
		case ' ', '\t', '\r', '\n':
			s.Pos++
		case '/':
			if !strings.HasPrefix(s.Input[s.Pos:], "//") {
				return
			}
			skipLine(s)
		case '#':
			skipLine(s)
		default:
			return
		}
	}
}

func skipLine(s *goparsify.State) {
	for s.Pos < len(s.Input) {
		c := s.Input[s.Pos]
		s.Pos++
		if c == '\n' || c == '\r' {
			return
		}
	}
}
