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
	"math/big"
	"regexp"
	"strings"
	"time"

	"github.com/ebay/entail/graph"
	"github.com/ebay/entail/vocab"
)

var (
	integerLex = regexp.MustCompile(`^[+-]?[0-9]+$`)
	decimalLex = regexp.MustCompile(`^[+-]?([0-9]+(\.[0-9]*)?|\.[0-9]+)$`)
	doubleLex  = regexp.MustCompile(`^([+-]?([0-9]+(\.[0-9]*)?|\.[0-9]+)([eE][+-]?[0-9]+)?|[+-]?INF|NaN)$`)
)

// intRange bounds the value of an integer datatype. A nil bound is unbounded.
type intRange struct {
	min, max *big.Int
}

func bound(s string) *big.Int {
	if s == "" {
		return nil
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("bad integer bound " + s)
	}
	return v
}

var integerRanges = map[string]intRange{
	graph.XSDInteger:            {},
	graph.XSDLong:               {bound("-9223372036854775808"), bound("9223372036854775807")},
	graph.XSDInt:                {bound("-2147483648"), bound("2147483647")},
	graph.XSDShort:              {bound("-32768"), bound("32767")},
	graph.XSDByte:               {bound("-128"), bound("127")},
	graph.XSDNonNegativeInteger: {bound("0"), nil},
	graph.XSDPositiveInteger:    {bound("1"), nil},
	graph.XSDNonPositiveInteger: {nil, bound("0")},
	graph.XSDNegativeInteger:    {nil, bound("-1")},
	graph.XSDUnsignedLong:       {bound("0"), bound("18446744073709551615")},
	graph.XSDUnsignedInt:        {bound("0"), bound("4294967295")},
	graph.XSDUnsignedShort:      {bound("0"), bound("65535")},
	graph.XSDUnsignedByte:       {bound("0"), bound("255")},
}

// wellFormed returns true if the literal's lexical form is valid for its
// datatype. Datatypes that aren't checked are always well formed.
func wellFormed(lit graph.Term) bool {
	lex := strings.TrimSpace(lit.Value())
	dt := lit.Datatype()
	if r, ok := integerRanges[dt]; ok {
		if !integerLex.MatchString(lex) {
			return false
		}
		v, _ := new(big.Int).SetString(strings.TrimPrefix(lex, "+"), 10)
		return (r.min == nil || v.Cmp(r.min) >= 0) && (r.max == nil || v.Cmp(r.max) <= 0)
	}
	switch dt {
	case graph.XSDDecimal:
		return decimalLex.MatchString(lex)
	case graph.XSDDouble, graph.XSDFloat:
		return doubleLex.MatchString(lex)
	case graph.XSDBoolean:
		switch lex {
		case "true", "false", "1", "0":
			return true
		}
		return false
	case graph.XSDDateTime:
		return parses(lex, "2006-01-02T15:04:05Z07:00", "2006-01-02T15:04:05")
	case graph.XSDDate:
		return parses(lex, "2006-01-02Z07:00", "2006-01-02")
	}
	return true
}

func parses(lex string, layouts ...string) bool {
	for _, layout := range layouts {
		if _, err := time.Parse(layout, lex); err == nil {
			return true
		}
	}
	return false
}

// xsdParents maps each XSD datatype to the one it's derived from.
var xsdParents = map[string]string{
	graph.XSDInteger:            graph.XSDDecimal,
	graph.XSDLong:               graph.XSDInteger,
	graph.XSDInt:                graph.XSDLong,
	graph.XSDShort:              graph.XSDInt,
	graph.XSDByte:               graph.XSDShort,
	graph.XSDNonNegativeInteger: graph.XSDInteger,
	graph.XSDPositiveInteger:    graph.XSDNonNegativeInteger,
	graph.XSDUnsignedLong:       graph.XSDNonNegativeInteger,
	graph.XSDUnsignedInt:        graph.XSDUnsignedLong,
	graph.XSDUnsignedShort:      graph.XSDUnsignedInt,
	graph.XSDUnsignedByte:       graph.XSDUnsignedShort,
	graph.XSDNonPositiveInteger: graph.XSDInteger,
	graph.XSDNegativeInteger:    graph.XSDNonPositiveInteger,
}

// literalType returns the literal's datatype, treating plain literals as
// xsd:string and language tagged ones as rdf:langString.
func literalType(lit graph.Term) string {
	switch {
	case lit.Lang() != "":
		return vocab.LangString.Value()
	case lit.Datatype() == "":
		return graph.XSDString
	}
	return lit.Datatype()
}

// compatible returns true if the literal is a value of the datatype: its own
// datatype is the same or derived from it.
func compatible(lit graph.Term, datatype string) bool {
	for dt := literalType(lit); dt != ""; dt = xsdParents[dt] {
		if dt == datatype {
			return true
		}
	}
	return false
}
