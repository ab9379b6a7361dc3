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
	"math/big"
	"strconv"
	"strings"
)

// XSDNamespace is the namespace of the XML Schema datatypes.
const XSDNamespace = "http://www.w3.org/2001/XMLSchema#"

// The XML Schema datatypes that literals are commonly typed with.
const (
	XSDString             = XSDNamespace + "string"
	XSDBoolean            = XSDNamespace + "boolean"
	XSDDecimal            = XSDNamespace + "decimal"
	XSDInteger            = XSDNamespace + "integer"
	XSDDouble             = XSDNamespace + "double"
	XSDFloat              = XSDNamespace + "float"
	XSDLong               = XSDNamespace + "long"
	XSDInt                = XSDNamespace + "int"
	XSDShort              = XSDNamespace + "short"
	XSDByte               = XSDNamespace + "byte"
	XSDNonNegativeInteger = XSDNamespace + "nonNegativeInteger"
	XSDPositiveInteger    = XSDNamespace + "positiveInteger"
	XSDNonPositiveInteger = XSDNamespace + "nonPositiveInteger"
	XSDNegativeInteger    = XSDNamespace + "negativeInteger"
	XSDUnsignedLong       = XSDNamespace + "unsignedLong"
	XSDUnsignedInt        = XSDNamespace + "unsignedInt"
	XSDUnsignedShort      = XSDNamespace + "unsignedShort"
	XSDUnsignedByte       = XSDNamespace + "unsignedByte"
	XSDDateTime           = XSDNamespace + "dateTime"
	XSDDate               = XSDNamespace + "date"
)

// integerTypes are xsd:integer and the datatypes derived from it.
var integerTypes = map[string]bool{
	XSDInteger:            true,
	XSDLong:               true,
	XSDInt:                true,
	XSDShort:              true,
	XSDByte:               true,
	XSDNonNegativeInteger: true,
	XSDPositiveInteger:    true,
	XSDNonPositiveInteger: true,
	XSDNegativeInteger:    true,
	XSDUnsignedLong:       true,
	XSDUnsignedInt:        true,
	XSDUnsignedShort:      true,
	XSDUnsignedByte:       true,
}

// IsIntegerType returns true if datatype is xsd:integer or derived from it.
func IsIntegerType(datatype string) bool {
	return integerTypes[datatype]
}

// IsNumericType returns true for the XSD numeric datatypes.
func IsNumericType(datatype string) bool {
	switch datatype {
	case XSDDecimal, XSDDouble, XSDFloat:
		return true
	}
	return integerTypes[datatype]
}

// Int returns an xsd:integer literal.
func Int(v int64) Term {
	return TypedLiteral(strconv.FormatInt(v, 10), XSDInteger)
}

// Bool returns an xsd:boolean literal.
func Bool(v bool) Term {
	return TypedLiteral(strconv.FormatBool(v), XSDBoolean)
}

// Double returns an xsd:double literal.
func Double(v float64) Term {
	return TypedLiteral(strconv.FormatFloat(v, 'E', -1, 64), XSDDouble)
}

// String returns an xsd:string literal.
func String(v string) Term {
	return TypedLiteral(v, XSDString)
}

// IsNumeric returns true if the Term is a literal with a numeric XSD datatype.
func (t Term) IsNumeric() bool {
	return t.kind == KindLiteral && IsNumericType(t.datatype)
}

// Number returns the exact value of a numeric literal. It returns false if the
// Term isn't a numeric literal or its lexical form isn't a number.
func (t Term) Number() (*big.Rat, bool) {
	if !t.IsNumeric() {
		return nil, false
	}
	lex := strings.TrimSpace(t.value)
	if lex == "" || strings.ContainsAny(lex, "/_") {
		// big.Rat accepts fractions, which aren't valid XSD lexical forms.
		return nil, false
	}
	r, ok := new(big.Rat).SetString(strings.TrimPrefix(lex, "+"))
	return r, ok
}

// CompareNumeric compares the values of two numeric literals. It returns false
// if either Term is not a numeric literal.
func CompareNumeric(a, b Term) (int, bool) {
	av, ok := a.Number()
	if !ok {
		return 0, false
	}
	bv, ok := b.Number()
	if !ok {
		return 0, false
	}
	return av.Cmp(bv), true
}

// SameValue returns true if a and b denote the same value: either they are
// the same Term, or both are numeric literals with equal values (so "1" and
// "1.0" of xsd:decimal are the same value).
func SameValue(a, b Term) bool {
	if a == b {
		return true
	}
	if c, ok := CompareNumeric(a, b); ok {
		return c == 0
	}
	return a.kind == KindLiteral && b.kind == KindLiteral &&
		a.value == b.value && a.lang == b.lang &&
		effectiveDatatype(a) == effectiveDatatype(b)
}

// effectiveDatatype treats a plain literal as an xsd:string.
func effectiveDatatype(t Term) string {
	if t.datatype == "" && t.lang == "" {
		return XSDString
	}
	return t.datatype
}
