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

// Package vocab defines the well known RDF, RDFS and OWL terms that the schema
// reasoner and validity checks give meaning to.
package vocab

import (
	"github.com/ebay/entail/graph"
)

// Namespaces of the well known vocabularies.
const (
	RDF  = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	RDFS = "http://www.w3.org/2000/01/rdf-schema#"
	OWL  = "http://www.w3.org/2002/07/owl#"
	XSD  = graph.XSDNamespace
)

var (
	// Type declares that the subject is an instance of the object class.
	Type = graph.Resource(RDF + "type")
	// Property is the class of RDF properties.
	Property = graph.Resource(RDF + "Property")
	// LangString is the datatype of language tagged literals.
	LangString = graph.Resource(RDF + "langString")

	// SubClassOf declares that every instance of the subject class is an
	// instance of the object class.
	SubClassOf = graph.Resource(RDFS + "subClassOf")
	// SubPropertyOf declares that every pair related by the subject property
	// is related by the object property.
	SubPropertyOf = graph.Resource(RDFS + "subPropertyOf")
	// Domain declares the class of every subject of the property.
	Domain = graph.Resource(RDFS + "domain")
	// Range declares the class or datatype of every object of the property.
	Range = graph.Resource(RDFS + "range")
	// Class is the class of RDFS classes.
	Class = graph.Resource(RDFS + "Class")
	// Literal is the class of all literal values.
	Literal = graph.Resource(RDFS + "Literal")
	// Datatype is the class of datatypes.
	Datatype = graph.Resource(RDFS + "Datatype")
	Label    = graph.Resource(RDFS + "label")
	Comment  = graph.Resource(RDFS + "comment")

	EquivalentClass    = graph.Resource(OWL + "equivalentClass")
	EquivalentProperty = graph.Resource(OWL + "equivalentProperty")
	InverseOf          = graph.Resource(OWL + "inverseOf")
	DisjointWith       = graph.Resource(OWL + "disjointWith")

	OWLClass                  = graph.Resource(OWL + "Class")
	Thing                     = graph.Resource(OWL + "Thing")
	Nothing                   = graph.Resource(OWL + "Nothing")
	ObjectProperty            = graph.Resource(OWL + "ObjectProperty")
	DatatypeProperty          = graph.Resource(OWL + "DatatypeProperty")
	TransitiveProperty        = graph.Resource(OWL + "TransitiveProperty")
	SymmetricProperty         = graph.Resource(OWL + "SymmetricProperty")
	FunctionalProperty        = graph.Resource(OWL + "FunctionalProperty")
	InverseFunctionalProperty = graph.Resource(OWL + "InverseFunctionalProperty")
)

// Prefixes returns the prefix names that are predeclared when parsing and
// writing graphs.
func Prefixes() map[string]string {
	return map[string]string{
		"rdf":  RDF,
		"rdfs": RDFS,
		"owl":  OWL,
		"xsd":  XSD,
	}
}

// IsDatatype returns true if the class is a datatype rather than a class of
// resources: rdfs:Literal, rdf:langString or anything in the XSD namespace.
// Classes declared to be of type rdfs:Datatype are not covered here; see
// validity for that.
func IsDatatype(class graph.Term) bool {
	if !class.IsResource() {
		return false
	}
	if class == Literal || class == LangString {
		return true
	}
	v := class.Value()
	return len(v) > len(XSD) && v[:len(XSD)] == XSD
}
