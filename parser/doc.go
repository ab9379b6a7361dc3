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

/*
Package parser reads graphs and rules from text.

Graphs are written in a subset of Turtle:

	@prefix ex: <http://example.org/> .
	ex:rex a ex:Dog ;
	    ex:name "Rex"@en ;
	    ex:age 3 .
	ex:Dog rdfs:subClassOf ex:Mammal .

Rules are written in a subset of the Jena rule syntax, with variables marked
by a leading '?':

	@prefix ex: <http://example.org/> .
	[adult: (?x ex:age ?n) ge(?n, 18) -> (?x ex:isAdult true)]

In both, the rdf, rdfs, owl and xsd prefixes are predeclared, and comments
start with '#' or "//" and run to the end of the line.
*/
package parser
