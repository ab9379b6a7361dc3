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

// Package infer computes the closure of a graph under its schema. The schema
// is the set of RDFS and OWL axioms in the graph itself: class and property
// hierarchies, domains and ranges, equivalences, inverse, symmetric and
// transitive properties.
//
// For example, given facts that describe a type classification
//
// [postcard] -subClassOf-> [stationary] -subClassOf-> [product]
//
// and a fact that says
//
// [postcard1] -type-> [postcard]
//
// then the closure also contains
//
// [postcard] -subClassOf-> [product]
//
// [postcard1] -type-> [stationary]
//
// [postcard1] -type-> [product]
//
// Hierarchies and transitive properties are followed with a breadth first
// walk that tracks the items it has visited, so cycles in the graph are fine.
// The closure is computed in passes: each pass derives facts from a read-only
// view of the graph, then adds them all. Passes repeat until one adds nothing.
// Inconsistent graphs are closed like any other; see package validity for
// detecting contradictions.
package infer
