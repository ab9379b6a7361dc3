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

// Package rules implements forward chaining rules over a graph.
//
// A rule has a body of antecedents and a head of consequents:
//
//	[adult: (?x ex:age ?n) ge(?n, 18) -> (?x ex:isAdult true)]
//
// Antecedent patterns are joined left to right, binding variables as they
// match facts; builtins such as ge filter the bindings once their arguments
// are bound. Each complete binding instantiates the consequents, which are
// added to the graph. Rules are applied repeatedly until they derive nothing
// new.
package rules
