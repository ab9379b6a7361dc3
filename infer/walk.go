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

package infer

import "github.com/ebay/entail/graph"

// reachable performs a breadth first walk of the graph defined by 'next'
// starting at 'start', and returns every item reached, in the order they were
// first visited. 'start' is only in the result if the walk gets back to it
// through a cycle. Each item is expanded once, so the walk ends even when the
// graph has cycles.
func reachable(start graph.Term, next func(graph.Term) []graph.Term) []graph.Term {
	visited := make(map[graph.Term]struct{})
	var res []graph.Term
	queue := append([]graph.Term(nil), next(start)...)
	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]
		if _, seen := visited[item]; seen {
			continue
		}
		visited[item] = struct{}{}
		res = append(res, item)
		queue = append(queue, next(item)...)
	}
	return res
}
