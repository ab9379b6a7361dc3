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
	"github.com/vektah/goparsify"
)

// prefixNode declares that 'name' abbreviates 'iri'.
type prefixNode struct {
	name string
	iri  string
}

// prefixDecl returns a callback that builds a prefixNode from the Seq
// children at the given indexes.
func prefixDecl(label, iri int) func(n *goparsify.Result) {
	return func(n *goparsify.Result) {
		n.Result = &prefixNode{
			name: n.Child[label].Token,
			iri:  n.Child[iri].Token,
		}
	}
}

func patternAtom(n *goparsify.Result) {
	s := n.Child[1].Result.(*termNode)
	n.Result = &atomNode{
		pos: s.pos,
		terms: []*termNode{
			s,
			n.Child[3].Result.(*termNode),
			n.Child[5].Result.(*termNode),
		},
	}
}
