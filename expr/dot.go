// Copyright 2025 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package expr

import (
	"fmt"
	"strings"
)

// Dot renders the shared DAG rooted at e as a graphviz digraph. Compounds
// are record nodes with one port per argument; atoms are plain nodes ranked
// together at the bottom. Sharing is visible: a subexpression used by
// several parents is a single node with several incoming edges.
func Dot(e *Expr) string {
	nodes := Linearize(e)
	index := make(map[*Expr]int, len(nodes))
	for i, n := range nodes {
		index[n] = i
	}
	name := func(n *Expr) string {
		return fmt.Sprintf("node%d", index[n])
	}

	var b strings.Builder
	b.WriteString("digraph g {\n")
	var atoms []*Expr
	for _, n := range nodes {
		if n.IsAtom() {
			atoms = append(atoms, n)
			fmt.Fprintf(&b, "%s [label = %q];\n", name(n), fmt.Sprint(n.value))
			continue
		}
		boxes := make([]string, 0, 1+n.NumArgs())
		boxes = append(boxes, fmt.Sprintf("<head> %s", headLabel(n.head)))
		for i := range n.args {
			boxes = append(boxes, fmt.Sprintf("<f%d>", i))
		}
		fmt.Fprintf(&b, "%s [\nlabel = %q\nshape = \"record\"\n];\n", name(n), strings.Join(boxes, " | "))
		if !n.head.IsAtom() {
			fmt.Fprintf(&b, "%q:head -> %q;\n", name(n), name(n.head))
		}
		for i, arg := range n.args {
			fmt.Fprintf(&b, "%q:f%d -> %q;\n", name(n), i, name(arg))
		}
	}
	ranks := make([]string, 0, len(atoms))
	for _, a := range atoms {
		ranks = append(ranks, name(a)+";")
	}
	fmt.Fprintf(&b, "{rank = same; %s }\n", strings.Join(ranks, " "))
	b.WriteString("}\n")
	return b.String()
}

func headLabel(head *Expr) string {
	if head.IsAtom() {
		return fmt.Sprint(head.value)
	}
	return head.String()
}
