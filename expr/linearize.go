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

// walkFrame is a node being expanded together with the index of its next
// unvisited child (0 is the head, then the arguments left to right).
type walkFrame struct {
	node *Expr
	next int
}

// Linearize returns every node of the DAG rooted at root in postorder:
// each node appears strictly after all of its children, and a node shared
// between several parents appears exactly once.
//
// The traversal uses an explicit heap stack because expression depth is
// unbounded. The order is deterministic: children are expanded head first,
// then arguments left to right, so identical DAGs linearize identically.
func Linearize(root *Expr) []*Expr {
	seen := map[*Expr]bool{root: true}
	out := make([]*Expr, 0, 16)
	stack := []walkFrame{{node: root}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		var child *Expr
		for child == nil && top.next < top.node.numChildren() {
			c := top.node.child(top.next)
			top.next++
			if !seen[c] {
				child = c
			}
		}
		if child == nil {
			out = append(out, top.node)
			stack = stack[:len(stack)-1]
			continue
		}
		seen[child] = true
		stack = append(stack, walkFrame{node: child})
	}
	return out
}
