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

// String renders the node in functional form, for example Mul(sin(x), x).
// The rendering walks the linearization rather than the call stack, so
// arbitrarily deep expressions print without stack exhaustion.
func (e *Expr) String() string {
	nodes := Linearize(e)
	rendered := make(map[*Expr]string, len(nodes))
	for _, n := range nodes {
		if n.IsAtom() {
			rendered[n] = fmt.Sprint(n.value)
			continue
		}
		var b strings.Builder
		b.WriteString(rendered[n.head])
		b.WriteByte('(')
		for i, arg := range n.args {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(rendered[arg])
		}
		b.WriteByte(')')
		rendered[n] = b.String()
	}
	return rendered[e]
}
