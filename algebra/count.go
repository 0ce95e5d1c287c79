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

package algebra

import (
	"github.com/gx-org/exprgraph/eval"
	"github.com/gx-org/exprgraph/expr"
)

type counter struct{}

func (counter) Atom(a *expr.Expr) (int, error) {
	return 1, nil
}

func (counter) Apply(head *expr.Expr, args []int) (int, error) {
	n := 1
	for _, c := range args {
		n += c
	}
	return n, nil
}

// TreeOps counts the nodes of e as a tree: a subexpression shared between
// several parents is counted once per occurrence.
func TreeOps(e *expr.Expr) (int, error) {
	return eval.Evaluate[int](e, counter{}, nil)
}

// GraphOps counts the nodes of e as a DAG: shared subexpressions count
// once. The gap between TreeOps and GraphOps measures sharing.
func GraphOps(e *expr.Expr) int {
	return len(expr.Linearize(e))
}
