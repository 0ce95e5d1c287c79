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
	"github.com/gx-org/exprgraph/exprerr"
)

type binarizer struct{}

func (binarizer) Atom(a *expr.Expr) (*expr.Expr, error) {
	return a, nil
}

func (binarizer) Apply(head *expr.Expr, args []*expr.Expr) (*expr.Expr, error) {
	switch head {
	case expr.Add, expr.Mul:
		if len(args) == 0 {
			return nil, exprerr.Errorf(exprerr.UnsupportedOperation, "%s needs at least one argument", head)
		}
		acc := args[0]
		for _, arg := range args[1:] {
			acc = head.Call(acc, arg)
		}
		return acc, nil
	}
	return head.Call(args...), nil
}

// Binarize rewrites every n-ary Add and Mul of e into left-nested binary
// applications, for consumers that only know binary operators. A unary
// Add(x) or Mul(x) collapses to x.
func Binarize(e *expr.Expr) (*expr.Expr, error) {
	return eval.Evaluate(e, binarizer{}, nil)
}
