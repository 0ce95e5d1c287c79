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
	"fmt"
	"strings"

	"github.com/gx-org/exprgraph/eval"
	"github.com/gx-org/exprgraph/expr"
)

type printer struct{}

// Printer renders expressions in infix form, for example ((sin(x)*x) + 1).
// It is total: heads with no infix notation fall back to functional form.
var Printer eval.Algebra[string] = printer{}

func (printer) Atom(a *expr.Expr) (string, error) {
	return fmt.Sprint(a.Value()), nil
}

func (printer) Apply(head *expr.Expr, args []string) (string, error) {
	switch head {
	case expr.Add:
		return "(" + strings.Join(args, " + ") + ")", nil
	case expr.Mul:
		return "(" + strings.Join(args, "*") + ")", nil
	case expr.Pow:
		if len(args) == 2 {
			return args[0] + "^" + args[1], nil
		}
	}
	name := head.String()
	if n, ok := headName(head); ok {
		name = n
	}
	return name + "(" + strings.Join(args, ", ") + ")", nil
}

// ToString renders e in infix form.
func ToString(e *expr.Expr) (string, error) {
	return eval.Evaluate(e, Printer, nil)
}
