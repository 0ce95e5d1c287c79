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

// Package algebra provides concrete target algebras for the evaluator:
// float64 and big-integer arithmetic, infix printing, operation counting,
// and an n-ary to binary rewrite.
package algebra

import (
	"math"
	"slices"

	"golang.org/x/exp/maps"

	"github.com/gx-org/exprgraph/eval"
	"github.com/gx-org/exprgraph/expr"
	"github.com/gx-org/exprgraph/exprerr"
)

// f64Funcs maps named function heads to their float64 implementation.
var f64Funcs = map[string]func(float64) float64{
	"sin": math.Sin,
	"cos": math.Cos,
	"exp": math.Exp,
	"log": math.Log,
}

type f64 struct{}

// F64 evaluates expressions with float64 arithmetic. Symbols have no
// float64 interpretation and must be bound by the caller.
var F64 eval.Algebra[float64] = f64{}

func (f64) Atom(a *expr.Expr) (float64, error) {
	if a.AtomType() == expr.Integer {
		return intAtomValue(a)
	}
	return 0, exprerr.Errorf(exprerr.UnsupportedOperation, "no float64 value for unbound %s atom %s", a.AtomType(), a)
}

func (f64) Apply(head *expr.Expr, args []float64) (float64, error) {
	switch head {
	case expr.Add:
		sum := 0.0
		for _, x := range args {
			sum += x
		}
		return sum, nil
	case expr.Mul:
		prod := 1.0
		for _, x := range args {
			prod *= x
		}
		return prod, nil
	case expr.Pow:
		if len(args) != 2 {
			return 0, exprerr.Errorf(exprerr.UnsupportedOperation, "Pow expects 2 arguments, got %d", len(args))
		}
		return math.Pow(args[0], args[1]), nil
	}
	name, ok := headName(head)
	if !ok {
		return 0, exprerr.Errorf(exprerr.UnsupportedOperation, "cannot apply %s with float64 arithmetic", head)
	}
	fn, ok := f64Funcs[name]
	if !ok {
		known := maps.Keys(f64Funcs)
		slices.Sort(known)
		return 0, exprerr.Errorf(exprerr.UnsupportedOperation, "no float64 implementation for %s; known functions: %v", name, known)
	}
	if len(args) != 1 {
		return 0, exprerr.Errorf(exprerr.UnsupportedOperation, "%s expects 1 argument, got %d", name, len(args))
	}
	return fn(args[0]), nil
}

// EvalF64 evaluates e with float64 arithmetic under the given symbol values.
func EvalF64(e *expr.Expr, values map[*expr.Expr]float64) (float64, error) {
	return eval.Evaluate(e, F64, values)
}

func intAtomValue(a *expr.Expr) (float64, error) {
	switch v := a.Value().(type) {
	case int64:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int32:
		return float64(v), nil
	}
	return 0, exprerr.Errorf(exprerr.InvalidConversion, "cannot convert %s value %v (%T) to float64", a.AtomType(), a.Value(), a.Value())
}

// headName returns the name of a Function atom head.
func headName(head *expr.Expr) (string, bool) {
	if !head.IsAtom() || head.AtomType() != expr.FunctionType {
		return "", false
	}
	name, ok := head.Value().(string)
	return name, ok
}
