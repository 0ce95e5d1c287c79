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
	"math/big"

	"github.com/gx-org/exprgraph/eval"
	"github.com/gx-org/exprgraph/expr"
	"github.com/gx-org/exprgraph/exprerr"
)

type bigint struct{}

// Integer evaluates expressions with arbitrary-precision integer
// arithmetic over Add, Mul, and Pow with a non-negative exponent.
var Integer eval.Algebra[*big.Int] = bigint{}

func (bigint) Atom(a *expr.Expr) (*big.Int, error) {
	if a.AtomType() != expr.Integer {
		return nil, exprerr.Errorf(exprerr.UnsupportedOperation, "no integer value for unbound %s atom %s", a.AtomType(), a)
	}
	switch v := a.Value().(type) {
	case int64:
		return big.NewInt(v), nil
	case int:
		return big.NewInt(int64(v)), nil
	case *big.Int:
		return v, nil
	}
	return nil, exprerr.Errorf(exprerr.InvalidConversion, "cannot convert %s value %v (%T) to a big integer", a.AtomType(), a.Value(), a.Value())
}

func (bigint) Apply(head *expr.Expr, args []*big.Int) (*big.Int, error) {
	switch head {
	case expr.Add:
		sum := new(big.Int)
		for _, x := range args {
			sum.Add(sum, x)
		}
		return sum, nil
	case expr.Mul:
		prod := big.NewInt(1)
		for _, x := range args {
			prod.Mul(prod, x)
		}
		return prod, nil
	case expr.Pow:
		if len(args) != 2 {
			return nil, exprerr.Errorf(exprerr.UnsupportedOperation, "Pow expects 2 arguments, got %d", len(args))
		}
		if args[1].Sign() < 0 {
			return nil, exprerr.Errorf(exprerr.UnsupportedOperation, "negative exponent %s in integer arithmetic", args[1])
		}
		return new(big.Int).Exp(args[0], args[1], nil), nil
	}
	return nil, exprerr.Errorf(exprerr.UnsupportedOperation, "cannot apply %s with integer arithmetic", head)
}

// EvalInt evaluates e with big-integer arithmetic under the given symbol
// values.
func EvalInt(e *expr.Expr, values map[*expr.Expr]*big.Int) (*big.Int, error) {
	return eval.Evaluate(e, Integer, values)
}
