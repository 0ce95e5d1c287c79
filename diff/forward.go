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

package diff

import (
	"github.com/pkg/errors"

	"github.com/gx-org/exprgraph/eval"
	"github.com/gx-org/exprgraph/expr"
	"github.com/gx-org/exprgraph/exprerr"
)

// Forward computes the derivative of e with respect to v by forward
// accumulation: a single sweep over the operations in listed order,
// maintaining one derivative per slot in lock-step with the primal slots.
// Atom slots seed to the unit atom if identical to v and the zero atom
// otherwise, so the derivative of v itself is exactly One and the
// derivative of an expression not containing v is exactly Zero.
func (r *Rules) Forward(e, v *expr.Expr) (*expr.Expr, error) {
	form := eval.NewForm(e)
	slots := form.Slots()

	d := make([]*expr.Expr, 0, form.NumSlots())
	for _, a := range form.Atoms() {
		if a == v {
			d = append(d, expr.One)
		} else {
			d = append(d, expr.Zero)
		}
	}
	for _, op := range form.Ops() {
		args := make([]*expr.Expr, len(op.Args))
		dargs := make([]*expr.Expr, len(op.Args))
		for i, slot := range op.Args {
			args[i] = slots[slot]
			dargs[i] = d[slot]
		}
		deriv, err := r.derive(op.Head, args, dargs)
		if err != nil {
			return nil, errors.Wrapf(err, "differentiating %s", slots[len(d)])
		}
		d = append(d, deriv)
	}
	return d[len(d)-1], nil
}

// derive applies the structural combination rules to one operation given
// the derivatives of its arguments.
func (r *Rules) derive(head *expr.Expr, args, dargs []*expr.Expr) (*expr.Expr, error) {
	if allZero(dargs) {
		// No argument depends on the variable. This also covers heads
		// without a chain rule, enabling constant subexpressions under
		// unknown functions.
		return expr.Zero, nil
	}
	switch head {
	case expr.Add:
		return sumOf(dargs), nil
	case expr.Mul:
		terms := make([]*expr.Expr, 0, len(args))
		for i, da := range dargs {
			if da == expr.Zero {
				continue
			}
			factors := make([]*expr.Expr, 0, len(args))
			factors = append(factors, args[:i]...)
			factors = append(factors, da)
			factors = append(factors, args[i+1:]...)
			terms = append(terms, productOf(factors))
		}
		return sumOf(terms), nil
	case expr.Pow:
		if len(args) != 2 {
			return nil, exprerr.Errorf(exprerr.UnsupportedOperation, "Pow expects 2 arguments, got %d", len(args))
		}
		if dargs[1] != expr.Zero {
			return nil, exprerr.Errorf(exprerr.MalformedDerivative, "exponent %s depends on the variable; only constant exponents are supported", args[1])
		}
		return powDerivative(args[0], args[1], dargs[0]), nil
	}
	terms := make([]*expr.Expr, 0, len(args))
	for i, da := range dargs {
		if da == expr.Zero {
			continue
		}
		p, err := r.partial(head, i)
		if err != nil {
			return nil, err
		}
		pd, err := p(args)
		if err != nil {
			return nil, err
		}
		if da != expr.One {
			pd = expr.Mul.Call(pd, da)
		}
		terms = append(terms, pd)
	}
	return sumOf(terms), nil
}

// powDerivative returns exp * base^(exp-1) * dbase with identity factors
// elided.
func powDerivative(base, exp, dbase *expr.Expr) *expr.Expr {
	return productOf([]*expr.Expr{
		exp,
		expr.Pow.Call(base, expr.Add.Call(exp, expr.MinusOne)),
		dbase,
	})
}

func allZero(dargs []*expr.Expr) bool {
	for _, da := range dargs {
		if da != expr.Zero {
			return false
		}
	}
	return true
}
