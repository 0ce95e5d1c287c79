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

// Reverse computes the derivative of e with respect to v by reverse
// accumulation: a forward pass over the primal slots, then a backward pass
// distributing each operation's adjoint to its argument slots. The output
// slot's adjoint seeds to the unit atom; the result is the accumulated
// adjoint of v's slot, or the zero atom when v does not occur in e.
func (r *Rules) Reverse(e, v *expr.Expr) (*expr.Expr, error) {
	form := eval.NewForm(e)
	slots := form.Slots()
	numAtoms := len(form.Atoms())

	vSlot := -1
	for i, a := range form.Atoms() {
		if a == v {
			vSlot = i
			break
		}
	}
	if vSlot < 0 {
		return expr.Zero, nil
	}

	// Slots reached by v. Only they receive adjoint contributions, which
	// keeps the result free of trivially zero terms and lets constant
	// arguments of unknown functions pass without a chain rule.
	reached := make([]bool, form.NumSlots())
	reached[vSlot] = true
	for i, op := range form.Ops() {
		for _, slot := range op.Args {
			if reached[slot] {
				reached[numAtoms+i] = true
				break
			}
		}
	}

	adjoints := make([][]*expr.Expr, form.NumSlots())
	adjoints[len(adjoints)-1] = []*expr.Expr{expr.One}

	ops := form.Ops()
	for i := len(ops) - 1; i >= 0; i-- {
		op := ops[i]
		slot := numAtoms + i
		if !reached[slot] || len(adjoints[slot]) == 0 {
			continue
		}
		adj := sumOf(adjoints[slot])
		args := make([]*expr.Expr, len(op.Args))
		for j, argSlot := range op.Args {
			args[j] = slots[argSlot]
		}
		if err := r.pushAdjoint(op.Head, args, op.Args, adj, reached, adjoints); err != nil {
			return nil, errors.Wrapf(err, "differentiating %s", slots[slot])
		}
	}
	return sumOf(adjoints[vSlot]), nil
}

// pushAdjoint distributes the adjoint of one operation to its argument
// slots, applying the same structural rules as forward mode.
func (r *Rules) pushAdjoint(head *expr.Expr, args []*expr.Expr, argSlots []int, adj *expr.Expr, reached []bool, adjoints [][]*expr.Expr) error {
	switch head {
	case expr.Add:
		// The adjoint passes through unchanged to every argument.
		for _, slot := range argSlots {
			if reached[slot] {
				adjoints[slot] = append(adjoints[slot], adj)
			}
		}
		return nil
	case expr.Mul:
		for i, slot := range argSlots {
			if !reached[slot] {
				continue
			}
			factors := make([]*expr.Expr, 0, len(args))
			factors = append(factors, args[:i]...)
			factors = append(factors, args[i+1:]...)
			factors = append(factors, adj)
			adjoints[slot] = append(adjoints[slot], productOf(factors))
		}
		return nil
	case expr.Pow:
		if len(args) != 2 {
			return exprerr.Errorf(exprerr.UnsupportedOperation, "Pow expects 2 arguments, got %d", len(args))
		}
		if reached[argSlots[1]] {
			return exprerr.Errorf(exprerr.MalformedDerivative, "exponent %s depends on the variable; only constant exponents are supported", args[1])
		}
		if reached[argSlots[0]] {
			contrib := productOf([]*expr.Expr{adj, powDerivative(args[0], args[1], expr.One)})
			adjoints[argSlots[0]] = append(adjoints[argSlots[0]], contrib)
		}
		return nil
	}
	for i, slot := range argSlots {
		if !reached[slot] {
			continue
		}
		p, err := r.partial(head, i)
		if err != nil {
			return err
		}
		pd, err := p(args)
		if err != nil {
			return err
		}
		adjoints[slot] = append(adjoints[slot], productOf([]*expr.Expr{adj, pd}))
	}
	return nil
}
