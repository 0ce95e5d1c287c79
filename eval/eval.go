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

package eval

import (
	"github.com/pkg/errors"

	"github.com/gx-org/exprgraph/expr"
)

// Algebra interprets expression nodes under one target domain. It is
// implemented once per target: primal arithmetic, printing, counting,
// emission, or graph reconstruction.
type Algebra[T any] interface {
	// Atom lifts a leaf into the algebra's value domain.
	Atom(a *expr.Expr) (T, error)
	// Apply applies a compound head to already-interpreted arguments.
	// The argument count always matches the node's argument count.
	Apply(head *expr.Expr, args []T) (T, error)
}

// Run executes the form under the algebra and returns the value of the last
// slot. Atom slots present in bindings take their bound value without going
// through the algebra: this is how free variables receive a value.
// Operations execute strictly in listed order.
func Run[T any](f *Form, alg Algebra[T], bindings map[*expr.Expr]T) (T, error) {
	var zero T
	slots := make([]T, 0, f.NumSlots())
	for _, a := range f.Atoms() {
		if v, ok := bindings[a]; ok {
			slots = append(slots, v)
			continue
		}
		v, err := alg.Atom(a)
		if err != nil {
			return zero, errors.Wrapf(err, "cannot interpret atom %s", a)
		}
		slots = append(slots, v)
	}
	for _, op := range f.Ops() {
		args := make([]T, len(op.Args))
		for i, slot := range op.Args {
			args[i] = slots[slot]
		}
		v, err := alg.Apply(op.Head, args)
		if err != nil {
			return zero, err
		}
		slots = append(slots, v)
	}
	return slots[len(slots)-1], nil
}

// Evaluate flattens the DAG rooted at root and runs it under the algebra.
func Evaluate[T any](root *expr.Expr, alg Algebra[T], bindings map[*expr.Expr]T) (T, error) {
	return Run(NewForm(root), alg, bindings)
}

// construct is the algebra that interprets every node as its own
// construction, yielding back canonical expressions.
type construct struct{}

func (construct) Atom(a *expr.Expr) (*expr.Expr, error) {
	return a, nil
}

func (construct) Apply(head *expr.Expr, args []*expr.Expr) (*expr.Expr, error) {
	return head.Call(args...), nil
}

// Construct reconstructs expressions through the graph constructors. On its
// own it is the identity; combined with bindings it substitutes atoms and
// rebuilds only the spine above them, which gives partial evaluation
// instead of failure for heads no numeric algebra knows about.
var Construct Algebra[*expr.Expr] = construct{}

// Substitute replaces atoms of the DAG rooted at root according to bindings
// and returns the resulting canonical expression.
func Substitute(root *expr.Expr, bindings map[*expr.Expr]*expr.Expr) (*expr.Expr, error) {
	return Evaluate(root, Construct, bindings)
}
